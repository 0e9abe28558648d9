package workflow

import (
	"testing"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

func TestActionTable(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		role   Role
		action Action
		want   bool
	}{
		{"requestor edits draft", StatusDraft, RoleRequestor, ActionEdit, true},
		{"requestor submits draft", StatusDraft, RoleRequestor, ActionSubmit, true},
		{"requestor cannot edit in review", StatusInReview, RoleRequestor, ActionEdit, false},
		{"approver approves in review", StatusInReview, RoleApprover, ActionApprove, true},
		{"approver rejects in review", StatusInReview, RoleApprover, ActionReject, true},
		{"approver cannot complete", StatusFinanceReview, RoleApprover, ActionComplete, false},
		{"approver approves stepless submitted", StatusSubmitted, RoleApprover, ActionApprove, true},
		{"finance cannot complete submitted", StatusSubmitted, RoleFinance, ActionComplete, false},
		{"finance completes finance review", StatusFinanceReview, RoleFinance, ActionComplete, true},
		{"finance rejects finance review", StatusFinanceReview, RoleFinance, ActionReject, true},
		{"finance cannot approve plain review", StatusInReview, RoleFinance, ActionApprove, false},
		{"admin has no workflow actions", StatusInReview, RoleAdmin, ActionApprove, false},
		{"nothing on completed", StatusCompleted, RoleApprover, ActionApprove, false},
		{"nothing on rejected", StatusRejected, RoleRequestor, ActionEdit, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.status, tt.role, tt.action); got != tt.want {
				t.Errorf("Allowed(%s, %s, %s) = %v, want %v", tt.status, tt.role, tt.action, got, tt.want)
			}
		})
	}
}

func TestTableCoversEveryStatus(t *testing.T) {
	// The table must have an entry (possibly empty) for every known status,
	// so a missing row is a bug, not an implicit "nothing allowed".
	for _, s := range []Status{
		StatusDraft, StatusSubmitted, StatusInReview, StatusFinanceReview,
		StatusCompleted, StatusRejected, StatusCancelled,
	} {
		if _, ok := actionTable[s]; !ok {
			t.Errorf("action table is missing status %s", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if ParseStatus("IN_REVIEW") != StatusInReview {
		t.Error("known code must parse")
	}
	if ParseStatus("draft") != StatusUnknown {
		t.Error("codes are case-sensitive and unknown ones parse to StatusUnknown")
	}
	if AllowedActions(StatusUnknown, RoleRequestor) != nil {
		t.Error("unknown status must allow nothing")
	}
}

func TestIsEditable(t *testing.T) {
	if !IsEditable(StatusDraft) {
		t.Error("drafts are editable")
	}
	for _, s := range []Status{StatusSubmitted, StatusInReview, StatusFinanceReview, StatusCompleted, StatusRejected, StatusCancelled} {
		if IsEditable(s) {
			t.Errorf("%s must not be editable", s)
		}
	}
}

func steps() []model.WorkflowStep {
	return []model.WorkflowStep{
		{ID: 1, Name: "تایید مدیر", Order: 1},
		{ID: 2, Name: "تایید مالی", Order: 2, IsFinanceStep: true},
	}
}

func TestEnterOnSubmit(t *testing.T) {
	tr := EnterOnSubmit(steps())
	if tr.Status != StatusInReview || tr.StepOrder != 1 {
		t.Errorf("submit must enter the first step in review, got %+v", tr)
	}

	if tr := EnterOnSubmit(nil); tr.Status != StatusSubmitted {
		t.Errorf("stepless workflow must report SUBMITTED, got %+v", tr)
	}

	financeFirst := []model.WorkflowStep{{ID: 1, Name: "مالی", Order: 1, IsFinanceStep: true}}
	if tr := EnterOnSubmit(financeFirst); tr.Status != StatusFinanceReview {
		t.Errorf("a finance first step must enter FINANCE_REVIEW, got %+v", tr)
	}
}

func TestAdvanceOnApprove(t *testing.T) {
	tr := AdvanceOnApprove(steps(), 1)
	if tr.Status != StatusFinanceReview || tr.StepOrder != 2 {
		t.Errorf("approving step 1 must enter the finance gate, got %+v", tr)
	}

	if tr := AdvanceOnApprove(steps(), 2); tr.Status != StatusCompleted {
		t.Errorf("approving the last step must complete, got %+v", tr)
	}

	// Stepless workflows close on the first approve.
	if tr := AdvanceOnApprove(nil, 0); tr.Status != StatusCompleted {
		t.Errorf("approving a stepless request must complete, got %+v", tr)
	}

	// Unordered input still advances by step order.
	reversed := []model.WorkflowStep{steps()[1], steps()[0]}
	if tr := AdvanceOnApprove(reversed, 1); tr.Status != StatusFinanceReview {
		t.Errorf("step ordering must not depend on slice order, got %+v", tr)
	}
}

func TestValidateComment(t *testing.T) {
	// 9 characters blocks, 10 proceeds; counted in runes, not bytes.
	if err := ValidateComment(ActionReject, "۱۲۳۴۵۶۷۸۹"); err == nil {
		t.Error("9-rune rejection comment must be blocked")
	} else if err.Error() != RejectCommentMessage {
		t.Errorf("wrong message: %q", err.Error())
	}
	if err := ValidateComment(ActionReject, "دلیل رد خرید"); err != nil {
		t.Errorf("12-rune comment must pass: %v", err)
	}
	if err := ValidateComment(ActionApprove, ""); err != nil {
		t.Error("approve comment stays optional")
	}
}
