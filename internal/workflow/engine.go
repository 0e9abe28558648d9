package workflow

import (
	"fmt"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

// Transition is the computed outcome of applying a lifecycle action: the
// status to store plus the step descriptor the request lands on.
type Transition struct {
	Status    Status
	StepOrder int
	StepName  string
}

// EnterOnSubmit computes where a submitted draft lands. A workflow with
// steps goes straight into review at the first step; a stepless workflow
// reports the transient SUBMITTED code and waits for manual completion.
func EnterOnSubmit(steps []model.WorkflowStep) Transition {
	ordered := sortSteps(steps)
	if len(ordered) == 0 {
		return Transition{Status: StatusSubmitted}
	}
	first := ordered[0]
	return Transition{Status: statusForStep(first), StepOrder: first.Order, StepName: first.Name}
}

// AdvanceOnApprove moves past the current step. When a later step remains,
// the request enters it (FINANCE_REVIEW if it is the finance gate); when
// none remains the request is completed.
func AdvanceOnApprove(steps []model.WorkflowStep, currentOrder int) Transition {
	ordered := sortSteps(steps)
	for _, s := range ordered {
		if s.Order > currentOrder {
			return Transition{Status: statusForStep(s), StepOrder: s.Order, StepName: s.Name}
		}
	}
	return Transition{Status: StatusCompleted}
}

func statusForStep(s model.WorkflowStep) Status {
	if s.IsFinanceStep {
		return StatusFinanceReview
	}
	return StatusInReview
}

func sortSteps(steps []model.WorkflowStep) []model.WorkflowStep {
	ordered := make([]model.WorkflowStep, len(steps))
	copy(ordered, steps)
	// insertion sort keeps it stable for equal orders
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Order < ordered[j-1].Order; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

// RoleForStep names the role allowed to act on a step.
func RoleForStep(s model.WorkflowStep) Role {
	if s.IsFinanceStep || s.ApproverRole == string(RoleFinance) {
		return RoleFinance
	}
	return RoleApprover
}

// StatusTitles maps status codes to their Persian display titles, used to
// seed the status lookup group.
var StatusTitles = map[Status]string{
	StatusDraft:         "پیش‌نویس",
	StatusSubmitted:     "ارسال شده",
	StatusInReview:      "در حال بررسی",
	StatusFinanceReview: "بررسی مالی",
	StatusCompleted:     "تکمیل شده",
	StatusRejected:      "رد شده",
	StatusCancelled:     "لغو شده",
}

// Ref builds the wire reference for a status code.
func Ref(s Status) model.LookupRef {
	title, ok := StatusTitles[s]
	if !ok {
		title = string(s)
	}
	return model.LookupRef{Code: string(s), Title: title}
}

// ValidateComment enforces the rejection comment contract: mandatory, at
// least MinRejectCommentLen characters. The same rule runs client- and
// server-side.
func ValidateComment(action Action, comment string) error {
	if action == ActionReject && len([]rune(comment)) < MinRejectCommentLen {
		return fmt.Errorf("%s", RejectCommentMessage)
	}
	return nil
}

// MinRejectCommentLen is counted in runes so Persian text is measured the
// way users perceive it.
const MinRejectCommentLen = 10

// RejectCommentMessage is the user-facing rule violation message.
const RejectCommentMessage = "لطفا دلیل رد را وارد کنید (حداقل 10 کاراکتر)"
