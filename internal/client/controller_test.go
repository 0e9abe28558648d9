package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/prsform"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
	"github.com/AliMohammadiiii/PRS-sub001/internal/workflow"
)

func testTemplate() repository.EffectiveTemplate {
	return repository.EffectiveTemplate{
		Team: model.Team{ID: 7, Name: "زیرساخت"},
		FormTemplate: model.FormTemplate{
			ID: 1,
			Fields: []model.FormField{
				{ID: 11, Name: "reason", Label: "دلیل خرید", FieldType: model.FieldTypeText, Required: true, Order: 1},
				{ID: 12, Name: "qty", Label: "تعداد", FieldType: model.FieldTypeNumber, Order: 2},
			},
		},
	}
}

func TestResolveTemplateLegacyFallbackOnce(t *testing.T) {
	var legacyCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/teams/7/effective-template", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusNotFound, model.Error(404, "قالبی یافت نشد"))
	})
	mux.HandleFunc("/api/teams/7/form-template", func(w http.ResponseWriter, r *http.Request) {
		legacyCalls++
		respond(t, w, http.StatusOK, model.Success(testTemplate()))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()), Callbacks{}, Options{})
	if err := ctl.ResolveTemplate(7, "GOODS"); err != nil {
		t.Fatalf("ResolveTemplate: %v", err)
	}
	if legacyCalls != 1 {
		t.Errorf("legacy endpoint called %d times, want 1", legacyCalls)
	}
	if ctl.Template() == nil || len(ctl.Template().FormTemplate.Fields) != 2 {
		t.Errorf("template = %+v", ctl.Template())
	}
}

func TestResolveTemplateBothMissingBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusNotFound, model.Error(404, "قالبی یافت نشد"))
	}))
	defer srv.Close()

	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()), Callbacks{}, Options{})
	if err := ctl.ResolveTemplate(7, "GOODS"); err == nil {
		t.Fatal("expected blocking error when both endpoints 404")
	}
	if ctl.Template() != nil {
		t.Error("template must stay nil on failure")
	}
}

func TestRejectShortCommentBlockedLocally(t *testing.T) {
	var serverHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "REJECTED")))
	}))
	defer srv.Close()

	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()), Callbacks{},
		Options{UserID: "mgr-1", Role: workflow.RoleApprover})
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "IN_REVIEW"}}

	for _, comment := range []string{"کوتاه", "123456789", "۱۲۳۴۵۶۷۸۹"} {
		ctl.SetStagedComment(comment)
		err := ctl.Reject()
		if err == nil || err.Error() != workflow.RejectCommentMessage {
			t.Errorf("Reject(%q) err = %v, want %q", comment, err, workflow.RejectCommentMessage)
		}
		if ctl.StagedComment() != comment {
			t.Errorf("staged comment cleared on local failure")
		}
	}
	if serverHits != 0 {
		t.Errorf("server hit %d times for short comments", serverHits)
	}

	ctl.SetStagedComment("کیفیت قطعات تایید نشده است")
	if err := ctl.Reject(); err != nil {
		t.Fatalf("Reject with valid comment: %v", err)
	}
	if serverHits == 0 {
		t.Error("valid comment never reached the server")
	}
}

func TestSubmitLocalValidationBlocksCall(t *testing.T) {
	var submitHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/requests/5", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "DRAFT")))
	})
	mux.HandleFunc("/api/requests/5/submit", func(w http.ResponseWriter, r *http.Request) {
		submitHits++
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "IN_REVIEW")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()), Callbacks{},
		Options{UserID: "user-1", Role: workflow.RoleRequestor})
	tpl := testTemplate()
	ctl.template = &tpl
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "DRAFT"}}

	// Required field 11 empty: submit must fail before the wire call.
	if err := ctl.Submit(service.RequestInput{Subject: "خرید سرور"}); err == nil {
		t.Fatal("expected local validation error")
	}
	if submitHits != 0 {
		t.Errorf("submit endpoint hit %d times despite missing field", submitHits)
	}
	if ctl.LastValidation == nil || len(ctl.LastValidation.RequiredFields) != 1 ||
		ctl.LastValidation.RequiredFields[0].FieldID != 11 {
		t.Errorf("LastValidation = %+v", ctl.LastValidation)
	}

	ctl.SetValue(11, prsform.TextValue("تعویض سرور فرسوده"))
	if err := ctl.Submit(service.RequestInput{Subject: "خرید سرور"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitHits != 1 {
		t.Errorf("submit endpoint hit %d times, want 1", submitHits)
	}
	if ctl.LastValidation != nil {
		t.Errorf("LastValidation not cleared after success: %+v", ctl.LastValidation)
	}
}

func TestSubmitCarriesStagingAndClearsIt(t *testing.T) {
	var gotComment string
	var gotFiles int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/requests/5", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "DRAFT")))
	})
	mux.HandleFunc("/api/requests/5/submit", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotComment = r.FormValue("comment")
		gotFiles = len(r.MultipartForm.File["files"])
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "IN_REVIEW")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()), Callbacks{},
		Options{UserID: "user-1", Role: workflow.RoleRequestor})
	tpl := testTemplate()
	ctl.template = &tpl
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "DRAFT"}}
	ctl.SetValue(11, prsform.TextValue("تعویض سرور فرسوده"))
	ctl.SetStagedComment("پیش‌فاکتور پیوست است")
	ctl.StageFile(StagedFile{Name: "proforma.pdf", Content: []byte("pdf")})

	if err := ctl.Submit(service.RequestInput{Subject: "خرید سرور"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotComment != "پیش‌فاکتور پیوست است" || gotFiles != 1 {
		t.Errorf("submit body comment=%q files=%d", gotComment, gotFiles)
	}
	if ctl.StagedComment() != "" || len(ctl.StagedFiles()) != 0 {
		t.Error("staging not cleared after successful submit")
	}
}

func TestSubmitMissingAttachmentsScrollsPanel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/requests/5", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "DRAFT")))
	})
	mux.HandleFunc("/api/requests/5/submit", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusBadRequest, map[string]interface{}{
			"code":    400,
			"message": "validation failed",
			"detail":  "اطلاعات درخواست کامل نیست",
			"required_attachments": []model.CategoryError{
				{CategoryName: "پیش‌فاکتور"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var scrolled bool
	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()),
		Callbacks{ScrollToAttachments: func() { scrolled = true }},
		Options{UserID: "user-1", Role: workflow.RoleRequestor})
	tpl := testTemplate()
	ctl.template = &tpl
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "DRAFT"}}
	ctl.SetValue(11, prsform.TextValue("تعویض سرور فرسوده"))

	if err := ctl.Submit(service.RequestInput{Subject: "خرید سرور"}); err == nil {
		t.Fatal("expected submit to fail")
	}
	if !scrolled {
		t.Error("attachments panel not scrolled into view")
	}
	if ctl.LastValidation == nil || len(ctl.LastValidation.RequiredAttachments) != 1 ||
		ctl.LastValidation.RequiredAttachments[0].CategoryName != "پیش‌فاکتور" {
		t.Errorf("LastValidation = %+v", ctl.LastValidation)
	}
}

func TestApproveNavigatesBackToReferrer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/requests/5/approve", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "FINANCE_REVIEW")))
	})
	mux.HandleFunc("/api/requests/5", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "FINANCE_REVIEW")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var navigatedTo string
	var dialogClosed bool
	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()),
		Callbacks{
			Navigate:    func(path string) { navigatedTo = path },
			CloseDialog: func() { dialogClosed = true },
		},
		Options{UserID: "mgr-1", Role: workflow.RoleApprover, Referrer: "inbox"})
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "IN_REVIEW"}}
	ctl.SetStagedComment("تایید شد")
	ctl.StageFile(StagedFile{Name: "note.txt", Content: []byte("ok")})

	if err := ctl.Approve(); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if navigatedTo != "/prs/inbox" {
		t.Errorf("navigated to %q, want /prs/inbox", navigatedTo)
	}
	if !dialogClosed {
		t.Error("dialog not closed")
	}
	if ctl.StagedComment() != "" || len(ctl.StagedFiles()) != 0 {
		t.Error("staging not cleared after success")
	}
	if ctl.Request().Status.Code != "FINANCE_REVIEW" {
		t.Errorf("request not refetched, status = %q", ctl.Request().Status.Code)
	}
}

func TestTransitionFailurePreservesStaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusConflict, model.Error(409, "عملیات دیگری روی این درخواست در حال انجام است"))
	}))
	defer srv.Close()

	var navigated bool
	ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()),
		Callbacks{Navigate: func(string) { navigated = true }},
		Options{UserID: "mgr-1", Role: workflow.RoleApprover})
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "IN_REVIEW"}}
	ctl.SetStagedComment("تایید شد")
	ctl.StageFile(StagedFile{Name: "note.txt", Content: []byte("ok")})

	if err := ctl.Approve(); err == nil {
		t.Fatal("expected error")
	}
	if ctl.StagedComment() != "تایید شد" || len(ctl.StagedFiles()) != 1 {
		t.Error("staging dropped on failure")
	}
	if navigated {
		t.Error("navigated despite failure")
	}
}

func TestTransitionGatedByRoleAndStatus(t *testing.T) {
	var serverHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		role   workflow.Role
		status string
		action func(*Controller) error
	}{
		{"finance cannot approve plain review", workflow.RoleFinance, "IN_REVIEW", (*Controller).Approve},
		{"approver cannot complete", workflow.RoleApprover, "FINANCE_REVIEW", (*Controller).Complete},
		{"no actions on completed", workflow.RoleFinance, "COMPLETED", (*Controller).Complete},
		{"requestor cannot approve", workflow.RoleRequestor, "IN_REVIEW", (*Controller).Approve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := NewController(NewWithHTTPClient(srv.URL, "tok", srv.Client()), Callbacks{},
				Options{UserID: "u-1", Role: tt.role})
			ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "u-1", Status: model.LookupRef{Code: tt.status}}
			if err := tt.action(ctl); err == nil {
				t.Error("expected gating error")
			}
		})
	}
	if serverHits != 0 {
		t.Errorf("server hit %d times for gated actions", serverHits)
	}
}

func TestAllowedActionsRequiresOwnership(t *testing.T) {
	ctl := NewController(nil, Callbacks{}, Options{UserID: "someone-else", Role: workflow.RoleRequestor})
	ctl.request = &model.PurchaseRequest{ID: 5, RequestorID: "user-1", Status: model.LookupRef{Code: "DRAFT"}}
	if got := ctl.AllowedActions(); got != nil {
		t.Errorf("AllowedActions for non-owner = %v, want nil", got)
	}

	ctl.opts.UserID = "user-1"
	got := ctl.AllowedActions()
	if len(got) == 0 {
		t.Fatal("owner has no draft actions")
	}
}

func TestReferrerPath(t *testing.T) {
	tests := []struct {
		referrer string
		want     string
	}{
		{"inbox", "/prs/inbox"},
		{"finance", "/prs/finance"},
		{"", "/prs/requests"},
		{"bogus", "/prs/requests"},
	}
	for _, tt := range tests {
		if got := ReferrerPath(tt.referrer); got != tt.want {
			t.Errorf("ReferrerPath(%q) = %q, want %q", tt.referrer, got, tt.want)
		}
	}
}
