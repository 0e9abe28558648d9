package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

func respond(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func testRequest(id uint, statusCode string) model.PurchaseRequest {
	return model.PurchaseRequest{
		ID:            id,
		RequestNumber: "PR-20260830-DEADBEEF",
		RequestorID:   "user-1",
		TeamID:        7,
		Status:        model.LookupRef{Code: statusCode},
	}
}

func TestGetRequestDecodesEnvelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/requests/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		respond(t, w, http.StatusOK, model.Success(testRequest(42, "DRAFT")))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok-abc", srv.Client())
	req, err := c.GetRequest(42)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if req.ID != 42 || req.Status.Code != "DRAFT" {
		t.Errorf("decoded request = %+v", req)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestActionSendsJSONWhenNoFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("body not JSON: %v", err)
		}
		if body["comment"] != "تایید شد" {
			t.Errorf("comment = %q", body["comment"])
		}
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "FINANCE_REVIEW")))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	req, err := c.Approve(5, "تایید شد", nil)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if req.Status.Code != "FINANCE_REVIEW" {
		t.Errorf("status = %q", req.Status.Code)
	}
}

func TestActionSendsMultipartWhenFilesStaged(t *testing.T) {
	catID := uint(3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("Content-Type = %q, want multipart", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("comment"); got != "فاکتور پیوست شد" {
			t.Errorf("comment = %q", got)
		}
		if got := r.FormValue("category_id"); got != "3" {
			t.Errorf("category_id = %q", got)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "invoice.pdf" {
			t.Fatalf("files = %+v", files)
		}
		f, _ := files[0].Open()
		content, _ := io.ReadAll(f)
		f.Close()
		if string(content) != "pdf-bytes" {
			t.Errorf("file content = %q", content)
		}
		respond(t, w, http.StatusOK, model.Success(testRequest(5, "COMPLETED")))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	_, err := c.Complete(5, "فاکتور پیوست شد", []StagedFile{{
		Name:       "invoice.pdf",
		Content:    []byte("pdf-bytes"),
		CategoryID: &catID,
	}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestSubmitSendsMultipartWhenFilesStaged(t *testing.T) {
	catID := uint(2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/requests/9/submit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("Content-Type = %q, want multipart", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("comment"); got != "پیش‌فاکتور پیوست است" {
			t.Errorf("comment = %q", got)
		}
		if got := r.FormValue("category_id"); got != "2" {
			t.Errorf("category_id = %q", got)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "proforma.pdf" {
			t.Fatalf("files = %+v", files)
		}
		respond(t, w, http.StatusOK, model.Success(testRequest(9, "IN_REVIEW")))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	req, err := c.SubmitRequest(9, "پیش‌فاکتور پیوست است", []StagedFile{{
		Name:       "proforma.pdf",
		Content:    []byte("pdf-bytes"),
		CategoryID: &catID,
	}})
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if req.Status.Code != "IN_REVIEW" {
		t.Errorf("status = %q", req.Status.Code)
	}
}

func TestSubmitSendsJSONCommentWithoutFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("body not JSON: %v", err)
		}
		if body["comment"] != "ارسال برای بررسی" {
			t.Errorf("comment = %q", body["comment"])
		}
		respond(t, w, http.StatusOK, model.Success(testRequest(9, "IN_REVIEW")))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	if _, err := c.SubmitRequest(9, "ارسال برای بررسی", nil); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
}

func TestDecodeStructuredValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusBadRequest, map[string]interface{}{
			"code":    400,
			"message": "validation failed",
			"detail":  "اطلاعات درخواست کامل نیست",
			"required_fields": []model.FieldError{
				{FieldID: 11, Message: "فیلد «مبلغ» الزامی است"},
			},
			"required_attachments": []model.CategoryError{
				{CategoryName: "پیش‌فاکتور"},
			},
		})
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	_, err := c.SubmitRequest(9, "", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if len(apiErr.RequiredFields) != 1 || apiErr.RequiredFields[0].FieldID != 11 {
		t.Errorf("required_fields = %+v", apiErr.RequiredFields)
	}
	if len(apiErr.RequiredAttachments) != 1 || apiErr.RequiredAttachments[0].CategoryName != "پیش‌فاکتور" {
		t.Errorf("required_attachments = %+v", apiErr.RequiredAttachments)
	}
	if apiErr.Error() != "اطلاعات درخواست کامل نیست" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestDecodeNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	_, err := c.GetRequest(1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestEffectiveTemplateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusNotFound, model.Error(404, "قالبی برای این تیم یافت نشد"))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, "tok", srv.Client())
	_, err := c.EffectiveTemplate(7, "GOODS")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("err = %v, want ErrTemplateNotFound", err)
	}
}
