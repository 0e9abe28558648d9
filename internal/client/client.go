// Package client is the typed API client plus the request lifecycle
// controller used by PRS front ends (web shell, CLI tooling, tests).
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
)

// ErrTemplateNotFound is returned when no effective template resolves for a
// (team, purchase type). Callers fall back to the legacy per-team endpoint.
var ErrTemplateNotFound = errors.New("no effective template for team")

// APIError is a non-2xx response decoded into the structured error shape.
// RequiredFields and RequiredAttachments are populated only for submit-time
// validation failures.
type APIError struct {
	StatusCode          int                   `json:"-"`
	Message             string                `json:"message"`
	Detail              string                `json:"detail"`
	RequiredFields      []model.FieldError    `json:"required_fields"`
	RequiredAttachments []model.CategoryError `json:"required_attachments"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Client talks to the purchase request API. One instance per authenticated
// session; no retries, no timeout beyond the transport's.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient injects the transport, used by tests.
func NewWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

// EffectiveTemplate resolves the (team, purchase type) template pair. A 404
// surfaces ErrTemplateNotFound so the caller can try the legacy endpoint.
func (c *Client) EffectiveTemplate(teamID uint, purchaseType string) (*repository.EffectiveTemplate, error) {
	path := fmt.Sprintf("/api/teams/%d/effective-template", teamID)
	if purchaseType != "" {
		path += "?purchase_type=" + url.QueryEscape(purchaseType)
	}

	var tpl repository.EffectiveTemplate
	if err := c.get(path, &tpl); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// LegacyTemplate fetches the pre-binding per-team default template.
func (c *Client) LegacyTemplate(teamID uint) (*repository.EffectiveTemplate, error) {
	var tpl repository.EffectiveTemplate
	if err := c.get(fmt.Sprintf("/api/teams/%d/form-template", teamID), &tpl); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (c *Client) GetRequest(id uint) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	if err := c.get(fmt.Sprintf("/api/requests/%d", id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *Client) CreateRequest(input service.RequestInput) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	if err := c.postJSON("/api/requests", input, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *Client) UpdateRequest(id uint, input service.RequestInput) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/requests/%d", id), input, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SubmitRequest uses the same wire shape as the transition actions: plain
// JSON when only a comment travels, multipart when files are staged.
func (c *Client) SubmitRequest(id uint, comment string, files []StagedFile) (*model.PurchaseRequest, error) {
	return c.action(id, "submit", comment, files)
}

func (c *Client) CancelRequest(id uint, comment string) (*model.PurchaseRequest, error) {
	var req model.PurchaseRequest
	body := map[string]string{"comment": comment}
	if err := c.postJSON(fmt.Sprintf("/api/requests/%d/cancel", id), body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// StagedFile is a file queued on an action dialog, sent with the action.
type StagedFile struct {
	Name        string
	ContentType string
	Content     []byte
	CategoryID  *uint
}

// Approve, Reject and Complete share the transition wire shape: plain JSON
// when only a comment travels, multipart when files are staged.
func (c *Client) Approve(id uint, comment string, files []StagedFile) (*model.PurchaseRequest, error) {
	return c.action(id, "approve", comment, files)
}

func (c *Client) Reject(id uint, comment string, files []StagedFile) (*model.PurchaseRequest, error) {
	return c.action(id, "reject", comment, files)
}

func (c *Client) Complete(id uint, comment string, files []StagedFile) (*model.PurchaseRequest, error) {
	return c.action(id, "complete", comment, files)
}

func (c *Client) action(id uint, action, comment string, files []StagedFile) (*model.PurchaseRequest, error) {
	path := fmt.Sprintf("/api/requests/%d/%s", id, action)

	var req model.PurchaseRequest
	if len(files) == 0 {
		body := map[string]string{"comment": comment}
		if err := c.postJSON(path, body, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("comment", comment); err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.CategoryID != nil {
			_ = writer.WriteField("category_id", fmt.Sprintf("%d", *f.CategoryID))
		}
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	if err := c.doBody(http.MethodPost, path, &buf, writer.FormDataContentType(), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *Client) Render(id uint) ([]json.RawMessage, error) {
	var widgets []json.RawMessage
	if err := c.get(fmt.Sprintf("/api/requests/%d/render", id), &widgets); err != nil {
		return nil, err
	}
	return widgets, nil
}

func (c *Client) History(id uint) ([]model.ApprovalRecord, error) {
	var records []model.ApprovalRecord
	if err := c.get(fmt.Sprintf("/api/requests/%d/approvals", id), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Attachments(id uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := c.get(fmt.Sprintf("/api/requests/%d/attachments", id), &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// AttachmentCategories is best-effort on the caller's side: a failure leaves
// uploads uncategorized but never blocks the panel.
func (c *Client) AttachmentCategories(id uint) ([]model.AttachmentCategory, error) {
	var categories []model.AttachmentCategory
	if err := c.get(fmt.Sprintf("/api/requests/%d/attachment-categories", id), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) UploadAttachment(id uint, file StagedFile) (*model.Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if file.CategoryID != nil {
		_ = writer.WriteField("category_id", fmt.Sprintf("%d", *file.CategoryID))
	}
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var attachment model.Attachment
	path := fmt.Sprintf("/api/requests/%d/attachments", id)
	if err := c.doBody(http.MethodPost, path, &buf, writer.FormDataContentType(), &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (c *Client) DeleteAttachment(requestID, attachmentID uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/requests/%d/attachments/%d", requestID, attachmentID), nil, nil)
}

func (c *Client) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}
	return c.doBody(method, path, reader, "application/json", out)
}

func (c *Client) doBody(method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}

	// Responses arrive in the {code, message, data} envelope; lists come
	// back as the paginated shape with data at the top level too.
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("malformed response body: %w", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// decodeAPIError prefers the structured error body, falling back to the raw
// text when the body is not JSON.
func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(raw, apiErr); err != nil {
		apiErr.Message = string(raw)
	}
	return apiErr
}
