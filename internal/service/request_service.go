package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/prsform"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/workflow"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/distributed"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/metrics"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/redis"
)

var (
	// ErrForbidden marks attempts the action table (or ownership) rejects.
	ErrForbidden = errors.New("شما مجاز به انجام این عملیات نیستید")

	// ErrNotEditable marks writes against a request past DRAFT.
	ErrNotEditable = errors.New("این درخواست قابل ویرایش نیست")

	// ErrTransitionBusy marks a concurrent transition on the same request.
	ErrTransitionBusy = errors.New("عملیات دیگری روی این درخواست در حال انجام است")
)

// ValidationFailedError carries the structured submit-validation body.
// Handlers serialize it verbatim so clients can map required_fields to
// inline errors and required_attachments to the attachments panel.
type ValidationFailedError struct {
	Body model.ValidationError
}

func (e *ValidationFailedError) Error() string {
	if e.Body.Detail != "" {
		return e.Body.Detail
	}
	return "validation failed"
}

// transitionLockTTL bounds how long a crashed server can wedge a request.
const transitionLockTTL = 15 * time.Second

// RequestInput is the write payload for draft creation and updates.
type RequestInput struct {
	TeamID           uint                      `json:"team_id"`
	PurchaseTypeCode string                    `json:"purchase_type_code"`
	VendorName       string                    `json:"vendor_name"`
	VendorAccount    string                    `json:"vendor_account"`
	Subject          string                    `json:"subject"`
	Description      string                    `json:"description"`
	Amount           decimal.Decimal           `json:"amount"`
	FieldValues      []prsform.FieldValueWrite `json:"field_values"`
}

type RequestService struct {
	requests    *repository.RequestRepository
	templates   *TemplateService
	teams       *repository.TeamRepository
	attachments *repository.AttachmentRepository
	approvals   *repository.ApprovalRepository
	notify      *NotifyService
}

func NewRequestService(
	requests *repository.RequestRepository,
	templates *TemplateService,
	teams *repository.TeamRepository,
	attachments *repository.AttachmentRepository,
	approvals *repository.ApprovalRepository,
	notify *NotifyService,
) *RequestService {
	return &RequestService{
		requests:    requests,
		templates:   templates,
		teams:       teams,
		attachments: attachments,
		approvals:   approvals,
		notify:      notify,
	}
}

func (s *RequestService) List(filter repository.RequestFilter) (int64, []model.PurchaseRequest, error) {
	return s.requests.List(filter)
}

func (s *RequestService) Get(id uint) (*model.PurchaseRequest, error) {
	return s.requests.Get(id)
}

// CreateDraft resolves the effective template for (team, purchase type),
// creates a DRAFT request and seeds field values from template defaults.
func (s *RequestService) CreateDraft(user *model.User, input RequestInput) (*model.PurchaseRequest, error) {
	role, err := s.teams.EffectiveRole(user.ID, input.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}
	if role == "" {
		return nil, ErrForbidden
	}

	tpl, err := s.templates.Resolve(input.TeamID, input.PurchaseTypeCode)
	if err != nil {
		return nil, err
	}

	req := &model.PurchaseRequest{
		RequestNumber:      newRequestNumber(),
		RequestorID:        user.ID,
		RequestorName:      user.FullName,
		TeamID:             input.TeamID,
		PurchaseType:       tpl.PurchaseType,
		Status:             workflow.Ref(workflow.StatusDraft),
		FormTemplateID:     &tpl.FormTemplate.ID,
		WorkflowTemplateID: &tpl.WorkflowTemplate.ID,
		VendorName:         input.VendorName,
		VendorAccount:      input.VendorAccount,
		Subject:            input.Subject,
		Description:        input.Description,
		Amount:             input.Amount,
	}
	if req.RequestorName == "" {
		req.RequestorName = user.Username
	}

	if err := s.requests.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Seed answers from the template's default values so the first render
	// already shows them.
	defaults := prsform.BuildInitialValues(tpl.FormTemplate.Fields)
	if len(defaults) > 0 {
		writes := prsform.ToAPIFormat(tpl.FormTemplate.Fields, defaults)
		if err := s.requests.ReplaceFieldValues(req.ID, toFieldValues(req.ID, writes)); err != nil {
			return nil, fmt.Errorf("failed to seed default field values: %w", err)
		}
	}

	metrics.RequestsCreated.WithLabelValues(tpl.Team.Name, req.PurchaseType.Code).Inc()
	logger.Infof("Purchase request %s created by %s (team %d)", req.RequestNumber, user.Username, req.TeamID)

	return s.requests.Get(req.ID)
}

// Update rewrites top-level fields and replaces the full field value set.
// Only the requestor can edit, and only while the status is editable.
func (s *RequestService) Update(user *model.User, id uint, input RequestInput) (*model.PurchaseRequest, error) {
	req, err := s.requests.Get(id)
	if err != nil {
		return nil, err
	}
	if req.RequestorID != user.ID {
		return nil, ErrForbidden
	}
	if !workflow.IsEditable(workflow.ParseStatus(req.Status.Code)) {
		return nil, ErrNotEditable
	}

	fields, err := s.formFields(req)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.FormField, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}
	for _, w := range input.FieldValues {
		if _, ok := byID[w.FieldID]; !ok {
			return nil, fmt.Errorf("field %d does not belong to the request's form template", w.FieldID)
		}
	}

	req.VendorName = input.VendorName
	req.VendorAccount = input.VendorAccount
	req.Subject = input.Subject
	req.Description = input.Description
	req.Amount = input.Amount
	if err := s.requests.Save(req); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	if err := s.requests.ReplaceFieldValues(req.ID, toFieldValues(req.ID, input.FieldValues)); err != nil {
		return nil, fmt.Errorf("failed to save field values: %w", err)
	}

	return s.requests.Get(req.ID)
}

// Render produces the widget list for a request's form, editable only for
// its requestor while the status allows edits.
func (s *RequestService) Render(user *model.User, id uint) ([]prsform.Widget, error) {
	req, err := s.requests.Get(id)
	if err != nil {
		return nil, err
	}

	fields, err := s.formFields(req)
	if err != nil {
		return nil, err
	}

	values := prsform.ExtractInitialValues(req.FieldValues)
	editable := req.RequestorID == user.ID &&
		workflow.IsEditable(workflow.ParseStatus(req.Status.Code))

	return prsform.RenderForm(fields, values, editable), nil
}

// Submit validates required fields and attachment categories, then moves the
// draft into the workflow.
func (s *RequestService) Submit(user *model.User, id uint, comment string) (*model.PurchaseRequest, error) {
	unlock, err := s.lockTransition(id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.requests.Get(id)
	if err != nil {
		return nil, err
	}
	status := workflow.ParseStatus(req.Status.Code)
	if req.RequestorID != user.ID || !workflow.Allowed(status, workflow.RoleRequestor, workflow.ActionSubmit) {
		return nil, ErrForbidden
	}

	fields, err := s.formFields(req)
	if err != nil {
		return nil, err
	}

	if err := s.validateForSubmit(req, fields); err != nil {
		return nil, err
	}

	steps, err := s.workflowSteps(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tr := workflow.EnterOnSubmit(steps)
	updates := transitionUpdates(tr)
	updates["submitted_at"] = &now

	if err := s.requests.UpdateStatus(req.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}

	s.recordAction(req, user, model.ApprovalActionSubmit, "", comment)
	s.afterTransition(req, model.ApprovalActionSubmit, status, tr.Status, user, comment)

	return s.requests.Get(req.ID)
}

// Approve advances the request one workflow step, completing it when the
// approved step was the last.
func (s *RequestService) Approve(user *model.User, id uint, comment string) (*model.PurchaseRequest, error) {
	return s.transition(user, id, workflow.ActionApprove, comment)
}

// Reject moves the request to REJECTED. The comment is mandatory and at
// least 10 characters; the same rule is enforced client-side.
func (s *RequestService) Reject(user *model.User, id uint, comment string) (*model.PurchaseRequest, error) {
	return s.transition(user, id, workflow.ActionReject, comment)
}

// Complete closes the finance gate. Stepless requests never reach it; they
// close when an approver approves past the last (absent) step.
func (s *RequestService) Complete(user *model.User, id uint, comment string) (*model.PurchaseRequest, error) {
	return s.transition(user, id, workflow.ActionComplete, comment)
}

// Cancel lets the requestor withdraw a request that has not reached a
// terminal status.
func (s *RequestService) Cancel(user *model.User, id uint, comment string) (*model.PurchaseRequest, error) {
	unlock, err := s.lockTransition(id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.requests.Get(id)
	if err != nil {
		return nil, err
	}
	status := workflow.ParseStatus(req.Status.Code)
	if req.RequestorID != user.ID || !workflow.Allowed(status, workflow.RoleRequestor, workflow.ActionCancel) {
		return nil, ErrForbidden
	}

	updates := transitionUpdates(workflow.Transition{Status: workflow.StatusCancelled})
	if err := s.requests.UpdateStatus(req.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to cancel request: %w", err)
	}

	s.recordAction(req, user, model.ApprovalActionCancel, req.CurrentStepName, comment)
	s.afterTransition(req, model.ApprovalActionCancel, status, workflow.StatusCancelled, user, comment)

	return s.requests.Get(req.ID)
}

func (s *RequestService) History(id uint) ([]model.ApprovalRecord, error) {
	return s.approvals.History(id)
}

// Summary aggregates completed spend per team for the finance dashboard.
func (s *RequestService) Summary() ([]repository.TeamSummaryRow, error) {
	return s.requests.SummaryByTeam(string(workflow.StatusCompleted))
}

// transition runs the shared approve/reject/complete path: lock, role gate,
// comment rule, status change, history record, notification.
func (s *RequestService) transition(user *model.User, id uint, action workflow.Action, comment string) (*model.PurchaseRequest, error) {
	if err := workflow.ValidateComment(action, comment); err != nil {
		return nil, &ValidationFailedError{Body: model.ValidationError{Detail: err.Error()}}
	}

	unlock, err := s.lockTransition(id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.requests.Get(id)
	if err != nil {
		return nil, err
	}
	status := workflow.ParseStatus(req.Status.Code)

	role, err := s.workflowRole(user, req)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(status, role, action) {
		return nil, ErrForbidden
	}

	var tr workflow.Transition
	var recordedAction string
	switch action {
	case workflow.ActionApprove:
		steps, err := s.workflowSteps(req)
		if err != nil {
			return nil, err
		}
		tr = workflow.AdvanceOnApprove(steps, req.CurrentStepOrder)
		recordedAction = model.ApprovalActionApprove
	case workflow.ActionReject:
		tr = workflow.Transition{Status: workflow.StatusRejected}
		recordedAction = model.ApprovalActionReject
	case workflow.ActionComplete:
		tr = workflow.Transition{Status: workflow.StatusCompleted}
		recordedAction = model.ApprovalActionComplete
	default:
		return nil, ErrForbidden
	}

	updates := transitionUpdates(tr)
	if action == workflow.ActionReject {
		updates["rejection_comment"] = comment
	}
	if tr.Status == workflow.StatusCompleted {
		now := time.Now()
		updates["completed_at"] = &now
		if req.SubmittedAt != nil {
			metrics.ApprovalLatency.WithLabelValues(string(tr.Status)).
				Observe(now.Sub(*req.SubmittedAt).Seconds())
		}
	}

	if err := s.requests.UpdateStatus(req.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to %s request: %w", action, err)
	}

	s.recordAction(req, user, recordedAction, req.CurrentStepName, comment)
	s.afterTransition(req, recordedAction, status, tr.Status, user, comment)

	return s.requests.Get(req.ID)
}

// validateForSubmit enforces required form fields and required attachment
// categories, returning the structured error body on failure.
func (s *RequestService) validateForSubmit(req *model.PurchaseRequest, fields []model.FormField) error {
	values := prsform.ExtractInitialValues(req.FieldValues)
	fieldErrs := prsform.ValidateRequired(fields, values)

	missing, err := s.attachments.MissingRequiredCategories(req.ID, req.TeamID)
	if err != nil {
		return fmt.Errorf("failed to check required attachments: %w", err)
	}

	if len(fieldErrs) == 0 && len(missing) == 0 {
		return nil
	}

	body := model.ValidationError{
		Detail:         "اطلاعات درخواست کامل نیست",
		RequiredFields: fieldErrs,
	}
	for _, cat := range missing {
		body.RequiredAttachments = append(body.RequiredAttachments, model.CategoryError{CategoryName: cat.Name})
	}

	if len(fieldErrs) > 0 {
		metrics.ValidationFailures.WithLabelValues("required_fields").Inc()
	}
	if len(missing) > 0 {
		metrics.ValidationFailures.WithLabelValues("required_attachments").Inc()
	}

	return &ValidationFailedError{Body: body}
}

// workflowRole resolves the caller's role relative to one request.
func (s *RequestService) workflowRole(user *model.User, req *model.PurchaseRequest) (workflow.Role, error) {
	memberRole, err := s.teams.EffectiveRole(user.ID, req.TeamID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve team role: %w", err)
	}
	switch workflow.Role(memberRole) {
	case workflow.RoleApprover:
		return workflow.RoleApprover, nil
	case workflow.RoleFinance:
		return workflow.RoleFinance, nil
	}
	if req.RequestorID == user.ID {
		return workflow.RoleRequestor, nil
	}
	return "", ErrForbidden
}

func (s *RequestService) lockTransition(id uint) (func(), error) {
	lock := distributed.RequestLock(redis.GetClient(), id, transitionLockTTL)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire transition lock: %w", err)
	}
	if !ok {
		return nil, ErrTransitionBusy
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warnf("Failed to release transition lock for request %d: %v", id, err)
		}
	}, nil
}

func (s *RequestService) recordAction(req *model.PurchaseRequest, user *model.User, action, stepName, comment string) {
	record := &model.ApprovalRecord{
		RequestID: req.ID,
		ActorID:   user.ID,
		ActorName: user.FullName,
		Action:    action,
		StepName:  stepName,
		Comment:   comment,
	}
	if record.ActorName == "" {
		record.ActorName = user.Username
	}
	if err := s.approvals.Record(record); err != nil {
		// The transition already committed; history gaps are logged, not
		// rolled back.
		logger.Errorf("Failed to record %s on request %d: %v", action, req.ID, err)
	}
}

func (s *RequestService) afterTransition(req *model.PurchaseRequest, action string, from, to workflow.Status, user *model.User, comment string) {
	metrics.RequestTransitions.WithLabelValues(action, string(from), string(to)).Inc()

	notified := *req
	notified.Status = workflow.Ref(to)
	actorName := user.FullName
	if actorName == "" {
		actorName = user.Username
	}
	s.notify.NotifyTransition(&notified, action, string(from), actorName, comment)

	logger.Infof("Purchase request %s: %s %s (%s -> %s)", req.RequestNumber, user.Username, action, from, to)
}

func (s *RequestService) formFields(req *model.PurchaseRequest) ([]model.FormField, error) {
	if req.FormTemplateID == nil {
		return nil, nil
	}
	tpl, err := s.templates.GetFormTemplate(*req.FormTemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form template: %w", err)
	}
	return tpl.Fields, nil
}

func (s *RequestService) workflowSteps(req *model.PurchaseRequest) ([]model.WorkflowStep, error) {
	if req.WorkflowTemplateID == nil {
		return nil, nil
	}
	tpl, err := s.templates.GetWorkflowTemplate(*req.WorkflowTemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow template: %w", err)
	}
	return tpl.Steps, nil
}

func transitionUpdates(tr workflow.Transition) map[string]interface{} {
	ref := workflow.Ref(tr.Status)
	return map[string]interface{}{
		"status_code":        ref.Code,
		"status_title":       ref.Title,
		"current_step_order": tr.StepOrder,
		"current_step_name":  tr.StepName,
	}
}

func toFieldValues(requestID uint, writes []prsform.FieldValueWrite) []model.FieldValue {
	values := make([]model.FieldValue, 0, len(writes))
	for _, w := range writes {
		values = append(values, model.FieldValue{
			RequestID:     requestID,
			FieldID:       w.FieldID,
			ValueText:     w.ValueText,
			ValueNumber:   w.ValueNumber,
			ValueBool:     w.ValueBool,
			ValueDate:     w.ValueDate,
			ValueDropdown: w.ValueDropdown,
		})
	}
	return values
}

func newRequestNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("PR-%s-%s", time.Now().Format("20060102"), token[:8])
}
