package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/prsform"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
	"github.com/AliMohammadiiii/PRS-sub001/internal/workflow"
)

// Callbacks are the UI hooks the controller drives. Nil hooks are skipped.
type Callbacks struct {
	// Navigate routes the host UI to a path.
	Navigate func(path string)

	// ScrollToAttachments focuses the attachments panel after a submit
	// failed on missing required attachment categories.
	ScrollToAttachments func()

	// CloseDialog dismisses the action dialog after a transition succeeds.
	CloseDialog func()
}

// Options configure a controller for one user session on one request page.
type Options struct {
	UserID string
	Role   workflow.Role

	// Referrer is where the user came from ("inbox", "finance"); the
	// controller navigates back there after a successful transition.
	Referrer string

	// NavigateDelay lets the success state render before leaving the page.
	NavigateDelay time.Duration
}

// Controller owns the lifecycle of one purchase request on screen: template
// resolution, draft edits, submission and the approval actions. It holds its
// own copy of the request and never shares state across pages; concurrent
// clicks are absorbed by per-action busy flags, not locks.
type Controller struct {
	client *Client
	cb     Callbacks
	opts   Options

	request  *model.PurchaseRequest
	template *repository.EffectiveTemplate
	values   map[uint]prsform.Value

	stagedComment string
	stagedFiles   []StagedFile

	busy map[string]bool

	// LastValidation is the merged client+server validation failure of the
	// most recent submit attempt, nil after a success.
	LastValidation *model.ValidationError
}

func NewController(apiClient *Client, cb Callbacks, opts Options) *Controller {
	return &Controller{
		client: apiClient,
		cb:     cb,
		opts:   opts,
		values: make(map[uint]prsform.Value),
		busy:   make(map[string]bool),
	}
}

func (c *Controller) Request() *model.PurchaseRequest          { return c.request }
func (c *Controller) Template() *repository.EffectiveTemplate  { return c.template }
func (c *Controller) Values() map[uint]prsform.Value           { return c.values }
func (c *Controller) Busy(action string) bool                  { return c.busy[action] }
func (c *Controller) StagedComment() string                    { return c.stagedComment }
func (c *Controller) StagedFiles() []StagedFile                { return c.stagedFiles }

func (c *Controller) SetStagedComment(comment string) { c.stagedComment = comment }
func (c *Controller) StageFile(f StagedFile)          { c.stagedFiles = append(c.stagedFiles, f) }

// SetValue records a form edit locally; nothing is sent until SaveDraft.
func (c *Controller) SetValue(fieldID uint, v prsform.Value) {
	if v.IsZero() {
		delete(c.values, fieldID)
		return
	}
	c.values[fieldID] = v
}

// ResolveTemplate loads the effective template for (team, purchase type).
// On a 404 the legacy per-team endpoint is tried exactly once; when both
// fail the error is blocking and the form must not render.
func (c *Controller) ResolveTemplate(teamID uint, purchaseType string) error {
	tpl, err := c.client.EffectiveTemplate(teamID, purchaseType)
	if errors.Is(err, ErrTemplateNotFound) {
		tpl, err = c.client.LegacyTemplate(teamID)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve form template: %w", err)
	}

	c.template = tpl
	if c.request == nil {
		c.values = prsform.BuildInitialValues(tpl.FormTemplate.Fields)
	}
	return nil
}

// Load fetches an existing request and rebuilds the local form state from
// its stored values.
func (c *Controller) Load(requestID uint) error {
	req, err := c.client.GetRequest(requestID)
	if err != nil {
		return err
	}
	c.request = req
	c.values = prsform.ExtractInitialValues(req.FieldValues)
	return nil
}

// CreateDraft creates the request shell. Team and purchase type are fixed at
// creation; everything else stays editable while drafting.
func (c *Controller) CreateDraft(input service.RequestInput) error {
	if c.busy["create"] {
		return nil
	}
	if input.TeamID == 0 || input.PurchaseTypeCode == "" {
		return errors.New("لطفا تیم و نوع خرید را انتخاب کنید")
	}

	c.busy["create"] = true
	defer func() { c.busy["create"] = false }()

	req, err := c.client.CreateRequest(input)
	if err != nil {
		return err
	}

	c.request = req
	c.values = prsform.ExtractInitialValues(req.FieldValues)
	return nil
}

// SaveDraft pushes the top-level fields plus the full field value set built
// from the local form state. Safe to call repeatedly.
func (c *Controller) SaveDraft(top service.RequestInput) error {
	if c.request == nil {
		return errors.New("no request loaded")
	}
	if c.busy["save"] {
		return nil
	}
	c.busy["save"] = true
	defer func() { c.busy["save"] = false }()

	top.FieldValues = prsform.ToAPIFormat(c.templateFields(), c.values)

	req, err := c.client.UpdateRequest(c.request.ID, top)
	if err != nil {
		return err
	}
	c.request = req
	return nil
}

// Submit runs the full submission protocol: final save, local required-field
// validation, then the submit call. Server-side validation failures merge
// into the same structure the local check produces, so the form renders one
// consistent error state; missing attachments additionally scroll the panel
// into view.
func (c *Controller) Submit(top service.RequestInput) error {
	if c.request == nil {
		return errors.New("no request loaded")
	}
	if c.busy["submit"] {
		return nil
	}
	c.busy["submit"] = true
	defer func() { c.busy["submit"] = false }()

	if err := c.SaveDraft(top); err != nil {
		return err
	}

	if fieldErrs := prsform.ValidateRequired(c.templateFields(), c.values); len(fieldErrs) > 0 {
		c.LastValidation = &model.ValidationError{RequiredFields: fieldErrs}
		return errors.New("اطلاعات درخواست کامل نیست")
	}

	req, err := c.client.SubmitRequest(c.request.ID, c.stagedComment, c.stagedFiles)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (len(apiErr.RequiredFields) > 0 || len(apiErr.RequiredAttachments) > 0) {
			c.LastValidation = &model.ValidationError{
				Detail:              apiErr.Detail,
				RequiredFields:      apiErr.RequiredFields,
				RequiredAttachments: apiErr.RequiredAttachments,
			}
			if len(apiErr.RequiredAttachments) > 0 && c.cb.ScrollToAttachments != nil {
				c.cb.ScrollToAttachments()
			}
		}
		return err
	}

	c.LastValidation = nil
	c.request = req
	c.stagedComment = ""
	c.stagedFiles = nil
	c.navigateBack()
	return nil
}

// Approve advances the request when the action table allows it for the
// caller's role and the current status.
func (c *Controller) Approve() error {
	return c.transition("approve", workflow.ActionApprove, c.client.Approve)
}

// Reject blocks short comments locally with the same message the server
// uses, so the dialog shows the rule without a round trip.
func (c *Controller) Reject() error {
	if err := workflow.ValidateComment(workflow.ActionReject, c.stagedComment); err != nil {
		return err
	}
	return c.transition("reject", workflow.ActionReject, c.client.Reject)
}

func (c *Controller) Complete() error {
	return c.transition("complete", workflow.ActionComplete, c.client.Complete)
}

// AllowedActions reports what the current user may do with the request in
// its present status, ownership included.
func (c *Controller) AllowedActions() []workflow.Action {
	if c.request == nil {
		return nil
	}
	status := workflow.ParseStatus(c.request.Status.Code)
	role := c.opts.Role
	if role == workflow.RoleRequestor && c.request.RequestorID != c.opts.UserID {
		return nil
	}
	return workflow.AllowedActions(status, role)
}

// Widgets renders the form from the local state.
func (c *Controller) Widgets() []prsform.Widget {
	editable := false
	if c.request == nil {
		editable = true
	} else {
		editable = c.request.RequestorID == c.opts.UserID &&
			workflow.IsEditable(workflow.ParseStatus(c.request.Status.Code))
	}
	return prsform.RenderForm(c.templateFields(), c.values, editable)
}

func (c *Controller) transition(name string, action workflow.Action, call func(uint, string, []StagedFile) (*model.PurchaseRequest, error)) error {
	if c.request == nil {
		return errors.New("no request loaded")
	}
	if c.busy[name] {
		return nil
	}

	status := workflow.ParseStatus(c.request.Status.Code)
	if !workflow.Allowed(status, c.opts.Role, action) {
		return service.ErrForbidden
	}

	c.busy[name] = true
	defer func() { c.busy[name] = false }()

	// Staging survives a failed call so the user can fix and retry.
	if _, err := call(c.request.ID, c.stagedComment, c.stagedFiles); err != nil {
		return err
	}

	// Post-action protocol: refetch, close the dialog, drop staging, then
	// leave the page.
	req, err := c.client.GetRequest(c.request.ID)
	if err == nil {
		c.request = req
	}
	if c.cb.CloseDialog != nil {
		c.cb.CloseDialog()
	}
	c.stagedComment = ""
	c.stagedFiles = nil
	c.navigateBack()
	return nil
}

// navigateBack returns the user to where they came from after the configured
// delay, giving the success state a beat to render.
func (c *Controller) navigateBack() {
	if c.cb.Navigate == nil {
		return
	}
	if c.opts.NavigateDelay > 0 {
		time.Sleep(c.opts.NavigateDelay)
	}
	c.cb.Navigate(ReferrerPath(c.opts.Referrer))
}

// ReferrerPath maps the ?from= query value onto the list page to return to.
func ReferrerPath(referrer string) string {
	switch referrer {
	case "inbox":
		return "/prs/inbox"
	case "finance":
		return "/prs/finance"
	default:
		return "/prs/requests"
	}
}

func (c *Controller) templateFields() []model.FormField {
	if c.template == nil {
		return nil
	}
	return c.template.FormTemplate.Fields
}
