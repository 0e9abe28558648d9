// Package workflow defines the purchase request state machine: a closed set
// of status codes and one table mapping (status, role) to allowed actions.
// Handlers and the client controller both consult this table instead of
// scattering string comparisons.
package workflow

// Status is a purchase request lifecycle code. The set is closed; anything
// else coming off the wire parses to StatusUnknown and allows no actions.
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusSubmitted     Status = "SUBMITTED"
	StatusInReview      Status = "IN_REVIEW"
	StatusFinanceReview Status = "FINANCE_REVIEW"
	StatusCompleted     Status = "COMPLETED"
	StatusRejected      Status = "REJECTED"
	StatusCancelled     Status = "CANCELLED"

	StatusUnknown Status = ""
)

// ParseStatus maps a wire code onto the closed status set.
func ParseStatus(code string) Status {
	switch Status(code) {
	case StatusDraft, StatusSubmitted, StatusInReview, StatusFinanceReview,
		StatusCompleted, StatusRejected, StatusCancelled:
		return Status(code)
	}
	return StatusUnknown
}

// Role is a workflow role relative to one request: the platform admin role
// deliberately maps to no workflow actions (admins manage configuration,
// they do not approve spend).
type Role string

const (
	RoleRequestor Role = "requestor"
	RoleApprover  Role = "approver"
	RoleFinance   Role = "finance"
	RoleAdmin     Role = "admin"
)

// Action is a lifecycle operation a user can attempt on a request.
type Action string

const (
	ActionEdit     Action = "edit"
	ActionSubmit   Action = "submit"
	ActionCancel   Action = "cancel"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
)

// actionTable is the single source of truth for (status, role) -> actions.
// Requestor entries additionally require being the request's author; that
// ownership check lives with the caller, the table only knows roles.
var actionTable = map[Status]map[Role][]Action{
	StatusDraft: {
		RoleRequestor: {ActionEdit, ActionSubmit, ActionCancel},
	},
	StatusSubmitted: {
		RoleRequestor: {ActionCancel},
		RoleApprover:  {ActionApprove, ActionReject},
	},
	StatusInReview: {
		RoleRequestor: {ActionCancel},
		RoleApprover:  {ActionApprove, ActionReject},
	},
	StatusFinanceReview: {
		RoleFinance: {ActionComplete, ActionReject},
	},
	StatusCompleted: {},
	StatusRejected:  {},
	StatusCancelled: {},
}

// Allowed reports whether the table permits the action for this role in this
// status.
func Allowed(status Status, role Role, action Action) bool {
	for _, a := range actionTable[status][role] {
		if a == action {
			return true
		}
	}
	return false
}

// AllowedActions returns the actions the table permits, in table order.
func AllowedActions(status Status, role Role) []Action {
	return actionTable[status][role]
}

// IsEditable reports whether a requestor may still edit the request's form.
// This is the shared predicate the UI and the server both gate edits on.
func IsEditable(status Status) bool {
	return Allowed(status, RoleRequestor, ActionEdit)
}

// IsTerminal reports whether the request can never transition again.
func IsTerminal(status Status) bool {
	switch status {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanApprove reports whether the (role, status) pair permits approval.
func CanApprove(status Status, role Role) bool {
	return Allowed(status, role, ActionApprove)
}

// CanReject reports whether the (role, status) pair permits rejection.
func CanReject(status Status, role Role) bool {
	return Allowed(status, role, ActionReject)
}

// CanComplete reports whether the (role, status) pair permits the finance
// completion.
func CanComplete(status Status, role Role) bool {
	return Allowed(status, role, ActionComplete)
}
