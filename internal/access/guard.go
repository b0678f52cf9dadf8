// Package access decides whether a principal may perform an action on a
// complaint. Checks run in a fixed order: identity, role, ownership, state.
// The first failing check denies the action; a denied action is never
// partially applied.
package access

import (
	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/models"
)

// Principal is the authenticated actor behind a request. A zero Principal
// is anonymous.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) Authenticated() bool { return p.ID != "" }
func (p Principal) IsAdmin() bool       { return p.Role == models.RoleAdmin }

type Action int

const (
	ActionView Action = iota + 1
	ActionEdit
	ActionDelete
	ActionSetStatus
	ActionPay
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionSetStatus:
		return "set-status"
	case ActionPay:
		return "pay"
	default:
		return "unknown"
	}
}

// Allowed authorizes p to perform a on c. A nil error means the action may
// proceed to the lifecycle engine.
func Allowed(p Principal, a Action, c *models.Complaint) error {
	if !p.Authenticated() {
		return apperr.New(apperr.Unauthorized, "authentication required")
	}

	if p.IsAdmin() {
		switch a {
		case ActionView, ActionDelete, ActionSetStatus:
			return nil
		case ActionEdit:
			// Complaint content belongs to the resident who filed it.
			return apperr.New(apperr.Forbidden, "administrators cannot edit complaint content")
		case ActionPay:
			return apperr.New(apperr.Forbidden, "only the complaint owner can submit payment")
		}
	}

	if a == ActionSetStatus {
		return apperr.New(apperr.Forbidden, "only administrators can change complaint status")
	}

	if c == nil || c.UserID != p.ID {
		return apperr.Newf(apperr.Forbidden, "not authorized to %s this complaint", a)
	}

	switch a {
	case ActionEdit, ActionDelete:
		if c.Status != models.StatusPending {
			return apperr.Newf(apperr.InvalidTransition, "complaint is no longer pending; %s is not allowed", a)
		}
	}
	return nil
}
