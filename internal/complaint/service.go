package complaint

import (
	"sort"
	"time"

	"aptcare/backend/internal/access"
	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/auth"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/metrics"
	"aptcare/backend/internal/models"
	"aptcare/backend/internal/storage"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Service applies the lifecycle rules on top of storage. Handlers stay thin:
// they bind requests and translate errors; every rule lives here or in the
// access guard.
type Service struct {
	Storage storage.Storage
	Log     zerolog.Logger
}

func NewService(s storage.Storage, log zerolog.Logger) *Service {
	return &Service{Storage: s, Log: log}
}

type CreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Priority    string   `json:"priority"`
	DoorNumber  string   `json:"doorNumber"`
	Attachments []string `json:"attachments"`
}

type EditRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// StatusChange is what an administrator submits to move a complaint through
// the workflow. A zero-value Status leaves the status untouched and only
// updates the side fields.
type StatusChange struct {
	Status        string   `json:"status"`
	AdminComments string   `json:"adminComments"`
	AssignedTo    string   `json:"assignedTo"`
	PaymentAmount *float64 `json:"paymentAmount"`
}

// Create files a new complaint owned by the principal, always in pending.
func (s *Service) Create(p access.Principal, req CreateRequest) (*models.Complaint, error) {
	if !p.Authenticated() {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if p.IsAdmin() {
		return nil, apperr.New(apperr.Forbidden, "administrators do not file complaints")
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, apperr.Newf(apperr.Validation, "invalid priority %q", priority)
	}

	owner, err := s.Storage.GetUserByID(p.ID)
	if err != nil {
		return nil, err
	}
	door := req.DoorNumber
	if door == "" {
		door = owner.DoorNumber
	}

	c := &models.Complaint{
		UserID:      p.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    priority,
		Status:      models.StatusPending,
		DoorNumber:  door,
		Attachments: pq.StringArray(req.Attachments),
	}
	if err := s.Storage.CreateComplaint(c); err != nil {
		return nil, err
	}

	metrics.ComplaintsCreated.Inc()
	s.publish(models.ComplaintEvent{
		Type:        models.EventComplaintCreated,
		ComplaintID: c.ID,
		UserID:      c.UserID,
		ActorID:     p.ID,
		Title:       c.Title,
		Status:      c.Status,
	})
	return c, nil
}

// ListFor returns the complaints the principal may see: residents get their
// own, administrators get everything ordered for triage.
func (s *Service) ListFor(p access.Principal) ([]models.Complaint, error) {
	if !p.Authenticated() {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if p.IsAdmin() {
		cs, err := s.Storage.ListAllComplaints()
		if err != nil {
			return nil, err
		}
		// Highest priority first; equal priorities keep storage order
		// (newest first).
		sort.SliceStable(cs, func(i, j int) bool {
			return PriorityRank(cs[i].Priority) > PriorityRank(cs[j].Priority)
		})
		return cs, nil
	}
	return s.Storage.ListComplaintsByUser(p.ID)
}

func (s *Service) Get(p access.Principal, id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if err := access.Allowed(p, access.ActionView, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Edit updates content fields. Owner-only, pending-only; never touches
// status or payment fields.
func (s *Service) Edit(p access.Principal, id string, req EditRequest) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if err := access.Allowed(p, access.ActionEdit, c); err != nil {
		return nil, err
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		return nil, apperr.Newf(apperr.Validation, "invalid priority %q", req.Priority)
	}

	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.Category != "" {
		c.Category = req.Category
	}
	if req.Priority != "" {
		c.Priority = req.Priority
	}
	if err := s.Storage.UpdateComplaint(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a complaint: owner while pending, administrator any time.
func (s *Service) Delete(p access.Principal, id string) error {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return err
	}
	if err := access.Allowed(p, access.ActionDelete, c); err != nil {
		return err
	}
	if err := s.Storage.DeleteComplaint(id); err != nil {
		return err
	}
	s.publish(models.ComplaintEvent{
		Type:        models.EventComplaintDeleted,
		ComplaintID: c.ID,
		UserID:      c.UserID,
		ActorID:     p.ID,
		Title:       c.Title,
	})
	return nil
}

// SetStatus applies the transition table. Re-issuing the current status is a
// no-op apart from refreshing the side fields. closed is never reachable
// here; it is the consequence of a successful payment.
func (s *Service) SetStatus(p access.Principal, id string, ch StatusChange) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if err := access.Allowed(p, access.ActionSetStatus, c); err != nil {
		return nil, err
	}
	if ch.PaymentAmount != nil && *ch.PaymentAmount < 0 {
		return nil, apperr.New(apperr.Validation, "payment amount cannot be negative")
	}

	from := c.Status
	target := ch.Status
	changed := target != "" && target != from

	if changed {
		if !models.ValidStatus(target) {
			return nil, apperr.Newf(apperr.Validation, "unknown status %q", target)
		}
		if target == models.StatusClosed {
			return nil, apperr.New(apperr.InvalidTransition, "closed is reached only through payment")
		}
		if !CanTransition(from, target) {
			if Terminal(from) {
				return nil, apperr.Newf(apperr.InvalidTransition, "%s is a terminal status", from)
			}
			return nil, apperr.Newf(apperr.InvalidTransition, "cannot move complaint from %s to %s", from, target)
		}
	}

	// A resolved complaint must carry a payable amount, whether it is being
	// resolved now or is already resolved and only side fields change.
	final := from
	if changed {
		final = target
	}
	if final == models.StatusResolved {
		amount := c.PaymentAmount
		if ch.PaymentAmount != nil {
			amount = *ch.PaymentAmount
		}
		if amount <= 0 {
			return nil, apperr.New(apperr.InvalidTransition, "a resolved complaint requires a positive payment amount")
		}
		c.PaymentAmount = amount
		if changed {
			c.PaymentStatus = models.PaymentPending
		}
	} else if ch.PaymentAmount != nil {
		c.PaymentAmount = *ch.PaymentAmount
	}

	if ch.AdminComments != "" {
		c.AdminComments = ch.AdminComments
	}
	if ch.AssignedTo != "" {
		c.AssignedTo = ch.AssignedTo
	}
	if changed {
		c.Status = target
	}

	if err := s.Storage.UpdateComplaint(c); err != nil {
		return nil, err
	}
	if changed {
		metrics.StatusTransitions.WithLabelValues(from, target).Inc()
		s.publish(models.ComplaintEvent{
			Type:        models.EventStatusChanged,
			ComplaintID: c.ID,
			UserID:      c.UserID,
			ActorID:     p.ID,
			Title:       c.Title,
			Status:      c.Status,
		})
	}
	return c, nil
}

// Pay records the owner's payment on a resolved complaint and closes it.
// The payment is recorded, not processed against any financial network.
func (s *Service) Pay(p access.Principal, id string, req PaymentRequest) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}
	if err := access.Allowed(p, access.ActionPay, c); err != nil {
		return nil, err
	}

	owner := c.User
	if owner == nil {
		owner, err = s.Storage.GetUserByID(c.UserID)
		if err != nil {
			return nil, err
		}
	}
	if err := applyPayment(c, owner, req, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Storage.UpdateComplaint(c); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	metrics.StatusTransitions.WithLabelValues(models.StatusResolved, models.StatusClosed).Inc()
	s.publish(models.ComplaintEvent{
		Type:        models.EventPaymentRecorded,
		ComplaintID: c.ID,
		UserID:      c.UserID,
		ActorID:     p.ID,
		Title:       c.Title,
		Status:      c.Status,
	})
	return c, nil
}

// DeleteUser removes a resident and all their complaints as one logical
// operation, returning how many complaints went with the account.
func (s *Service) DeleteUser(p access.Principal, userID string) (int64, error) {
	if !p.Authenticated() {
		return 0, apperr.New(apperr.Unauthorized, "authentication required")
	}
	if !p.IsAdmin() {
		return 0, apperr.New(apperr.Forbidden, "only administrators can delete users")
	}
	target, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return 0, err
	}
	if target.IsAdmin() {
		return 0, apperr.New(apperr.Forbidden, "administrator accounts cannot be deleted here")
	}

	removed, err := s.Storage.DeleteUserCascade(userID)
	if err != nil {
		return 0, err
	}
	if err := s.Storage.RevokeUserTokens(userID); err != nil {
		s.Log.Warn().Err(err).Str("user", userID).Msg("token revocation after delete failed")
	}
	s.Log.Info().Str("user", userID).Int64("complaints", removed).Msg("user deleted with complaints")
	return removed, nil
}

// ResetPassword sets a new password for any account and invalidates the
// account's outstanding tokens. The plaintext is hashed immediately and
// never logged.
func (s *Service) ResetPassword(p access.Principal, userID, newPassword string) error {
	if !p.Authenticated() {
		return apperr.New(apperr.Unauthorized, "authentication required")
	}
	if !p.IsAdmin() {
		return apperr.New(apperr.Forbidden, "only administrators can reset passwords")
	}
	if len(newPassword) < config.MinPasswordLen {
		return apperr.Newf(apperr.Validation, "password must be at least %d characters", config.MinPasswordLen)
	}
	target, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "could not hash password", err)
	}
	target.PasswordHash = hash
	if err := s.Storage.UpdateUser(target); err != nil {
		return err
	}
	if err := s.Storage.RevokeUserTokens(userID); err != nil {
		s.Log.Warn().Err(err).Str("user", userID).Msg("token revocation after reset failed")
	}
	return nil
}

// Stats assembles the admin dashboard counters.
type Stats struct {
	TotalComplaints int64 `json:"totalComplaints"`
	Pending         int64 `json:"pending"`
	InProgress      int64 `json:"inProgress"`
	Resolved        int64 `json:"resolved"`
	Rejected        int64 `json:"rejected"`
	Closed          int64 `json:"closed"`
	Users           int64 `json:"users"`
}

func (s *Service) DashboardStats(p access.Principal) (*Stats, error) {
	if !p.IsAdmin() {
		return nil, apperr.New(apperr.Forbidden, "admin only")
	}
	counts, err := s.Storage.StatusCounts()
	if err != nil {
		return nil, err
	}
	users, err := s.Storage.ResidentCount()
	if err != nil {
		return nil, err
	}
	st := &Stats{
		Pending:    counts[models.StatusPending],
		InProgress: counts[models.StatusInProgress],
		Resolved:   counts[models.StatusResolved],
		Rejected:   counts[models.StatusRejected],
		Closed:     counts[models.StatusClosed],
		Users:      users,
	}
	for _, n := range counts {
		st.TotalComplaints += n
	}
	return st, nil
}

func (s *Service) MonthlyStats(p access.Principal) ([]storage.MonthlyCount, error) {
	if !p.IsAdmin() {
		return nil, apperr.New(apperr.Forbidden, "admin only")
	}
	return s.Storage.MonthlyComplaintCounts()
}

func (s *Service) publish(ev models.ComplaintEvent) {
	ev.At = time.Now()
	if err := s.Storage.PublishEvent(ev); err != nil {
		s.Log.Warn().Err(err).Str("type", ev.Type).Msg("event publish failed")
	}
}
