package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MonthlyCount is one bucket of the monthly complaint aggregate.
type MonthlyCount struct {
	Month int   `json:"month"`
	Total int64 `json:"total"`
}

type Storage interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByDoorNumber(door string) (*models.User, error)
	UpdateUser(user *models.User) error
	ListResidents() ([]models.User, error)
	DeleteUserCascade(userID string) (int64, error)

	CreateComplaint(c *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	ListComplaintsByUser(userID string) ([]models.Complaint, error)
	ListAllComplaints() ([]models.Complaint, error)
	UpdateComplaint(c *models.Complaint) error
	DeleteComplaint(id string) error

	StatusCounts() (map[string]int64, error)
	ResidentCount() (int64, error)
	MonthlyComplaintCounts() ([]MonthlyCount, error)

	RevokeUserTokens(userID string) error
	IsTokenRevoked(userID string, issuedAt time.Time) (bool, error)

	PublishEvent(ev models.ComplaintEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
	Log   zerolog.Logger
}

func NewService(db *gorm.DB, rdb *redis.Client, log zerolog.Logger) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
		Log:   log,
	}
}

func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Wrap(apperr.Conflict, "user already exists with this email or door number", err)
		}
		s.Log.Error().Err(err).Str("email", user.Email).Msg("create user failed")
		return apperr.Wrap(apperr.Internal, "could not create user", err)
	}
	return nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "could not load user", err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "could not load user", err)
	}
	return &user, nil
}

func (s *Service) GetUserByDoorNumber(door string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("door_number = ? AND role <> ?", door, models.RoleAdmin).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "could not load user", err)
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	if err := s.DB.Save(user).Error; err != nil {
		s.Log.Error().Err(err).Str("user", user.ID).Msg("update user failed")
		return apperr.Wrap(apperr.Internal, "could not update user", err)
	}
	return nil
}

// ListResidents returns every non-admin account.
func (s *Service) ListResidents() ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("role <> ?", models.RoleAdmin).Order("created_at desc").Find(&users).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not list users", err)
	}
	return users, nil
}

// DeleteUserCascade removes the user and every complaint they own inside a
// single transaction. Either both deletions commit or neither does.
func (s *Service) DeleteUserCascade(userID string) (int64, error) {
	var removed int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.Complaint{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		del := tx.Where("id = ?", userID).Delete(&models.User{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.New(apperr.NotFound, "user not found")
		}
		s.Log.Error().Err(err).Str("user", userID).Msg("cascading delete rolled back")
		return 0, apperr.Wrap(apperr.Internal, "cascading delete did not complete; nothing was removed", err)
	}
	return removed, nil
}

func (s *Service) CreateComplaint(c *models.Complaint) error {
	if err := s.DB.Create(c).Error; err != nil {
		s.Log.Error().Err(err).Str("user", c.UserID).Msg("create complaint failed")
		return apperr.Wrap(apperr.Internal, "could not create complaint", err)
	}
	return nil
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.DB.Preload("User").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "complaint not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "could not load complaint", err)
	}
	return &c, nil
}

func (s *Service) ListComplaintsByUser(userID string) ([]models.Complaint, error) {
	var cs []models.Complaint
	err := s.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&cs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not list complaints", err)
	}
	return cs, nil
}

// ListAllComplaints returns every complaint newest first; the service layer
// re-orders by priority for triage.
func (s *Service) ListAllComplaints() ([]models.Complaint, error) {
	var cs []models.Complaint
	err := s.DB.Preload("User").
		Order("created_at desc").
		Find(&cs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not list complaints", err)
	}
	return cs, nil
}

func (s *Service) UpdateComplaint(c *models.Complaint) error {
	if err := s.DB.Save(c).Error; err != nil {
		s.Log.Error().Err(err).Str("complaint", c.ID).Msg("update complaint failed")
		return apperr.Wrap(apperr.Internal, "could not update complaint", err)
	}
	return nil
}

func (s *Service) DeleteComplaint(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&models.Complaint{})
	if res.Error != nil {
		return apperr.Wrap(apperr.Internal, "could not delete complaint", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "complaint not found")
	}
	return nil
}

func (s *Service) StatusCounts() (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := s.DB.Model(&models.Complaint{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not aggregate complaint statuses", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (s *Service) ResidentCount() (int64, error) {
	var n int64
	err := s.DB.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&n).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "could not count residents", err)
	}
	return n, nil
}

func (s *Service) MonthlyComplaintCounts() ([]MonthlyCount, error) {
	var rows []MonthlyCount
	err := s.DB.Raw(`
        SELECT EXTRACT(MONTH FROM created_at)::int AS month, COUNT(*) AS total
        FROM complaints
        GROUP BY month
        ORDER BY month
    `).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not aggregate monthly complaints", err)
	}
	return rows, nil
}

func revocationKey(userID string) string { return "revoked:" + userID }

// RevokeUserTokens invalidates every token issued to the user before now.
// Used after password resets and account deletion.
func (s *Service) RevokeUserTokens(userID string) error {
	if s.Redis == nil {
		return nil
	}
	now := time.Now().Unix()
	err := s.Redis.Set(s.Ctx, revocationKey(userID), now, config.TokenTTL).Err()
	if err != nil {
		s.Log.Error().Err(err).Str("user", userID).Msg("token revocation write failed")
		return apperr.Wrap(apperr.Internal, "could not revoke tokens", err)
	}
	return nil
}

func (s *Service) IsTokenRevoked(userID string, issuedAt time.Time) (bool, error) {
	if s.Redis == nil {
		return false, nil
	}
	ts, err := s.Redis.Get(s.Ctx, revocationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "could not check token revocation", err)
	}
	return issuedAt.Unix() <= ts, nil
}

// PublishEvent fans a lifecycle event out on the events channel. Delivery is
// best effort; a missing Redis client drops the event.
func (s *Service) PublishEvent(ev models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, config.EventsChannel, payload).Err(); err != nil {
		s.Log.Error().Err(err).Str("type", ev.Type).Msg("event publish failed")
		return err
	}
	return nil
}
