package complaint_test

import (
	"time"

	"aptcare/backend/internal/models"
	"aptcare/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage implements storage.Storage for service tests.
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) CreateUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetUserByDoorNumber(door string) (*models.User, error) {
	args := m.Called(door)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockStorage) ListResidents() ([]models.User, error) {
	args := m.Called()
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) DeleteUserCascade(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CreateComplaint(c *models.Complaint) error {
	return m.Called(c).Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if c := args.Get(0); c != nil {
		return c.(*models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListComplaintsByUser(userID string) ([]models.Complaint, error) {
	args := m.Called(userID)
	if c := args.Get(0); c != nil {
		return c.([]models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListAllComplaints() ([]models.Complaint, error) {
	args := m.Called()
	if c := args.Get(0); c != nil {
		return c.([]models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateComplaint(c *models.Complaint) error {
	return m.Called(c).Error(0)
}

func (m *MockStorage) DeleteComplaint(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockStorage) StatusCounts() (map[string]int64, error) {
	args := m.Called()
	if c := args.Get(0); c != nil {
		return c.(map[string]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ResidentCount() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MonthlyComplaintCounts() ([]storage.MonthlyCount, error) {
	args := m.Called()
	if c := args.Get(0); c != nil {
		return c.([]storage.MonthlyCount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) RevokeUserTokens(userID string) error {
	return m.Called(userID).Error(0)
}

func (m *MockStorage) IsTokenRevoked(userID string, issuedAt time.Time) (bool, error) {
	args := m.Called(userID, issuedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) PublishEvent(ev models.ComplaintEvent) error {
	return m.Called(ev).Error(0)
}
