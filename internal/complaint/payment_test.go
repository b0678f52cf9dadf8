package complaint_test

import (
	"strings"
	"testing"

	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/complaint"
	"aptcare/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func resolvedComplaint() *models.Complaint {
	c := pendingComplaint()
	c.Status = models.StatusResolved
	c.PaymentAmount = 1500
	c.User = &models.User{ID: "u1", Name: "Asha", DoorNumber: "A-101"}
	return c
}

func TestPay_ClosesResolvedComplaint(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)
	store.On("GetComplaintByID", "c1").Return(resolvedComplaint(), nil)
	store.On("UpdateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	store.On("PublishEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	out, err := svc.Pay(resident, "c1", complaint.PaymentRequest{
		Amount:       1500,
		CardLastFour: "4242",
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, out.Status)
	assert.Equal(t, models.PaymentCompleted, out.PaymentStatus)
	assert.Equal(t, "4242", out.PaymentDetails.CardLastFour)
	assert.Equal(t, 1500.0, out.PaymentDetails.Amount)
	assert.Equal(t, "INR", out.PaymentDetails.Currency, "currency defaults to INR")
	assert.Equal(t, "Asha", out.PaymentDetails.CardholderName, "name falls back to account name")
	assert.Equal(t, "A-101", out.PaymentDetails.DoorNumber)
	assert.NotNil(t, out.PaymentDate)
	assert.True(t, strings.HasPrefix(out.PaymentDetails.TransactionID, "TXN"))
}

func TestPay_AmountFallsBackToAdminSet(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)
	store.On("GetComplaintByID", "c1").Return(resolvedComplaint(), nil)
	store.On("UpdateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	store.On("PublishEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	out, err := svc.Pay(resident, "c1", complaint.PaymentRequest{CardLastFour: "4242"})

	require.NoError(t, err)
	assert.Equal(t, 1500.0, out.PaymentDetails.Amount, "amount comes from the admin-set value, never invented")
}

func TestPay_NonOwnerForbidden(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)
	store.On("GetComplaintByID", "c1").Return(resolvedComplaint(), nil)

	_, err := svc.Pay(otherResident, "c1", complaint.PaymentRequest{Amount: 1500})

	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	store.AssertNotCalled(t, "UpdateComplaint", mock.Anything)
}

func TestPay_AdminForbidden(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)
	store.On("GetComplaintByID", "c1").Return(resolvedComplaint(), nil)

	_, err := svc.Pay(administrator, "c1", complaint.PaymentRequest{Amount: 1500})

	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestPay_RejectedForNonResolvedStatuses(t *testing.T) {
	for _, status := range []string{
		models.StatusPending,
		models.StatusInProgress,
		models.StatusRejected,
		models.StatusClosed,
	} {
		t.Run(status, func(t *testing.T) {
			store := new(MockStorage)
			svc := newTestService(store)
			c := resolvedComplaint()
			c.Status = status
			store.On("GetComplaintByID", "c1").Return(c, nil)

			_, err := svc.Pay(resident, "c1", complaint.PaymentRequest{Amount: 1500})

			require.Error(t, err)
			assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
			store.AssertNotCalled(t, "UpdateComplaint", mock.Anything)
		})
	}
}

func TestPay_MasksLongCardInput(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)
	store.On("GetComplaintByID", "c1").Return(resolvedComplaint(), nil)
	store.On("UpdateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	store.On("PublishEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	out, err := svc.Pay(resident, "c1", complaint.PaymentRequest{
		Amount:       1500,
		CardLastFour: "4111111111114242",
	})

	require.NoError(t, err)
	assert.Equal(t, "4242", out.PaymentDetails.CardLastFour, "only the last four digits survive")
}

func TestPay_MissingCardUsesPlaceholder(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)
	store.On("GetComplaintByID", "c1").Return(resolvedComplaint(), nil)
	store.On("UpdateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	store.On("PublishEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	out, err := svc.Pay(resident, "c1", complaint.PaymentRequest{Amount: 1500})

	require.NoError(t, err)
	assert.Equal(t, "****", out.PaymentDetails.CardLastFour)
}

// Full lifecycle walk: file → resolve with amount → pay → closed.
func TestLifecycle_EndToEndScenario(t *testing.T) {
	store := new(MockStorage)
	svc := newTestService(store)

	c := pendingComplaint()
	store.On("GetComplaintByID", "c1").Return(c, nil)
	store.On("UpdateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)
	store.On("PublishEvent", mock.AnythingOfType("models.ComplaintEvent")).Return(nil)

	_, err := svc.SetStatus(administrator, "c1", complaint.StatusChange{
		Status:        models.StatusResolved,
		PaymentAmount: floatPtr(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, c.Status)
	assert.Equal(t, models.PaymentPending, c.PaymentStatus)

	c.User = &models.User{ID: "u1", Name: "Asha", DoorNumber: "A-101"}
	out, err := svc.Pay(resident, "c1", complaint.PaymentRequest{
		Amount:       1500,
		CardLastFour: "4242",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, out.Status)
	assert.Equal(t, models.PaymentCompleted, out.PaymentStatus)
	assert.Equal(t, "4242", out.PaymentDetails.CardLastFour)
}
