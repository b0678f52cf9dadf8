package models_test

import (
	"testing"

	"aptcare/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComplaintBeforeCreate_Defaults(t *testing.T) {
	c := &models.Complaint{UserID: "u1", Title: "Leaky faucet"}

	err := c.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.StatusPending, c.Status, "complaints start pending")
	assert.Equal(t, models.PaymentPending, c.PaymentStatus)
}

func TestComplaintBeforeCreate_KeepsExplicitStatus(t *testing.T) {
	c := &models.Complaint{ID: "fixed", Status: models.StatusInProgress, PaymentStatus: models.PaymentFailed}

	err := c.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, "fixed", c.ID)
	assert.Equal(t, models.StatusInProgress, c.Status)
	assert.Equal(t, models.PaymentFailed, c.PaymentStatus)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.StatusPending, models.StatusInProgress, models.StatusResolved,
		models.StatusRejected, models.StatusClosed,
	} {
		assert.True(t, models.ValidStatus(s), s)
	}
	assert.False(t, models.ValidStatus("archived"))
	assert.False(t, models.ValidStatus(""))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, models.ValidPriority(models.PriorityLow))
	assert.True(t, models.ValidPriority(models.PriorityMedium))
	assert.True(t, models.ValidPriority(models.PriorityHigh))
	assert.False(t, models.ValidPriority("urgent"))
}
