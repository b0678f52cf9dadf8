package handler

import (
	"net/http"

	"aptcare/backend/internal/api/middleware"
	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

// CreateComplaint files a new complaint owned by the caller.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req complaint.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "title, description and category are required", err))
		return
	}
	out, err := h.Service.Create(middleware.Principal(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListComplaints returns the caller's own complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	out, err := h.Service.ListFor(middleware.Principal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	out, err := h.Service.Get(middleware.Principal(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateComplaint edits content fields while the complaint is pending.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	var req complaint.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "invalid edit payload", err))
		return
	}
	out, err := h.Service.Edit(middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteComplaint(c *gin.Context) {
	if err := h.Service.Delete(middleware.Principal(c), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "complaint removed"})
}

// PayComplaint records payment on a resolved complaint and closes it.
func (h *Handler) PayComplaint(c *gin.Context) {
	var req complaint.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "invalid payment payload", err))
		return
	}
	out, err := h.Service.Pay(middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": out})
}
