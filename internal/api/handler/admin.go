package handler

import (
	"net/http"

	"aptcare/backend/internal/api/middleware"
	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

// Admin routes sit behind RequireAuth + RequireAdmin; the service re-checks
// roles so the rules hold even if routing changes.

func (h *Handler) AdminListComplaints(c *gin.Context) {
	out, err := h.Service.ListFor(middleware.Principal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// AdminSetStatus applies the transition table to one complaint.
func (h *Handler) AdminSetStatus(c *gin.Context) {
	var req complaint.StatusChange
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "invalid status payload", err))
		return
	}
	out, err := h.Service.SetStatus(middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": out})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Storage.ListResidents()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) AdminGetUser(c *gin.Context) {
	user, err := h.Storage.GetUserByID(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminDeleteUser removes a resident and every complaint they own.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	removed, err := h.Service.DeleteUser(middleware.Principal(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":               "user deleted successfully",
		"complaintsDeleted": removed,
	})
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *Handler) AdminResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "newPassword is required", err))
		return
	}
	if err := h.Service.ResetPassword(middleware.Principal(c), c.Param("id"), req.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "user password reset successfully"})
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Service.DashboardStats(middleware.Principal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminMonthlyStats(c *gin.Context) {
	stats, err := h.Service.MonthlyStats(middleware.Principal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
