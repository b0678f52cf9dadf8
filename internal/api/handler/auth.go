package handler

import (
	"net/http"

	"aptcare/backend/internal/api/middleware"
	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/auth"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	DoorNumber string `json:"doorNumber"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"doorNumber": u.DoorNumber,
	}
}

// Register creates a resident account. Role is always "user" here;
// administrators are provisioned through the ops CLI.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "invalid registration payload", err))
		return
	}
	if len(req.Password) < config.MinPasswordLen {
		respondErr(c, apperr.Newf(apperr.Validation, "password must be at least %d characters", config.MinPasswordLen))
		return
	}
	if req.DoorNumber == "" {
		respondErr(c, apperr.New(apperr.Validation, "door number is required for apartment residents"))
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		respondErr(c, apperr.New(apperr.Conflict, "user already exists with this email"))
		return
	} else if apperr.KindOf(err) != apperr.NotFound {
		respondErr(c, err)
		return
	}
	if _, err := h.Storage.GetUserByDoorNumber(req.DoorNumber); err == nil {
		respondErr(c, apperr.New(apperr.Conflict, "this apartment door number is already registered"))
		return
	} else if apperr.KindOf(err) != apperr.NotFound {
		respondErr(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondErr(c, apperr.Wrap(apperr.Internal, "could not hash password", err))
		return
	}
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		DoorNumber:   req.DoorNumber,
	}
	if err := h.Storage.CreateUser(user); err != nil {
		respondErr(c, err)
		return
	}

	token, err := auth.SignToken(h.Cfg.JWTSecret, user.ID, user.Role, config.TokenTTL)
	if err != nil {
		respondErr(c, apperr.Wrap(apperr.Internal, "could not create token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userResponse(user)})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apperr.Wrap(apperr.Validation, "invalid login payload", err))
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same message for unknown email and wrong password.
		respondErr(c, apperr.New(apperr.Unauthorized, "invalid credentials"))
		return
	}

	token, err := auth.SignToken(h.Cfg.JWTSecret, user.ID, user.Role, config.TokenTTL)
	if err != nil {
		respondErr(c, apperr.Wrap(apperr.Internal, "could not create token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userResponse(user)})
}

// CurrentUser returns the authenticated account.
func (h *Handler) CurrentUser(c *gin.Context) {
	p := middleware.Principal(c)
	user, err := h.Storage.GetUserByID(p.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}
