package handler

import (
	"errors"

	"aptcare/backend/internal/apperr"
	"aptcare/backend/internal/complaint"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/notify"
	"aptcare/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	Service *complaint.Service
	Storage storage.Storage
	Hub     *notify.Hub
	Cfg     config.Config
	Log     zerolog.Logger
}

func NewHandler(svc *complaint.Service, store storage.Storage, hub *notify.Hub, cfg config.Config, log zerolog.Logger) *Handler {
	return &Handler{Service: svc, Storage: store, Hub: hub, Cfg: cfg, Log: log}
}

// respondErr translates the error taxonomy into the JSON error envelope.
func respondErr(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		c.JSON(e.Kind.HTTPStatus(), gin.H{"error": e.Message, "kind": e.Kind.String()})
		return
	}
	c.JSON(apperr.Internal.HTTPStatus(), gin.H{"error": "internal server error", "kind": apperr.Internal.String()})
}
