package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"aptcare/backend/internal/api/handler"
	"aptcare/backend/internal/api/middleware"
	"aptcare/backend/internal/complaint"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/notify"
	"aptcare/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

// newTestRouter wires the real handlers and middleware over a mock storage,
// mirroring the route table in cmd/server.
func newTestRouter(store *MockStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("test")
	cfg := config.Config{JWTSecret: testSecret}
	svc := complaint.NewService(store, log)
	hub := notify.NewHub(log)
	h := handler.NewHandler(svc, store, hub, cfg, log)

	r := gin.New()
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/user", middleware.RequireAuth(cfg.JWTSecret, store), h.CurrentUser)

	complaints := api.Group("/complaints", middleware.RequireAuth(cfg.JWTSecret, store))
	complaints.POST("", h.CreateComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/:id", h.GetComplaint)
	complaints.PUT("/:id", h.UpdateComplaint)
	complaints.DELETE("/:id", h.DeleteComplaint)
	complaints.POST("/:id/payment", h.PayComplaint)

	admin := api.Group("/admin", middleware.RequireAuth(cfg.JWTSecret, store), middleware.RequireAdmin())
	admin.GET("/complaints", h.AdminListComplaints)
	admin.PUT("/complaints/:id", h.AdminSetStatus)
	admin.DELETE("/complaints/:id", h.DeleteComplaint)
	admin.GET("/users", h.AdminListUsers)
	admin.DELETE("/users/:id", h.AdminDeleteUser)
	admin.PUT("/users/:id/reset-password", h.AdminResetPassword)
	admin.GET("/stats", h.AdminStats)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}
