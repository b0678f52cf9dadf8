package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aptcare/backend/internal/api/handler"
	"aptcare/backend/internal/api/middleware"
	"aptcare/backend/internal/complaint"
	"aptcare/backend/internal/config"
	"aptcare/backend/internal/metrics"
	"aptcare/backend/internal/models"
	"aptcare/backend/internal/notify"
	"aptcare/backend/internal/storage"
	"aptcare/backend/internal/telegram"
	"aptcare/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config, log zerolog.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	if err := db.AutoMigrate(&models.User{}, &models.Complaint{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Each door belongs to one resident; admin accounts carry no door. The
	// partial index closes the check-then-create race on registration.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_resident_door
        ON users (door_number) WHERE role <> 'admin' AND door_number <> ''`).Error
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create door number index")
	}

	log.Info().Msg("database and Redis connections established, migrations complete")
	return db, rdb
}

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	log.Info().Msg("starting AptCare backend")

	db, rdb := setupDependencies(cfg, log)
	store := storage.NewService(db, rdb, log)
	svc := complaint.NewService(store, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notify.NewHub(log)
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			hub.AddNotifier(notifier)
		}
	}
	hub.StartPubSubListener(ctx, rdb)
	go hub.Run()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	h := handler.NewHandler(svc, store, hub, cfg, log)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
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
		admin.GET("/complaints/:id", h.GetComplaint)
		admin.PUT("/complaints/:id", h.AdminSetStatus)
		admin.DELETE("/complaints/:id", h.DeleteComplaint)
		admin.GET("/users", h.AdminListUsers)
		admin.GET("/users/:id", h.AdminGetUser)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
		admin.PUT("/users/:id/reset-password", h.AdminResetPassword)
		admin.GET("/stats", h.AdminStats)
		admin.GET("/stats/monthly", h.AdminMonthlyStats)
		admin.GET("/events/ws", h.AdminEventsWS)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}
