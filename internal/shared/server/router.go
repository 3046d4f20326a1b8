package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/auth"
	"driver-portal/internal/documents"
	"driver-portal/internal/push"
	"driver-portal/internal/reminders"
	"driver-portal/internal/services/health"
	"driver-portal/internal/shared/clock"
	"driver-portal/internal/shared/config"
	"driver-portal/internal/shared/metrics"
	"driver-portal/internal/shared/server/middleware"
	"driver-portal/internal/shared/server/respond"
	"driver-portal/internal/shared/storage/db"
	localfiles "driver-portal/internal/shared/storage/files/local"
	"driver-portal/internal/subscriptions"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// Repositories are Postgres-backed when DATABASE_URL connects, otherwise the
// portal falls back to its JSON-file layout under DataDir.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.JWTSecret),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"PUSH_TEST": {Rate: 1, Burst: 3},
				"CRON":      {Rate: 0.1, Burst: 2},
			},
			GroupFor: func(c *gin.Context) string {
				switch c.FullPath() {
				case "/api/v1/push/test":
					return "PUSH_TEST"
				case "/api/v1/cron/daily":
					return "CRON"
				}
				return ""
			},
		}),
	)

	// Dependencies
	store := localfiles.New(cfg.DataDir)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to file storage: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to file storage: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.Repo
	var subRepo subscriptions.Repo
	var ledger reminders.Ledger
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
		subRepo = &subscriptions.PGRepo{DB: sqlDB}
		ledger = &reminders.PGLedger{DB: sqlDB}
	} else {
		docRepo = documents.NewFileRepo(cfg.DataDir)
		subRepo = subscriptions.NewFileRepo(cfg.DataDir)
		ledger = reminders.NewFileLedger(cfg.DataDir)
	}

	clk := clock.UTC{}
	docSvc := &documents.Service{Repo: docRepo, Store: store, MaxUploadBytes: cfg.MaxUploadBytes}
	docHandler := documents.NewHandler(docSvc, clk)
	subHandler := subscriptions.NewHandler(subRepo, cfg.PushConfigured(), cfg.VAPIDPublicKey)

	transport := push.NewWebPushTransport(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	dispatcher := push.NewDispatcher(subRepo, transport, cfg.PushConfigured())
	pushHandler := push.NewHandler(dispatcher, cfg.AppName)

	engine := reminders.NewEngine(docRepo, ledger, dispatcher, clk, cfg.AppName)
	reminderHandler := reminders.NewHandler(engine, cfg.CronToken)

	authHandler := auth.NewHandler(auth.NewService(cfg.DemoUsername, cfg.DemoPassword, cfg.JWTSecret))
	healthSvc := health.NewService(cfg.AppName)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())
	authHandler.RegisterRoutes(api)
	docHandler.RegisterRoutes(api)
	subHandler.RegisterRoutes(api)
	pushHandler.RegisterRoutes(api)
	reminderHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
