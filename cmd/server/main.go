package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opinai/internal/config"
	"opinai/internal/handler"
	"opinai/internal/logger"
	"opinai/internal/middleware"
	"opinai/internal/repository"
	"opinai/internal/service"
	"opinai/internal/storage"
	"opinai/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

const (
	storeMaxRetries    = 10
	storeRetryInterval = 3 * time.Second
)

// stores bundles the repositories of the selected backend with its health check
type stores struct {
	users   repository.UserRepository
	surveys repository.SurveyRepository
	ping    func(context.Context) error
	close   func()
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	restoreLogger := logger.Init(cfg.IsDevelopment(), cfg.LogFile)
	defer restoreLogger()

	if cfg.UsesDefaultSecret() {
		zap.L().Warn("JWT_SECRET not set, signing tokens with the built-in insecure secret")
	}

	// --- Store ---
	// Startup never waits for the store; requests fail individually until it answers.
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	st, err := openStores(bgCtx, cfg)
	if err != nil {
		zap.L().Fatal("failed to initialise store", zap.String("driver", cfg.StoreDriver()), zap.Error(err))
	}
	defer st.close()

	// --- Photo storage ---
	var photos storage.PhotoStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3PhotoStore(bgCtx, cfg.S3)
		if err != nil {
			zap.L().Fatal("failed to initialise photo store", zap.Error(err))
		}
		photos = s3Store
		zap.L().Info("photo uploads enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)

	// --- Initialize Services ---
	authService := service.NewAuthService(st.users, jwtUtil, cfg.InitialAdminEmail)
	userService := service.NewUserService(st.users, photos)
	surveyService := service.NewSurveyService(st.surveys)
	rewardService := service.NewRewardService(st.users)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	surveyHandler := handler.NewSurveyHandler(surveyService, rewardService)

	// --- Setup Gin Router ---
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zap.L()))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(cfg.BodyLimit))

	ginprometheus.NewPrometheus("gin").Use(router)

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(authService)
	adminMW := middleware.AdminMiddleware(authService)

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW)
	surveyHandler.RegisterSurveyRoutes(apiGroup, jwtAuthMW, adminMW)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := st.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "store": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zap.L().Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down server")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("server exiting")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver() {
	case config.DriverPostgres:
		pool, err := config.ConnectPostgres(ctx, cfg.StoreURI)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := config.WaitForStore(ctx, pool.Ping, storeMaxRetries, storeRetryInterval); err != nil {
				zap.L().Error("postgres unavailable", zap.Error(err))
				return
			}
			if err := config.RunMigrations(ctx, pool); err != nil {
				zap.L().Error("failed to migrate postgres", zap.Error(err))
			}
		}()
		return &stores{
			users:   repository.NewPostgresUserRepository(pool),
			surveys: repository.NewPostgresSurveyRepository(pool),
			ping:    pool.Ping,
			close:   pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := config.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		users := repository.NewMongoUserRepository(db)
		ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
		go func() {
			if err := config.WaitForStore(ctx, ping, storeMaxRetries, storeRetryInterval); err != nil {
				zap.L().Error("mongodb unavailable", zap.Error(err))
				return
			}
			if err := users.EnsureIndexes(ctx); err != nil {
				zap.L().Error("failed to create mongodb indexes", zap.Error(err))
			}
		}()
		return &stores{
			users:   users,
			surveys: repository.NewMongoSurveyRepository(db),
			ping:    ping,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					zap.L().Warn("mongodb disconnect failed", zap.Error(err))
				}
			},
		}, nil

	default:
		zap.L().Warn("using in-memory store, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &stores{
			users:   mem.Users(),
			surveys: mem.Surveys(),
			ping:    func(context.Context) error { return nil },
			close:   func() {},
		}, nil
	}
}
