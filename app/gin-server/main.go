package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/hirex/config"
	"github.com/yoockh/hirex/internal/api/handlers"
	"github.com/yoockh/hirex/internal/api/middleware"
	"github.com/yoockh/hirex/internal/api/routes"
	"github.com/yoockh/hirex/internal/auth"
	"github.com/yoockh/hirex/internal/cache"
	"github.com/yoockh/hirex/internal/logger"
	"github.com/yoockh/hirex/internal/providers/llm"
	"github.com/yoockh/hirex/internal/realtime"
	mongorepo "github.com/yoockh/hirex/internal/repositories/mongo"
	pgrepo "github.com/yoockh/hirex/internal/repositories/postgres"
	"github.com/yoockh/hirex/internal/services"
	"github.com/yoockh/hirex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Init MongoDB
	if err := config.InitMongo(cfg.MongoURI); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(cfg.MongoDB); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")
	db := config.MongoClient.Database(cfg.MongoDB)

	// Init PostgreSQL
	if err := config.InitPostgres(cfg.PostgresURI); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}
	log.Info("PostgreSQL connected")

	// Redis is optional; without it caching and rate limiting are off and
	// realtime events stay in-process.
	var (
		jobCache cache.Cache = cache.Nop{}
		counter  cache.Counter
		bus      realtime.Bus = realtime.NewMemoryBus()
	)
	if cfg.RedisAddr != "" {
		if err := config.InitRedis(cfg.RedisAddr); err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		jobCache = cache.NewRedisCache(config.RedisClient)
		counter = cache.NewRedisCounter(config.RedisClient)
		bus = realtime.NewRedisPublisher(config.RedisClient)
		log.Info("Redis connected")
	} else {
		log.Warn("REDIS_ADDR not set; cache, rate limiting and cross-instance realtime disabled")
	}

	store, err := storage.New(ctx, storage.Options{
		Driver:          cfg.Storage.Driver,
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		CredentialsFile: cfg.Storage.CredentialsFile,
	})
	if err != nil {
		log.WithError(err).Fatal("storage init error")
	}

	model, err := newLLM(ctx, cfg.LLM)
	if err != nil {
		log.WithError(err).Fatal("llm init error")
	}
	defer model.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	users := mongorepo.NewUserRepo(db)
	companies := mongorepo.NewCompanyRepo(db)
	jobs := mongorepo.NewJobRepo(db)
	apps := mongorepo.NewApplicationRepo(db)

	userSvc := services.NewUserService(users, tokens)
	profileSvc := services.NewProfileService(userSvc,
		pgrepo.NewProfileRepo(config.PostgresDB),
		pgrepo.NewResumeFileRepo(config.PostgresDB),
		store, log, cfg.MaxResumeBytes)
	jobSvc := services.NewJobService(jobs, companies, jobCache, log)
	companySvc := services.NewCompanyService(companies, store, log)
	appSvc := services.NewApplicationService(services.ApplicationDeps{
		Applications:   apps,
		Jobs:           jobs,
		Users:          users,
		Companies:      companies,
		Store:          store,
		Events:         bus,
		Log:            log,
		MaxResumeBytes: cfg.MaxResumeBytes,
	})
	resumeSvc := services.NewResumeService(model, log)

	deps := routes.Deps{
		Tokens:      tokens,
		Auth:        handlers.NewAuthHandler(userSvc),
		Profile:     handlers.NewProfileHandler(profileSvc),
		Jobs:        handlers.NewJobHandler(jobSvc),
		Companies:   handlers.NewCompanyHandler(companySvc),
		Application: handlers.NewApplicationHandler(appSvc),
		Resume:      handlers.NewResumeHandler(resumeSvc),
		WS:          handlers.NewWSHandler(appSvc, bus, cfg.CORSOrigins, log),
	}
	if counter != nil {
		deps.ParseLimit = middleware.RateLimit(counter, "parse_resume", cfg.ParseRateLimit, time.Minute, log)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	// multipart overhead on top of the largest accepted resume
	r.Use(middleware.MaxBodySize(cfg.MaxResumeBytes + 1<<20))
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := config.CloseMongo(shutdownCtx); err != nil {
		log.WithError(err).Error("mongo disconnect")
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
}

func newLLM(ctx context.Context, c config.LLMConfig) (llm.Provider, error) {
	switch c.Provider {
	case "vertex":
		model := c.Model
		if model == "" {
			model = "gemini-1.5-flash"
		}
		return llm.NewVertexGemini(ctx, c.ProjectID, c.Location, model, c.CredentialsFile)
	default:
		return llm.NewOpenAI(c.APIKey, c.Model)
	}
}
