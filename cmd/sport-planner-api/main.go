package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sport-planner-api/api/swagger"
	"github.com/noah-isme/sport-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sport-planner-api/internal/middleware"
	"github.com/noah-isme/sport-planner-api/internal/repository"
	"github.com/noah-isme/sport-planner-api/internal/service"
	"github.com/noah-isme/sport-planner-api/pkg/cache"
	"github.com/noah-isme/sport-planner-api/pkg/config"
	"github.com/noah-isme/sport-planner-api/pkg/database"
	"github.com/noah-isme/sport-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sport-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sport-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/sport-planner-api/pkg/sanitize"
)

// @title Sport Planner API
// @version 1.0.0
// @description Day agenda aggregation and fair call order for extra sport moments
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc := cfg.Facility.Location()
	if cfg.Facility.Timezone != "" && loc.String() != cfg.Facility.Timezone {
		logr.Warn("facility time zone not found, falling back", zap.String("configured", cfg.Facility.Timezone), zap.String("using", loc.String()))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, loc.String())
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	cacheSvc, closeCache := buildCache(ctx, cfg, metrics, logr)
	defer closeCache()

	router := buildRouter(cfg, db, cacheSvc, metrics, loc, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildCache(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.CacheService, func()) {
	disabled := service.NewCacheService(nil, metrics, cfg.Groups.CacheTTL, logr, false)
	if !cfg.Groups.CacheEnabled {
		return disabled, func() {}
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, group catalog cache disabled", zap.Error(err))
		return disabled, func() {}
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metrics, cfg.Groups.CacheTTL, logr, true), func() {
		if err := repo.Close(); err != nil {
			logr.Warn("closing redis", zap.Error(err))
		}
	}
}

func buildRouter(cfg *config.Config, db *sqlx.DB, cacheSvc *service.CacheService, metrics *service.MetricsService, loc *time.Location, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	groupRepo := repository.NewGroupRepository(db)
	templateRepo := repository.NewScheduleTemplateRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	groupSvc := service.NewGroupService(groupRepo, cacheSvc, cfg.Groups.CacheTTL, logr)
	agendaSvc := service.NewAgendaService(service.AgendaServiceParams{
		Groups:    groupSvc,
		Templates: templateRepo,
		Sessions:  sessionRepo,
		Constraints: []service.ConstraintSource{
			repository.NewRestrictionRepository(db),
			repository.NewMutationRepository(db),
			repository.NewIndicationRepository(db),
		},
		Sanitizer: sanitize.NewTextSanitizer(),
		Metrics:   metrics,
		Logger:    logr,
		Location:  loc,
	})
	weights := service.ScoreWeights{Extra: cfg.Ranking.ExtraWeight, Missed: cfg.Ranking.MissedWeight}
	prioritySvc := service.NewPriorityService(groupSvc, sessionRepo, weights, metrics, loc, logr)
	sessionSvc := service.NewSessionService(sessionRepo, groupSvc, validator.New(), logr)

	clock := handler.Clock(time.Now)
	callOrder := handler.NewCallOrderHandler(prioritySvc, nil, loc, clock)
	if cfg.Exports.Enabled {
		callOrder = handler.NewCallOrderHandler(prioritySvc, service.NewExportService(prioritySvc, logr, nil, nil), loc, clock)
	}

	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes := handler.Routes{
		Groups:    handler.NewGroupHandler(groupSvc),
		Agenda:    handler.NewAgendaHandler(agendaSvc, clock),
		Sessions:  handler.NewSessionHandler(sessionSvc),
		CallOrder: callOrder,
		Logger:    logr,
	}
	routes.Register(r.Group(cfg.APIPrefix), internalmiddleware.JWT(service.NewTokenVerifier(cfg.JWT.Secret)))

	return r
}
