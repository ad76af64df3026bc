package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	cronrunner "tradejournal/internal/cron"
	"tradejournal/internal/db"
	"tradejournal/internal/email"
	"tradejournal/internal/handler"
	"tradejournal/internal/llm"
	"tradejournal/internal/logger"
	"tradejournal/internal/marketdata"
	"tradejournal/internal/metrics"
	"tradejournal/internal/report"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"
	"tradejournal/internal/storage"

	_ "tradejournal/docs"
)

func main() {
	cfgPath := os.Getenv("TJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TJ_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
	}

	reportLoc, err := time.LoadLocation(cfg.Reports.Timezone)
	if err != nil {
		logger.Fatal("invalid reports timezone", zap.String("timezone", cfg.Reports.Timezone), zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	mtr := metrics.New()
	sanitizer := report.NewSanitizer()
	prefsURL := strings.TrimRight(cfg.App.PublicURL, "/") + "/settings"

	mailer := &email.Client{
		BaseURL: cfg.Email.BaseURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
		HTTP:    &http.Client{Timeout: cfg.Email.Timeout},
	}
	objects := &storage.Client{
		BaseURL: cfg.Storage.BaseURL,
		APIKey:  cfg.Storage.APIKey,
		Bucket:  cfg.Storage.Bucket,
		HTTP:    &http.Client{Timeout: cfg.Storage.Timeout},
	}
	llmClient := llm.New(cfg.LLM)
	market := marketdata.New(cfg.MarketData)
	if !mailer.Configured() {
		logger.Warn("email api key missing; sends will fail")
	}
	if !llmClient.Enabled() {
		logger.Info("llm disabled; reasoning uses templates")
	}

	tradeSvc := &service.TradeService{Repo: store, Logger: logger}
	tdaSvc := &service.TDAService{
		Repo:           store,
		Storage:        objects,
		LLM:            llmClient,
		Mailer:         mailer,
		Sanitizer:      sanitizer,
		Metrics:        mtr,
		Logger:         logger,
		MaxUploadBytes: cfg.Storage.MaxMB << 20,
	}
	if market.Enabled() {
		tdaSvc.Market = market
	}
	reportSvc := &service.ReportService{
		Repo:             store,
		Mailer:           mailer,
		Sanitizer:        sanitizer,
		Metrics:          mtr,
		Logger:           logger,
		Location:         reportLoc,
		PreferencesURL:   prefsURL,
		WorkbookPassword: cfg.Reports.WorkbookPassword,
	}
	announceSvc := &service.AnnouncementService{
		Repo:           store,
		Mailer:         mailer,
		Sanitizer:      sanitizer,
		Metrics:        mtr,
		Logger:         logger,
		BatchSize:      cfg.Email.BatchSize,
		PreferencesURL: prefsURL,
	}
	messageSvc := &service.MessageService{Repo: store, Logger: logger}
	profileSvc := &service.ProfileService{Repo: store}
	healthSvc := &service.HealthService{Probes: map[string]service.Pinger{
		"database":    store,
		"email":       optional(mailer.Configured(), mailer),
		"storage":     optional(objects.Configured(), objects),
		"llm":         optional(llmClient.Enabled(), llmClient),
		"market_data": optional(market.Enabled(), market),
	}}

	gate := &auth.Gate{
		JWT:        auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), Issuer: cfg.Auth.Issuer},
		CookieName: cfg.Auth.CookieName,
		Profiles:   store,
		Logger:     logger,
		Disabled:   cfg.Auth.Disabled,
		DevPrincipal: auth.Principal{
			UserID: cfg.Auth.DevUserID,
			Email:  cfg.Auth.DevUserMail,
		},
	}
	if gate.Disabled {
		logger.Warn("auth disabled; every request runs as the dev user", zap.String("user_id", cfg.Auth.DevUserID))
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORS(cfg.App.AllowedOrigins))
	engine.Use(handler.RequestContext(logger))
	engine.Use(mtr.Middleware())
	if cfg.RateLimit.Enabled {
		engine.Use(handler.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	healthHandler := &handler.HealthHandler{DB: store, Deps: healthSvc}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	engine.GET("/metrics", gin.WrapH(mtr.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group("/api", gate.Require())
	healthHandler.RegisterDependencies(api)
	(&handler.ProfileHandler{Profiles: profileSvc}).Register(api)
	(&handler.TradeHandler{Trades: tradeSvc}).Register(api)
	(&handler.TDAHandler{TDA: tdaSvc}).Register(api)
	(&handler.MessageHandler{Messages: messageSvc}).Register(api)
	reportHandler := &handler.ReportHandler{Reports: reportSvc}
	reportHandler.Register(api)
	(&handler.AdminHandler{TDA: tdaSvc, Announcements: announceSvc}).Register(api.Group("", gate.RequireAdmin()))
	reportHandler.RegisterCron(engine, auth.CronSecret(cfg.Auth.CronSecret))

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cronRunner *cronrunner.Runner
	if cfg.Cron.Enabled {
		cronRunner = cronrunner.New(logger, ctx, reportLoc)
		if err := cronRunner.AddReportJobs(cfg.Cron, reportSvc); err != nil {
			logger.Fatal("cron register report jobs failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// optional leaves unconfigured dependencies out of the probe.
func optional(enabled bool, p service.Pinger) service.Pinger {
	if !enabled {
		return nil
	}
	return p
}
