package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskwise/api/handler"
	"github.com/fastygo/taskwise/internal/config"
	"github.com/fastygo/taskwise/internal/infrastructure/monitor"
	"github.com/fastygo/taskwise/internal/middleware"
	"github.com/fastygo/taskwise/internal/router"
	"github.com/fastygo/taskwise/internal/services/lifecycle"
	"github.com/fastygo/taskwise/pkg/httpcontext"
	"github.com/fastygo/taskwise/pkg/logger"
	"github.com/fastygo/taskwise/repository/kv"
	authUC "github.com/fastygo/taskwise/usecase/auth"
	taskUC "github.com/fastygo/taskwise/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Listen(context.Background())
	defer stop()

	store, err := openStorage(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.RegisterCloser("storage", store.Close)

	mon := monitor.New(cfg.Storage.Driver, store, cfg.Monitor.Interval, zapLogger)
	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor failed to start", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	taskStore := kv.NewTaskStore(store, cfg.Storage.Namespace, zapLogger)
	userRepo := kv.NewUserRepository(store, cfg.Storage.Namespace, zapLogger)

	workspace := taskUC.NewWorkspace(taskStore, taskUC.Options{Logger: zapLogger})

	sweeper := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.Workspace.SweepInterval), func() {
		workspace.EvictIdle(cfg.Workspace.IdleTTL)
	}); err != nil {
		zapLogger.Fatal("workspace sweeper failed to start", zap.Error(err))
	}
	sweeper.Start()
	manager.Register("workspace_sweeper", func(ctx context.Context) error {
		<-sweeper.Stop().Done()
		return nil
	})
	authUseCase := authUC.New(userRepo, workspace, authUC.Options{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
		Logger:   zapLogger,
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	clock := func() time.Time { return time.Now().In(cfg.Location) }

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(authUseCase, workspace, clock, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(workspace, clock, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(workspace, clock, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	requireUser := middleware.JWTAuth(authUseCase, zapLogger)
	taskAuth := requireUser
	if cfg.Auth.AllowGuest {
		taskAuth = middleware.OptionalJWTAuth(authUseCase, zapLogger)
	}
	r := router.New(handlers, requireUser, taskAuth)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("allow_guest", cfg.Auth.AllowGuest),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
