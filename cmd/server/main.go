package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/buffer"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskboard/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskboard/internal/infrastructure/redis"
	"github.com/fastygo/taskboard/internal/middleware"
	"github.com/fastygo/taskboard/internal/router"
	"github.com/fastygo/taskboard/internal/services"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/locale"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository/postgres"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	authUC "github.com/fastygo/taskboard/usecase/auth"
	preferenceUC "github.com/fastygo/taskboard/usecase/preference"
	profileUC "github.com/fastygo/taskboard/usecase/profile"
	statisticsUC "github.com/fastygo/taskboard/usecase/statistics"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

func main() {
	flags := pflag.NewFlagSet("taskboard", pflag.ExitOnError)
	envFile := flags.StringP("env-file", "e", ".env", "file with environment overrides")
	migrateOnly := flags.Bool("migrate-only", false, "apply database migrations and exit")
	hashPassword := flags.String("hash-password", "", "print the bcrypt hash of a password and exit")
	_ = flags.Parse(os.Args[1:])

	if *hashPassword != "" {
		hash, err := authUC.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("hash error: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if err := pgInfra.RunMigrations(cfg, *migrateOnly, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}
	if *migrateOnly {
		return
	}

	defaultLocale, err := locale.Lookup(cfg.Dashboard.Locale)
	if err != nil {
		zapLogger.Fatal("invalid dashboard locale", zap.Error(err))
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, cfg.Buffer.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool.Ping, redisInfra.Ping(redisClient), bufferStore, 10*time.Second, zapLogger)

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	statisticRepo := postgres.NewStatisticRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.RefreshTTL)
	statisticCache := redisRepo.NewStatisticCache(redisClient, cfg.Dashboard.StatisticTTL)
	preferenceRepo := redisRepo.NewPreferenceRepository(redisClient)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		userRepo,
		taskRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferBridge := services.NewBufferBridge(bufferProcessor)

	location := cfg.Dashboard.Location()
	taskUseCase, err := taskUC.New(taskRepo, userRepo, bufferBridge, taskUC.Config{
		Location:      location,
		FetchLimit:    cfg.Dashboard.TaskFetchLimit,
		SnapshotSlots: cfg.Dashboard.SnapshotSlots,
		MemoSize:      cfg.Dashboard.MemoSize,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("task views init failed", zap.Error(err))
	}
	statisticsUseCase, err := statisticsUC.New(statisticRepo, statisticCache, statisticsUC.Config{
		Location:      location,
		SnapshotSlots: cfg.Dashboard.SnapshotSlots,
		MemoSize:      cfg.Dashboard.MemoSize,
		KpiCacheSize:  cfg.Dashboard.KpiCacheSize,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("statistic views init failed", zap.Error(err))
	}
	authUseCase := authUC.New(userRepo, sessionRepo, authUC.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, zapLogger)
	profileUseCase := profileUC.New(userRepo, bufferBridge, zapLogger)
	preferenceUseCase := preferenceUC.New(preferenceRepo, zapLogger)

	// Task writes change the counters behind the statistic table.
	taskUseCase.OnChange(statisticsUseCase.Refresh)
	bufferProcessor.OnApplied(func(item buffer.Item) {
		if item.Entity != buffer.EntityTask {
			return
		}
		taskUseCase.Invalidate()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		statisticsUseCase.Refresh(ctx)
	})
	mon.OnReconnect(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Buffer.SyncInterval)
			defer cancel()
			if err := bufferProcessor.Drain(ctx); err != nil {
				zapLogger.Error("buffer drain after reconnect failed", zap.Error(err))
			}
		}()
	})

	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})
	warmer := services.NewStatisticWarmer(statisticsUseCase, mon, cfg.Dashboard.WarmupInterval, zapLogger)
	warmer.Start()
	manager.Register("statistic_warmer", func(ctx context.Context) error {
		warmer.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout, defaultLocale)
	pageSize := cfg.Dashboard.DefaultPageSize

	handlers := router.Handlers{
		Auth:        apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, defaultLocale),
		Profile:     apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger, defaultLocale),
		Task:        apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger, defaultLocale, pageSize),
		Statistics:  apiHandler.NewStatisticsHandler(statisticsUseCase, ctxAdapter, zapLogger, defaultLocale, pageSize),
		Preferences: apiHandler.NewPreferenceHandler(preferenceUseCase, ctxAdapter, zapLogger, defaultLocale),
		Health: apiHandler.NewHealthHandler(mon, map[string]apiHandler.MemoSource{
			"tasks":      taskUseCase,
			"statistics": statisticsUseCase,
		}, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, router.Middlewares{
		Auth:         middleware.JWTAuth(authUseCase, zapLogger),
		OptionalAuth: middleware.OptionalJWTAuth(authUseCase, zapLogger),
	})

	server := &fasthttp.Server{
		Handler:            middleware.AccessLog(zapLogger)(r.Handler),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 1 << 20,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("locale", defaultLocale.Tag.String()),
			zap.String("timezone", location.String()))
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
