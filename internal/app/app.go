package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bang/internal/command"
	"github.com/MrSnakeDoc/bang/internal/config"
	"github.com/MrSnakeDoc/bang/internal/directory"
	"github.com/MrSnakeDoc/bang/internal/fetch"
	"github.com/MrSnakeDoc/bang/internal/httpserver"
	"github.com/MrSnakeDoc/bang/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bang/internal/logger"
	"github.com/MrSnakeDoc/bang/internal/ratelimit"
	"github.com/MrSnakeDoc/bang/internal/redis"
	"github.com/MrSnakeDoc/bang/internal/resolve"
	"github.com/MrSnakeDoc/bang/internal/scheduler"
	"github.com/MrSnakeDoc/bang/internal/secretary"
	storage "github.com/MrSnakeDoc/bang/internal/store/redis"
	"github.com/MrSnakeDoc/bang/internal/tasks"
	"github.com/MrSnakeDoc/bang/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.DirectoryReloader
	tasks       *tasks.Runner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := storage.NewStore(redisClient)

	sec, err := secretary.New(cfg.SessionSecret)
	if err != nil {
		loggerClient.Errorf("Failed to initialize cookie sealing: %v", err)
		os.Exit(1)
	}

	// Curated bang directory + its reloader
	dir := directory.New()
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewDirectoryReloader(
		cfg.BangFile,
		dir,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	runner := tasks.NewRunner(loggerClient)

	limiter := ratelimit.New(ratelimit.Config{
		FreeSearches:   cfg.FreeSearches,
		DelayIncrement: cfg.DelayIncrement,
		MaxDelay:       cfg.MaxDelay,
		WarnEvery:      cfg.WarnEvery,
	})

	commands := command.New(command.Deps{
		Repo:    store,
		Fetcher: fetch.NewTitleFetcher(cfg.TitleFetchTimeout),
		Tasks:   runner,
		Logger:  loggerClient,
	})

	router := resolve.NewRouter(resolve.Config{
		Store:            store,
		Directory:        dir,
		Commands:         commands,
		Limiter:          limiter,
		Tasks:            runner,
		Logger:           loggerClient,
		DefaultSearchURL: cfg.DefaultSearchURL,
	})

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		RedisClient:   redisClient,
		Store:         store,
		Directory:     dir,
		Router:        router,
		Limiter:       limiter,
		Secretary:     sec,
		CookieName:    cfg.CookieName,
		SessionTTL:    cfg.SessionTTL,
		StartURL:      cfg.StartURL,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		tasks:       runner,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Bang v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Bang %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start directory reloader (loads bangs.yaml and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start directory reloader: %w", err)
	}
	a.logger.Info("directory reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Let detached title fetches and usage bumps finish.
	a.tasks.Wait()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Bang stopped cleanly")
	return nil
}
