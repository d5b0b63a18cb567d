package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/swaply-web/internal/config"
	"github.com/MrSnakeDoc/swaply-web/internal/domain"
	"github.com/MrSnakeDoc/swaply-web/internal/handoff"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver"
	"github.com/MrSnakeDoc/swaply-web/internal/httpserver/deps"
	"github.com/MrSnakeDoc/swaply-web/internal/logger"
	"github.com/MrSnakeDoc/swaply-web/internal/qr"
	"github.com/MrSnakeDoc/swaply-web/internal/redis"
	"github.com/MrSnakeDoc/swaply-web/internal/resetbridge"
	"github.com/MrSnakeDoc/swaply-web/internal/scheduler"
	"github.com/MrSnakeDoc/swaply-web/internal/sources/site"
	"github.com/MrSnakeDoc/swaply-web/internal/store/memory"
	"github.com/MrSnakeDoc/swaply-web/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/swaply-web/internal/store/redis"
	"github.com/MrSnakeDoc/swaply-web/internal/utils"
	"github.com/MrSnakeDoc/swaply-web/internal/version"
	"github.com/MrSnakeDoc/swaply-web/internal/web"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    domain.ListingStore
	seeder   *scheduler.Seeder
	reloader *scheduler.ContentReloader
	closers  []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a := &App{cfg: cfg, logger: loggerClient}

	// Listing backend, fail fast if unavailable
	store, err := a.openStore(context.Background())
	if err != nil {
		loggerClient.Errorf("Failed to open %s listing store: %v", cfg.Backend, err)
		os.Exit(1)
	}
	a.store = store
	loggerClient.Info("listing store initialized", logger.String("backend", store.Name()))

	if cfg.SeedFile != "" {
		a.seeder = scheduler.NewSeeder(cfg.SeedFile, store, loggerClient)
	}

	links := handoff.NewLinks(cfg.SiteURL)
	links.Scheme = cfg.AppScheme
	links.Package = cfg.AndroidPackage

	engine := handoff.NewEngine(links, cfg.Timings, loggerClient)
	bridge := resetbridge.NewBridge(links, cfg.Timings, loggerClient)

	holder := site.NewHolder(nil)

	// Manual reload only makes sense with a content file to re-read
	var reloadTrigger chan struct{}
	if cfg.ContentFile != "" {
		reloadTrigger = make(chan struct{}, 1)
	} else {
		loggerClient.Info("content file not configured, manual reload disabled")
	}
	a.reloader = scheduler.NewContentReloader(
		cfg.ContentFile,
		holder,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	pages, err := web.NewRenderer()
	if err != nil {
		loggerClient.Errorf("Failed to parse page templates: %v", err)
		os.Exit(1)
	}

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
		SiteURL:       cfg.SiteURL,
		Store:         store,
		Engine:        engine,
		Bridge:        bridge,
		Content:       holder,
		Pages:         pages,
		QR:            qr.NewGenerator(cfg.QRSize, cfg.QRLevel),
		ReloadTrigger: reloadTrigger,
		ReloadStatus:  a.reloader.Status,
	}

	a.server = httpserver.New(cfg, loggerClient, d)

	return a
}

// openStore connects the configured listing backend and registers what has
// to be closed on shutdown.
func (a *App) openStore(ctx context.Context) (domain.ListingStore, error) {
	cfg := a.cfg

	switch cfg.Backend {
	case config.BackendRedis:
		a.logger.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Retry:        cfg.Retry(),
		}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, namedCloser{name: "redis", c: client})
		return redisstore.NewStore(client), nil

	case config.BackendPostgres:
		a.logger.Info("Connecting to Postgres")
		store, err := postgres.Open(ctx, postgres.Config{
			URL:      cfg.PostgresURL,
			MaxConns: cfg.PostgresMaxConns,
		}, cfg.Retry(), a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, namedCloser{name: "postgres", c: utils.CloseFunc(store.Close)})
		return store, nil

	default:
		return memory.NewStore(), nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Swaply web v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Swaply web %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.seeder != nil {
		n, err := a.seeder.Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed listings: %w", err)
		}
		a.logger.Info("seed file applied", logger.Int("listings", n))
	}

	// Start content reloader (loads site.yaml and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start content reloader: %w", err)
	}
	a.logger.Info("content reloader started",
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
		a.close()
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.close()

	a.logger.Info("✅ Swaply web stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) close() {
	for _, nc := range a.closers {
		utils.CloseLogged(nc.c, nc.name, a.logger)
	}
}
