// Command example serves articles addressed by slug. Slugs are derived from
// the title, kept unique in Postgres and mirrored to a Redis index that
// answers availability checks.
package main

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/middlewares"
	"github.com/dmitrymomot/sluggable/pkg/config"
	"github.com/dmitrymomot/sluggable/pkg/db"
	"github.com/dmitrymomot/sluggable/pkg/health"
	"github.com/dmitrymomot/sluggable/pkg/logger"
	"github.com/dmitrymomot/sluggable/pkg/redis"
	"github.com/dmitrymomot/sluggable/store/postgres"
	"github.com/dmitrymomot/sluggable/store/redisindex"
)

//go:embed migrations/*.sql
var migrations embed.FS

//go:embed slugs.yaml
var slugsFile embed.FS

type appConfig struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Log             logger.Config
	DB              db.Config
	Redis           redis.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log, logger.RequestIDExtractor(), logger.CollectionExtractor())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	f, err := slugsFile.Open("slugs.yaml")
	if err != nil {
		return err
	}
	registry, err := sluggable.LoadRegistry(f)
	_ = f.Close()
	if err != nil {
		return err
	}
	opts, err := registry.Lookup("articles")
	if err != nil {
		return err
	}

	pool, err := db.Open(ctx, cfg.DB.URL, cfg.DB.Options()...)
	if err != nil {
		return err
	}
	defer func() { _ = db.Shutdown(pool)(context.Background()) }()

	if err := db.Migrate(ctx, pool, migrations, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	rdb, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redis.Shutdown(rdb)(context.Background()) }()

	store := postgres.New(pool, "articles",
		postgres.WithSlugConstraint("articles_slug_key"),
		postgres.WithColumns("title", "subtitle", "slug", "slug_custom"),
		postgres.WithLogger(log),
	)
	store.SetSlugger(sluggable.New(store, sluggable.WithDefaultOptions(opts), sluggable.WithLogger(log)))

	h := &articles{
		store: store,
		index: redisindex.New(rdb, "articles", redisindex.WithLogger(log)),
		opts:  opts,
		log:   log,
	}

	r := chi.NewRouter()
	r.Use(middlewares.RequestID(), middlewares.Recover(log))
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
		"postgres": db.Healthcheck(pool),
		"redis":    redis.Healthcheck(rdb),
	}, health.WithLogger(log)))
	r.Route("/articles", func(r chi.Router) {
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Get("/{slug}", h.show)
		r.Get("/{slug}/availability", h.availability)
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
