package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"opportunity-matcher/internal/config"
	"opportunity-matcher/internal/database"
	"opportunity-matcher/internal/database/migration"
	dbpostgres "opportunity-matcher/internal/database/postgres"
	dbsqlite "opportunity-matcher/internal/database/sqlite"
	"opportunity-matcher/internal/digest"
	"opportunity-matcher/internal/docstore"
	"opportunity-matcher/internal/domain/catalog"
	"opportunity-matcher/internal/domain/matching"
	"opportunity-matcher/internal/infrastructure/cache"
	"opportunity-matcher/internal/infrastructure/textgen"
	"opportunity-matcher/internal/pkg/jwt"
	"opportunity-matcher/internal/repository"
	"opportunity-matcher/internal/usecase"
	"opportunity-matcher/internal/ws"
)

// Container owns every long-lived dependency of the service. Both the HTTP
// server and the operator CLI build one.
type Container struct {
	Config config.Config
	Logger zerolog.Logger

	DB    database.DB
	Cache *cache.Redis
	Store docstore.Store
	Stats *usecase.Stats

	ProfileRepo     *repository.DocProfileRepository
	OpportunityRepo *repository.DocOpportunityRepository

	Catalog       *catalog.Catalog
	Profiles      *usecase.ProfileService
	Opportunities *usecase.OpportunityService
	Ranker        *usecase.Ranker
	Summary       *usecase.SummaryService

	Hub    *ws.Hub
	JWT    jwt.Service
	Digest *digest.Service
}

func NewContainer(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Stats: usecase.NewStats()}

	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.DB = db

	if cfg.Redis.Enabled {
		c.Cache = cache.NewRedis(cfg.Redis, logger.With().Str("component", "cache").Logger())
		store = docstore.NewCached(store, c.Cache, c.Cache.TTL(), logger)
	}
	c.Store = store

	c.Catalog, err = catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info().Int("templates", c.Catalog.Len()).Str("path", cfg.Catalog.Path).Msg("catalog loaded")

	c.ProfileRepo = repository.NewDocProfileRepository(store)
	c.OpportunityRepo = repository.NewDocOpportunityRepository(store)
	activityRepo := repository.NewDocActivityRepository(store)

	c.Hub = ws.NewHub(logger.With().Str("component", "ws").Logger())

	c.Profiles = usecase.NewProfileService(c.ProfileRepo, activityRepo, c.Stats, logger)
	c.Opportunities = usecase.NewOpportunityService(c.OpportunityRepo, activityRepo, c.Hub, c.Stats, logger)
	c.Ranker = usecase.NewRanker(c.Profiles, c.Opportunities, c.Catalog, usecase.RankerOptions{
		Jitter:         newJitter(cfg.Match),
		ActivityWindow: cfg.Match.ActivityWindow,
		BatchWorkers:   cfg.Digest.Workers,
		DefaultTopK:    cfg.Match.DefaultTopK,
		RecommendTopK:  cfg.Match.RecommendTopK,
	}, logger)

	var generator usecase.TextGenerator
	tg, err := textgen.New(cfg.TextGen, logger.With().Str("component", "textgen").Logger())
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if tg != nil {
		generator = tg
	}
	c.Summary = usecase.NewSummaryService(c.Ranker, generator, logger)

	if cfg.Auth.Enabled() {
		c.JWT = jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	var locker digest.Locker
	if c.Cache != nil {
		locker = c.Cache
	}
	c.Digest = digest.NewService(c.Ranker, c.OpportunityRepo, c.ProfileRepo, c.Hub, locker, digest.Options{
		Schedule: cfg.Digest.Schedule,
		TopK:     cfg.Digest.TopK,
	}, logger.With().Str("component", "digest").Logger())

	return c, nil
}

func newJitter(cfg config.MatchConfig) matching.Jitter {
	if !cfg.JitterEnabled {
		return matching.NoJitter{}
	}
	return matching.NewRandomJitter(cfg.JitterSeed)
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (docstore.Store, database.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	var (
		db  database.DB
		err error
	)
	switch driver {
	case "memory":
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return docstore.NewMemory(), nil, nil
	case "sqlite":
		if dir := filepath.Dir(cfg.Store.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err = dbsqlite.Open(ctx, cfg.Store.SQLitePath)
	case "postgres":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err = dbpostgres.Connect(connectCtx, cfg.Database)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	runner, err := migration.ForDialect(db.Dialect())
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s store: %w", driver, err)
	}

	logger.Info().Str("driver", driver).Msg("document store ready")
	return docstore.NewSQL(db), db, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Digest != nil {
		c.Digest.Stop()
	}
	var firstErr error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
