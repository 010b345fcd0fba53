package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/libris/internal/config"
	"github.com/kailas-cloud/libris/internal/db"
	dbPostgres "github.com/kailas-cloud/libris/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/libris/internal/db/redis"
	"github.com/kailas-cloud/libris/internal/domain"
	logpkg "github.com/kailas-cloud/libris/internal/logger"
	"github.com/kailas-cloud/libris/internal/metrics"
	bookrepo "github.com/kailas-cloud/libris/internal/repository/book"
	"github.com/kailas-cloud/libris/internal/repository/catalog"
	"github.com/kailas-cloud/libris/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/libris/internal/transport/openai"
	searchuc "github.com/kailas-cloud/libris/internal/usecase/search"
)

// loadEnvFile populates the process environment from --env-file before config expansion.
// Variables already set win over the file.
func loadEnvFile(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("env-file")
	if path == "" {
		return ctx, nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ctx, nil
		}
		return ctx, fmt.Errorf("load env file %s: %w", path, err)
	}
	return ctx, nil
}

// app is the composition root shared by all subcommands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  db.Store
	index  *catalog.Manager
	books  *bookrepo.Repo

	// docEmbedder and queryEmbedder are nil when no embedding model is configured.
	docEmbedder   domain.Embedder
	queryEmbedder domain.Embedder
}

// newApp loads config, builds the logger and connects to the store.
func newApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	env := cmd.String("env")
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, logpkg.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.Strings("addrs", cfg.Database.Addrs),
	)

	def, err := catalog.Definition(catalogOptions(cfg.Index))
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{
		env:    env,
		cfg:    cfg,
		logger: logger,
		store:  store,
		index:  catalog.NewManager(store, def),
		books:  bookrepo.New(store, def),
	}

	if cfg.Embedding.Enabled() {
		metrics.RegisterEmbeddingMetrics()
		if a.docEmbedder, err = buildEmbedder(cfg.Embedding, cfg.Embedding.DocumentInstruction, store, logger); err != nil {
			a.close()
			return nil, err
		}
		if a.queryEmbedder, err = buildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, store, logger); err != nil {
			a.close()
			return nil, err
		}
		logger.Info("Embedders created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Info("Embedding disabled, search is lexical-only")
	}

	return a, nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case config.DriverPostgres:
		store, err = dbPostgres.NewStore(ctx, dbPostgres.Config{
			DSN:      cfg.DSN,
			MaxConns: cfg.MaxConns,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}
	return store, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// The instruction is outermost so cache keys include it.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	instruction string,
	store db.KVStore,
	logger *zap.Logger,
) (domain.Embedder, error) {
	base, err := openaiEmb.NewEmbedder(openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	cached := embcache.New(base, store, embcache.Options{
		Namespace:  cfg.Model,
		TTL:        time.Duration(cfg.CacheTTLSec) * time.Second,
		Dimensions: cfg.Dimensions,
	}, metrics.EmbeddingCacheTotal, logger)
	return domain.NewInstructionEmbedder(cached, instruction), nil
}

func catalogOptions(cfg config.IndexConfig) catalog.Options {
	return catalog.Options{
		Name:           cfg.Name,
		Dimensions:     cfg.Dimensions,
		Distance:       db.DistanceMetric(strings.ToUpper(cfg.Distance)),
		M:              cfg.HNSWM,
		EFConstruction: cfg.HNSWEFConstruct,
	}
}

func searchConfig(cfg config.SearchConfig) searchuc.Config {
	return searchuc.Config{
		Boosts: cfg.Boosts,
		Fusion: searchuc.FusionConfig{
			TextK:   cfg.KText,
			VectorK: cfg.KVector,
		},
		NumCandidates:       cfg.NumCandidates,
		CandidateMultiplier: cfg.CandidateMultiplier,
		SemanticFailure:     searchuc.FailurePolicy(cfg.SemanticFailure),
	}
}

func newSearchService(a *app) (*searchuc.Service, error) {
	sc := searchConfig(a.cfg.Search)
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("search config: %w", err)
	}
	return searchuc.New(a.books, sc), nil
}

// stdout returns the root command's writer, os.Stdout when unset.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func printf(cmd *cli.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(stdout(cmd), format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
