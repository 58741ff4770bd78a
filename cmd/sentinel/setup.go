package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/sentinel/internal/config"
	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/analyzer"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
	"github.com/sandevgo/sentinel/internal/service/state"
	"github.com/sandevgo/sentinel/internal/service/truth"
	"github.com/sandevgo/sentinel/internal/storage/memory"
	"github.com/sandevgo/sentinel/internal/storage/sqlite"
	"github.com/sandevgo/sentinel/pkg/log"
	"github.com/sandevgo/sentinel/pkg/token"
)

// app is the wired core shared by every command.
type app struct {
	cfg      *config.AppConfig
	db       *sql.DB
	lex      *lexicon.Lexicon
	truths   *truth.Store
	ingests  core.IngestRepository
	analyzer *analyzer.Analyzer
	state    *state.Service
}

func newApp(ctx context.Context) (*app, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	cfg := config.NewAppConfig(ctx)

	lex, err := lexicon.Load(cfg.GetLexiconPath())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, lex: lex}
	facts, err := a.initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a.truths = truth.NewStore(facts)
	a.analyzer = analyzer.NewAnalyzer(lex, a.truths, a.ingests, token.NewTruncator(cfg.GetSituationMaxTokens()))
	a.state = state.NewService(cfg.GetOrgID(), a.truths, a.ingests)
	return a, nil
}

func (a *app) initStorage(ctx context.Context) (core.FactRepository, error) {
	logger := log.FromCtx(ctx)

	switch a.cfg.Storage {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, nothing will be persisted")
		facts := memory.NewFactRepo()
		a.ingests = memory.NewIngestRepo(facts)
		return facts, nil
	case config.StorageSQLite:
		db, err := sqlite.NewDB(ctx, a.cfg.DBDriver, a.cfg.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		a.db = db
		a.ingests = sqlite.NewIngestRepo(db, a.cfg.GetOrgID())
		return sqlite.NewFactRepo(db, a.cfg.GetOrgID()), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", a.cfg.Storage)
	}
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
