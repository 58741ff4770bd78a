package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/sentinel/pkg/log"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"

	// DriverCGO is github.com/mattn/go-sqlite3, DriverPure is modernc.org/sqlite.
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

type AppConfig struct {
	RuntimePath string `env:"SENTINEL_RUNTIME_PATH" envDefault:".sentinel"`

	Storage  string `env:"SENTINEL_STORAGE" envDefault:"sqlite"`
	DBDriver string `env:"SENTINEL_DB_DRIVER" envDefault:"sqlite3"`
	DBPath   string `env:"SENTINEL_DB_PATH"`

	// All truths, ingests and conflicts are scoped to one organisation.
	OrgID int64 `env:"SENTINEL_ORG_ID" envDefault:"1"`

	LexiconPath        string `env:"SENTINEL_LEXICON_PATH"`
	SituationMaxTokens int    `env:"SENTINEL_SITUATION_MAX_TOKENS" envDefault:"0"`

	EnableTelegram bool `env:"SENTINEL_ENABLE_TELEGRAM" envDefault:"false"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.RuntimePath, "sentinel.db")
}

func (c AppConfig) GetOrgID() int64 {
	return c.OrgID
}

func (c AppConfig) GetLexiconPath() string {
	return c.LexiconPath
}

func (c AppConfig) GetSituationMaxTokens() int {
	return c.SituationMaxTokens
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
