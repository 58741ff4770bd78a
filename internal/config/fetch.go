package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/sentinel/pkg/log"
)

type FetchConfig struct {
	Timeout    time.Duration `env:"SENTINEL_FETCH_TIMEOUT" envDefault:"15s"`
	MaxRetries int           `env:"SENTINEL_FETCH_RETRIES" envDefault:"3"`
}

func NewFetchConfig(ctx context.Context) *FetchConfig {
	c := &FetchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Fetch config")
	}
	return c
}
