package main

import (
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/mgomes/okaylib/ok"
)

// cliConfig is read from the environment before any subcommand runs.
type cliConfig struct {
	HistoryLimit int    `env:"OK_HISTORY_LIMIT" envDefault:"200"`
	Verbose      bool   `env:"OK_VERBOSE" envDefault:"false"`
	SampleSeed   uint64 `env:"OK_SAMPLE_SEED" envDefault:"0"`
}

func loadConfig() (cliConfig, error) {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		return cliConfig{}, fmt.Errorf("OK_HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}

// traceLogger writes class resolution traces to stderr.
func traceLogger() *log.Logger {
	return log.New(os.Stderr, "ok: ", log.Ltime)
}

func (c cliConfig) newFactory() (*ok.Factory, error) {
	var cfg ok.Config
	if c.Verbose {
		cfg.Logf = traceLogger().Printf
	}
	f, err := ok.NewFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("build factory: %w", err)
	}
	return f, nil
}
