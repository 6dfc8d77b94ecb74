// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads creatorsearch settings from the environment.
//
// Values come from CREATORSEARCH_* variables, optionally seeded from .env
// files. Variables already set in the process environment take precedence
// over .env entries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/search"
)

// Store backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds every setting the facade and CLI need.
type Config struct {
	DBPath      string `env:"CREATORSEARCH_DB_PATH,default=creatorsearch.db"`
	Backend     string `env:"CREATORSEARCH_BACKEND,default=badger"`
	LogLevel    string `env:"CREATORSEARCH_LOG_LEVEL,default=info"`
	LexiconFile string `env:"CREATORSEARCH_LEXICON"`

	// Search
	DefaultLimit        int     `env:"CREATORSEARCH_DEFAULT_LIMIT,default=12"`
	MaxLimit            int     `env:"CREATORSEARCH_MAX_LIMIT,default=100"`
	Threshold           float64 `env:"CREATORSEARCH_THRESHOLD,default=0.15"`
	ThresholdMode       string  `env:"CREATORSEARCH_THRESHOLD_MODE,default=before_pagination"`
	SimilarityThreshold float64 `env:"CREATORSEARCH_SIMILARITY_THRESHOLD,default=0.7"`

	// Embeddings
	EmbeddingHost  string `env:"CREATORSEARCH_EMBEDDING_HOST,default=http://localhost:11434/v1"`
	EmbeddingModel string `env:"CREATORSEARCH_EMBEDDING_MODEL,default=embeddinggemma"`
	EmbeddingToken string `env:"CREATORSEARCH_EMBEDDING_TOKEN"`

	// Ingestion
	PoolSize  int `env:"CREATORSEARCH_POOL_SIZE,default=4"`
	BatchSize int `env:"CREATORSEARCH_BATCH_SIZE,default=32"`
}

// Load reads .env files (".env" when none are named) and then the
// environment. Missing .env files are ignored.
func Load(files ...string) (*Config, error) {
	if err := loadDotenv(files...); err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Validate normalizes enumerated fields and checks ranges.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("%w: backend %q must be badger or sqlite", ErrInvalidConfig, c.Backend)
	}

	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db path is required", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.DefaultLimit < 1 || c.MaxLimit < 1 {
		return fmt.Errorf("%w: limits must be positive", ErrInvalidConfig)
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("%w: default limit %d exceeds max limit %d", ErrInvalidConfig, c.DefaultLimit, c.MaxLimit)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidConfig, c.Threshold)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold %v outside [0,1]", ErrInvalidConfig, c.SimilarityThreshold)
	}
	if _, err := search.ParseThresholdMode(c.ThresholdMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.PoolSize < 1 || c.BatchSize < 1 {
		return fmt.Errorf("%w: pool size and batch size must be positive", ErrInvalidConfig)
	}
	return nil
}

// AIConfig builds the embedding client configuration.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.EmbeddingHost),
		ai.WithEmbeddingModel(c.EmbeddingModel),
		ai.WithToken(c.EmbeddingToken),
	)
}

// SearchOptions converts the search settings into searcher options.
func (c *Config) SearchOptions() ([]search.Option, error) {
	mode, err := search.ParseThresholdMode(c.ThresholdMode)
	if err != nil {
		return nil, err
	}
	return []search.Option{
		search.WithThreshold(c.Threshold),
		search.WithThresholdMode(mode),
		search.WithMaxLimit(c.MaxLimit),
		search.WithDefaultLimit(c.DefaultLimit),
		search.WithSimilarityThreshold(float32(c.SimilarityThreshold)),
	}, nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log level %q must be one of debug, info, warn, error", ErrInvalidConfig, s)
}
