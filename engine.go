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


// Package creatorsearch wires a candidate store, an embedder and a lexicon
// into searchers, ingestion pipelines and reembedders.
package creatorsearch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/ai/openai"
	"github.com/poiesic/creatorsearch/config"
	"github.com/poiesic/creatorsearch/ingestion"
	"github.com/poiesic/creatorsearch/lexicon"
	"github.com/poiesic/creatorsearch/reembed"
	"github.com/poiesic/creatorsearch/search"
	"github.com/poiesic/creatorsearch/storage"
	"github.com/poiesic/creatorsearch/storage/badger"
	"github.com/poiesic/creatorsearch/storage/sqlite"
)

// MemoryPath opens a private in-memory store on either backend.
const MemoryPath = ":memory:"

// ErrConfigRequired is returned by Open when cfg is nil.
var ErrConfigRequired = errors.New("config required")

type Engine struct {
	cfg        *config.Config
	candidates storage.CandidateRepository
	embeddings storage.EmbeddingRepository
	closers    []io.Closer
	embedder   ai.Embedder
	lexicon    *lexicon.Lexicon
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEmbedder replaces the embedder built from the config.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(e *Engine) {
		e.embedder = embedder
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// Open opens the configured store and prepares the embedder and lexicon.
func Open(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	lex := lexicon.Default()
	if cfg.LexiconFile != "" {
		var err error
		if lex, err = lexicon.LoadFile(cfg.LexiconFile); err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
	}
	e.lexicon = lex

	if e.embedder == nil {
		embedder, err := openai.NewEmbedder(cfg.AIConfig(), openai.WithLogger(e.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		e.embedder = embedder
	}

	if err := e.openStore(); err != nil {
		return nil, err
	}
	e.logger.Debug("engine opened", "backend", cfg.Backend, "path", cfg.DBPath)
	return e, nil
}

func (e *Engine) openStore() error {
	switch e.cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(e.cfg.DBPath)
		if err != nil {
			return err
		}
		e.candidates = store
		e.embeddings = store
		e.closers = []io.Closer{store}
		return nil
	}

	backend, err := badger.OpenBackend(e.cfg.DBPath, e.cfg.DBPath == MemoryPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	candidates, err := badger.NewCandidateRepository(backend)
	if err != nil {
		backend.Close()
		return err
	}
	embeddings, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		candidates.Close()
		backend.Close()
		return err
	}
	e.candidates = candidates
	e.embeddings = embeddings
	e.closers = []io.Closer{embeddings, candidates, backend}
	return nil
}

// Close releases the store. Errors from every component are joined.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Error("error closing storage", "err", err)
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

func (e *Engine) Candidates() storage.CandidateRepository {
	return e.candidates
}

func (e *Engine) Embeddings() storage.EmbeddingRepository {
	return e.embeddings
}

func (e *Engine) Lexicon() *lexicon.Lexicon {
	return e.lexicon
}

// NewSearcher builds a searcher from the config. opts are applied last.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base, err := e.cfg.SearchOptions()
	if err != nil {
		return nil, err
	}
	base = append(base,
		search.WithLexicon(e.lexicon),
		search.WithLogger(e.logger),
		search.WithSimilarity(e.embedder, e.embeddings, e.candidates),
	)
	return search.NewSearcher(e.candidates, append(base, opts...)...)
}

// NewIngestionPipeline builds a pipeline sized from the config. Callers
// must Release it.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{
		ingestion.WithPoolSize(e.cfg.PoolSize),
		ingestion.WithBatchSize(e.cfg.BatchSize),
		ingestion.WithLogger(e.logger),
	}
	return ingestion.NewPipeline(e.candidates, e.embeddings, e.embedder, append(base, opts...)...)
}

// NewReembedder builds a reembedder over the whole catalog.
func (e *Engine) NewReembedder(cfg *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(e.candidates, e.embeddings, e.embedder, cfg, progress)
}
