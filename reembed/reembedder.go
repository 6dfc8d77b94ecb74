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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of candidates to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of candidates)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds candidates whose stored vector matches their profile text
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Summary reports the outcome of a Run.
type Summary struct {
	Total    int           `json:"total"`
	Embedded int           `json:"embedded"`
	Skipped  int           `json:"skipped"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Reembedder orchestrates the reembedding of every stored candidate.
type Reembedder struct {
	candidates storage.CandidateStore
	config     *Config
	progress   io.Writer
	processor  *BatchProcessor
	iterator   *CandidateIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	candidates storage.CandidateStore,
	embeddings storage.EmbeddingRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) (*Reembedder, error) {
	if candidates == nil || embeddings == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		candidates: candidates,
		config:     config,
		progress:   progress,
		processor:  NewBatchProcessor(embeddings, embedder, config.MaxRetries, config.RetryDelay, config.Force),
		iterator:   NewCandidateIterator(candidates, config.BatchSize),
	}, nil
}

// Run executes the reembedding operation.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) (*Summary, error) {
	total, err := r.candidates.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	summary := &Summary{Total: total}
	if total == 0 {
		fmt.Fprintf(r.progress, "No candidates found in database (0 candidates)\n")
		return summary, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d candidates (batch size: %d, force: %t)\n",
		total, r.iterator.batchSize, r.config.Force)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(batch []*core.Candidate) error {
		result, err := r.processor.Process(ctx, batch)
		summary.Embedded += result.Embedded
		summary.Skipped += result.Skipped
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Add(len(batch), result.Skipped)
		return nil
	})
	summary.Elapsed = tracker.Elapsed()
	if err != nil {
		return summary, err
	}

	tracker.Finish()

	fmt.Fprintf(r.progress, "Reembedding complete. Embedded %d, unchanged %d of %d candidates in %v\n",
		summary.Embedded, summary.Skipped, total, summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}
