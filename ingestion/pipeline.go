package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/creatorsearch/ai"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// DefaultBatchSize is the number of candidates embedded per pool task.
const DefaultBatchSize = 32

// Pipeline orchestrates the ingestion of creator profiles.
// It stores records synchronously and embeds them on a worker pool.
type Pipeline struct {
	candidateRepository storage.CandidateRepository
	embeddingRepository storage.EmbeddingRepository
	embedder            ai.Embedder
	embeddingPool       *ants.Pool
	embeddingProc       *embeddingProcessor
	batchSize           int
	skipEmbeddings      bool
	logger              *slog.Logger

	pending  sync.WaitGroup
	embedded atomic.Int64
	failed   atomic.Int64
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithBatchSize sets how many candidates are embedded per request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithoutEmbeddings stores records without generating embeddings.
// The embedder and embedding repository may then be nil.
func WithoutEmbeddings() Option {
	return func(p *Pipeline) error {
		p.skipEmbeddings = true
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	candidateRepository storage.CandidateRepository,
	embeddingRepository storage.EmbeddingRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if candidateRepository == nil {
		return nil, ErrCandidateRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		candidateRepository: candidateRepository,
		embeddingRepository: embeddingRepository,
		embedder:            embedder,
		embeddingPool:       embeddingPool,
		batchSize:           DefaultBatchSize,
		logger:              slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if !p.skipEmbeddings {
		if embeddingRepository == nil {
			p.Release()
			return nil, ErrEmbeddingRepositoryRequired
		}
		if embedder == nil {
			p.Release()
			return nil, ErrEmbedderRequired
		}
		p.embeddingProc = newEmbeddingProcessor(candidateRepository, embeddingRepository, embedder, p.logger)
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Rejection describes an input record that was not stored.
type Rejection struct {
	Line     int    `json:"line,omitempty"`  // 1-based source line, when read from a catalog
	Index    int    `json:"index"`           // position in the ingested slice
	Username string `json:"username,omitempty"`
	Err      error  `json:"-"`
	Reason   string `json:"reason"`
}

func newRejection(index int, c *core.Candidate, err error) Rejection {
	r := Rejection{Index: index, Err: err, Reason: err.Error()}
	if c != nil {
		r.Username = c.Username
	}
	return r
}

// Report summarizes one Ingest call.
type Report struct {
	Stored    int         `json:"stored"`
	Rejected  []Rejection `json:"rejected,omitempty"`
	Submitted int         `json:"submitted_for_embedding"`
}

// Ingest validates candidates, stores the valid ones and submits them for
// asynchronous embedding. Invalid records and repeated usernames are
// reported, not stored. Only storage failures return an error.
func (p *Pipeline) Ingest(ctx context.Context, candidates []*core.Candidate) (*Report, error) {
	report := &Report{}

	valid := make([]*core.Candidate, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for i, c := range candidates {
		if err := core.ValidateCandidate(c); err != nil {
			report.Rejected = append(report.Rejected, newRejection(i, c, err))
			continue
		}
		key := core.NormalizeUsername(c.Username)
		if _, dup := seen[key]; dup {
			report.Rejected = append(report.Rejected, newRejection(i, c, fmt.Errorf("%w: %q", ErrDuplicateUsername, c.Username)))
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, c)
	}

	if len(report.Rejected) > 0 {
		p.logger.Warn("rejected candidates", "count", len(report.Rejected))
	}
	if len(valid) == 0 {
		return report, nil
	}

	added, err := p.candidateRepository.AddCandidates(ctx, valid...)
	if err != nil {
		return report, fmt.Errorf("failed to store candidates: %w", err)
	}
	report.Stored = len(added)
	p.logger.Info("stored candidates", "count", len(added))

	if p.skipEmbeddings {
		return report, nil
	}

	ids := make([]core.ID, len(added))
	for i, c := range added {
		ids[i] = c.Id
	}

	for start := 0; start < len(ids); start += p.batchSize {
		batch := ids[start:min(start+p.batchSize, len(ids))]
		if err := p.submit(batch); err != nil {
			return report, fmt.Errorf("failed to submit embedding work: %w", err)
		}
		report.Submitted += len(batch)
	}

	return report, nil
}

// submit queues one embedding batch on the pool.
func (p *Pipeline) submit(ids []core.ID) error {
	p.pending.Add(1)
	err := p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		n, err := p.embeddingProc.process(context.Background(), ids...)
		p.embedded.Add(int64(n))
		if err != nil {
			p.failed.Add(int64(len(ids) - n))
			p.logger.Error("error processing embeddings", "records", len(ids), "err", err)
		}
	})
	if err != nil {
		p.pending.Done()
	}
	return err
}

// Wait blocks until all submitted embedding work has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Embedded returns how many candidates have been embedded so far.
func (p *Pipeline) Embedded() int {
	return int(p.embedded.Load())
}

// Failed returns how many candidates failed to embed so far.
func (p *Pipeline) Failed() int {
	return int(p.failed.Load())
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
