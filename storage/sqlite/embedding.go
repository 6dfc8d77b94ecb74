package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// SetEmbeddings stores embeddings for existing candidates.
func (s *Store) SetEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, e := range embeddings {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM candidates WHERE id = ?`, int64(e.CandidateId)).Scan(&exists)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: candidate %d", storage.ErrNotFound, e.CandidateId)
				}
				return err
			}

			e.UpdatedAt = now
			_, err = tx.ExecContext(ctx, `
				INSERT INTO embeddings (candidate_id, vector, content_hash, updated_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(candidate_id) DO UPDATE SET
					vector = excluded.vector,
					content_hash = excluded.content_hash,
					updated_at = excluded.updated_at`,
				int64(e.CandidateId), encodeVector(e.Vector), int64(e.ContentHash), now.UnixMicro(),
			)
			if err != nil {
				return fmt.Errorf("failed to store embedding: %w", err)
			}
		}
		return nil
	})
}

// GetEmbedding retrieves the embedding of a candidate.
func (s *Store) GetEmbedding(ctx context.Context, id core.ID) (*core.Embedding, error) {
	var (
		blob      []byte
		hash      int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT vector, content_hash, updated_at FROM embeddings WHERE candidate_id = ?`, int64(id),
	).Scan(&blob, &hash, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}

	vector, err := decodeVector(blob)
	if err != nil {
		return nil, err
	}
	return &core.Embedding{
		CandidateId: id,
		Vector:      vector,
		ContentHash: uint64(hash),
		UpdatedAt:   time.UnixMicro(updatedAt).UTC(),
	}, nil
}

// FindSimilar scores every stored vector against vector in process.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.SimilarityMatch, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT candidate_id, vector FROM embeddings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []core.SimilarityMatch
	for rows.Next() {
		var (
			id   int64
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		stored, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 {
			continue
		}
		if score := storage.DotProduct(vector, stored); score >= minSimilarity {
			results = append(results, core.SimilarityMatch{CandidateId: core.ID(id), Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return storage.RankMatches(results, limit), nil
}

// encodeVector packs v as little-endian float32 values.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("%w: vector blob of %d bytes", storage.ErrSerializationFailed, len(buf))
	}
	if len(buf) == 0 {
		return nil, nil
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v, nil
}
