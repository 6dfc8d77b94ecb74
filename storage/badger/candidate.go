package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

// CandidateRepository implements storage.CandidateRepository for BadgerDB.
// Predicates are evaluated in process with storage.Predicate.Match.
type CandidateRepository struct {
	backend *Backend
}

var _ storage.CandidateRepository = (*CandidateRepository)(nil)

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(backend *Backend) (*CandidateRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &CandidateRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CandidateRepository has no resources to release.
func (r *CandidateRepository) Close() error {
	return nil
}

// AddCandidates inserts or replaces candidates.
func (r *CandidateRepository) AddCandidates(ctx context.Context, candidates ...*core.Candidate) ([]*core.Candidate, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, candidate := range candidates {
			candidate.Username = strings.TrimSpace(candidate.Username)
			if candidate.Id == 0 {
				candidate.Id = core.CandidateID(candidate.Username)
			}

			// Enforce username uniqueness
			usernameKey := makeUsernameKey(candidate.Username)
			owner, err := readID(tx, usernameKey)
			if err != nil {
				return err
			}
			if owner != 0 && owner != candidate.Id {
				return fmt.Errorf("%w: username %q", storage.ErrDuplicateKey, candidate.Username)
			}

			key := makeCandidateKey(candidate.Id)
			old, err := readCandidate(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				if candidate.InsertedAt.IsZero() {
					candidate.InsertedAt = old.InsertedAt
				}
				// Username changed: drop the stale index entry
				if core.NormalizeUsername(old.Username) != core.NormalizeUsername(candidate.Username) {
					if err := tx.Delete(makeUsernameKey(old.Username)); err != nil {
						return err
					}
				}
			}
			if candidate.InsertedAt.IsZero() {
				candidate.InsertedAt = now
			}
			candidate.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalCandidate(candidate)); err != nil {
				return err
			}
			if err := tx.Set(usernameKey, storage.MarshalID(candidate.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return candidates, err
}

// GetCandidate retrieves a single candidate by ID.
func (r *CandidateRepository) GetCandidate(ctx context.Context, id core.ID) (*core.Candidate, error) {
	var result *core.Candidate
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCandidate(tx, makeCandidateKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCandidates retrieves multiple candidates by their IDs.
func (r *CandidateRepository) GetCandidates(ctx context.Context, ids ...core.ID) ([]*core.Candidate, error) {
	results := make([]*core.Candidate, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			candidate, err := readCandidate(tx, makeCandidateKey(id))
			if err != nil {
				return err
			}
			if candidate != nil {
				results = append(results, candidate)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteCandidates removes candidates, their username index entries and embeddings.
func (r *CandidateRepository) DeleteCandidates(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCandidateKey(id)
			candidate, err := readCandidate(tx, key)
			if err != nil {
				return err
			}
			if candidate == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeUsernameKey(candidate.Username)); err != nil {
				return err
			}
			if err := tx.Delete(makeEmbeddingKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of candidates matching pred.
func (r *CandidateRepository) Count(ctx context.Context, pred storage.Predicate) (int, error) {
	count := 0
	err := r.scan(ctx, func(c *core.Candidate) {
		if storage.Matches(pred, c) {
			count++
		}
	})
	return count, err
}

// Query returns one ordered page of candidates matching pred.
func (r *CandidateRepository) Query(ctx context.Context, pred storage.Predicate, order storage.Order, offset, limit int) ([]*core.Candidate, error) {
	var matched []*core.Candidate
	err := r.scan(ctx, func(c *core.Candidate) {
		if storage.Matches(pred, c) {
			matched = append(matched, c)
		}
	})
	if err != nil {
		return nil, err
	}

	order.Sort(matched)
	return storage.Page(matched, offset, limit), nil
}

// scan visits every stored candidate.
func (r *CandidateRepository) scan(ctx context.Context, fn func(c *core.Candidate)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		return r.backend.scanPrefix(ctx, tx, []byte(candidatePrefix+":"), func(val []byte) error {
			candidate, err := storage.UnmarshalCandidate(val)
			if err != nil {
				return err
			}
			fn(candidate)
			return nil
		})
	}, false)
}

// Helper methods

// readCandidate reads a candidate from the transaction, nil if absent.
func readCandidate(tx *badger.Txn, key []byte) (*core.Candidate, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var candidate *core.Candidate
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		candidate, unmarshalErr = storage.UnmarshalCandidate(val)
		return unmarshalErr
	})
	return candidate, err
}

// readID reads an index entry, 0 if absent.
func readID(tx *badger.Txn, key []byte) (core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		id, unmarshalErr = storage.UnmarshalID(val)
		return unmarshalErr
	})
	return id, err
}
