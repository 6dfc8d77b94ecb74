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

	"github.com/poiesic/creatorsearch/core"
	"github.com/poiesic/creatorsearch/storage"
)

const (
	// DefaultBatchSize is the default number of candidates to fetch in each batch
	DefaultBatchSize = 100
)

// CandidateIterator pages through every stored candidate.
type CandidateIterator struct {
	store     storage.CandidateStore
	batchSize int
}

// NewCandidateIterator creates a new candidate iterator.
// batchSize: number of candidates to fetch in each batch (must be > 0)
func NewCandidateIterator(store storage.CandidateStore, batchSize int) *CandidateIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &CandidateIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of candidates in default order.
// Iteration stops on first error from fn or when all candidates are processed.
// Context cancellation is checked between batches.
func (it *CandidateIterator) ForEach(ctx context.Context, fn func([]*core.Candidate) error) error {
	order := storage.DefaultOrder()
	for offset := 0; ; offset += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := it.store.Query(ctx, nil, order, offset, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		if len(batch) < it.batchSize {
			return nil
		}
	}
}
