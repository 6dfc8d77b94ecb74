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


// Package storage provides the storage abstraction layer for creatorsearch.
//
// This package defines repository interfaces that decouple storage implementation
// from the search core. Two backends implement them: storage/badger (embedded
// key-value store, predicates evaluated in process) and storage/sqlite
// (predicates translated to SQL).
//
// # Predicates and Ordering
//
// Searches describe the candidate set with a small predicate tree:
//
//	pred := storage.And(
//	    storage.Any{
//	        storage.Contains{Field: storage.FieldCategory, Substring: "tech"},
//	        storage.Contains{Field: storage.FieldBio, Substring: "tech"},
//	    },
//	    storage.Verified{Value: true},
//	)
//
// Every node implements Match, which is the reference semantics; a backend
// that compiles predicates into its own query language must agree with it.
// Order is either DefaultOrder (engagement, then followers) or
// RelevanceOrder (composite keyword weight, then followers, then engagement).
//
// # Architecture
//
//   - CandidateStore: the Count/Query capability the search core needs
//   - CandidateRepository: CandidateStore plus write and lookup operations
//   - EmbeddingRepository: candidate vectors and similarity lookup
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	candidates, embeddings, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// or with SQLite:
//
//	store, err := sqlite.Open(sqlite.MemoryPath)
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
