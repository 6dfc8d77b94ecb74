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


package search

import "errors"

var (
	// ErrStoreRequired is returned when a candidate store is not provided.
	ErrStoreRequired = errors.New("candidate store required")

	// ErrLexiconRequired is returned when WithLexicon receives nil.
	ErrLexiconRequired = errors.New("lexicon required")

	// ErrInvalidOption is returned when an option value is out of range.
	ErrInvalidOption = errors.New("invalid searcher option")

	// ErrSimilarityUnavailable is returned by FindSimilar when the searcher
	// was built without an embedder and embedding repository.
	ErrSimilarityUnavailable = errors.New("similarity search not configured")

	// ErrEmptyQuery is returned by FindSimilar for a blank query.
	ErrEmptyQuery = errors.New("empty query")
)
