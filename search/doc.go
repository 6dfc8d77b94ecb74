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


// Package search implements keyword and attribute search over creator profiles.
//
// A search runs as a single request-scoped pipeline:
//   - ExtractKeywords expands the query through the lexicon
//   - the expanded terms and TranslateFilters build a store predicate
//   - the store counts and orders matching candidates
//   - Scorer assigns each page item a relevance score in [0,1]
//
// Search never returns an error. Store failures degrade to an empty response
// with Success set to false. FindSimilar is a separate vector path that ranks
// candidates by embedding similarity and is never merged with keyword ranking.
package search
