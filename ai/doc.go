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


// Package ai provides the embedding abstraction used by creatorsearch.
//
// Keyword search never touches this package. Embeddings only back the
// optional similarity path (search.Searcher.FindSimilar) and the catalog
// tooling that keeps vectors current (ingestion, reembed).
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder INTERFACE
// to prevent accidental coupling to concrete implementations. Test utility
// constructors (mock.NewMockEmbedder) return CONCRETE types so tests can
// inject behavior and inspect call counts.
//
// # Vectors
//
// Stored vectors are unit length. NormalizeVector produces them, which lets
// the stores rank by plain dot product.
package ai
