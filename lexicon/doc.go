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


// Package lexicon provides the vocabulary used to interpret search queries.
//
// A Lexicon bundles three things:
//   - a stopword set removed from queries before expansion
//   - an ordered synonym map from category names to related terms
//   - domain-context terms that mark regionally relevant profiles
//
// Lexicons are immutable once built, so a single instance is shared by all
// concurrent searches. Default returns the built-in vocabulary; LoadFile
// reads a replacement from YAML.
package lexicon
