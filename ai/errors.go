package ai

import "errors"

// ErrEmptyEmbedding is returned when an embedding service answers without vectors.
var ErrEmptyEmbedding = errors.New("embedding service returned no vectors")
