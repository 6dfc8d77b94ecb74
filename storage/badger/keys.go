package badger

import (
	"fmt"

	"github.com/poiesic/creatorsearch/core"
)

// Key prefixes for different data types
const (
	candidatePrefix = "cand"
	usernamePrefix  = "candu"
	embeddingPrefix = "candv"
)

// makeCandidateKey generates a key for a candidate by ID.
func makeCandidateKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", candidatePrefix, id))
}

// makeUsernameKey generates the unique username index key.
// Format: prefix:normalized-username
func makeUsernameKey(username string) []byte {
	prefix := usernamePrefix + ":"
	name := core.NormalizeUsername(username)
	buf := make([]byte, len(prefix)+len(name))
	offset := copy(buf, prefix)
	copy(buf[offset:], name)
	return buf
}

// makeEmbeddingKey generates a key for a candidate's embedding.
func makeEmbeddingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, id))
}
