package ingestion

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/poiesic/creatorsearch/core"
)

// maxLineSize bounds a single catalog line.
const maxLineSize = 4 << 20

// ReadCandidates decodes a JSON Lines catalog, one candidate per line.
// Blank lines are ignored. Lines that are not valid JSON objects are
// returned as rejections with their line number; I/O errors abort.
func ReadCandidates(r io.Reader) ([]*core.Candidate, []Rejection, error) {
	var (
		candidates []*core.Candidate
		rejected   []Rejection
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var c core.Candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			err = fmt.Errorf("%w: %w", core.ErrMalformedRecord, err)
			rejected = append(rejected, Rejection{Line: line, Index: -1, Err: err, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, &c)
	}
	if err := scanner.Err(); err != nil {
		return candidates, rejected, fmt.Errorf("failed to read catalog at line %d: %w", line+1, err)
	}
	return candidates, rejected, nil
}
