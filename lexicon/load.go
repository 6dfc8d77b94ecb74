package lexicon

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout of a lexicon.
//
//	stopwords: [the, and, best]
//	categories:
//	  - name: tech
//	    synonyms: [technology, gadget]
//	context_terms: [karachi]
type File struct {
	Stopwords    []string   `yaml:"stopwords"`
	Categories   []Category `yaml:"categories"`
	ContextTerms []string   `yaml:"context_terms"`
}

// Load reads a YAML lexicon from r.
func Load(r io.Reader) (*Lexicon, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}
	return New(f.Stopwords, f.Categories, f.ContextTerms)
}

// LoadFile reads a YAML lexicon from path.
func LoadFile(path string) (*Lexicon, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh)
}
