package lexicon

import "errors"

// ErrInvalidLexicon is returned when lexicon input cannot be used.
var ErrInvalidLexicon = errors.New("invalid lexicon")
