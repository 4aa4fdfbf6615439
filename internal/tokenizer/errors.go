package tokenizer

import "errors"

var (
	// ErrInvalidVocabSize is returned when a training target does not
	// exceed the base vocabulary size. Rejected before any work begins.
	ErrInvalidVocabSize = errors.New("target vocabulary size must exceed base vocabulary size")

	// ErrMalformedModel wraps structural defects in persisted model data:
	// id gaps, duplicate ids or symbols, merge rules out of order or
	// referencing unknown ids.
	ErrMalformedModel = errors.New("malformed tokenizer model")

	// ErrTokenOutOfRange is returned by decode when a token id does not
	// exist in the vocabulary. It signals a caller/vocabulary mismatch,
	// not a text-content problem.
	ErrTokenOutOfRange = errors.New("token id out of vocabulary range")
)
