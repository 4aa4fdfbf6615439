package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// Normalize prepares raw input for tokenization. It applies Unicode NFC so
// Telugu vowel signs that arrive decomposed match the composed base alphabet,
// normalizes line endings to \n, and rejects empty or whitespace-only input.
// It never trims: the tokenizer round-trips surrounding whitespace exactly.
func Normalize(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = norm.NFC.String(s)

	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyText
	}

	return s, nil
}
