// Package text holds the string-level preprocessing shared by training and
// encoding: input normalization and whitespace splitting with exact
// separator retention.
package text

import (
	"strings"
	"unicode"
)

// SplitWords splits s into whitespace-delimited words and the exact
// separator runs around them. seps always has len(words)+1 entries:
// seps[0] precedes words[0], seps[i] follows words[i-1], and the final
// entry is the trailing run. Join(words, seps) reconstructs s exactly.
func SplitWords(s string) (words, seps []string) {
	words = []string{}
	seps = []string{}

	var cur strings.Builder
	inWord := false

	flush := func(word bool) {
		if cur.Len() == 0 && word {
			return
		}
		if word {
			words = append(words, cur.String())
		} else {
			seps = append(seps, cur.String())
		}
		cur.Reset()
	}

	for _, r := range s {
		if unicode.IsSpace(r) {
			if inWord {
				flush(true)
				inWord = false
			}
			cur.WriteRune(r)
			continue
		}
		if !inWord {
			flush(false)
			inWord = true
		}
		cur.WriteRune(r)
	}

	if inWord {
		flush(true)
		seps = append(seps, "")
	} else {
		// Trailing separator run; empty input yields zero words and one
		// empty separator.
		flush(false)
	}
	return words, seps
}

// Join is the inverse of SplitWords. It panics if len(seps) != len(words)+1.
func Join(words, seps []string) string {
	if len(seps) != len(words)+1 {
		panic("text: separator count must be word count + 1")
	}
	var b strings.Builder
	b.WriteString(seps[0])
	for i, w := range words {
		b.WriteString(w)
		b.WriteString(seps[i+1])
	}
	return b.String()
}
