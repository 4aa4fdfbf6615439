package tokenizer

import (
	"github.com/example/telugu-bpe/internal/telugu"
	"github.com/example/telugu-bpe/internal/text"
)

// Word is one whitespace-delimited unit as a sequence of token ids.
// Words are mutated in place as merges are applied and never shared.
type Word []int

// Pairs yields every adjacent id pair in the word, in order.
func (w Word) Pairs() [][2]int {
	if len(w) < 2 {
		return nil
	}
	out := make([][2]int, 0, len(w)-1)
	for i := 0; i+1 < len(w); i++ {
		out = append(out, [2]int{w[i], w[i+1]})
	}
	return out
}

// Preprocessor maps raw text onto base-vocabulary words. Whitespace is
// never tokenized as content; it only delimits words.
type Preprocessor struct {
	vocab *Vocabulary
}

// NewPreprocessor returns a preprocessor over the given vocabulary, which
// must contain the base alphabet (any vocabulary derived from
// NewBaseVocabulary qualifies).
func NewPreprocessor(v *Vocabulary) *Preprocessor {
	return &Preprocessor{vocab: v}
}

// Words splits s on whitespace and maps each word to base token ids.
// The returned separators (len(words)+1 entries) preserve the original
// whitespace exactly so decoding can reproduce the input byte-for-byte.
func (p *Preprocessor) Words(s string) ([]Word, []string) {
	raw, seps := text.SplitWords(s)
	words := make([]Word, len(raw))
	for i, w := range raw {
		words[i] = p.Symbolize(w)
	}
	return words, seps
}

// Symbolize maps one word to base ids. Valid Telugu clusters are greedily
// consumed as single symbols, longest first (consonant+virama+consonant,
// then consonant+vowel sign), before falling back to single code points.
// Code points absent from the base alphabet map to the unknown sentinel.
func (p *Preprocessor) Symbolize(word string) Word {
	rs := []rune(word)
	ids := make(Word, 0, len(rs))

	for i := 0; i < len(rs); {
		matched := false
		for length := 3; length >= 2; length-- {
			if i+length > len(rs) || !telugu.IsValidCluster(rs[i:i+length]) {
				continue
			}
			if id, ok := p.vocab.ID(string(rs[i : i+length])); ok {
				ids = append(ids, id)
				i += length
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if id, ok := p.vocab.ID(string(rs[i])); ok {
			ids = append(ids, id)
		} else {
			ids = append(ids, UnknownID)
		}
		i++
	}
	return ids
}
