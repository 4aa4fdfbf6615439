// Package tokenizer implements a Byte Pair Encoding tokenizer specialized
// for Telugu script mixed with ASCII text: a deterministic base vocabulary
// over ASCII, extended ASCII, the Telugu Unicode block and its consonant
// clusters, a merge trainer, and the matching encoder and decoder.
package tokenizer

import (
	"fmt"

	"github.com/example/telugu-bpe/internal/telugu"
)

// UnknownToken is the placeholder symbol emitted for code points outside
// the base alphabet. It occupies UnknownID in every vocabulary.
const UnknownToken = "<unk>"

// UnknownID is the reserved id of the unknown sentinel.
const UnknownID = 0

// Vocabulary is a bijective mapping between symbols and dense token ids
// over [0, Size). Base symbols come first in fixed order, merge results
// follow in the order learned. Immutable once training completes.
type Vocabulary struct {
	symbols  []string
	ids      map[string]int
	baseSize int
}

// NewBaseVocabulary builds the fixed seed vocabulary in deterministic
// order: the unknown sentinel, ASCII 0–127, extended ASCII 128–255, the
// full Telugu block U+0C00–U+0C7F, consonant+vowel-sign pairs, and
// consonant+virama+consonant conjuncts. Two invocations always produce
// identical id assignments.
func NewBaseVocabulary() *Vocabulary {
	v := &Vocabulary{ids: make(map[string]int, 2200)}

	v.add(UnknownToken)

	for r := rune(0x00); r <= 0xFF; r++ {
		v.add(string(r))
	}
	for r := rune(0x0C00); r <= 0x0C7F; r++ {
		v.add(string(r))
	}

	consonants := telugu.Consonants()
	for _, c := range consonants {
		for _, s := range telugu.VowelSigns() {
			v.add(string([]rune{c, s}))
		}
	}
	for _, c := range consonants {
		for _, c2 := range consonants {
			v.add(string([]rune{c, telugu.Virama, c2}))
		}
	}

	v.baseSize = len(v.symbols)
	return v
}

// NewVocabulary reconstructs a vocabulary from symbols indexed by id, as
// produced by persistence. baseSize is the size of the seed vocabulary the
// model was trained from. Fails with ErrMalformedModel on duplicates,
// empty symbols, or an inconsistent base size.
func NewVocabulary(symbols []string, baseSize int) (*Vocabulary, error) {
	if baseSize < 1 || baseSize > len(symbols) {
		return nil, fmt.Errorf("%w: base size %d outside [1, %d]", ErrMalformedModel, baseSize, len(symbols))
	}
	if symbols[UnknownID] != UnknownToken {
		return nil, fmt.Errorf("%w: id %d is %q, want the %s sentinel", ErrMalformedModel, UnknownID, symbols[UnknownID], UnknownToken)
	}

	v := &Vocabulary{
		symbols:  append([]string(nil), symbols...),
		ids:      make(map[string]int, len(symbols)),
		baseSize: baseSize,
	}
	for id, sym := range v.symbols {
		if sym == "" {
			return nil, fmt.Errorf("%w: empty symbol at id %d", ErrMalformedModel, id)
		}
		if prev, dup := v.ids[sym]; dup {
			return nil, fmt.Errorf("%w: symbol %q at both id %d and %d", ErrMalformedModel, sym, prev, id)
		}
		v.ids[sym] = id
	}
	return v, nil
}

// Size returns the total number of symbols.
func (v *Vocabulary) Size() int { return len(v.symbols) }

// BaseSize returns the number of seed symbols preceding any merges.
func (v *Vocabulary) BaseSize() int { return v.baseSize }

// ID returns the token id for sym.
func (v *Vocabulary) ID(sym string) (int, bool) {
	id, ok := v.ids[sym]
	return id, ok
}

// Symbol returns the symbol string for id.
func (v *Vocabulary) Symbol(id int) (string, error) {
	if id < 0 || id >= len(v.symbols) {
		return "", fmt.Errorf("%w: %d not in [0, %d)", ErrTokenOutOfRange, id, len(v.symbols))
	}
	return v.symbols[id], nil
}

// Symbols returns a copy of the symbol table indexed by id.
func (v *Vocabulary) Symbols() []string {
	return append([]string(nil), v.symbols...)
}

// add appends sym with the next id. Used by the builder and the trainer;
// never called on a vocabulary serving encode/decode traffic.
func (v *Vocabulary) add(sym string) int {
	id := len(v.symbols)
	v.symbols = append(v.symbols, sym)
	v.ids[sym] = id
	return id
}
