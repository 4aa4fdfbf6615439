package tokenizer

import (
	"fmt"
	"strings"

	"github.com/example/telugu-bpe/internal/text"
)

// Decoder reconstructs text from token ids. Read-only over the vocabulary
// snapshot; safe for unsynchronized concurrent use.
//
// Separator policy: DecodeEncoding reinserts the exact whitespace recorded
// at encode time, so decode(encode(text)) == text for any text whose code
// points are all in the base alphabet. Decode, given only a flat id
// sequence, has no boundary information and concatenates symbol strings
// directly. The unknown sentinel always decodes to its placeholder, never
// the original glyph.
type Decoder struct {
	vocab *Vocabulary
}

// NewDecoder returns a decoder over a trained vocabulary.
func NewDecoder(v *Vocabulary) *Decoder {
	return &Decoder{vocab: v}
}

// Decode concatenates the symbol of each id in order. An id outside
// [0, vocab size) fails with ErrTokenOutOfRange.
func (d *Decoder) Decode(ids []int) (string, error) {
	var b strings.Builder
	for i, id := range ids {
		sym, err := d.vocab.Symbol(id)
		if err != nil {
			return "", fmt.Errorf("decode token %d: %w", i, err)
		}
		b.WriteString(sym)
	}
	return b.String(), nil
}

// DecodeEncoding reconstructs the originally encoded text, reinserting the
// recorded word separators.
func (d *Decoder) DecodeEncoding(enc *Encoding) (string, error) {
	words := make([]string, len(enc.Words))
	for i, w := range enc.Words {
		decoded, err := d.Decode(w.IDs)
		if err != nil {
			return "", fmt.Errorf("word %d: %w", i, err)
		}
		words[i] = decoded
	}
	return text.Join(words, enc.seps), nil
}
