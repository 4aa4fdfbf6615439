package tokenizer

import (
	"github.com/example/telugu-bpe/internal/text"
)

// TokenizedWord is the encoding of one whitespace-delimited word: its
// original text, the final token ids, and the symbol text each id renders.
type TokenizedWord struct {
	Text  string
	IDs   []int
	Texts []string
}

// IsComplete reports whether the whole word collapsed to a single token.
// Presentation layers render complete words and subword splits differently;
// the distinction is computed here, never stored.
func (w TokenizedWord) IsComplete() bool { return len(w.IDs) == 1 }

// Encoding is the result of encoding one text: per-word token detail plus
// the exact whitespace separators needed to reconstruct the input.
type Encoding struct {
	Words []TokenizedWord

	seps []string
}

// TokenIDs returns the flat token id sequence across all words.
func (e *Encoding) TokenIDs() []int {
	var out []int
	for _, w := range e.Words {
		out = append(out, w.IDs...)
	}
	return out
}

// TokenTexts returns the rendered text of each token, parallel to TokenIDs.
func (e *Encoding) TokenTexts() []string {
	var out []string
	for _, w := range e.Words {
		out = append(out, w.Texts...)
	}
	return out
}

// Encoder applies a trained model to new text. It is read-only over the
// model snapshot and safe for unsynchronized concurrent use.
type Encoder struct {
	model *Model
	pre   *Preprocessor
}

// NewEncoder returns an encoder over a trained model.
func NewEncoder(m *Model) *Encoder {
	return &Encoder{model: m, pre: NewPreprocessor(m.Vocab)}
}

// Encode splits s into words exactly as training did and applies the merge
// rules to each word in recorded order. Code points outside the base
// alphabet become the unknown sentinel. Encoding never fails: all text is
// representable.
func (e *Encoder) Encode(s string) *Encoding {
	raw, seps := text.SplitWords(s)

	enc := &Encoding{
		Words: make([]TokenizedWord, len(raw)),
		seps:  seps,
	}
	for i, wordText := range raw {
		ids := e.encodeWord(e.pre.Symbolize(wordText))
		texts := make([]string, len(ids))
		for j, id := range ids {
			texts[j], _ = e.model.Vocab.Symbol(id)
		}
		enc.Words[i] = TokenizedWord{Text: wordText, IDs: ids, Texts: texts}
	}
	return enc
}

// encodeWord replays the merges earliest-rule-first. Later rules were
// learned assuming all earlier rules had already collapsed the word, and a
// rule's operands always predate its result, so a later rewrite can never
// create the pair of an earlier rule: one ordered pass is exhaustive.
func (e *Encoder) encodeWord(w Word) Word {
	for _, r := range e.model.Merges {
		if len(w) < 2 {
			break
		}
		w = w.mergePair(r.Left, r.Right, r.Result)
	}
	return w
}
