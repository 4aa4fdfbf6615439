// Package doctor provides installation preflight checks for telugubpe.
package doctor

import (
	"fmt"
	"io"
	"os"

	"github.com/example/telugu-bpe/internal/store"
	"github.com/example/telugu-bpe/internal/telugu"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds the inputs for each doctor check.
type Config struct {
	// VocabPath is the vocabulary JSON file to verify.
	VocabPath string
	// MergesPath is the merge-rule JSON file to verify.
	MergesPath string
	// SkipModel skips the model-file checks and only validates the
	// built-in base vocabulary. Useful before any training has run.
	SkipModel bool
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- base vocabulary --------------------------------------------------
	base := tokenizer.NewBaseVocabulary()
	if err := checkBaseVocabulary(base); err != nil {
		res.fail(fmt.Sprintf("base vocabulary: %v", err))
		fmt.Fprintf(w, "%s base vocabulary: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s base vocabulary: %d symbols\n", PassMark, base.Size())
	}

	if cfg.SkipModel {
		fmt.Fprintf(w, "%s model files: skipped\n", PassMark)
		return res
	}

	// ---- model files ------------------------------------------------------
	for _, path := range []string{cfg.VocabPath, cfg.MergesPath} {
		if _, err := os.Stat(path); err != nil {
			res.fail(fmt.Sprintf("model file %q: %v", path, err))
			fmt.Fprintf(w, "%s model file %s: not found\n", FailMark, path)
		} else {
			fmt.Fprintf(w, "%s model file: %s\n", PassMark, path)
		}
	}
	if res.Failed() {
		return res
	}

	// ---- model consistency ------------------------------------------------
	model, err := store.ReadModel(cfg.VocabPath, cfg.MergesPath)
	if err != nil {
		res.fail(fmt.Sprintf("model load: %v", err))
		fmt.Fprintf(w, "%s model load: %v\n", FailMark, err)
		return res
	}
	fmt.Fprintf(w, "%s model load: %d symbols, %d merges\n",
		PassMark, model.Vocab.Size(), len(model.Merges))

	if err := checkModelBase(model, base); err != nil {
		res.fail(fmt.Sprintf("model base: %v", err))
		fmt.Fprintf(w, "%s model base: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s model base: matches generated layout\n", PassMark)
	}

	return res
}

// checkBaseVocabulary verifies the generated base layout: the unknown
// sentinel at id 0, the Telugu block in its expected region, and a stable
// total symbol count.
func checkBaseVocabulary(v *tokenizer.Vocabulary) error {
	sym, err := v.Symbol(tokenizer.UnknownID)
	if err != nil {
		return err
	}
	if sym != tokenizer.UnknownToken {
		return fmt.Errorf("id %d is %q, want %q", tokenizer.UnknownID, sym, tokenizer.UnknownToken)
	}
	if v.Size() != v.BaseSize() {
		return fmt.Errorf("size %d != base size %d", v.Size(), v.BaseSize())
	}

	// The Telugu block sits directly after the sentinel and the byte range.
	const teluguStart = 1 + 256
	sym, err = v.Symbol(teluguStart)
	if err != nil {
		return err
	}
	if r := []rune(sym)[0]; telugu.Classify(r) != telugu.ScriptTelugu {
		return fmt.Errorf("id %d is %q, want the first Telugu block symbol", teluguStart, sym)
	}
	return nil
}

// checkModelBase verifies that the loaded model's base region is
// identical to the generated base vocabulary, so encodings produced on
// this machine match the machine that trained the model.
func checkModelBase(m *tokenizer.Model, base *tokenizer.Vocabulary) error {
	if m.Vocab.BaseSize() != base.Size() {
		return fmt.Errorf("base size %d, want %d", m.Vocab.BaseSize(), base.Size())
	}
	for id := 0; id < base.Size(); id++ {
		want, err := base.Symbol(id)
		if err != nil {
			return err
		}
		got, err := m.Vocab.Symbol(id)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("symbol mismatch at id %d: %q, want %q", id, got, want)
		}
	}
	if m.Vocab.Size() != m.Vocab.BaseSize()+len(m.Merges) {
		return fmt.Errorf("size %d != base %d + merges %d",
			m.Vocab.Size(), m.Vocab.BaseSize(), len(m.Merges))
	}
	return nil
}
