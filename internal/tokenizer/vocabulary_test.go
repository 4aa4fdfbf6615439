package tokenizer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBaseVocabulary_Layout(t *testing.T) {
	v := NewBaseVocabulary()

	// <unk>, 256 single-byte code points, 128 Telugu block code points,
	// 36*13 consonant+vowel-sign pairs, 36*36 conjuncts.
	want := 1 + 256 + 128 + 36*13 + 36*36
	if v.Size() != want {
		t.Fatalf("Size() = %d; want %d", v.Size(), want)
	}
	if v.BaseSize() != v.Size() {
		t.Errorf("BaseSize() = %d; want %d", v.BaseSize(), v.Size())
	}

	sym, err := v.Symbol(UnknownID)
	if err != nil || sym != UnknownToken {
		t.Errorf("Symbol(%d) = %q, %v; want %q", UnknownID, sym, err, UnknownToken)
	}

	// ASCII 'a' sits at 1 + 0x61.
	if id, ok := v.ID("a"); !ok || id != 1+'a' {
		t.Errorf("ID(%q) = %d, %v; want %d", "a", id, ok, 1+'a')
	}

	// Representative cluster symbols must be present.
	for _, sym := range []string{"మ్మ", "నా", "న్న", "కై"} {
		if _, ok := v.ID(sym); !ok {
			t.Errorf("base vocabulary missing cluster %q", sym)
		}
	}

	// Loose consonant+virama (no trailing consonant) is not a base symbol.
	if _, ok := v.ID("క్"); ok {
		t.Error("క్ (consonant+virama) must not be a base symbol")
	}
}

func TestNewBaseVocabulary_Deterministic(t *testing.T) {
	a := NewBaseVocabulary()
	b := NewBaseVocabulary()
	if diff := cmp.Diff(a.Symbols(), b.Symbols()); diff != "" {
		t.Errorf("two builds disagree (-first +second):\n%s", diff)
	}
}

func TestNewVocabulary_Validation(t *testing.T) {
	base := NewBaseVocabulary().Symbols()

	t.Run("round trips", func(t *testing.T) {
		v, err := NewVocabulary(base, len(base))
		if err != nil {
			t.Fatalf("NewVocabulary: %v", err)
		}
		if diff := cmp.Diff(base, v.Symbols()); diff != "" {
			t.Errorf("symbols mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate symbol", func(t *testing.T) {
		dup := append(append([]string(nil), base...), "a")
		_, err := NewVocabulary(dup, len(base))
		if !errors.Is(err, ErrMalformedModel) {
			t.Errorf("err = %v; want ErrMalformedModel", err)
		}
	})

	t.Run("missing sentinel", func(t *testing.T) {
		_, err := NewVocabulary([]string{"a", "b"}, 2)
		if !errors.Is(err, ErrMalformedModel) {
			t.Errorf("err = %v; want ErrMalformedModel", err)
		}
	})

	t.Run("base size out of range", func(t *testing.T) {
		_, err := NewVocabulary(base, len(base)+1)
		if !errors.Is(err, ErrMalformedModel) {
			t.Errorf("err = %v; want ErrMalformedModel", err)
		}
	})
}

func TestSymbol_OutOfRange(t *testing.T) {
	v := NewBaseVocabulary()
	for _, id := range []int{-1, v.Size()} {
		if _, err := v.Symbol(id); !errors.Is(err, ErrTokenOutOfRange) {
			t.Errorf("Symbol(%d) err = %v; want ErrTokenOutOfRange", id, err)
		}
	}
}
