// Package testutil provides shared model fixtures for tests.
//
// Training even a tiny model touches the full pipeline (normalization,
// clustering, pair counting, merge replay), so tests that need a model
// share these helpers instead of hand-building vocabularies.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/telugu-bpe/internal/store"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

// TinyCorpus is a three-word Telugu corpus ("mother mother father") whose
// only pair above the default frequency threshold is (అ, మ్మ). Training
// with one merge slot yields exactly one rule: the full word "అమ్మ".
const TinyCorpus = "అమ్మ అమ్మ నాన్న"

// TrainTinyModel trains a model over TinyCorpus with extraMerges slots
// beyond the base vocabulary and fails the test on any training error.
func TrainTinyModel(tb testing.TB, extraMerges int) *tokenizer.Model {
	tb.Helper()

	base := tokenizer.NewBaseVocabulary()
	model, err := tokenizer.NewTrainer().Train(context.Background(), TinyCorpus, base.Size()+extraMerges)
	if err != nil {
		tb.Fatalf("training fixture model: %v", err)
	}
	return model
}

// WriteModelFiles writes m to vocab.json and merges.json under dir and
// returns both paths. Use tb.TempDir() for dir to get automatic cleanup.
func WriteModelFiles(tb testing.TB, m *tokenizer.Model, dir string) (vocabPath, mergesPath string) {
	tb.Helper()

	vocabPath = filepath.Join(dir, "vocab.json")
	mergesPath = filepath.Join(dir, "merges.json")
	if err := store.WriteModel(m, vocabPath, mergesPath); err != nil {
		tb.Fatalf("writing fixture model files: %v", err)
	}
	return vocabPath, mergesPath
}
