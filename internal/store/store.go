// Package store persists tokenizer models: a vocabulary file of
// {token, id} records with ids contiguous from 0, and an order-significant
// merge file of {left, right, result} records. Both are JSON, mirroring
// the telugu_tokenizer_vocab.json / telugu_tokenizer_merges.json layout.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/telugu-bpe/internal/tokenizer"
)

// VocabRecord is one persisted symbol.
type VocabRecord struct {
	Token string `json:"token"`
	ID    int    `json:"id"`
}

// MergeRecord is one persisted merge rule; file order is replay order.
type MergeRecord struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Result int `json:"result"`
}

// vocabFile wraps the records with the base size so a loaded model knows
// where merges begin without re-deriving it from the merge file.
type vocabFile struct {
	BaseSize int           `json:"base_size"`
	Tokens   []VocabRecord `json:"tokens"`
}

// SaveVocabulary serializes a vocabulary, one record per symbol in id order.
func SaveVocabulary(v *tokenizer.Vocabulary) ([]byte, error) {
	f := vocabFile{
		BaseSize: v.BaseSize(),
		Tokens:   make([]VocabRecord, v.Size()),
	}
	for id, sym := range v.Symbols() {
		f.Tokens[id] = VocabRecord{Token: sym, ID: id}
	}
	return json.MarshalIndent(f, "", "  ")
}

// LoadVocabulary parses and validates a persisted vocabulary. Id gaps,
// duplicates, and out-of-range ids fail with ErrMalformedModel; the load
// never silently defaults.
func LoadVocabulary(data []byte) (*tokenizer.Vocabulary, error) {
	var f vocabFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenizer.ErrMalformedModel, err)
	}
	if len(f.Tokens) == 0 {
		return nil, fmt.Errorf("%w: no token records", tokenizer.ErrMalformedModel)
	}

	symbols := make([]string, len(f.Tokens))
	seen := make([]bool, len(f.Tokens))
	for _, rec := range f.Tokens {
		if rec.ID < 0 || rec.ID >= len(f.Tokens) {
			return nil, fmt.Errorf("%w: id %d outside [0, %d)", tokenizer.ErrMalformedModel, rec.ID, len(f.Tokens))
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", tokenizer.ErrMalformedModel, rec.ID)
		}
		seen[rec.ID] = true
		symbols[rec.ID] = rec.Token
	}
	// A record count equal to the id range with no duplicates implies no
	// gaps, so contiguity holds by construction here.
	return tokenizer.NewVocabulary(symbols, f.BaseSize)
}

// SaveMerges serializes the ordered merge list.
func SaveMerges(rules []tokenizer.MergeRule) ([]byte, error) {
	records := make([]MergeRecord, len(rules))
	for i, r := range rules {
		records[i] = MergeRecord{Left: r.Left, Right: r.Right, Result: r.Result}
	}
	return json.MarshalIndent(records, "", "  ")
}

// LoadMerges parses a persisted merge list, preserving order. Structural
// validation against the vocabulary happens in tokenizer.NewModel.
func LoadMerges(data []byte) ([]tokenizer.MergeRule, error) {
	var records []MergeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenizer.ErrMalformedModel, err)
	}
	rules := make([]tokenizer.MergeRule, len(records))
	for i, rec := range records {
		rules[i] = tokenizer.MergeRule{Left: rec.Left, Right: rec.Right, Result: rec.Result}
	}
	return rules, nil
}

// WriteModel writes both model files.
func WriteModel(m *tokenizer.Model, vocabPath, mergesPath string) error {
	vocabData, err := SaveVocabulary(m.Vocab)
	if err != nil {
		return fmt.Errorf("serialize vocabulary: %w", err)
	}
	mergeData, err := SaveMerges(m.Merges)
	if err != nil {
		return fmt.Errorf("serialize merges: %w", err)
	}

	if err := os.WriteFile(vocabPath, vocabData, 0o644); err != nil {
		return fmt.Errorf("write vocabulary file: %w", err)
	}
	if err := os.WriteFile(mergesPath, mergeData, 0o644); err != nil {
		return fmt.Errorf("write merges file: %w", err)
	}
	return nil
}

// ReadModel loads and cross-validates both model files.
func ReadModel(vocabPath, mergesPath string) (*tokenizer.Model, error) {
	vocabData, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file %q: %w", vocabPath, err)
	}
	vocab, err := LoadVocabulary(vocabData)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary %q: %w", vocabPath, err)
	}

	mergeData, err := os.ReadFile(mergesPath)
	if err != nil {
		return nil, fmt.Errorf("read merges file %q: %w", mergesPath, err)
	}
	merges, err := LoadMerges(mergeData)
	if err != nil {
		return nil, fmt.Errorf("load merges %q: %w", mergesPath, err)
	}

	return tokenizer.NewModel(vocab, merges)
}
