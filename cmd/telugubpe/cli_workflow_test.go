package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/example/telugu-bpe/internal/store"
	"github.com/example/telugu-bpe/internal/testutil"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

// runCommand executes the root command with args and returns captured stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	root := NewRootCmd()
	root.SetArgs(args)
	runErr := root.Execute()

	_ = w.Close()
	os.Stdout = orig

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return string(data), runErr
}

func TestTrainEncodeDecodeWorkflow(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.txt")
	vocabPath := filepath.Join(dir, "vocab.json")
	mergesPath := filepath.Join(dir, "merges.json")

	if err := os.WriteFile(corpusPath, []byte(testutil.TinyCorpus), 0o644); err != nil {
		t.Fatalf("writing corpus: %v", err)
	}

	pathFlags := []string{
		"--paths-vocab-path", vocabPath,
		"--paths-merges-path", mergesPath,
	}
	targetSize := tokenizer.NewBaseVocabulary().Size() + 1

	// train
	out, err := runCommand(t, append([]string{
		"train",
		"--corpus", corpusPath,
		"--train-vocab-size", fmt.Sprint(targetSize),
	}, pathFlags...)...)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if !strings.Contains(out, "trained 1 merges") {
		t.Errorf("train output missing merge count:\n%s", out)
	}
	for _, p := range []string{vocabPath, mergesPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("model file not written: %v", err)
		}
	}

	// encode
	out, err = runCommand(t, append([]string{
		"encode", "--text", "అమ్మ నాన్న", "--ids-only",
	}, pathFlags...)...)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 3 {
		t.Fatalf("expected 3 token ids, got %v", fields)
	}

	// decode: flat decoding concatenates tokens without separators.
	out, err = runCommand(t, append(append([]string{"decode"}, fields...), pathFlags...)...)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := strings.TrimSpace(out); got != "అమ్మనాన్న" {
		t.Errorf("decode output = %q, want %q", got, "అమ్మనాన్న")
	}

	// vocab
	out, err = runCommand(t, append([]string{"vocab", "--merges"}, pathFlags...)...)
	if err != nil {
		t.Fatalf("vocab: %v", err)
	}
	if !strings.Contains(out, "merges:     1") {
		t.Errorf("vocab output missing merge count:\n%s", out)
	}
	if !strings.Contains(out, "అమ్మ") {
		t.Errorf("vocab --merges should list the learned rule:\n%s", out)
	}

	// doctor
	out, err = runCommand(t, append([]string{"doctor"}, pathFlags...)...)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "doctor checks passed") {
		t.Errorf("doctor output missing pass line:\n%s", out)
	}

	// encoded ids must fall inside the trained vocab.
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			t.Fatalf("non-numeric id %q", f)
		}
		if id < 0 || id >= targetSize {
			t.Errorf("token id %d outside vocab range [0,%d)", id, targetSize)
		}
	}
}

func TestVocabWriteBase(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "base_vocab.json")

	out, err := runCommand(t, "vocab", "--write-base", basePath)
	if err != nil {
		t.Fatalf("vocab --write-base: %v", err)
	}
	if !strings.Contains(out, basePath) {
		t.Errorf("output should name the written file:\n%s", out)
	}

	data, err := os.ReadFile(basePath)
	if err != nil {
		t.Fatalf("reading written base vocab: %v", err)
	}
	vocab, err := store.LoadVocabulary(data)
	if err != nil {
		t.Fatalf("written base vocab does not load: %v", err)
	}
	if vocab.Size() != tokenizer.NewBaseVocabulary().Size() {
		t.Errorf("written base vocab size %d, want %d", vocab.Size(), tokenizer.NewBaseVocabulary().Size())
	}
}

func TestEncodeWithoutModelFails(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t,
		"encode", "--text", "అమ్మ",
		"--paths-vocab-path", filepath.Join(dir, "nope_vocab.json"),
		"--paths-merges-path", filepath.Join(dir, "nope_merges.json"),
	)
	if err == nil {
		t.Fatal("expected error when model files are missing")
	}
	if !strings.Contains(err.Error(), "telugubpe train") {
		t.Errorf("error should hint at training first, got: %v", err)
	}
}

func TestDecodeRejectsNonNumericIDs(t *testing.T) {
	model := testutil.TrainTinyModel(t, 1)
	vocabPath, mergesPath := testutil.WriteModelFiles(t, model, t.TempDir())

	_, err := runCommand(t,
		"decode", "abc",
		"--paths-vocab-path", vocabPath,
		"--paths-merges-path", mergesPath,
	)
	if err == nil {
		t.Fatal("expected error for non-numeric token id")
	}
}
