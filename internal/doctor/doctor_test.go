package doctor_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/telugu-bpe/internal/doctor"
	"github.com/example/telugu-bpe/internal/testutil"
)

// writeModelFiles trains a one-merge model and writes it to dir, returning
// the vocab and merges paths.
func writeModelFiles(t *testing.T, dir string) (vocabPath, mergesPath string) {
	t.Helper()
	return testutil.WriteModelFiles(t, testutil.TrainTinyModel(t, 1), dir)
}

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	vocabPath, mergesPath := writeModelFiles(t, t.TempDir())

	cfg := doctor.Config{
		VocabPath:  vocabPath,
		MergesPath: mergesPath,
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "model load") {
		t.Error("output should mention model load")
	}
	if !strings.Contains(out.String(), doctor.PassMark) {
		t.Error("output should contain pass marks")
	}
}

// ---------------------------------------------------------------------------
// model files missing
// ---------------------------------------------------------------------------

func TestRun_MissingFilesFail(t *testing.T) {
	dir := t.TempDir()
	cfg := doctor.Config{
		VocabPath:  filepath.Join(dir, "missing_vocab.json"),
		MergesPath: filepath.Join(dir, "missing_merges.json"),
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !result.Failed() {
		t.Fatal("expected failure when model files are absent")
	}
	if !hasFailureContaining(result.Failures(), "missing_vocab.json") {
		t.Errorf("expected failure naming the vocab file, got: %v", result.Failures())
	}
	if !strings.Contains(out.String(), doctor.FailMark) {
		t.Error("output should contain fail marks")
	}
}

// ---------------------------------------------------------------------------
// skip-model mode
// ---------------------------------------------------------------------------

func TestRun_SkipModelPassesWithoutFiles(t *testing.T) {
	cfg := doctor.Config{SkipModel: true}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected skip-model run to pass; failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Error("output should mention skipped model checks")
	}
}

// ---------------------------------------------------------------------------
// corrupt model file
// ---------------------------------------------------------------------------

func TestRun_CorruptVocabFails(t *testing.T) {
	dir := t.TempDir()
	vocabPath, mergesPath := writeModelFiles(t, dir)

	if err := writeFile(vocabPath, "not json"); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	cfg := doctor.Config{VocabPath: vocabPath, MergesPath: mergesPath}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !result.Failed() {
		t.Fatal("expected failure for corrupt vocabulary file")
	}
	if !hasFailureContaining(result.Failures(), "model load") {
		t.Errorf("expected model load failure, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// external failure accumulation
// ---------------------------------------------------------------------------

func TestResult_AddFailure(t *testing.T) {
	var r doctor.Result
	if r.Failed() {
		t.Fatal("fresh result should not be failed")
	}
	r.AddFailure("listen port busy")
	if !r.Failed() {
		t.Fatal("result should fail after AddFailure")
	}
	if !hasFailureContaining(r.Failures(), "port busy") {
		t.Errorf("unexpected failures: %v", r.Failures())
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func hasFailureContaining(failures []string, substr string) bool {
	for _, f := range failures {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}
