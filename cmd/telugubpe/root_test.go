package main

import (
	"strings"
	"testing"

	"github.com/example/telugu-bpe/internal/config"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"train", "encode", "decode", "vocab", "bench", "serve", "health", "doctor"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentConfigFlag(t *testing.T) {
	root := NewRootCmd()
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config persistent flag to be registered")
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	// Should not panic on invalid level.
	setupLogger("not-a-level")
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	// Zero-value config has empty Paths.VocabPath → requireConfig returns error.
	activeCfg = config.Config{}

	_, err := requireConfig()
	if err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestRequireConfig_SucceedsWhenLoaded(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{
		Paths: config.PathsConfig{VocabPath: "/some/vocab.json"},
	}

	got, err := requireConfig()
	if err != nil {
		t.Fatalf("requireConfig returned unexpected error: %v", err)
	}

	if got.Paths.VocabPath != "/some/vocab.json" {
		t.Errorf("unexpected VocabPath: %q", got.Paths.VocabPath)
	}
}

func TestReadTextArg(t *testing.T) {
	t.Run("flag wins over stdin", func(t *testing.T) {
		got, err := readTextArg("అమ్మ", strings.NewReader("ignored"))
		if err != nil {
			t.Fatalf("readTextArg: %v", err)
		}
		if got != "అమ్మ" {
			t.Errorf("got %q, want flag text", got)
		}
	})

	t.Run("stdin with trailing newline", func(t *testing.T) {
		got, err := readTextArg("", strings.NewReader("నాన్న\n"))
		if err != nil {
			t.Fatalf("readTextArg: %v", err)
		}
		if got != "నాన్న" {
			t.Errorf("got %q, want %q", got, "నాన్న")
		}
	})

	t.Run("empty input rejected", func(t *testing.T) {
		if _, err := readTextArg("", strings.NewReader("")); err == nil {
			t.Fatal("expected error for empty input")
		}
	})
}
