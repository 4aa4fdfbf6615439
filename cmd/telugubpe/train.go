package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/telugu-bpe/internal/store"
	"github.com/example/telugu-bpe/internal/text"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

func newTrainCmd() *cobra.Command {
	var corpusPath string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train merge rules from a corpus file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			var raw []byte
			if corpusPath == "" || corpusPath == "-" {
				corpusPath = "stdin"
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(corpusPath) // #nosec G304 -- user-supplied corpus path
			}
			if err != nil {
				return fmt.Errorf("reading corpus: %w", err)
			}
			corpus, err := text.Normalize(string(raw))
			if err != nil {
				return fmt.Errorf("corpus %s: %w", corpusPath, err)
			}

			trainer := tokenizer.NewTrainer(
				tokenizer.WithMinPairFrequency(cfg.Train.MinPairFrequency),
				tokenizer.WithWorkers(cfg.Train.Workers),
				tokenizer.WithMaxIterations(cfg.Train.MaxIterations),
				tokenizer.WithLogger(slog.Default()),
			)
			model, err := trainer.Train(cmd.Context(), corpus, cfg.Train.VocabSize)
			if err != nil {
				return err
			}

			for _, dir := range []string{filepath.Dir(cfg.Paths.VocabPath), filepath.Dir(cfg.Paths.MergesPath)} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating model directory: %w", err)
				}
			}
			if err := store.WriteModel(model, cfg.Paths.VocabPath, cfg.Paths.MergesPath); err != nil {
				return err
			}

			_, err = fmt.Fprintf(os.Stdout,
				"trained %d merges (vocab %d, base %d)\nvocab:  %s\nmerges: %s\n",
				len(model.Merges), model.Vocab.Size(), model.Vocab.BaseSize(),
				cfg.Paths.VocabPath, cfg.Paths.MergesPath)
			return err
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Path to UTF-8 training corpus (\"-\" or empty = stdin)")

	return cmd
}
