package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/telugu-bpe/internal/store"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

func newVocabCmd() *cobra.Command {
	var (
		showMerges    bool
		writeBasePath string
	)

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show vocabulary statistics for the trained model",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if writeBasePath != "" {
				data, err := store.SaveVocabulary(tokenizer.NewBaseVocabulary())
				if err != nil {
					return err
				}
				if err := os.WriteFile(writeBasePath, data, 0o644); err != nil {
					return fmt.Errorf("writing base vocabulary: %w", err)
				}
				_, err = fmt.Fprintf(os.Stdout, "base vocabulary written to %s\n", writeBasePath)
				return err
			}
			model, err := loadModel(cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(os.Stdout,
				"vocab size: %d\nbase size:  %d\nmerges:     %d\n",
				model.Vocab.Size(), model.Vocab.BaseSize(), len(model.Merges))
			if err != nil {
				return err
			}

			if showMerges {
				for i, m := range model.Merges {
					left, err := model.Vocab.Symbol(m.Left)
					if err != nil {
						return err
					}
					right, err := model.Vocab.Symbol(m.Right)
					if err != nil {
						return err
					}
					result, err := model.Vocab.Symbol(m.Result)
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintf(os.Stdout, "%4d  %s + %s -> %s (id %d)\n",
						i, left, right, result, m.Result); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMerges, "merges", false, "List all learned merge rules in training order")
	cmd.Flags().StringVar(&writeBasePath, "write-base", "", "Write the generated base vocabulary JSON to this path and exit")

	return cmd
}
