package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/telugu-bpe/internal/text"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

func newEncodeCmd() *cobra.Command {
	var (
		inputText string
		idsOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode text to token ids",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			model, err := loadModel(cfg)
			if err != nil {
				return err
			}

			raw, err := readTextArg(inputText, os.Stdin)
			if err != nil {
				return err
			}
			normalized, err := text.Normalize(raw)
			if err != nil {
				return err
			}

			enc := tokenizer.NewEncoder(model).Encode(normalized)
			ids := enc.TokenIDs()

			if idsOnly {
				parts := make([]string, len(ids))
				for i, id := range ids {
					parts[i] = fmt.Sprintf("%d", id)
				}
				_, err = fmt.Fprintln(os.Stdout, strings.Join(parts, " "))
				return err
			}

			texts := enc.TokenTexts()
			for i, id := range ids {
				if _, err := fmt.Fprintf(os.Stdout, "%6d  %s\n", id, texts[i]); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(os.Stdout, "%d tokens\n", len(ids))
			return err
		},
	}

	cmd.Flags().StringVar(&inputText, "text", "", "Text to encode (reads stdin when omitted)")
	cmd.Flags().BoolVar(&idsOnly, "ids-only", false, "Print only space-separated token ids")

	return cmd
}
