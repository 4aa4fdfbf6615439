package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/telugu-bpe/internal/tokenizer"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [id ...]",
		Short: "Decode token ids back to text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			model, err := loadModel(cfg)
			if err != nil {
				return err
			}

			ids := make([]int, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("token id %q is not an integer", a)
				}
				ids[i] = n
			}

			s, err := tokenizer.NewDecoder(model.Vocab).Decode(ids)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, s)
			return err
		},
	}

	return cmd
}
