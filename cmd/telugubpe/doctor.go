package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/telugu-bpe/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var skipModel bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local installation and model checks",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			result := doctor.Run(doctor.Config{
				VocabPath:  cfg.Paths.VocabPath,
				MergesPath: cfg.Paths.MergesPath,
				SkipModel:  skipModel,
			}, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipModel, "skip-model", false, "Only check the built-in base vocabulary, not model files")

	return cmd
}
