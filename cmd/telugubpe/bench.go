package main

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/example/telugu-bpe/internal/bench"
	"github.com/example/telugu-bpe/internal/text"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

func newBenchCmd() *cobra.Command {
	var (
		inputText    string
		runs         int
		format       string
		tpsThreshold float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark encode latency and throughput",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			raw, err := readTextArg(inputText, os.Stdin)
			if err != nil {
				return err
			}
			normalized, err := text.Normalize(raw)
			if err != nil {
				return err
			}

			model, err := loadModel(cfg)
			if err != nil {
				return err
			}
			encoder := tokenizer.NewEncoder(model)

			results := make([]bench.RunResult, 0, runs)
			for i := 0; i < runs; i++ {
				start := time.Now()
				enc := encoder.Encode(normalized)
				dur := time.Since(start)

				tokens := len(enc.TokenIDs())
				results = append(results, bench.RunResult{
					Index:        i,
					Cold:         i == 0,
					Duration:     dur,
					Runes:        utf8.RuneCountInString(normalized),
					Tokens:       tokens,
					TokensPerSec: bench.CalcTokensPerSec(tokens, dur),
				})
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case "json":
				bench.FormatJSON(results, stats, os.Stdout)
			default:
				bench.FormatTable(results, stats, os.Stdout)
			}

			var totalTPS float64
			for _, r := range results {
				totalTPS += r.TokensPerSec
			}
			meanTPS := totalTPS / float64(len(results))

			return bench.CheckThroughputThreshold(meanTPS, tpsThreshold)
		},
	}

	cmd.Flags().StringVar(&inputText, "text", "", "Text to encode each run (reads stdin when omitted)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of encode runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&tpsThreshold, "tps-threshold", 0, "Exit non-zero if mean tokens/s falls below this value (0 = disabled)")

	return cmd
}
