package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Redeaux-Corporation/heysattack/internal/attack"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
	"github.com/Redeaux-Corporation/heysattack/internal/lat"
	"github.com/Redeaux-Corporation/heysattack/internal/report"
)

func newAttackCmd() *cobra.Command {
	var (
		corpusPath   string
		alphasFlag   string
		threshold    float64
		rounds       int
		maxApprox    int
		topKeys      int
		processes    int
		reportFormat string
	)

	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Run the full search + M2 pipeline against a corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			alphas, err := parseAlphas(alphasFlag)
			if err != nil {
				return err
			}
			c, err := loadCorpusFile(corpusPath)
			if err != nil {
				return err
			}
			tables, err := heys.BuildTables(heys.DefaultSBox)
			if err != nil {
				return err
			}
			lt := lat.Build(tables.SBox)

			result, err := attack.Run(ctx, attack.Config{
				Tables:            tables,
				LAT:               lt,
				Corpus:            c,
				Alphas:            alphas,
				Rounds:            rounds,
				Threshold:         threshold,
				MaxApproximations: maxApprox,
				TopKeys:           topKeys,
				Workers:           processes,
			})
			if err != nil {
				return err
			}

			r := report.New(result.Votes, result.Approximations.Count(), result.AlphasProcessed, result.Elapsed)
			if reportFormat == "yaml" {
				return r.WriteYAML(cmd.OutOrStdout())
			}
			return r.WriteText(cmd.OutOrStdout(), 10)
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "path to a known plaintext/ciphertext corpus file (required)")
	cmd.Flags().StringVar(&alphasFlag, "alphas", "0xF,0xF0,0xF00,0xF000", "comma-separated seed input masks")
	cmd.Flags().Float64Var(&threshold, "threshold", 1e-6, "minimum squared correlation to keep in the search frontier")
	cmd.Flags().IntVar(&rounds, "rounds", 6, "full cipher round count R (search traverses R-1 rounds)")
	cmd.Flags().IntVar(&maxApprox, "max-approx", 0, "stop once this many approximations have been accumulated (0 = no limit)")
	cmd.Flags().IntVar(&topKeys, "top-keys", 16, "number of top-scoring keys to emit per (alpha,beta) pair")
	cmd.Flags().IntVar(&processes, "processes", 0, "worker goroutines to use (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&reportFormat, "report-format", "text", "report rendering: text or yaml")
	cmd.MarkFlagRequired("corpus")

	return cmd
}
