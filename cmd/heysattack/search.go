package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Redeaux-Corporation/heysattack/internal/heys"
	"github.com/Redeaux-Corporation/heysattack/internal/lat"
	"github.com/Redeaux-Corporation/heysattack/internal/search"
)

func newSearchCmd() *cobra.Command {
	var (
		alphaFlag  string
		threshold  float64
		rounds     int
		processes  int
		sampled    bool
		sampleSize int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run branch-and-bound approximation search for a single alpha",
		RunE: func(cmd *cobra.Command, args []string) error {
			alphas, err := parseAlphas(alphaFlag)
			if err != nil {
				return err
			}
			if len(alphas) != 1 {
				return fmt.Errorf("search takes exactly one --alpha")
			}

			tables, err := heys.BuildTables(heys.DefaultSBox)
			if err != nil {
				return err
			}
			lt := lat.Build(tables.SBox)

			searcher, err := search.New(tables, lt, rounds, threshold)
			if err != nil {
				return err
			}
			if processes > 0 {
				searcher.Workers = processes
			}
			searcher.Sampled = sampled
			searcher.SampleSize = sampleSize

			frontier, err := searcher.Search(cmd.Context(), alphas[0])
			if err != nil {
				return err
			}

			betas := make([]uint16, 0, len(frontier))
			for beta := range frontier {
				betas = append(betas, beta)
			}
			sort.Slice(betas, func(i, j int) bool { return frontier[betas[i]] > frontier[betas[j]] })

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "alpha=0x%04X rounds=%d threshold=%g -> %d surviving betas\n", alphas[0], rounds, threshold, len(betas))
			for _, beta := range betas {
				fmt.Fprintf(out, "  beta=0x%04X p=%g\n", beta, frontier[beta])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&alphaFlag, "alpha", "0xF", "seed input mask")
	cmd.Flags().Float64Var(&threshold, "threshold", 1e-6, "minimum squared correlation to keep")
	cmd.Flags().IntVar(&rounds, "rounds", 5, "number of rounds to traverse (cipher rounds - 1)")
	cmd.Flags().IntVar(&processes, "processes", 0, "worker goroutines to use (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&sampled, "sampled", false, "use the sampled-beta search variant instead of exact enumeration")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "candidate betas to sample per round when --sampled is set")

	return cmd
}
