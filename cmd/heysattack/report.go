package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Redeaux-Corporation/heysattack/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		inPath string
		topN   int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a previously saved YAML attack report as a ranked table",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}
			var r report.AttackReport
			if err := yaml.Unmarshal(data, &r); err != nil {
				return err
			}
			return r.WriteText(cmd.OutOrStdout(), topN)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "path to a YAML attack report produced by 'attack --report-format yaml' (required)")
	cmd.Flags().IntVar(&topN, "top", 10, "number of ranked candidates to print")
	cmd.MarkFlagRequired("in")

	return cmd
}
