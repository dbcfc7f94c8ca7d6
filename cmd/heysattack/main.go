// Command heysattack runs a linear-cryptanalysis attack against the
// 16-bit Heys cipher: branch-and-bound approximation search followed by
// Matsui's Algorithm 2 key-ranking.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "heysattack",
		Short:         "Linear cryptanalysis of the Heys cipher",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newAttackCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newEncryptCmd())
	cmd.AddCommand(newDecryptCmd())
	cmd.AddCommand(newReportCmd())
	return cmd
}
