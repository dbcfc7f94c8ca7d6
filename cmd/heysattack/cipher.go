package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newEncryptCmd() *cobra.Command {
	var keysFlag string
	cmd := &cobra.Command{
		Use:   "encrypt [block...]",
		Short: "Encrypt one or more 16-bit blocks under a given key schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := parseKeys(keysFlag)
			if err != nil {
				return err
			}
			cipher, _, err := buildCipher(keys)
			if err != nil {
				return err
			}

			blocks, err := parseBlocks(args)
			if err != nil {
				return err
			}
			out := cipher.Encrypt(blocks)
			for i, b := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%04X -> 0x%04X\n", blocks[i], b)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keysFlag, "keys", "", "comma-separated R+1 16-bit round keys (required)")
	cmd.MarkFlagRequired("keys")
	return cmd
}

func newDecryptCmd() *cobra.Command {
	var keysFlag string
	cmd := &cobra.Command{
		Use:   "decrypt [block...]",
		Short: "Decrypt one or more 16-bit blocks under a given key schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := parseKeys(keysFlag)
			if err != nil {
				return err
			}
			cipher, _, err := buildCipher(keys)
			if err != nil {
				return err
			}

			blocks, err := parseBlocks(args)
			if err != nil {
				return err
			}
			out := cipher.Decrypt(blocks)
			for i, b := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%04X -> 0x%04X\n", blocks[i], b)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keysFlag, "keys", "", "comma-separated R+1 16-bit round keys (required)")
	cmd.MarkFlagRequired("keys")
	return cmd
}

func parseBlocks(args []string) ([]uint16, error) {
	blocks := make([]uint16, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(strings.TrimSpace(a), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid block %q: %w", a, err)
		}
		blocks = append(blocks, uint16(v))
	}
	return blocks, nil
}
