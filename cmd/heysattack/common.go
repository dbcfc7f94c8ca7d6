package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Redeaux-Corporation/heysattack/internal/corpus"
	"github.com/Redeaux-Corporation/heysattack/internal/heys"
)

// parseAlphas parses a comma-separated list of hex or decimal 16-bit
// masks, e.g. "0xF,0xF0,0xF00,0xF000".
func parseAlphas(raw string) ([]uint16, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("no alphas given")
	}
	parts := strings.Split(raw, ",")
	alphas := make([]uint16, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseUint(p, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha %q: %w", p, err)
		}
		alphas = append(alphas, uint16(v))
	}
	return alphas, nil
}

// parseKeys parses a comma-separated list of R+1 16-bit round keys.
func parseKeys(raw string) ([]uint16, error) {
	parts := strings.Split(raw, ",")
	keys := make([]uint16, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseUint(p, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", p, err)
		}
		keys = append(keys, uint16(v))
	}
	return keys, nil
}

// buildCipher constructs a Heys instance from the default S-box and a
// caller-supplied key schedule.
func buildCipher(keys []uint16) (*heys.Heys, *heys.CipherTables, error) {
	tables, err := heys.BuildTables(heys.DefaultSBox)
	if err != nil {
		return nil, nil, err
	}
	cipher, err := heys.New(tables, keys)
	if err != nil {
		return nil, nil, err
	}
	return cipher, tables, nil
}

// loadCorpusFile opens and parses a corpus file at path (the little-
// endian record stream internal/corpus.Write produces).
func loadCorpusFile(path string) (*corpus.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return corpus.Read(f)
}
