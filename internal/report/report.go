// Package report renders an AttackReport, the end-of-run summary of an
// attack call, replacing the teacher's ComplianceReport
// (compliance-report.go) — a FIPS/NIST checklist report — with one
// shaped around what a linear-cryptanalysis run actually produces: a
// recovered key, its supporting votes, and how much search it took.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Redeaux-Corporation/heysattack/internal/m2"
)

// AttackReport is the end-of-run summary assembled by the attack driver.
type AttackReport struct {
	RunID               uuid.UUID     `yaml:"run_id"`
	GeneratedAt         time.Time     `yaml:"generated_at"`
	RecoveredKey        uint16        `yaml:"recovered_key"`
	Votes               []m2.KeyVote  `yaml:"votes"`
	ApproximationsUsed  int           `yaml:"approximations_used"`
	AlphasProcessed     []uint16      `yaml:"alphas_processed"`
	Elapsed             time.Duration `yaml:"elapsed"`
}

// New assembles a report from a finished attack's vote counter. The
// recovered key is the candidate with the highest vote count, ties
// broken by ascending key value for reproducibility (mirroring the
// internal/m2 tie-break rule).
func New(votes map[uint16]int, approximationsUsed int, alphasProcessed []uint16, elapsed time.Duration) *AttackReport {
	ranked := rankVotes(votes)
	var recovered uint16
	if len(ranked) > 0 {
		recovered = ranked[0].Key
	}

	return &AttackReport{
		RunID:              uuid.New(),
		GeneratedAt:        time.Now(),
		RecoveredKey:       recovered,
		Votes:              ranked,
		ApproximationsUsed: approximationsUsed,
		AlphasProcessed:    alphasProcessed,
		Elapsed:            elapsed,
	}
}

func rankVotes(votes map[uint16]int) []m2.KeyVote {
	ranked := make([]m2.KeyVote, 0, len(votes))
	for key, count := range votes {
		ranked = append(ranked, m2.KeyVote{Key: key, Score: int64(count)})
	}
	sortVotesDescending(ranked)
	return ranked
}

func sortVotesDescending(votes []m2.KeyVote) {
	// insertion sort is plenty for the handful of distinct candidate keys
	// a real run surfaces; avoids pulling in sort.Slice for a list this
	// small and keeps the tie-break rule explicit.
	for i := 1; i < len(votes); i++ {
		j := i
		for j > 0 && less(votes[j], votes[j-1]) {
			votes[j], votes[j-1] = votes[j-1], votes[j]
			j--
		}
	}
}

func less(a, b m2.KeyVote) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Key < b.Key
}

// WriteText renders a tabulated top-N summary, in the teacher's own
// fmt.Fprintf-summary style (main.go).
func (r *AttackReport) WriteText(w io.Writer, topN int) error {
	if _, err := fmt.Fprintf(w, "Attack run %s\n", r.RunID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  recovered key:        0x%04X\n", r.RecoveredKey); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  approximations used:  %d\n", r.ApproximationsUsed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  alphas processed:     %d\n", len(r.AlphasProcessed)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  elapsed:              %s\n\n", r.Elapsed); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "  %-8s %-8s %-8s %s\n", "rank", "key", "score", ""); err != nil {
		return err
	}
	n := topN
	if n > len(r.Votes) || n <= 0 {
		n = len(r.Votes)
	}
	for i := 0; i < n; i++ {
		v := r.Votes[i]
		marker := ""
		if v.Key == r.RecoveredKey {
			marker = "  <- recovered"
		}
		if _, err := fmt.Fprintf(w, "  %-8d 0x%04X   %-8d%s\n", i+1, v.Key, v.Score, marker); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML renders the full report as a YAML document, the form the
// heysattack `report` subcommand reads back.
func (r *AttackReport) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}
