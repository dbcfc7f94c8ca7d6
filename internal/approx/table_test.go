package approx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeAndCount(t *testing.T) {
	tbl := New()
	tbl.Merge(0x000F, map[uint16]float64{0x0001: 0.25, 0x0002: 0.5})
	tbl.Merge(0x00F0, map[uint16]float64{0x0003: 0.75})

	if got := tbl.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
	if got := tbl[0x000F][0x0001]; got != 0.25 {
		t.Fatalf("tbl[0xF][0x1] = %v, want 0.25", got)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	tbl := New()
	tbl.Put(1, 2, 0.125)
	tbl.Put(1, 3, 0.0625)
	tbl.Put(4, 5, 0.5)

	records := tbl.Records()
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	rebuilt := FromRecords(records)
	if diff := cmp.Diff(map[uint16]map[uint16]float64(tbl), map[uint16]map[uint16]float64(rebuilt)); diff != "" {
		t.Fatalf("rebuilt table differs from original (-want +got):\n%s", diff)
	}
}

func TestAlphasListsEveryBucket(t *testing.T) {
	tbl := New()
	tbl.Put(1, 1, 0.1)
	tbl.Put(2, 1, 0.1)

	alphas := tbl.Alphas()
	if len(alphas) != 2 {
		t.Fatalf("len(alphas) = %d, want 2", len(alphas))
	}
}
