// Package approx models the nested mapping from an input mask alpha to
// the surviving {beta: probability} frontier the branch-and-bound search
// produces for it, plus its flat secondary-index form used for on-disk
// persistence. Both representations are kept in sync: Table is what the
// search and M2 code actually reads; Record is what internal/store writes.
package approx

// Table is alpha -> beta -> accumulated probability. All p > threshold;
// beta == 0 never appears.
type Table map[uint16]map[uint16]float64

// Record is the flat, order-independent form of one (alpha, beta, p)
// entry, used as the on-disk record shape.
type Record struct {
	Alpha       uint16
	Beta        uint16
	Probability float64
}

// New returns an empty approximation table.
func New() Table {
	return Table{}
}

// Put inserts or overwrites the (alpha, beta) entry.
func (t Table) Put(alpha, beta uint16, p float64) {
	bucket, ok := t[alpha]
	if !ok {
		bucket = map[uint16]float64{}
		t[alpha] = bucket
	}
	bucket[beta] = p
}

// Merge folds a single alpha's {beta: p} frontier into the table,
// overwriting any existing entries for that alpha's betas.
func (t Table) Merge(alpha uint16, frontier map[uint16]float64) {
	for beta, p := range frontier {
		t.Put(alpha, beta, p)
	}
}

// Count returns the total number of (alpha, beta) entries across every
// alpha bucket.
func (t Table) Count() int {
	n := 0
	for _, bucket := range t {
		n += len(bucket)
	}
	return n
}

// Alphas returns the set of alphas with at least one recorded beta.
func (t Table) Alphas() []uint16 {
	out := make([]uint16, 0, len(t))
	for alpha := range t {
		out = append(out, alpha)
	}
	return out
}

// Records flattens the table into its secondary-index form, in no
// particular order; internal/store writes the records in the order
// returned here, without sorting them.
func (t Table) Records() []Record {
	records := make([]Record, 0, t.Count())
	for alpha, bucket := range t {
		for beta, p := range bucket {
			records = append(records, Record{Alpha: alpha, Beta: beta, Probability: p})
		}
	}
	return records
}

// FromRecords rebuilds a Table from its flat form.
func FromRecords(records []Record) Table {
	t := New()
	for _, r := range records {
		t.Put(r.Alpha, r.Beta, r.Probability)
	}
	return t
}
