// Package labels turns raw worker ratings into per-worker standardized binary labels.
//
// Each trait is z-scored within each rater, so a label of 1 means the rater
// scored the recording above their own average for that trait. A rater with a
// single rating, or with identical ratings, has no usable spread: their
// z-scores are set to 0 and their labels to 0, the same label given to
// ratings below the rater's mean.
package labels

import (
	"math"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/montanaflynn/stats"
)

// LabelRow holds the standardized scores and binary labels of one rated recording.
type LabelRow struct {
	dataset.Key
	Z      []float64
	Labels []int
}

// LabelTable has one row per input rating row and one label column per trait.
type LabelTable struct {
	Traits []string
	Rows   []LabelRow
}

// Normalize imputes missing scores with the trait mean over all raters,
// z-scores every trait per rater and binarizes at zero.
func Normalize(t *dataset.TargetTable) (*LabelTable, error) {
	out := &LabelTable{
		Traits: append([]string(nil), t.Traits...),
		Rows:   make([]LabelRow, len(t.Rows)),
	}
	for i, row := range t.Rows {
		if len(row.Scores) != len(t.Traits) {
			return nil, errors.Schemaf("row %d has %d scores for %d traits", i, len(row.Scores), len(t.Traits))
		}
		out.Rows[i] = LabelRow{
			Key:    row.Key,
			Z:      make([]float64, len(t.Traits)),
			Labels: make([]int, len(t.Traits)),
		}
	}

	byRater := make(map[string][]int)
	for i, row := range t.Rows {
		byRater[row.Rater] = append(byRater[row.Rater], i)
	}
	for j := range t.Traits {
		raw := imputeColumn(t, j)
		for _, rows := range byRater {
			for i, z := range zscores(raw, rows) {
				out.Rows[rows[i]].Z[j] = z
				if z > 0 {
					out.Rows[rows[i]].Labels[j] = 1
				}
			}
		}
	}
	return out, nil
}

// imputeColumn returns trait j's raw scores with missing values replaced by
// the column mean. A column with no observed score stays missing.
func imputeColumn(t *dataset.TargetTable, j int) []float64 {
	raw := make([]float64, len(t.Rows))
	var observed stats.Float64Data
	for i, row := range t.Rows {
		raw[i] = row.Scores[j]
		if !math.IsNaN(raw[i]) {
			observed = append(observed, raw[i])
		}
	}
	mean, err := stats.Mean(observed)
	if err != nil {
		return raw
	}
	for i := range raw {
		if math.IsNaN(raw[i]) {
			raw[i] = mean
		}
	}
	return raw
}

// zscores standardizes raw[rows] against their own mean and sample standard
// deviation. Undefined results are 0. Identical values give 0 even when
// rounding in the mean leaves a tiny nonzero deviation.
func zscores(raw []float64, rows []int) []float64 {
	z := make([]float64, len(rows))
	if len(rows) < 2 {
		return z
	}
	vals := make(stats.Float64Data, len(rows))
	for i, r := range rows {
		vals[i] = raw[r]
	}
	if constant(vals) {
		return z
	}
	mean, err := stats.Mean(vals)
	if err != nil {
		return z
	}
	sd, err := stats.StdDevS(vals)
	if err != nil || sd == 0 || math.IsNaN(sd) {
		return z
	}
	for i, v := range vals {
		z[i] = (v - mean) / sd
	}
	return z
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// Select returns a copy of t restricted to the named traits, in the given order.
func (t *LabelTable) Select(traits []string) (*LabelTable, error) {
	idx := make(map[string]int, len(t.Traits))
	for i, tr := range t.Traits {
		idx[tr] = i
	}
	pick := make([]int, len(traits))
	for i, tr := range traits {
		j, ok := idx[tr]
		if !ok {
			return nil, errors.Schemaf("trait %q not found", tr)
		}
		pick[i] = j
	}

	out := &LabelTable{Traits: append([]string(nil), traits...), Rows: make([]LabelRow, len(t.Rows))}
	for i, row := range t.Rows {
		r := LabelRow{Key: row.Key, Z: make([]float64, len(pick)), Labels: make([]int, len(pick))}
		for j, k := range pick {
			r.Z[j] = row.Z[k]
			r.Labels[j] = row.Labels[k]
		}
		out.Rows[i] = r
	}
	return out, nil
}

// Filter returns the rows whose rater satisfies keep.
func (t *LabelTable) Filter(keep func(rater string) bool) *LabelTable {
	out := &LabelTable{Traits: t.Traits}
	for _, row := range t.Rows {
		if keep(row.Rater) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Column returns the labels of trait i.
func (t *LabelTable) Column(i int) []int {
	col := make([]int, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row.Labels[i]
	}
	return col
}
