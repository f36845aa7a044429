package evaluation

import (
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/labels"
)

// Examples is a design matrix: feature rows joined to their trait labels by key.
type Examples struct {
	Traits []string
	Keys   []dataset.Key
	X      [][]float64
	// Y holds one label per trait for each row.
	Y [][]int
}

// Join matches every label row to the feature row with the same rater and
// record. A label row without features is a schema error; feature rows
// without labels are dropped.
func Join(features *dataset.FeatureTable, lbls *labels.LabelTable) (*Examples, error) {
	idx := features.Index()
	ex := &Examples{Traits: lbls.Traits}
	for _, row := range lbls.Rows {
		i, ok := idx[row.Key]
		if !ok {
			return nil, errors.Schemaf("no features for rater %q record %q", row.Rater, row.Record)
		}
		ex.Keys = append(ex.Keys, row.Key)
		ex.X = append(ex.X, features.Rows[i].Values)
		ex.Y = append(ex.Y, row.Labels)
	}
	return ex, nil
}

// Len is the number of rows.
func (e *Examples) Len() int {
	return len(e.Keys)
}

// Filter returns the rows whose rater satisfies keep.
func (e *Examples) Filter(keep func(rater string) bool) *Examples {
	out := &Examples{Traits: e.Traits}
	for i, key := range e.Keys {
		if keep(key.Rater) {
			out.Keys = append(out.Keys, key)
			out.X = append(out.X, e.X[i])
			out.Y = append(out.Y, e.Y[i])
		}
	}
	return out
}

// Raters returns the unique raters in order of first appearance.
func (e *Examples) Raters() []string {
	ids := make([]string, len(e.Keys))
	for i, key := range e.Keys {
		ids[i] = key.Rater
	}
	return dataset.UniqueRaters(ids)
}

// Labels returns the labels of trait t.
func (e *Examples) Labels(t int) []int {
	col := make([]int, len(e.Y))
	for i, row := range e.Y {
		col[i] = row[t]
	}
	return col
}
