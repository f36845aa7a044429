// Package dataset loads the crowd-rated recordings and separates them into
// feature records and target-rating records keyed by rater identity.
package dataset

import (
	"io"
	"math"
	"os"
	"strconv"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/go-gota/gota/dataframe"
)

// DefaultTargets are the perceived-personality traits rated by workers.
var DefaultTargets = []string{
	"Aggressive", "Attractive", "Confident", "Intelligent",
	"Masculine", "Quality", "Trust", "Win",
}

// missingValues are the raw cell values treated as missing.
var missingValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// Key identifies one rated recording.
type Key struct {
	Rater  string
	Record string
}

// Schema names the identity and target columns of the combined dataset.
type Schema struct {
	RaterColumn  string
	// RecordColumn identifies the recording; when empty or absent the
	// 0-based row position in the file is used.
	RecordColumn string
	Targets      []string
}

// FeatureRow is the feature vector of one rated recording. Missing values are NaN.
type FeatureRow struct {
	Key
	Values []float64
}

// FeatureTable holds the non-target columns of the dataset.
type FeatureTable struct {
	Columns []string
	Rows    []FeatureRow
}

// RatingRow holds the raw trait scores given by one rater to one recording. Missing values are NaN.
type RatingRow struct {
	Key
	Scores []float64
}

// TargetTable holds the target trait columns of the dataset.
type TargetTable struct {
	Traits []string
	Rows   []RatingRow
}

// LoadFile reads the combined dataset from a CSV file.
func LoadFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "opening dataset")
	}
	defer f.Close()
	return Load(f)
}

// Load reads the combined dataset from CSV.
func Load(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "reading dataset")
	}
	return df, nil
}

// Split separates df into a feature table and a target table. Every row of
// both outputs carries the same Key, so rows correspond by identity rather
// than by position.
func Split(df dataframe.DataFrame, schema Schema) (*FeatureTable, *TargetTable, error) {
	names := make(map[string]bool)
	for _, name := range df.Names() {
		names[name] = true
	}
	if !names[schema.RaterColumn] {
		return nil, nil, errors.Schemaf("rater column %q not found", schema.RaterColumn)
	}
	isTarget := make(map[string]bool)
	for _, target := range schema.Targets {
		if !names[target] {
			return nil, nil, errors.Schemaf("target column %q not found", target)
		}
		isTarget[target] = true
	}

	keys, err := rowKeys(df, schema, names[schema.RecordColumn])
	if err != nil {
		return nil, nil, err
	}

	targets := &TargetTable{Traits: append([]string(nil), schema.Targets...)}
	targetCols := make([][]float64, len(schema.Targets))
	for i, target := range schema.Targets {
		targetCols[i] = df.Col(target).Float()
	}
	for i, key := range keys {
		scores := make([]float64, len(targetCols))
		for j, col := range targetCols {
			scores[j] = col[i]
		}
		targets.Rows = append(targets.Rows, RatingRow{Key: key, Scores: scores})
	}

	features := &FeatureTable{}
	var featureCols [][]float64
	for _, name := range df.Names() {
		if isTarget[name] || name == schema.RaterColumn || name == schema.RecordColumn {
			continue
		}
		features.Columns = append(features.Columns, name)
		featureCols = append(featureCols, df.Col(name).Float())
	}
	for i, key := range keys {
		values := make([]float64, len(featureCols))
		for j, col := range featureCols {
			values[j] = col[i]
		}
		features.Rows = append(features.Rows, FeatureRow{Key: key, Values: values})
	}
	return features, targets, nil
}

func rowKeys(df dataframe.DataFrame, schema Schema, hasRecord bool) ([]Key, error) {
	raters := df.Col(schema.RaterColumn).Records()
	var records []string
	if hasRecord {
		records = df.Col(schema.RecordColumn).Records()
	}

	seen := make(map[Key]bool, len(raters))
	keys := make([]Key, len(raters))
	for i, rater := range raters {
		if isMissing(rater) {
			return nil, errors.Schemaf("row %d has no %s", i, schema.RaterColumn)
		}
		record := strconv.Itoa(i)
		if hasRecord {
			record = records[i]
		}
		key := Key{Rater: rater, Record: record}
		if seen[key] {
			return nil, errors.Schemaf("duplicate record %q for rater %q", record, rater)
		}
		seen[key] = true
		keys[i] = key
	}
	return keys, nil
}

func isMissing(val string) bool {
	for _, m := range missingValues {
		if val == m {
			return true
		}
	}
	return false
}

// Select returns a copy of t restricted to the named columns, in the given order.
func (t *FeatureTable) Select(columns []string) (*FeatureTable, error) {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}
	pick := make([]int, len(columns))
	for i, c := range columns {
		j, ok := idx[c]
		if !ok {
			return nil, errors.Schemaf("feature column %q not found", c)
		}
		pick[i] = j
	}

	out := &FeatureTable{Columns: append([]string(nil), columns...)}
	out.Rows = make([]FeatureRow, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]float64, len(pick))
		for j, k := range pick {
			values[j] = row.Values[k]
		}
		out.Rows[i] = FeatureRow{Key: row.Key, Values: values}
	}
	return out, nil
}

// Impute returns a copy of t with every missing value replaced by sentinel.
func (t *FeatureTable) Impute(sentinel float64) *FeatureTable {
	out := &FeatureTable{Columns: t.Columns, Rows: make([]FeatureRow, len(t.Rows))}
	for i, row := range t.Rows {
		values := make([]float64, len(row.Values))
		for j, v := range row.Values {
			if math.IsNaN(v) {
				v = sentinel
			}
			values[j] = v
		}
		out.Rows[i] = FeatureRow{Key: row.Key, Values: values}
	}
	return out
}

// Filter returns the rows whose rater satisfies keep.
func (t *FeatureTable) Filter(keep func(rater string) bool) *FeatureTable {
	out := &FeatureTable{Columns: t.Columns}
	for _, row := range t.Rows {
		if keep(row.Rater) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Index maps each key to its row position.
func (t *FeatureTable) Index() map[Key]int {
	idx := make(map[Key]int, len(t.Rows))
	for i, row := range t.Rows {
		idx[row.Key] = i
	}
	return idx
}

// Filter returns the rows whose rater satisfies keep.
func (t *TargetTable) Filter(keep func(rater string) bool) *TargetTable {
	out := &TargetTable{Traits: t.Traits}
	for _, row := range t.Rows {
		if keep(row.Rater) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Raters returns the unique raters of t in order of first appearance.
func (t *TargetTable) Raters() []string {
	ids := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		ids[i] = row.Rater
	}
	return UniqueRaters(ids)
}

// UniqueRaters returns the unique ids in order of first appearance.
func UniqueRaters(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
