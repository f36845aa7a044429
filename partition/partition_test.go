package partition

import (
	"fmt"
	"testing"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raterIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("w%d", i+1)
	}
	return ids
}

func TestAssignTrainTestCounts(t *testing.T) {
	a, err := AssignTrainTest([]string{"1", "2", "3", "4"}, 0.75, NewRand(1))
	require.NoError(t, err)
	assert.Len(t, a.Raters(Train), 3)
	assert.Len(t, a.Raters(Test), 1)

	for _, r := range []string{"1", "2", "3", "4"} {
		assert.NotEqual(t, a.In(Train)(r), a.In(Test)(r), "rater %s", r)
	}
	assert.False(t, a.In(Train)("5"))
	assert.False(t, a.In(Test)("5"))
}

func TestAssignTrainTestReproducible(t *testing.T) {
	ids := raterIDs(50)
	a, err := AssignTrainTest(ids, 0.75, NewRand(44111342))
	require.NoError(t, err)
	b, err := AssignTrainTest(ids, 0.75, NewRand(44111342))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a.Raters(Train), 37)
	assert.Len(t, a.Raters(Test), 13)
}

func TestAssignTrainTestDedupes(t *testing.T) {
	a, err := AssignTrainTest([]string{"w1", "w2", "w1", "w3", "w2", "w4"}, 0.5, NewRand(7))
	require.NoError(t, err)
	assert.Len(t, a.Splits, 4)
	assert.Len(t, a.Raters(Train), 2)
}

func TestAssignTrainTestRoundTrip(t *testing.T) {
	var rows []dataset.FeatureRow
	for i, rater := range raterIDs(10) {
		for rec := 0; rec <= i%3; rec++ {
			rows = append(rows, dataset.FeatureRow{Key: dataset.Key{Rater: rater, Record: fmt.Sprint(rec)}})
		}
	}
	table := &dataset.FeatureTable{Rows: rows}

	a, err := AssignTrainTest(raterIDs(10), 0.75, NewRand(3))
	require.NoError(t, err)
	train := table.Filter(a.In(Train))
	test := table.Filter(a.In(Test))
	assert.Equal(t, len(rows), len(train.Rows)+len(test.Rows))

	seen := make(map[dataset.Key]int)
	for _, row := range append(train.Rows, test.Rows...) {
		seen[row.Key]++
	}
	assert.Len(t, seen, len(rows))
	for key, n := range seen {
		assert.Equal(t, 1, n, "%v", key)
	}
	for _, row := range train.Rows {
		assert.Equal(t, Train, a.Splits[row.Rater])
	}
}

func TestAssignTrainTestConfigErrors(t *testing.T) {
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		_, err := AssignTrainTest(raterIDs(4), frac, NewRand(1))
		assert.True(t, errors.IsConfig(err), "fraction %v", frac)
	}
	_, err := AssignTrainTest(nil, 0.75, NewRand(1))
	assert.True(t, errors.IsConfig(err))
}

func TestAssignFoldsBalanced(t *testing.T) {
	folds, err := AssignFolds(raterIDs(20), 5, NewRand(11))
	require.NoError(t, err)
	assert.Len(t, folds, 20)
	for f, raters := range FoldRaters(folds, 5) {
		assert.Len(t, raters, 4, "fold %d", f)
	}

	folds, err = AssignFolds(raterIDs(23), 5, NewRand(11))
	require.NoError(t, err)
	for f, raters := range FoldRaters(folds, 5) {
		if f < 3 {
			assert.Len(t, raters, 5, "fold %d", f)
		} else {
			assert.Len(t, raters, 4, "fold %d", f)
		}
	}
}

func TestAssignFoldsOneFoldPerRater(t *testing.T) {
	ids := append(raterIDs(9), raterIDs(9)...)
	folds, err := AssignFolds(ids, 3, NewRand(5))
	require.NoError(t, err)
	assert.Len(t, folds, 9)
	for rater, f := range folds {
		assert.True(t, f >= 0 && f < 3, "rater %s fold %d", rater, f)
	}
}

func TestAssignFoldsConfigErrors(t *testing.T) {
	_, err := AssignFolds(raterIDs(4), 5, NewRand(1))
	assert.True(t, errors.IsConfig(err))
	_, err = AssignFolds(raterIDs(4), 1, NewRand(1))
	assert.True(t, errors.IsConfig(err))
}
