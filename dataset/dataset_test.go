package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const master = `Recording,WorkerId,WorkTimeInSeconds,Age_squared,Trust,Confident
r1,w1,30,400,5,3
r2,w1,45,,2,4
r1,w2,12,900,,1
r3,w2,20,900,7,6
`

func loadMaster(t *testing.T) (*FeatureTable, *TargetTable) {
	df, err := Load(strings.NewReader(master))
	require.NoError(t, err)
	features, targets, err := Split(df, Schema{
		RaterColumn:  "WorkerId",
		RecordColumn: "Recording",
		Targets:      []string{"Trust", "Confident"},
	})
	require.NoError(t, err)
	return features, targets
}

func TestSplit(t *testing.T) {
	features, targets := loadMaster(t)

	assert.Equal(t, []string{"WorkTimeInSeconds", "Age_squared"}, features.Columns)
	assert.Equal(t, []string{"Trust", "Confident"}, targets.Traits)
	require.Len(t, features.Rows, 4)
	require.Len(t, targets.Rows, 4)

	for i := range features.Rows {
		assert.Equal(t, features.Rows[i].Key, targets.Rows[i].Key)
	}
	assert.Equal(t, Key{Rater: "w2", Record: "r1"}, targets.Rows[2].Key)
	assert.True(t, math.IsNaN(targets.Rows[2].Scores[0]))
	assert.Equal(t, 1., targets.Rows[2].Scores[1])
	assert.True(t, math.IsNaN(features.Rows[1].Values[1]))
}

func TestSplitRowPositionRecord(t *testing.T) {
	df, err := Load(strings.NewReader(master))
	require.NoError(t, err)
	features, _, err := Split(df, Schema{RaterColumn: "WorkerId", Targets: []string{"Trust"}})
	require.NoError(t, err)

	assert.Equal(t, Key{Rater: "w2", Record: "3"}, features.Rows[3].Key)
	assert.Contains(t, features.Columns, "Recording")
	assert.Contains(t, features.Columns, "Confident")
}

func TestSplitMissingColumn(t *testing.T) {
	df, err := Load(strings.NewReader(master))
	require.NoError(t, err)

	_, _, err = Split(df, Schema{RaterColumn: "WorkerId", Targets: []string{"Trust", "Win"}})
	assert.True(t, errors.IsSchema(err))

	_, _, err = Split(df, Schema{RaterColumn: "Worker", Targets: []string{"Trust"}})
	assert.True(t, errors.IsSchema(err))
}

func TestSplitDuplicateKey(t *testing.T) {
	df, err := Load(strings.NewReader("Recording,WorkerId,Trust\nr1,w1,1\nr1,w1,2\n"))
	require.NoError(t, err)
	_, _, err = Split(df, Schema{RaterColumn: "WorkerId", RecordColumn: "Recording", Targets: []string{"Trust"}})
	assert.True(t, errors.IsSchema(err))
}

func TestSelectImpute(t *testing.T) {
	features, _ := loadMaster(t)

	selected, err := features.Select([]string{"Age_squared"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Age_squared"}, selected.Columns)
	assert.True(t, math.IsNaN(selected.Rows[1].Values[0]))

	imputed := selected.Impute(-1)
	assert.Equal(t, -1., imputed.Rows[1].Values[0])
	assert.Equal(t, 400., imputed.Rows[0].Values[0])
	// the source table is untouched
	assert.True(t, math.IsNaN(selected.Rows[1].Values[0]))

	_, err = features.Select([]string{"Answer.ProfileIncome"})
	assert.True(t, errors.IsSchema(err))
}

func TestFilterAndIndex(t *testing.T) {
	features, targets := loadMaster(t)
	isW2 := func(rater string) bool { return rater == "w2" }

	f := features.Filter(isW2)
	tg := targets.Filter(isW2)
	assert.Len(t, f.Rows, 2)
	assert.Len(t, tg.Rows, 2)

	idx := features.Index()
	assert.Equal(t, 3, idx[Key{Rater: "w2", Record: "r3"}])
	assert.Equal(t, []string{"w1", "w2"}, targets.Raters())
}

func TestLoadRaters(t *testing.T) {
	ids, err := LoadRaters(strings.NewReader("WorkerId\nw3\nw1\nw3\nw2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"w3", "w1", "w2"}, ids)

	_, err = LoadRaters(strings.NewReader("WorkerId\nw1\n \n"))
	assert.True(t, errors.IsSchema(err))
}
