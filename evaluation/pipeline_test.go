package evaluation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/labels"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// masterCSV builds a small combined dataset: 16 raters with 4 recordings
// each, two meta features (one sometimes missing) and two traits.
func masterCSV() string {
	var b strings.Builder
	b.WriteString("Recording,WorkerId,WorkTimeInSeconds,Age_squared,Confident,Trust\n")
	for r := 0; r < 16; r++ {
		for rec := 0; rec < 4; rec++ {
			age := fmt.Sprint(400 + 10*r)
			if (r+rec)%7 == 0 {
				age = ""
			}
			fmt.Fprintf(&b, "r%d,w%d,%d,%s,%d,%d\n",
				rec, r, 20+rec*5+r, age, (r*7+rec*3)%5+1, (r+rec*2)%4+1)
		}
	}
	return b.String()
}

func TestPipeline(t *testing.T) {
	df, err := dataset.Load(strings.NewReader(masterCSV()))
	require.NoError(t, err)
	features, targets, err := dataset.Split(df, dataset.Schema{
		RaterColumn:  "WorkerId",
		RecordColumn: "Recording",
		Targets:      []string{"Confident", "Trust"},
	})
	require.NoError(t, err)
	features = features.Impute(-1)

	lbls, err := labels.Normalize(targets)
	require.NoError(t, err)
	examples, err := Join(features, lbls)
	require.NoError(t, err)
	require.Equal(t, 64, examples.Len())

	assignment, err := partition.AssignTrainTest(targets.Raters(), 0.75, partition.NewRand(44111342))
	require.NoError(t, err)
	train := examples.Filter(assignment.In(partition.Train))
	test := examples.Filter(assignment.In(partition.Test))
	assert.Equal(t, 48, train.Len())
	assert.Equal(t, 16, test.Len())

	templates, err := classifier.Grid{Family: classifier.Logit, Values: []float64{0.01, 1}}.Templates()
	require.NoError(t, err)
	ev := New(nil, partition.NewRand(1))
	tensor, err := ev.CrossValidate(train, templates, 3)
	require.NoError(t, err)
	require.Len(t, tensor.Scores, 2)
	for tr := range tensor.Scores {
		require.Len(t, tensor.Scores[tr], 3)
		for f := range tensor.Scores[tr] {
			for _, acc := range tensor.Scores[tr][f] {
				assert.True(t, acc >= 0 && acc <= 1)
			}
		}
	}
	assert.Equal(t, []float64{0.01, 1}, tensor.Values)

	models, err := ev.FitModels(templates[tensor.Best()], train)
	require.NoError(t, err)
	scores, err := ev.TestScore(models, test)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}
