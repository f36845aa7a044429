package main

import (
	"fmt"
	"testing"

	arg "github.com/alexflint/go-arg"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/config"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/evaluation"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, flags ...string) args {
	var a args
	p, err := arg.NewParser(arg.Config{}, &a)
	require.NoError(t, err)
	require.NoError(t, p.Parse(flags))
	return a
}

func TestApplyExplicitZero(t *testing.T) {
	r := config.Default()
	parse(t, "--seed", "0").apply(&r)
	assert.Equal(t, uint64(0), r.Seed)
}

func TestApplyKeepsUnsetFlags(t *testing.T) {
	r := config.Default()
	parse(t, "--family", "tree").apply(&r)
	assert.Equal(t, config.Default().Seed, r.Seed)
	assert.Equal(t, 5, r.Folds)
	assert.Equal(t, 0.75, r.TrainFraction)
	assert.Equal(t, "tree", r.Family)
	assert.Nil(t, r.Values)
}

// ratedExamples has n raters with two recordings each; the label of every
// trait is the recording index.
func ratedExamples(n int, traits ...string) *evaluation.Examples {
	ex := &evaluation.Examples{Traits: traits}
	for r := 0; r < n; r++ {
		for rec := 0; rec < 2; rec++ {
			ex.Keys = append(ex.Keys, dataset.Key{Rater: fmt.Sprintf("w%d", r), Record: fmt.Sprint(rec)})
			ex.X = append(ex.X, []float64{float64(r), float64(rec)})
			y := make([]int, len(traits))
			for t := range y {
				y[t] = rec
			}
			ex.Y = append(ex.Y, y)
		}
	}
	return ex
}

func TestEvaluateFailsBeforeReporting(t *testing.T) {
	train := ratedExamples(6, "Trust")
	empty := &evaluation.Examples{Traits: train.Traits}
	templates := []classifier.Template{classifier.Config{Family: classifier.Linear, Value: 1}}

	ev := evaluation.New(nil, partition.NewRand(1))
	res, err := evaluate(ev, train, empty, templates, 3, true)
	assert.True(t, errors.IsTraining(err))
	assert.Nil(t, res)

	res, err = evaluate(evaluation.New(nil, partition.NewRand(1)), train, ratedExamples(2, "Trust"), templates, 3, true)
	require.NoError(t, err)
	require.Len(t, res.scores, 1)
	assert.Equal(t, templates[0], res.best)
}
