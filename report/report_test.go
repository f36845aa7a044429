package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tensor() *evaluation.ScoreTensor {
	return &evaluation.ScoreTensor{
		Traits:  []string{"Confident", "Trust"},
		Configs: []string{"logit(C=0.1)", "logit(C=1)", "logit(C=10)"},
		Values:  []float64{0.1, 1, 10},
		Scores: [][][]float64{
			{{0.5, 0.6, 0.7}, {0.6, 0.6, 0.5}},
			{{0.55, 0.55, 0.55}, {0.55, 0.55, 0.55}},
		},
	}
}

func TestPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logit_top_meta.png")
	require.NoError(t, Plot(tensor(), path, DefaultPlotOptions(classifier.Logit)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestPlotRejectsNonPositiveAxis(t *testing.T) {
	tn := tensor()
	tn.Values[0] = 0
	err := Plot(tn, filepath.Join(t.TempDir(), "x.png"), DefaultPlotOptions(classifier.Logit))
	assert.True(t, errors.IsConfig(err))
}

func TestPlotLinearAxis(t *testing.T) {
	grid := classifier.DefaultGrid(classifier.Tree)
	configs, err := grid.Configs()
	require.NoError(t, err)

	tn := &evaluation.ScoreTensor{
		Traits: []string{"Masculine"},
		Values: grid.Values,
		Scores: [][][]float64{{{0.6, 0.62, 0.58, 0.55}, {0.64, 0.6, 0.6, 0.57}}},
	}
	for _, c := range configs {
		tn.Configs = append(tn.Configs, c.String())
	}
	opts := DefaultPlotOptions(classifier.Tree)
	assert.False(t, opts.Log)
	assert.Equal(t, "prune", opts.Axis)

	path := filepath.Join(t.TempDir(), "tree.png")
	require.NoError(t, Plot(tn, path, opts))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, tensor())
	out := buf.String()
	assert.Contains(t, out, "CONFIDENT")
	assert.Contains(t, out, "logit(C=10)")
	assert.Contains(t, out, "0.600 ± 0.100")
}

func TestHeldOut(t *testing.T) {
	var buf bytes.Buffer
	HeldOut(&buf, "logit(C=1)", []string{"Confident", "Trust"}, []float64{0.625, 0.5})
	out := buf.String()
	assert.Contains(t, out, "Confident")
	assert.Contains(t, out, "0.625")
	assert.Contains(t, out, "logit(C=1)")
}

func TestCurves(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Curves(&buf, tensor()))
	assert.Contains(t, buf.String(), "Confident: logit(C=0.1)")
	assert.Contains(t, buf.String(), "Trust: flat at 0.550")
}
