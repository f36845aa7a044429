package classifier

import (
	"math"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// lossFunc returns the loss and its derivative at margin y*f(x), y in {-1,1}.
type lossFunc func(margin float64) (float64, float64)

// logLoss is log(1+exp(-m)), computed without overflow.
func logLoss(m float64) (float64, float64) {
	if m > 0 {
		e := math.Exp(-m)
		return math.Log1p(e), -e / (1 + e)
	}
	e := math.Exp(m)
	return -m + math.Log1p(e), -1 / (1 + e)
}

// squaredHinge is max(0, 1-m)^2.
func squaredHinge(m float64) (float64, float64) {
	if m >= 1 {
		return 0, 0
	}
	d := 1 - m
	return d * d, -2 * d
}

// linearModel minimizes 0.5*|w|^2 + C*sum(loss(y_i*(w.x_i+b))) with L-BFGS.
// The intercept is not regularized. Features are standardized on the
// training set before fitting.
type linearModel struct {
	c    float64
	loss lossFunc

	scaler  scaler
	weights []float64
	bias    float64
}

func newLinearModel(c float64, loss lossFunc) *linearModel {
	return &linearModel{c: c, loss: loss}
}

func (m *linearModel) Fit(x [][]float64, y []int) error {
	m.weights = nil
	if err := checkInput(x, y); err != nil {
		return err
	}
	if err := checkTwoClasses(y); err != nil {
		return err
	}

	m.scaler = fitScaler(x)
	xs := m.scaler.transformAll(x)
	d := len(xs[0])
	sign := make([]float64, len(y))
	for i, label := range y {
		sign[i] = float64(2*label - 1)
	}

	margin := func(w, row []float64, i int) float64 {
		return sign[i] * (floats.Dot(w[:d], row) + w[d])
	}
	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			f := 0.5 * floats.Dot(w[:d], w[:d])
			for i, row := range xs {
				l, _ := m.loss(margin(w, row, i))
				f += m.c * l
			}
			return f
		},
		Grad: func(grad, w []float64) {
			copy(grad[:d], w[:d])
			grad[d] = 0
			for i, row := range xs {
				_, dl := m.loss(margin(w, row, i))
				g := m.c * dl * sign[i]
				if g == 0 {
					continue
				}
				floats.AddScaled(grad[:d], g, row)
				grad[d] += g
			}
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   500,
		GradientThreshold: 1e-6,
	}
	result, err := optimize.Minimize(problem, make([]float64, d+1), settings, &optimize.LBFGS{})
	if result == nil {
		return errors.Wrapf(err, "optimizing weights")
	}
	// Minimize reports a stalled line search with the last location still set.
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("optimizer diverged")
		}
	}
	m.weights = result.X[:d]
	m.bias = result.X[d]
	return nil
}

func (m *linearModel) predict(row []float64) (int, error) {
	if m.weights == nil {
		return 0, errNotFitted
	}
	if len(row) != len(m.weights) {
		return 0, errors.Errorf("sample has %d features, model has %d", len(row), len(m.weights))
	}
	if floats.Dot(m.weights, m.scaler.transform(row))+m.bias > 0 {
		return 1, nil
	}
	return 0, nil
}

func (m *linearModel) Score(x [][]float64, y []int) (float64, error) {
	if err := checkInput(x, y); err != nil {
		return 0, err
	}
	pred, err := predictAll(x, m.predict)
	if err != nil {
		return 0, err
	}
	return Accuracy(pred, y), nil
}

// scaler standardizes each feature to zero mean and unit variance.
// Constant features are only centered.
type scaler struct {
	mean []float64
	std  []float64
}

func fitScaler(x [][]float64) scaler {
	d := len(x[0])
	s := scaler{mean: make([]float64, d), std: make([]float64, d)}
	col := make([]float64, len(x))
	for j := 0; j < d; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.mean[j], s.std[j] = mean, std
	}
	return s
}

func (s scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

func (s scaler) transformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.transform(row)
	}
	return out
}
