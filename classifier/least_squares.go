package classifier

import (
	"fmt"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/sajari/regression"
)

// leastSquares fits an ordinary least squares line to the 0/1 labels and
// predicts class 1 where the fitted value reaches 0.5.
type leastSquares struct {
	r *regression.Regression
}

func (l *leastSquares) Fit(x [][]float64, y []int) error {
	l.r = nil
	if err := checkInput(x, y); err != nil {
		return err
	}
	r := new(regression.Regression)
	r.SetObserved("label")
	for j := range x[0] {
		r.SetVar(j, fmt.Sprintf("x%d", j))
	}
	for i, row := range x {
		r.Train(regression.DataPoint(float64(y[i]), append([]float64(nil), row...)))
	}
	if err := r.Run(); err != nil {
		return errors.Wrapf(err, "running regression")
	}
	l.r = r
	return nil
}

func (l *leastSquares) predict(row []float64) (int, error) {
	if l.r == nil {
		return 0, errNotFitted
	}
	v, err := l.r.Predict(row)
	if err != nil {
		return 0, errors.Wrapf(err, "predicting")
	}
	if v >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (l *leastSquares) Score(x [][]float64, y []int) (float64, error) {
	if err := checkInput(x, y); err != nil {
		return 0, err
	}
	pred, err := predictAll(x, l.predict)
	if err != nil {
		return 0, err
	}
	return Accuracy(pred, y), nil
}
