package classifier

import (
	"math"
	"sort"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"gonum.org/v1/gonum/floats"
)

// A node represents either a splitting decision of the form
// "x[feature] < threshold ?" or, if leaf is set, an output value.
type node struct {
	feature     int
	threshold   float64
	left, right *node
	leaf        bool
	output      float64
}

func (n *node) evaluate(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.output
}

// boosting is gradient boosting on the binomial deviance with regression
// trees as weak learners. The ensemble output is the log-odds of class 1:
// the prior plus the learning-rate-scaled sum of the tree outputs.
type boosting struct {
	estimators   int
	learningRate float64
	maxDepth     int
	minLeaf      int

	prior float64
	trees []*node
	width int
}

func newBoosting(estimators int) *boosting {
	return &boosting{
		estimators:   estimators,
		learningRate: 0.1,
		maxDepth:     3,
		minLeaf:      1,
	}
}

func (b *boosting) Fit(x [][]float64, y []int) error {
	b.trees = nil
	if err := checkInput(x, y); err != nil {
		return err
	}
	if err := checkTwoClasses(y); err != nil {
		return err
	}

	target := make([]float64, len(y))
	for i, label := range y {
		target[i] = float64(label)
	}
	p := floats.Sum(target) / float64(len(target))
	b.prior = math.Log(p / (1 - p))
	b.width = len(x[0])

	f := make([]float64, len(y))
	for i := range f {
		f[i] = b.prior
	}
	residual := make([]float64, len(y))
	hessian := make([]float64, len(y))
	rows := make([]int, len(y))
	for i := range rows {
		rows[i] = i
	}

	fitted := make([]*node, 0, b.estimators)
	for m := 0; m < b.estimators; m++ {
		for i := range f {
			prob := sigmoid(f[i])
			residual[i] = target[i] - prob
			hessian[i] = prob * (1 - prob)
		}
		t := b.grow(x, residual, hessian, rows, 0)
		for i, row := range x {
			f[i] += b.learningRate * t.evaluate(row)
		}
		fitted = append(fitted, t)
	}
	b.trees = fitted
	return nil
}

// grow builds a least-squares regression tree on the residuals. Leaf
// outputs take one Newton step: sum(residual) / sum(p*(1-p)).
func (b *boosting) grow(x [][]float64, residual, hessian []float64, rows []int, depth int) *node {
	if depth >= b.maxDepth || len(rows) < 2*b.minLeaf {
		return b.leaf(residual, hessian, rows)
	}

	bestGain, bestFeature, bestThreshold := 0., -1, 0.
	var total float64
	for _, r := range rows {
		total += residual[r]
	}
	n := float64(len(rows))
	sorted := append([]int(nil), rows...)
	for j := 0; j < len(x[0]); j++ {
		sort.Slice(sorted, func(a, c int) bool { return x[sorted[a]][j] < x[sorted[c]][j] })
		var left float64
		for k := 0; k < len(sorted)-1; k++ {
			left += residual[sorted[k]]
			lo, hi := x[sorted[k]][j], x[sorted[k+1]][j]
			nl := float64(k + 1)
			if lo == hi || k+1 < b.minLeaf || len(sorted)-k-1 < b.minLeaf {
				continue
			}
			right := total - left
			// reduction in squared error relative to the unsplit node
			gain := left*left/nl + right*right/(n-nl) - total*total/n
			if gain > bestGain {
				bestGain, bestFeature, bestThreshold = gain, j, lo+(hi-lo)/2
			}
		}
	}
	if bestFeature < 0 {
		return b.leaf(residual, hessian, rows)
	}

	var left, right []int
	for _, r := range rows {
		if x[r][bestFeature] < bestThreshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      b.grow(x, residual, hessian, left, depth+1),
		right:     b.grow(x, residual, hessian, right, depth+1),
	}
}

func (b *boosting) leaf(residual, hessian []float64, rows []int) *node {
	var num, den float64
	for _, r := range rows {
		num += residual[r]
		den += hessian[r]
	}
	if den < 1e-12 {
		return &node{leaf: true}
	}
	return &node{leaf: true, output: num / den}
}

func (b *boosting) decision(row []float64) float64 {
	f := b.prior
	for _, t := range b.trees {
		f += b.learningRate * t.evaluate(row)
	}
	return f
}

func (b *boosting) predict(row []float64) (int, error) {
	if b.trees == nil {
		return 0, errNotFitted
	}
	if len(row) != b.width {
		return 0, errors.Errorf("sample has %d features, model has %d", len(row), b.width)
	}
	if b.decision(row) > 0 {
		return 1, nil
	}
	return 0, nil
}

func (b *boosting) Score(x [][]float64, y []int) (float64, error) {
	if err := checkInput(x, y); err != nil {
		return 0, err
	}
	pred, err := predictAll(x, b.predict)
	if err != nil {
		return 0, err
	}
	return Accuracy(pred, y), nil
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}
