package classifier

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/sjwhitworth/golearn/filters"
	"github.com/sjwhitworth/golearn/naive"
	"github.com/sjwhitworth/golearn/trees"
	"golang.org/x/exp/rand"
)

// predictor is the prediction half of a golearn classifier.
type predictor interface {
	Predict(base.FixedDataGrid) (base.FixedDataGrid, error)
}

// toInstances loads x and y into golearn "instances": one float attribute
// per feature and a categorical class attribute with values "0" and "1".
func toInstances(x [][]float64, y []int) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(x[0]))
	for j := range specs {
		specs[j] = inst.AddAttribute(base.NewFloatAttribute(fmt.Sprintf("x%d", j)))
	}
	class := base.NewCategoricalAttribute()
	class.SetName("label")
	// register both values up front so "0" and "1" map to the same system
	// values in every grid
	class.GetSysValFromString("0")
	class.GetSysValFromString("1")
	classSpec := inst.AddAttribute(class)
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, errors.Wrapf(err, "adding class attribute")
	}
	if err := inst.Extend(len(x)); err != nil {
		return nil, errors.Wrapf(err, "allocating instances")
	}
	for i, row := range x {
		for j, v := range row {
			inst.Set(specs[j], i, base.PackFloatToBytes(v))
		}
		inst.Set(classSpec, i, class.GetSysValFromString(strconv.Itoa(y[i])))
	}
	return inst, nil
}

// golearnScore predicts data with p and returns the accuracy from the
// confusion matrix against the reference labels.
func golearnScore(p predictor, data base.FixedDataGrid) (acc float64, err error) {
	err = recoverPanic(func() error {
		predictions, err := p.Predict(data)
		if err != nil {
			return errors.Wrapf(err, "predicting")
		}
		cm, err := evaluation.GetConfusionMatrix(data, predictions)
		if err != nil {
			return errors.Wrapf(err, "building confusion matrix")
		}
		acc = evaluation.GetAccuracy(cm)
		return nil
	})
	return acc, err
}

// recoverPanic runs fn, turning a panic inside golearn into an error.
func recoverPanic(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("golearn: %v", r)
		}
	}()
	return fn()
}

func scoreInstances(p predictor, x [][]float64, y []int) (float64, error) {
	if err := checkInput(x, y); err != nil {
		return 0, err
	}
	data, err := toInstances(x, y)
	if err != nil {
		return 0, err
	}
	return golearnScore(p, data)
}

// forestSeed fixes the bootstrap samples and feature subsets, so a config
// always builds the same forest from the same data.
const forestSeed = 44111342

// forest bags golearn ID3 trees. Each tree is fitted on a bootstrap sample of
// the rows over a random subset of ceil(sqrt(d)) features, and the trees
// predict by majority vote; ties go to class 0.
type forest struct {
	trees   int
	rng     *rand.Rand
	members []member
}

type member struct {
	features []int
	model    *trees.ID3DecisionTree
}

func newForest(n int) *forest {
	return &forest{trees: n, rng: rand.New(rand.NewSource(forestSeed))}
}

func (f *forest) Fit(x [][]float64, y []int) error {
	f.members = nil
	if err := checkInput(x, y); err != nil {
		return err
	}
	n, d := len(x), len(x[0])
	m := int(math.Ceil(math.Sqrt(float64(d))))

	members := make([]member, f.trees)
	for i := range members {
		features := f.rng.Perm(d)[:m]
		sort.Ints(features)
		bx := make([][]float64, n)
		by := make([]int, n)
		for r := range bx {
			row := f.rng.Intn(n)
			bx[r] = project(x[row], features)
			by[r] = y[row]
		}
		data, err := toInstances(bx, by)
		if err != nil {
			return err
		}
		id3 := trees.NewID3DecisionTree(0)
		if err := recoverPanic(func() error { return id3.Fit(data) }); err != nil {
			return errors.Wrapf(err, "fitting forest tree %d", i)
		}
		members[i] = member{features: features, model: id3}
	}
	f.members = members
	return nil
}

func (f *forest) Score(x [][]float64, y []int) (float64, error) {
	if f.members == nil {
		return 0, errNotFitted
	}
	if err := checkInput(x, y); err != nil {
		return 0, err
	}
	votes := make([]int, len(x))
	for i, m := range f.members {
		px := make([][]float64, len(x))
		for r, row := range x {
			px[r] = project(row, m.features)
		}
		data, err := toInstances(px, y)
		if err != nil {
			return 0, err
		}
		if err := recoverPanic(func() error {
			predictions, err := m.model.Predict(data)
			if err != nil {
				return err
			}
			for r := range votes {
				label, err := strconv.Atoi(base.GetClass(predictions, r))
				if err != nil {
					return err
				}
				votes[r] += label
			}
			return nil
		}); err != nil {
			return 0, errors.Wrapf(err, "predicting with forest tree %d", i)
		}
	}
	pred := make([]int, len(x))
	for r, v := range votes {
		if 2*v > len(f.members) {
			pred[r] = 1
		}
	}
	return Accuracy(pred, y), nil
}

// project returns the values of row at the given feature indices.
func project(row []float64, features []int) []float64 {
	out := make([]float64, len(features))
	for j, k := range features {
		out[j] = row[k]
	}
	return out
}

// tree is a golearn ID3 decision tree; prune is the fraction of the
// training data held back for pruning.
type tree struct {
	prune float64
	model *trees.ID3DecisionTree
}

func (t *tree) Fit(x [][]float64, y []int) error {
	t.model = nil
	if err := checkInput(x, y); err != nil {
		return err
	}
	data, err := toInstances(x, y)
	if err != nil {
		return err
	}
	id3 := trees.NewID3DecisionTree(t.prune)
	if err := recoverPanic(func() error { return id3.Fit(data) }); err != nil {
		return errors.Wrapf(err, "fitting decision tree")
	}
	t.model = id3
	return nil
}

func (t *tree) Score(x [][]float64, y []int) (float64, error) {
	if t.model == nil {
		return 0, errNotFitted
	}
	return scoreInstances(t.model, x, y)
}

// bayes is a golearn Bernoulli naive Bayes classifier over binarized features.
type bayes struct {
	model *naive.BernoulliNBClassifier
}

// convertToBinary wraps src in a lazy filter that turns every float feature
// into a 0/1 attribute, the input BernoulliNB expects. Fit and Predict both
// go through it so the two see the same encoding.
func convertToBinary(src base.FixedDataGrid) base.FixedDataGrid {
	b := filters.NewBinaryConvertFilter()
	attrs := base.NonClassAttributes(src)
	for _, a := range attrs {
		b.AddAttribute(a)
	}
	b.Train()
	return base.NewLazilyFilteredInstances(src, b)
}

func (b *bayes) Fit(x [][]float64, y []int) error {
	b.model = nil
	if err := checkInput(x, y); err != nil {
		return err
	}
	data, err := toInstances(x, y)
	if err != nil {
		return err
	}
	nb := naive.NewBernoulliNBClassifier()
	if err := recoverPanic(func() error {
		nb.Fit(convertToBinary(data))
		return nil
	}); err != nil {
		return errors.Wrapf(err, "fitting naive bayes")
	}
	b.model = nb
	return nil
}

func (b *bayes) Score(x [][]float64, y []int) (float64, error) {
	if b.model == nil {
		return 0, errNotFitted
	}
	return scoreInstances(binarized{b.model}, x, y)
}

// binarized predicts with the features converted the same way as in Fit.
type binarized struct {
	nb *naive.BernoulliNBClassifier
}

func (b binarized) Predict(data base.FixedDataGrid) (base.FixedDataGrid, error) {
	return b.nb.Predict(convertToBinary(data))
}
