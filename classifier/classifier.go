// Package classifier provides the binary classifiers evaluated by the
// cross-validation run, behind a common Fit/Score interface, and the
// hyperparameter grids they are tuned over.
package classifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
)

// Classifier is a binary classifier over dense feature rows. Labels are 0 or 1.
type Classifier interface {
	// Fit trains the classifier, discarding any state from a previous Fit.
	Fit(x [][]float64, y []int) error
	// Score returns the mean accuracy on x against y.
	Score(x [][]float64, y []int) (float64, error)
}

// Template builds classifiers. Every call to New returns a fresh, unfit
// instance, so no fitted state is shared between traits or folds.
type Template interface {
	New() (Classifier, error)
	String() string
}

// Family names a kind of classifier.
type Family string

// Families of classifiers.
const (
	Logit    Family = "logit"
	SVM      Family = "svm"
	Forest   Family = "forest"
	Boosting Family = "boosting"
	Tree     Family = "tree"
	Bayes    Family = "bayes"
	Linear   Family = "linear"
)

// Families lists every supported family.
var Families = []Family{Logit, SVM, Forest, Boosting, Tree, Bayes, Linear}

// ParseFamily parses a family name.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", errors.Configf("unknown classifier family %q", s)
}

// Axis is the name of the hyperparameter a family is tuned over, or "" if
// the family has none.
func (f Family) Axis() string {
	switch f {
	case Logit, SVM:
		return "C"
	case Forest:
		return "trees"
	case Boosting:
		return "estimators"
	case Tree:
		return "prune"
	default:
		return ""
	}
}

// LogScale reports whether the family's grid spans orders of magnitude and is
// plotted against the logarithm of its values. Those values are all positive.
func (f Family) LogScale() bool {
	switch f {
	case Logit, SVM, Forest, Boosting:
		return true
	default:
		return false
	}
}

// Config is a family with one hyperparameter value. It implements Template.
type Config struct {
	Family Family
	Value  float64
}

// New returns a fresh classifier for the config.
func (c Config) New() (Classifier, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Family {
	case Logit:
		return newLinearModel(c.Value, logLoss), nil
	case SVM:
		return newLinearModel(c.Value, squaredHinge), nil
	case Forest:
		return newForest(int(c.Value)), nil
	case Boosting:
		return newBoosting(int(c.Value)), nil
	case Tree:
		return &tree{prune: c.Value}, nil
	case Bayes:
		return &bayes{}, nil
	case Linear:
		return &leastSquares{}, nil
	}
	return nil, errors.Configf("unknown classifier family %q", c.Family)
}

// Validate checks the hyperparameter value is in range for the family.
func (c Config) Validate() error {
	switch c.Family {
	case Logit, SVM:
		if !(c.Value > 0) || math.IsInf(c.Value, 0) {
			return errors.Configf("%s: C must be positive and finite, got %v", c.Family, c.Value)
		}
	case Forest, Boosting:
		if c.Value < 1 || c.Value != math.Trunc(c.Value) {
			return errors.Configf("%s: %s must be a positive integer, got %v", c.Family, c.Family.Axis(), c.Value)
		}
	case Tree:
		if c.Value < 0 || c.Value >= 1 {
			return errors.Configf("tree: prune fraction must be in [0,1), got %v", c.Value)
		}
	case Bayes, Linear:
	default:
		return errors.Configf("unknown classifier family %q", c.Family)
	}
	return nil
}

func (c Config) String() string {
	axis := c.Family.Axis()
	if axis == "" {
		return string(c.Family)
	}
	return fmt.Sprintf("%s(%s=%s)", c.Family, axis, strconv.FormatFloat(c.Value, 'g', -1, 64))
}

// Grid is an ordered list of hyperparameter values for one family.
type Grid struct {
	Family Family
	Values []float64
}

// DefaultGrid returns the standard search grid for a family.
func DefaultGrid(f Family) Grid {
	switch f {
	case Logit, SVM:
		var cs []float64
		for e := -5; e < 5; e++ {
			cs = append(cs, math.Pow(10, float64(e)))
		}
		return Grid{Family: f, Values: cs}
	case Forest, Boosting:
		return Grid{Family: f, Values: []float64{10, 100, 200, 500, 1000}}
	case Tree:
		return Grid{Family: f, Values: []float64{0, 0.2, 0.4, 0.6}}
	default:
		return Grid{Family: f, Values: []float64{1}}
	}
}

// Configs returns one config per value, in grid order.
func (g Grid) Configs() ([]Config, error) {
	if len(g.Values) == 0 {
		return nil, errors.Configf("%s: empty hyperparameter grid", g.Family)
	}
	out := make([]Config, len(g.Values))
	for i, v := range g.Values {
		c := Config{Family: g.Family, Value: v}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Templates returns the grid's configs as templates, in grid order.
func (g Grid) Templates() ([]Template, error) {
	configs, err := g.Configs()
	if err != nil {
		return nil, err
	}
	out := make([]Template, len(configs))
	for i, c := range configs {
		out[i] = c
	}
	return out, nil
}

// Accuracy is the fraction of predictions equal to the labels.
func Accuracy(pred, y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	var correct int
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

func checkInput(x [][]float64, y []int) error {
	if len(x) == 0 {
		return errors.Errorf("no samples")
	}
	if len(x) != len(y) {
		return errors.Errorf("%d samples but %d labels", len(x), len(y))
	}
	d := len(x[0])
	if d == 0 {
		return errors.Errorf("no features")
	}
	for i, row := range x {
		if len(row) != d {
			return errors.Errorf("sample %d has %d features, expected %d", i, len(row), d)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return errors.Errorf("label %d is %d, expected 0 or 1", i, label)
		}
	}
	return nil
}

func checkTwoClasses(y []int) error {
	for _, label := range y[1:] {
		if label != y[0] {
			return nil
		}
	}
	return errors.Errorf("need samples of at least 2 classes, got only class %d", y[0])
}

func predictAll(x [][]float64, predict func([]float64) (int, error)) ([]int, error) {
	pred := make([]int, len(x))
	for i, row := range x {
		p, err := predict(row)
		if err != nil {
			return nil, err
		}
		pred[i] = p
	}
	return pred, nil
}

var errNotFitted = errors.Errorf("classifier is not fitted")
