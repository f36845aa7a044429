// Package evaluation cross-validates classifiers per trait over rater-grouped
// folds and scores fitted models on the held-out test raters.
package evaluation

import (
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/partition"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// Evaluator runs cross-validation and test scoring. Rand drives the fold
// assignment; Log receives per-cell progress at debug level.
type Evaluator struct {
	Log  *zap.Logger
	Rand *rand.Rand
}

// New returns an Evaluator. A nil logger discards progress; rng is required
// by CrossValidate.
func New(log *zap.Logger, rng *rand.Rand) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{Log: log, Rand: rng}
}

// CrossValidate assigns the unique training raters to k folds and, for every
// fold, trait and template, fits a fresh classifier on the other folds and
// scores it on the held-out fold. Any failure aborts the whole run and no
// partial tensor is returned.
func (e *Evaluator) CrossValidate(train *Examples, templates []classifier.Template, k int) (*ScoreTensor, error) {
	if len(templates) == 0 {
		return nil, errors.Configf("no classifier templates to evaluate")
	}
	if len(train.Traits) == 0 {
		return nil, errors.Configf("no traits to evaluate")
	}
	if e.Rand == nil {
		return nil, errors.Configf("no random source for the fold assignment")
	}
	folds, err := partition.AssignFolds(train.Raters(), k, e.Rand)
	if err != nil {
		return nil, err
	}

	tensor := newScoreTensor(train.Traits, templates, k)
	for f := 0; f < k; f++ {
		fit := train.Filter(func(rater string) bool { return folds[rater] != f })
		held := train.Filter(func(rater string) bool { return folds[rater] == f })
		if fit.Len() == 0 || held.Len() == 0 {
			return nil, errors.Trainingf("fold %d has %d training and %d held-out rows", f, fit.Len(), held.Len())
		}

		for t, trait := range train.Traits {
			fitY, heldY := fit.Labels(t), held.Labels(t)
			for c, tmpl := range templates {
				acc, err := fitAndScore(tmpl, fit.X, fitY, held.X, heldY)
				if err != nil {
					return nil, errors.WrapTraining(err, "%s, fold %d, %s", trait, f, tmpl)
				}
				tensor.Scores[t][f][c] = acc
				e.Log.Debug("cross-validated",
					zap.String("trait", trait),
					zap.Int("fold", f),
					zap.String("config", tmpl.String()),
					zap.Float64("accuracy", acc))
			}
		}
		e.Log.Info("fold complete", zap.Int("fold", f), zap.Int("train_rows", fit.Len()), zap.Int("held_out_rows", held.Len()))
	}
	return tensor, nil
}

func fitAndScore(tmpl classifier.Template, x [][]float64, y []int, heldX [][]float64, heldY []int) (float64, error) {
	clf, err := tmpl.New()
	if err != nil {
		return 0, err
	}
	if err := clf.Fit(x, y); err != nil {
		return 0, errors.Wrapf(err, "fit")
	}
	acc, err := clf.Score(heldX, heldY)
	if err != nil {
		return 0, errors.Wrapf(err, "score")
	}
	return acc, nil
}

// FitModels fits one fresh classifier per trait from the same template. The
// models are returned in trait order.
func (e *Evaluator) FitModels(tmpl classifier.Template, train *Examples) ([]classifier.Classifier, error) {
	if train.Len() == 0 {
		return nil, errors.Trainingf("no training rows")
	}
	models := make([]classifier.Classifier, len(train.Traits))
	for t, trait := range train.Traits {
		clf, err := tmpl.New()
		if err != nil {
			return nil, err
		}
		if err := clf.Fit(train.X, train.Labels(t)); err != nil {
			return nil, errors.WrapTraining(err, "fitting %s for %s", tmpl, trait)
		}
		models[t] = clf
		e.Log.Info("fitted model", zap.String("trait", trait), zap.String("config", tmpl.String()))
	}
	return models, nil
}

// TestScore scores models[t] on trait t of the test rows and returns one
// accuracy per trait.
func (e *Evaluator) TestScore(models []classifier.Classifier, test *Examples) ([]float64, error) {
	if len(models) != len(test.Traits) {
		return nil, errors.Configf("%d models for %d traits", len(models), len(test.Traits))
	}
	if test.Len() == 0 {
		return nil, errors.Trainingf("no test rows")
	}
	scores := make([]float64, len(models))
	for t, model := range models {
		acc, err := model.Score(test.X, test.Labels(t))
		if err != nil {
			return nil, errors.WrapTraining(err, "scoring %s", test.Traits[t])
		}
		scores[t] = acc
		e.Log.Info("test score", zap.String("trait", test.Traits[t]), zap.Float64("accuracy", acc))
	}
	return scores, nil
}
