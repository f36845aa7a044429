package main

import (
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/config"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/evaluation"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/labels"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/logging"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/partition"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/report"
	"go.uber.org/zap"
)

type args struct {
	Config        string    `arg:"--config" help:"YAML run file; flags override it"`
	Dataset       string    `arg:"--dataset" help:"combined dataset CSV"`
	Raters        string    `arg:"--raters" help:"canonical WorkerId list CSV"`
	Out           string    `arg:"--out" help:"chart output path"`
	Family        string    `arg:"--family" help:"logit, svm, forest, boosting, tree, bayes or linear"`
	Values        []float64 `arg:"--values" help:"hyperparameter values to search"`
	Folds         *int      `arg:"--folds" help:"cross-validation folds"`
	Seed          *uint64   `arg:"--seed" help:"random seed for the rater partitions"`
	TrainFraction *float64  `arg:"--train-fraction" help:"fraction of raters used for training"`
	Test          bool      `arg:"--test" help:"fit the best config on all training raters and score the test raters"`
	ASCII         bool      `arg:"--ascii" help:"print ASCII accuracy curves"`
	Verbose       bool      `arg:"-v" help:"log every cross-validation cell"`
}

// apply overrides the run parameters that were set on the command line.
// Numeric flags are pointers so an explicit zero still overrides.
func (a args) apply(r *config.Run) {
	if a.Dataset != "" {
		r.Dataset = a.Dataset
	}
	if a.Raters != "" {
		r.Raters = a.Raters
	}
	if a.Out != "" {
		r.Output = a.Out
	}
	if a.Family != "" {
		r.Family = a.Family
		r.Values = nil
	}
	if len(a.Values) > 0 {
		r.Values = a.Values
	}
	if a.Folds != nil {
		r.Folds = *a.Folds
	}
	if a.Seed != nil {
		r.Seed = *a.Seed
	}
	if a.TrainFraction != nil {
		r.TrainFraction = *a.TrainFraction
	}
}

func noErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	var a args
	arg.MustParse(&a)

	run := config.Default()
	if a.Config != "" {
		noErr(config.Load(a.Config, &run))
	}
	a.apply(&run)
	noErr(run.Validate())

	logger := logging.New(a.Verbose)
	defer logger.Sync()

	train, test := prepare(run, logger)

	grid, err := run.Grid()
	noErr(err)
	templates, err := grid.Templates()
	noErr(err)

	ev := evaluation.New(logger, partition.NewRand(run.Seed+1))
	res, err := evaluate(ev, train, test, templates, run.Folds, a.Test)
	noErr(err)
	tensor := res.tensor

	report.Table(os.Stdout, tensor)
	if a.ASCII {
		noErr(report.Curves(os.Stdout, tensor))
	}
	if a.Test {
		report.HeldOut(os.Stdout, res.best.String(), test.Traits, res.scores)
	}
	noErr(report.Plot(tensor, run.Output, report.DefaultPlotOptions(grid.Family)))
	logger.Info("wrote chart", zap.String("path", run.Output))
}

type result struct {
	tensor *evaluation.ScoreTensor
	best   classifier.Template
	scores []float64
}

// evaluate cross-validates the templates and, with withTest, scores the best
// one on the test raters. Nothing is written until it returns.
func evaluate(ev *evaluation.Evaluator, train, test *evaluation.Examples, templates []classifier.Template, folds int, withTest bool) (*result, error) {
	tensor, err := ev.CrossValidate(train, templates, folds)
	if err != nil {
		return nil, err
	}
	res := &result{tensor: tensor, best: templates[tensor.Best()]}
	if !withTest {
		return res, nil
	}
	models, err := ev.FitModels(res.best, train)
	if err != nil {
		return nil, err
	}
	if res.scores, err = ev.TestScore(models, test); err != nil {
		return nil, err
	}
	return res, nil
}

// prepare loads the dataset, builds binary labels and splits the examples
// into train and test raters.
func prepare(run config.Run, logger *zap.Logger) (train, test *evaluation.Examples) {
	df, err := dataset.LoadFile(run.Dataset)
	noErr(err)
	features, targets, err := dataset.Split(df, dataset.Schema{
		RaterColumn:  run.RaterColumn,
		RecordColumn: run.RecordColumn,
		Targets:      dataset.DefaultTargets,
	})
	noErr(err)

	features = features.Impute(run.Sentinel)
	if len(run.Features) > 0 {
		features, err = features.Select(run.Features)
		noErr(err)
	}

	all, err := labels.Normalize(targets)
	noErr(err)
	lbls, err := all.Select(run.Traits)
	noErr(err)

	examples, err := evaluation.Join(features, lbls)
	noErr(err)

	raters := targets.Raters()
	if run.Raters != "" {
		raters, err = dataset.LoadRatersFile(run.Raters)
		noErr(err)
	}
	assignment, err := partition.AssignTrainTest(raters, run.TrainFraction, partition.NewRand(run.Seed))
	noErr(err)

	train = examples.Filter(assignment.In(partition.Train))
	test = examples.Filter(assignment.In(partition.Test))
	if dropped := examples.Len() - train.Len() - test.Len(); dropped > 0 {
		logger.Warn("rows from raters missing in the rater list were dropped", zap.Int("rows", dropped))
	}
	logger.Info("partitioned raters",
		zap.Int("train_raters", len(assignment.Raters(partition.Train))),
		zap.Int("test_raters", len(assignment.Raters(partition.Test))),
		zap.Int("train_rows", train.Len()),
		zap.Int("test_rows", test.Len()))
	return train, test
}
