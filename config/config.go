// Package config holds the parameters of one research run.
package config

import (
	"os"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"gopkg.in/yaml.v3"
)

// Run holds the parameters of one run. Zero-valued fields in a YAML file
// leave the defaults in place.
type Run struct {
	Dataset string `yaml:"dataset"`
	// Raters is the canonical rater list; when empty the raters are taken
	// from the dataset in row order.
	Raters  string `yaml:"raters"`
	Output  string `yaml:"output"`

	Family string    `yaml:"family"`
	Values []float64 `yaml:"values"`

	Folds         int     `yaml:"folds"`
	TrainFraction float64 `yaml:"train_fraction"`
	Seed          uint64  `yaml:"seed"`

	Traits   []string `yaml:"traits"`
	Features []string `yaml:"features"`
	Sentinel float64  `yaml:"sentinel"`

	RaterColumn  string `yaml:"rater_column"`
	RecordColumn string `yaml:"record_column"`
}

// Default returns the parameters of the top meta-feature logistic regression run.
func Default() Run {
	return Run{
		Output:        "logit_top_meta.png",
		Family:        string(classifier.Logit),
		Folds:         5,
		TrainFraction: 0.75,
		Seed:          44111342,
		Traits:        []string{"Aggressive", "Attractive", "Confident", "Intelligent", "Masculine", "Trust"},
		Features:      []string{"WorkTimeInSeconds", "Answer.ProfileIncome", "Answer.ProfileEducation", "Age_squared"},
		Sentinel:      -1,
		RaterColumn:   "WorkerId",
	}
}

// Load overlays the YAML file at path onto r.
func Load(path string, r *Run) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config")
	}
	if err := yaml.Unmarshal(data, r); err != nil {
		return &errors.ConfigError{Err: errors.Wrapf(err, "parsing %s", path)}
	}
	return nil
}

// Grid returns the hyperparameter grid of the run: the configured values,
// or the family's default grid.
func (r Run) Grid() (classifier.Grid, error) {
	family, err := classifier.ParseFamily(r.Family)
	if err != nil {
		return classifier.Grid{}, err
	}
	if len(r.Values) == 0 {
		return classifier.DefaultGrid(family), nil
	}
	return classifier.Grid{Family: family, Values: r.Values}, nil
}

// Validate checks the run can start.
func (r Run) Validate() error {
	if r.Dataset == "" {
		return errors.Configf("no dataset given")
	}
	if r.Folds < 2 {
		return errors.Configf("need at least 2 folds, got %d", r.Folds)
	}
	if !(r.TrainFraction > 0 && r.TrainFraction < 1) {
		return errors.Configf("train fraction %v not in (0,1)", r.TrainFraction)
	}
	if len(r.Traits) == 0 {
		return errors.Configf("no traits given")
	}
	if r.RaterColumn == "" {
		return errors.Configf("no rater column given")
	}
	grid, err := r.Grid()
	if err != nil {
		return err
	}
	_, err = grid.Configs()
	return err
}
