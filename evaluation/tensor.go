package evaluation

import (
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/classifier"
	"github.com/montanaflynn/stats"
)

// ScoreTensor holds validation accuracies indexed [trait][fold][config].
type ScoreTensor struct {
	Traits  []string
	Configs []string
	// Values is the hyperparameter value of each config, when known.
	Values []float64
	Scores [][][]float64
}

func newScoreTensor(traits []string, templates []classifier.Template, k int) *ScoreTensor {
	s := &ScoreTensor{
		Traits:  traits,
		Configs: make([]string, len(templates)),
		Values:  make([]float64, len(templates)),
		Scores:  make([][][]float64, len(traits)),
	}
	for c, tmpl := range templates {
		s.Configs[c] = tmpl.String()
		if cfg, ok := tmpl.(classifier.Config); ok {
			s.Values[c] = cfg.Value
		} else {
			s.Values[c] = float64(c + 1)
		}
	}
	for t := range traits {
		s.Scores[t] = make([][]float64, k)
		for f := range s.Scores[t] {
			s.Scores[t][f] = make([]float64, len(templates))
		}
	}
	return s
}

// Folds is the number of folds.
func (s *ScoreTensor) Folds() int {
	if len(s.Scores) == 0 {
		return 0
	}
	return len(s.Scores[0])
}

// Summary returns the mean and population standard deviation of the
// accuracy across folds, indexed [trait][config].
func (s *ScoreTensor) Summary() (mean, std [][]float64) {
	mean = make([][]float64, len(s.Traits))
	std = make([][]float64, len(s.Traits))
	for t := range s.Traits {
		mean[t] = make([]float64, len(s.Configs))
		std[t] = make([]float64, len(s.Configs))
		for c := range s.Configs {
			col := make(stats.Float64Data, s.Folds())
			for f := range col {
				col[f] = s.Scores[t][f][c]
			}
			mean[t][c], _ = stats.Mean(col)
			std[t][c], _ = stats.StandardDeviationPopulation(col)
		}
	}
	return mean, std
}

// Best returns the index of the config with the highest mean accuracy
// averaged over traits. Ties go to the earlier config.
func (s *ScoreTensor) Best() int {
	mean, _ := s.Summary()
	best, bestScore := 0, -1.
	for c := range s.Configs {
		var total float64
		for t := range s.Traits {
			total += mean[t][c]
		}
		if total > bestScore {
			best, bestScore = c, total
		}
	}
	return best
}
