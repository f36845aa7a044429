// Package partition assigns raters to train/test partitions and to
// cross-validation folds. Assignment is by rater, never by row, so every
// rating of a rater lands in the same partition and fold.
package partition

import (
	"sort"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/dataset"
	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"golang.org/x/exp/rand"
)

// Split is the partition a rater belongs to.
type Split int

const (
	// Train raters are used for cross-validation and final fitting
	Train Split = iota
	// Test raters are held out until the final score
	Test
)

func (s Split) String() string {
	switch s {
	case Train:
		return "train"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}

// NewRand returns a random source seeded for reproducible assignments.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Assignment maps rater id to partition. Rank records the shuffled position
// of each rater.
type Assignment struct {
	Splits map[string]Split
	Rank   map[string]int
}

// In returns a filter accepting the raters assigned to s. Raters absent
// from the assignment are rejected.
func (a Assignment) In(s Split) func(rater string) bool {
	return func(rater string) bool {
		got, ok := a.Splits[rater]
		return ok && got == s
	}
}

// Raters returns the raters assigned to s, ordered by shuffled rank.
func (a Assignment) Raters(s Split) []string {
	var out []string
	for rater, got := range a.Splits {
		if got == s {
			out = append(out, rater)
		}
	}
	sort.Slice(out, func(i, j int) bool { return a.Rank[out[i]] < a.Rank[out[j]] })
	return out
}

// AssignTrainTest shuffles the unique raters and assigns the first
// floor(trainFraction*N) of them to Train and the rest to Test.
func AssignTrainTest(raters []string, trainFraction float64, rng *rand.Rand) (Assignment, error) {
	if !(trainFraction > 0 && trainFraction < 1) {
		return Assignment{}, errors.Configf("train fraction %v not in (0,1)", trainFraction)
	}
	unique := dataset.UniqueRaters(raters)
	if len(unique) == 0 {
		return Assignment{}, errors.Configf("no raters to partition")
	}

	order := rng.Perm(len(unique))
	cut := int(trainFraction * float64(len(unique)))
	a := Assignment{
		Splits: make(map[string]Split, len(unique)),
		Rank:   make(map[string]int, len(unique)),
	}
	for i, rater := range unique {
		rank := order[i]
		a.Rank[rater] = rank
		if rank < cut {
			a.Splits[rater] = Train
		} else {
			a.Splits[rater] = Test
		}
	}
	return a, nil
}

// AssignFolds shuffles the unique raters and cuts them into k contiguous
// groups. The first N mod k folds get one extra rater.
func AssignFolds(raters []string, k int, rng *rand.Rand) (map[string]int, error) {
	unique := dataset.UniqueRaters(raters)
	if k < 2 {
		return nil, errors.Configf("need at least 2 folds, got %d", k)
	}
	if k > len(unique) {
		return nil, errors.Configf("%d folds exceed %d unique raters", k, len(unique))
	}

	shuffled := append([]string(nil), unique...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	folds := make(map[string]int, len(shuffled))
	size, extra := len(shuffled)/k, len(shuffled)%k
	start := 0
	for f := 0; f < k; f++ {
		end := start + size
		if f < extra {
			end++
		}
		for _, rater := range shuffled[start:end] {
			folds[rater] = f
		}
		start = end
	}
	return folds, nil
}

// FoldRaters inverts a fold assignment into k rater lists, each sorted.
func FoldRaters(folds map[string]int, k int) [][]string {
	out := make([][]string, k)
	for rater, f := range folds {
		out[f] = append(out[f], rater)
	}
	for _, raters := range out {
		sort.Strings(raters)
	}
	return out
}
