package dataset

import (
	"io"
	"os"
	"strings"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/errors"
	"github.com/gocarina/gocsv"
)

type raterEntry struct {
	WorkerID string `csv:"WorkerId"`
}

// LoadRatersFile reads the canonical rater list from a CSV file.
func LoadRatersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening rater list")
	}
	defer f.Close()
	return LoadRaters(f)
}

// LoadRaters reads the canonical rater list: a CSV with a WorkerId column.
// The file order, not the dataset row order, seeds the train/test assignment.
// Duplicate ids are collapsed.
func LoadRaters(r io.Reader) ([]string, error) {
	var entries []*raterEntry
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return nil, errors.Wrapf(err, "reading rater list")
	}
	ids := make([]string, 0, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.WorkerID)
		if id == "" {
			return nil, errors.Schemaf("rater list row %d has no WorkerId", i)
		}
		ids = append(ids, id)
	}
	return UniqueRaters(ids), nil
}
