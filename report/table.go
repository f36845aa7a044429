package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bachhm.dev/go-machine-learning/perceived-personality/evaluation"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// Table writes the mean accuracy +/- standard deviation across folds, one row
// per config and one column per trait.
func Table(w io.Writer, tensor *evaluation.ScoreTensor) {
	mean, std := tensor.Summary()

	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{"config"}, tensor.Traits...))
	for c, config := range tensor.Configs {
		row := []string{config}
		for t := range tensor.Traits {
			row = append(row, fmt.Sprintf("%.3f ± %.3f", mean[t][c], std[t][c]))
		}
		table.Append(row)
	}
	table.Render()
}

// HeldOut writes one held-out test accuracy per trait.
func HeldOut(w io.Writer, config string, traits []string, scores []float64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"trait", "test accuracy"})
	table.SetCaption(true, config)
	for t, trait := range traits {
		table.Append([]string{trait, fmt.Sprintf("%.3f", scores[t])})
	}
	table.Render()
}

// Curves writes an ASCII chart of the mean accuracy over the configs for
// each trait.
func Curves(w io.Writer, tensor *evaluation.ScoreTensor) error {
	mean, _ := tensor.Summary()
	for t, trait := range tensor.Traits {
		if len(mean[t]) == 0 {
			continue
		}
		if flat(mean[t]) {
			if _, err := fmt.Fprintf(w, "%s: flat at %.3f\n\n", trait, mean[t][0]); err != nil {
				return err
			}
			continue
		}
		graph := asciigraph.Plot(mean[t],
			asciigraph.Height(8),
			asciigraph.Caption(fmt.Sprintf("%s: %s", trait, strings.Join(tensor.Configs, " → "))),
		)
		if _, err := fmt.Fprintf(w, "%s\n\n", graph); err != nil {
			return err
		}
	}
	return nil
}

// flat reports whether vals has fewer than two distinct values, which
// asciigraph cannot scale.
func flat(vals []float64) bool {
	for _, v := range vals {
		if v != vals[0] {
			return false
		}
	}
	return true
}
