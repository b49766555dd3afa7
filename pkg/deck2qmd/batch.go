package deck2qmd

import (
	"fmt"
	"io"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/models"
)

// BatchResult holds the outcome of converting several decks.
type BatchResult struct {
	Converted int
	Failed    int
	// Decks holds the converted decks in input order.
	Decks []*models.Deck
}

// Total returns the number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any deck failed to convert.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts each path in turn, printing per-deck status to w
// and returning a summary. One failing deck does not stop the batch.
func ConvertBatch(paths []string, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range paths {
		deck, err := Convert(path, opts)
		if err != nil {
			fmt.Fprintf(w, "  FAIL %s: %v\n", path, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "  ok   %s -> %s (%d slides, %d with issues)\n",
			path, deck.OutputPath, len(deck.Report.Rows), deck.Report.IssueCount())
		result.Converted++
		result.Decks = append(result.Decks, deck)
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
