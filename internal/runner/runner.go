// Package runner validates a set of check files and tallies the outcome.
package runner

import (
	"github.com/Threatwrix/drive-maturity-model/internal/logging"
	"github.com/Threatwrix/drive-maturity-model/internal/validate"
)

// Validator validates the record stored at path.
type Validator func(path string) *validate.Result

// Outcome is the result of validating a single file.
type Outcome struct {
	Path   string
	Result *validate.Result
}

// Tally counts outcomes by status.
type Tally struct {
	Passed             int
	PassedWithWarnings int
	Failed             int
	Total              int
}

// OK reports whether no record failed.
func (t Tally) OK() bool {
	return t.Failed == 0
}

// Add counts one result.
func (t *Tally) Add(r *validate.Result) {
	t.Total++
	switch r.Status() {
	case validate.Passed:
		t.Passed++
	case validate.PassedWithWarnings:
		t.PassedWithWarnings++
	case validate.Failed:
		t.Failed++
	}
}

// Run validates every path in order. Each record is judged on its own; a
// failing or unreadable file never stops the rest.
func Run(paths []string, v Validator) ([]Outcome, Tally) {
	outcomes := make([]Outcome, 0, len(paths))
	var tally Tally

	for _, p := range paths {
		r := v(p)
		if r.Path == "" {
			r.Path = p
		}

		logger := logging.WithFile("runner", p)
		logger.Debug().
			Str("status", r.Status().String()).
			Int("errors", len(r.Errors)).
			Int("warnings", len(r.Warnings)).
			Msg("validated check")

		outcomes = append(outcomes, Outcome{Path: p, Result: r})
		tally.Add(r)
	}

	return outcomes, tally
}
