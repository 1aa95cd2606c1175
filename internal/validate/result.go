package validate

import "fmt"

// Status classifies a validated record.
type Status int

const (
	Passed Status = iota
	PassedWithWarnings
	Failed
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "PASSED"
	case PassedWithWarnings:
		return "PASSED with warnings"
	case Failed:
		return "FAILED"
	}
	return ""
}

// Result holds the categorized diagnostics for one record. Errors fail the
// record; warnings and info never do.
type Result struct {
	Path     string   `json:"path,omitempty"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`
}

// Valid reports whether the record has no errors.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Status returns the pass/fail classification of the record.
func (r *Result) Status() Status {
	switch {
	case len(r.Errors) > 0:
		return Failed
	case len(r.Warnings) > 0:
		return PassedWithWarnings
	default:
		return Passed
	}
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) infof(format string, args ...any) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}
