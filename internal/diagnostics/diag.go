package diagnostics

import (
	"errors"
	"strings"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func (d Diagnostic) Error() string {
	if d.Detail == "" {
		return d.Code + ": " + d.Summary
	}
	return d.Code + ": " + d.Summary + " (" + d.Detail + ")"
}

// List is an ordered set of findings from one check.
type List []Diagnostic

// Add appends a finding.
func (l *List) Add(sev Severity, code, summary string, evidence map[string]any) {
	*l = append(*l, Diagnostic{Severity: sev, Code: code, Summary: summary, Evidence: evidence})
}

// HasErrors reports whether any finding has Err severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Err {
			return true
		}
	}
	return false
}

// Codes lists the finding codes in order.
func (l List) Codes() []string {
	out := make([]string, 0, len(l))
	for _, d := range l {
		out = append(out, d.Code)
	}
	return out
}

// Err joins every Err-severity finding into one error, or returns nil.
func (l List) Err() error {
	var errs []error
	for _, d := range l {
		if d.Severity == Err {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}

func (l List) String() string {
	var b strings.Builder
	for i, d := range l {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(string(d.Severity))
		b.WriteString(" ")
		b.WriteString(d.Error())
	}
	return b.String()
}
