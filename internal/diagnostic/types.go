package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"midi-animator/internal/common"
)

// Diagnostics holds all findings from validating a mapping file.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this kind of finding.
	Code string
	// Message is the human-readable description.
	Message string
	// Mapping identifies the mapping this relates to (if any), e.g. `#2 "Lid"`.
	Mapping string
	// Target identifies the target path this relates to (if any).
	Target string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, mapping, target string, suggestions ...string) {
	d.Errors = append(d.Errors, newDiagnostic(SeverityError, code, message, mapping, target, suggestions))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, mapping, target string, suggestions ...string) {
	d.Warnings = append(d.Warnings, newDiagnostic(SeverityWarning, code, message, mapping, target, suggestions))
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, mapping, target string) {
	d.Infos = append(d.Infos, newDiagnostic(SeverityInfo, code, message, mapping, target, nil))
}

func newDiagnostic(sev Severity, code, message, mapping, target string, suggestions []string) Diagnostic {
	return Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     message,
		Mapping:     mapping,
		Target:      target,
		Suggestions: suggestions,
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every diagnostic ordered by decreasing severity.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Mapping != "" {
		prefix = append(prefix, "["+d.Mapping+"]")
	}

	if d.Target != "" {
		prefix = append(prefix, d.Target)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
