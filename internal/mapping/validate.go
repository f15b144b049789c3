package mapping

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"midi-animator/internal/common"
	"midi-animator/internal/diagnostic"
	"midi-animator/internal/expr"
	"midi-animator/internal/match"
	"midi-animator/internal/path"
)

// Validate checks decoded mappings against r's path rules. It is a structural
// check only; paths are parsed but not resolved against a graph.
func Validate(ms []Mapping, r *path.Resolver) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	if r == nil {
		r = path.NewResolver("")
	}

	for i := range ms {
		validateMapping(res, i, &ms[i], r)
	}

	return res
}

// Label identifies mapping i in diagnostics and logs.
func Label(i int, m *Mapping) string {
	return fmt.Sprintf("#%d %q", i, m.Name)
}

func validateMapping(res *diagnostic.Diagnostics, i int, m *Mapping, r *path.Resolver) {
	label := Label(i, m)

	if !common.InRange(0, m.InputID, MaxInputID) {
		res.AddError("input_out_of_range",
			fmt.Sprintf("cc %d is outside 0..%d", m.InputID, MaxInputID), label, "")
	}

	if math.IsNaN(m.Speed) || m.Speed <= 0 || m.Speed > MaxSpeed {
		res.AddWarning("speed_out_of_range",
			fmt.Sprintf("speed %v is outside (0, 1] and will be clamped to [%v, %v]", m.Speed, MinSpeed, MaxSpeed),
			label, "")
	}

	if !m.Curve.IsValid() {
		res.AddWarning("unknown_curve", fmt.Sprintf("curve %d is unknown and eases linearly", m.Curve), label, "")
	}

	if len(m.Targets) == 0 {
		res.AddWarning("no_targets", "mapping has no targets", label, "")
	}

	for j := range m.Targets {
		validateTarget(res, label, j, &m.Targets[j], m, r)
	}
}

func validateTarget(res *diagnostic.Diagnostics, label string, j int, t *Target, m *Mapping, r *path.Resolver) {
	ref := t.Path
	if ref == "" {
		ref = fmt.Sprintf("target %d", j)
	}

	if !t.Mode.IsValid() {
		res.AddError("invalid_drive_mode",
			fmt.Sprintf("drive mode %q is not one of %s, %s", t.Mode, DriveSet, DriveAccumulate),
			label, ref)
	}

	switch {
	case strings.TrimSpace(t.Path) == "":
		res.AddWarning("empty_path", "target has no path and is skipped", label, ref)
	default:
		if _, err := r.Check(t.Path); err != nil {
			res.AddWarning("invalid_path", err.Error()+"; the target is skipped", label, ref)
		}
	}

	if t.Expr == "" {
		return
	}

	if _, err := expr.Compile(t.Expr); err != nil {
		var ufe *expr.UnknownFunctionError
		if errors.As(err, &ufe) {
			res.AddWarning("invalid_expression", err.Error()+"; the target writes 0", label, ref,
				match.Suggest(ufe.Name, expr.FunctionNames(), 3)...)
		} else {
			res.AddWarning("invalid_expression", err.Error()+"; the target writes 0", label, ref)
		}

		return
	}

	if m.Absolute {
		res.AddInfo("expression_overrides_abs", "expression takes precedence over absolute output", label, ref)
	}
}
