package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"midi-animator/internal/mapping"
	"midi-animator/internal/path"
	"midi-animator/internal/value"
)

// AbsoluteScale is the output range of absolute mappings.
const AbsoluteScale = 127.0

// Raw computes the undriven output of t for curved input x: the expression
// result when one is set, else x scaled absolutely or between Min and Max.
// An expression that fails to compile or evaluate yields 0.
func (e *Engine) Raw(m *mapping.Mapping, t *mapping.Target, x float64, vars map[string]float64) float64 {
	if t.Expr != "" {
		prog, err := e.program(t.Expr)
		if err != nil {
			return 0
		}

		v, err := prog.Eval(vars)
		if err != nil {
			e.log.Debug("expression evaluated to 0", zap.String("expr", t.Expr), zap.Error(err))

			return 0
		}

		return v
	}

	if m.Absolute {
		return x * AbsoluteScale
	}

	return t.Min + x*(t.Max-t.Min)
}

// Drive combines raw with the current slot value according to the target's
// drive mode.
func Drive(t *mapping.Target, raw, current, gain float64) float64 {
	if t.Mode != mapping.DriveAccumulate {
		return raw
	}

	if t.Expr != "" {
		return current + raw
	}

	return current + (raw-(t.Max+t.Min)/2)*gain
}

// applyTarget writes one target. Failures, including panics raised by the
// graph accessor, are recorded and swallowed.
func (e *Engine) applyTarget(label string, m *mapping.Mapping, t *mapping.Target, x float64, vars map[string]float64) {
	if strings.TrimSpace(t.Path) == "" {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			e.fail(label, t.Path, fmt.Errorf("%w: accessor panic: %v", path.ErrResolution, rec))
		}
	}()

	if err := e.write(m, t, x, vars); err != nil {
		e.fail(label, t.Path, err)

		return
	}

	e.recovered(t.Path)
}

func (e *Engine) write(m *mapping.Mapping, t *mapping.Target, x float64, vars map[string]float64) error {
	ref, err := e.resolver.Resolve(t.Path, e.acc)
	if err != nil {
		return err
	}

	existing, err := path.Read(e.acc, ref)
	if err != nil {
		return err
	}

	current, ok := value.ToFloat(existing)
	if !ok {
		return fmt.Errorf("%w: %T", value.ErrUnsupported, existing)
	}

	out := Drive(t, e.Raw(m, t, x, vars), current, e.gain)

	adapted, err := value.Adapt(existing, out)
	if err != nil {
		return err
	}

	if err := path.Write(e.acc, ref, adapted); err != nil {
		return err
	}

	e.stats.Writes++
	t.LastWritten, _ = value.ToFloat(adapted)

	return nil
}
