package sources

import (
	"github.com/stronnag/txlogic/pkg/curves"
	"github.com/stronnag/txlogic/pkg/flightmode"
	"github.com/stronnag/txlogic/pkg/types"
)

// Frame binds RawSource lookups to the engine's per-frame arrays. The
// slices are allocated once at load and updated in place.
type Frame struct {
	Analogs    *[types.MAX_ANALOGS]int
	Positions  *[types.MAX_SWITCHES]int
	Telemetry  []int
	Inputs     []int
	Channels   []int
	Logical    []bool
	Timers     []int
	Curves     []types.CurveData
	Resolver   *flightmode.Resolver
	FlightMode int
}

// IsRESX reports whether a source is expressed in RESX units. Thresholds
// against such sources are given in percent.
func IsRESX(k types.SourceKind) bool {
	switch k {
	case types.SOURCE_TELEM, types.SOURCE_TIMER:
		return false
	}
	return true
}

// Threshold converts a configured comparison value to the units of src.
func Threshold(src types.RawSource, v int) int {
	if IsRESX(src.Kind) {
		return types.Calc100toRESX(v)
	}
	return v
}

// Value resolves src. GVars are read as percent and returned in RESX,
// telemetry in sensor units and timers in seconds. ok is false for a
// source the frame cannot resolve; the value is then zero.
func (f *Frame) Value(src types.RawSource) (int, bool) {
	idx := src.Index
	switch src.Kind {
	case types.SOURCE_NONE:
		return 0, true
	case types.SOURCE_STICK:
		if idx >= 0 && idx < types.MAX_ANALOGS {
			return f.Analogs[idx], true
		}
	case types.SOURCE_INPUT:
		if idx >= 0 && idx < len(f.Inputs) {
			return f.Inputs[idx], true
		}
	case types.SOURCE_CH:
		if idx >= 0 && idx < len(f.Channels) {
			return f.Channels[idx], true
		}
	case types.SOURCE_TRIM:
		if idx >= 0 && idx < types.MAX_TRIMS {
			return f.Resolver.TrimValue(f.FlightMode, idx), true
		}
	case types.SOURCE_GVAR:
		if idx >= 0 && idx < types.MAX_GVARS {
			return types.Calc100toRESX(f.Resolver.GVar(f.FlightMode, idx)), true
		}
	case types.SOURCE_CURVE:
		if idx >= 0 && idx < len(f.Curves) && src.Param >= 0 && src.Param < types.MAX_ANALOGS {
			return curves.Eval(&f.Curves[idx], f.Analogs[src.Param]), true
		}
	case types.SOURCE_TELEM:
		if idx >= 0 && idx < len(f.Telemetry) {
			return f.Telemetry[idx], true
		}
	case types.SOURCE_MAX:
		return types.RESX, true
	case types.SOURCE_SWITCH:
		if idx >= 0 && idx < types.MAX_SWITCHES {
			return (f.Positions[idx] - types.SW_MID) * types.RESX, true
		}
	case types.SOURCE_LS:
		if idx >= 0 && idx < len(f.Logical) {
			if f.Logical[idx] {
				return types.RESX, true
			}
			return -types.RESX, true
		}
	case types.SOURCE_TIMER:
		if idx >= 0 && idx < len(f.Timers) {
			return f.Timers[idx], true
		}
	}
	return 0, false
}

// Validate checks that src references something the model defines.
func Validate(src types.RawSource, m *types.ModelData, where string, errs *types.ConfigErrors) {
	limit := 0
	switch src.Kind {
	case types.SOURCE_NONE, types.SOURCE_MAX:
		return
	case types.SOURCE_STICK:
		limit = types.MAX_ANALOGS
	case types.SOURCE_INPUT:
		limit = types.MAX_INPUTS
	case types.SOURCE_CH:
		limit = m.Channels
	case types.SOURCE_TRIM:
		limit = types.MAX_TRIMS
	case types.SOURCE_GVAR:
		limit = types.MAX_GVARS
	case types.SOURCE_CURVE:
		limit = len(m.Curves)
		if src.Param < 0 || src.Param >= types.MAX_ANALOGS {
			errs.Add(types.ErrIndexRange, where+".param", "%d", src.Param)
		}
	case types.SOURCE_TELEM:
		limit = len(m.Sensors)
	case types.SOURCE_SWITCH:
		limit = types.MAX_SWITCHES
	case types.SOURCE_LS:
		limit = len(m.LogicalSwitches)
	case types.SOURCE_TIMER:
		limit = len(m.Timers)
	default:
		errs.Add(types.ErrValue, where, "source kind %d", src.Kind)
		return
	}
	if src.Index < 0 || src.Index >= limit {
		errs.Add(types.ErrIndexRange, where, "%s (limit %d)", src, limit)
	}
}
