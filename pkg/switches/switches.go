package switches

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/types"
)

// State is the switch state published for the current frame. Logical and
// Telemetry are owned by the engine and updated in place.
type State struct {
	Positions  *[types.MAX_SWITCHES]int
	Logical    []bool
	Telemetry  []bool
	FlightMode int
}

// Evaluate resolves sw as a gate: an unset switch is always on.
func (s *State) Evaluate(sw types.RawSwitch) bool {
	if sw.Kind == types.SWITCH_NONE {
		return true
	}
	return s.Operand(sw)
}

// Operand resolves sw as a logic input: an unset switch is off.
func (s *State) Operand(sw types.RawSwitch) bool {
	var v bool
	switch sw.Kind {
	case types.SWITCH_NONE:
		return false
	case types.SWITCH_PHYSICAL:
		n := sw.Index / types.SW_POSITIONS
		if s.Positions != nil && sw.Index >= 0 && n < types.MAX_SWITCHES {
			v = s.Positions[n] == sw.Index%types.SW_POSITIONS
		}
	case types.SWITCH_LOGICAL:
		if sw.Index >= 0 && sw.Index < len(s.Logical) {
			v = s.Logical[sw.Index]
		}
	case types.SWITCH_FLIGHT_MODE:
		v = s.FlightMode == sw.Index
	case types.SWITCH_TELEM:
		if sw.Index >= 0 && sw.Index < len(s.Telemetry) {
			v = s.Telemetry[sw.Index]
		}
	case types.SWITCH_ON:
		v = true
	case types.SWITCH_OFF:
		v = false
	}
	if sw.Invert {
		return !v
	}
	return v
}

// EvalChecks compares the last known telemetry values against each check.
func EvalChecks(checks []types.TelemetryCheck, values []int, out []bool) {
	for j := range checks {
		c := &checks[j]
		out[j] = c.Sensor >= 0 && c.Sensor < len(values) && c.Op.Eval(values[c.Sensor], c.Value)
	}
}

// Validate checks that sw references something the model defines.
func Validate(sw types.RawSwitch, m *types.ModelData, where string, errs *types.ConfigErrors) {
	limit := 0
	switch sw.Kind {
	case types.SWITCH_NONE, types.SWITCH_ON, types.SWITCH_OFF:
		return
	case types.SWITCH_PHYSICAL:
		limit = types.MAX_SWITCHES * types.SW_POSITIONS
	case types.SWITCH_LOGICAL:
		limit = len(m.LogicalSwitches)
	case types.SWITCH_FLIGHT_MODE:
		limit = m.NumFlightModes()
	case types.SWITCH_TELEM:
		limit = len(m.TelemetryChecks)
	default:
		errs.Add(types.ErrValue, where, "switch kind %d", sw.Kind)
		return
	}
	if sw.Index < 0 || sw.Index >= limit {
		errs.Add(types.ErrIndexRange, where, "%s (limit %d)", sw, limit)
	}
}

func ValidateChecks(m *types.ModelData, errs *types.ConfigErrors) {
	if len(m.TelemetryChecks) > types.MAX_TELEM_CHECKS {
		errs.Add(types.ErrCount, "telemetryChecks", "%d > %d", len(m.TelemetryChecks), types.MAX_TELEM_CHECKS)
	}
	for j, c := range m.TelemetryChecks {
		where := fmt.Sprintf("telemetryChecks[%d]", j)
		if c.Sensor < 0 || c.Sensor >= len(m.Sensors) {
			errs.Add(types.ErrIndexRange, where+".sensor", "%d", c.Sensor)
		}
		if c.Op > types.CMP_LE {
			errs.Add(types.ErrValue, where+".op", "%d", c.Op)
		}
	}
}
