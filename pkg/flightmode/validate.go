package flightmode

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/types"
)

// Validate checks flight mode references. Two-hop chains load, but are
// reported since they resolve to zero.
func Validate(m *types.ModelData, errs *types.ConfigErrors, warns *types.Warnings) {
	n := len(m.FlightModes)
	if n > types.MAX_FLIGHT_MODES {
		errs.Add(types.ErrCount, "flightModes", "%d > %d", n, types.MAX_FLIGHT_MODES)
		return
	}
	if len(m.GVars) > types.MAX_GVARS {
		errs.Add(types.ErrCount, "gvars", "%d > %d", len(m.GVars), types.MAX_GVARS)
	}
	for fm := range m.FlightModes {
		fd := &m.FlightModes[fm]
		for gv, v := range fd.GVars {
			where := fmt.Sprintf("flightModes[%d].gvars[%d]", fm, gv)
			if v < -types.GVAR_MAX {
				errs.Add(types.ErrValue, where, "%d", v)
				continue
			}
			if !isGVarRef(v) {
				continue
			}
			num := skipSelf(v-types.GVAR_REFBASE, fm)
			if num >= n {
				errs.Add(types.ErrIndexRange, where, "references FM%d", num)
			} else if isGVarRef(m.FlightModes[num].GVars[gv]) {
				warns.Add(where, "FM%d is itself a reference", num)
			}
		}
		for st, td := range fd.Trims {
			where := fmt.Sprintf("flightModes[%d].trims[%d]", fm, st)
			switch td.Mode {
			case types.TRIM_OWN, types.TRIM_OFF:
			case types.TRIM_ABSOLUTE, types.TRIM_RELATIVE:
				num := skipSelf(td.Ref, fm)
				if td.Ref < 0 || num >= n {
					errs.Add(types.ErrIndexRange, where, "references FM%d", num)
				} else if m.FlightModes[num].Trims[st].Mode != types.TRIM_OWN {
					warns.Add(where, "FM%d is itself a reference", num)
				}
			default:
				errs.Add(types.ErrValue, where+".mode", "%d", td.Mode)
			}
		}
	}
}
