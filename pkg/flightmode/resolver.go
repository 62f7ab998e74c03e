package flightmode

import (
	"github.com/stronnag/txlogic/pkg/types"
)

// Resolver looks up per flight mode GVars and trims. References are
// followed for one hop only; anything else resolves to zero and is counted
// in Fallbacks.
type Resolver struct {
	fms       []types.FlightModeData
	gvars     []types.GVarData
	trimMax   int
	Fallbacks uint64
}

func NewResolver(m *types.ModelData) *Resolver {
	r := &Resolver{fms: m.FlightModes, gvars: m.GVars, trimMax: types.TRIM_MAX}
	if len(r.fms) == 0 {
		r.fms = make([]types.FlightModeData, 1)
	}
	if m.ExtendedTrims {
		r.trimMax = types.TRIM_EXTMAX
	}
	return r
}

func (r *Resolver) NumFlightModes() int {
	return len(r.fms)
}

// skipSelf maps a stored reference to a flight mode index; the referring
// mode's own index is never a target.
func skipSelf(num, fm int) int {
	if num >= fm {
		num++
	}
	return num
}

func isGVarRef(v int) bool {
	return v > types.GVAR_MAX
}

// GVar returns the literal value of gv in flight mode fm.
func (r *Resolver) GVar(fm, gv int) int {
	if fm < 0 || fm >= len(r.fms) || gv < 0 || gv >= types.MAX_GVARS {
		r.Fallbacks++
		return 0
	}
	v := r.fms[fm].GVars[gv]
	if isGVarRef(v) {
		num := skipSelf(v-types.GVAR_REFBASE, fm)
		if num >= len(r.fms) {
			r.Fallbacks++
			return 0
		}
		v = r.fms[num].GVars[gv]
		if isGVarRef(v) {
			r.Fallbacks++
			return 0
		}
	}
	if v < -types.GVAR_MAX {
		r.Fallbacks++
		return 0
	}
	if gv < len(r.gvars) {
		if g := r.gvars[gv]; g.Min < g.Max {
			v = types.Limit(g.Min, v, g.Max)
		}
	}
	return v
}

// GVarScaled applies the GVar's precision multiplier.
func (r *Resolver) GVarScaled(fm, gv int) float64 {
	v := float64(r.GVar(fm, gv))
	if gv >= 0 && gv < len(r.gvars) {
		v *= r.gvars[gv].Multiplier()
	}
	return v
}

// Trim returns the trim of stick in flight mode fm, in trim steps.
func (r *Resolver) Trim(fm, stick int) int {
	if fm < 0 || fm >= len(r.fms) || stick < 0 || stick >= types.MAX_TRIMS {
		r.Fallbacks++
		return 0
	}
	td := r.fms[fm].Trims[stick]
	v := 0
	switch td.Mode {
	case types.TRIM_OWN:
		v = td.Value
	case types.TRIM_OFF:
		return 0
	case types.TRIM_ABSOLUTE, types.TRIM_RELATIVE:
		num := skipSelf(td.Ref, fm)
		if td.Ref < 0 || num >= len(r.fms) {
			r.Fallbacks++
			return 0
		}
		ref := r.fms[num].Trims[stick]
		if ref.Mode != types.TRIM_OWN {
			r.Fallbacks++
			return 0
		}
		v = ref.Value
		if td.Mode == types.TRIM_RELATIVE {
			v += td.Value
		}
	default:
		r.Fallbacks++
		return 0
	}
	return types.Limit(-r.trimMax, v, r.trimMax)
}

// TrimValue is Trim in RESX units.
func (r *Resolver) TrimValue(fm, stick int) int {
	return r.Trim(fm, stick) * types.TRIM_SCALE
}
