package mixer

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/sources"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

const (
	maxWeight = 500
	maxWarn   = 3
)

func validCurve(ref int, m *types.ModelData) bool {
	return ref >= -len(m.Curves) && ref <= len(m.Curves)
}

func validCarry(ct types.CarryTrim) bool {
	return ct >= 0 || int(-ct)-1 < types.MAX_TRIMS
}

func Validate(m *types.ModelData, errs *types.ConfigErrors, warns *types.Warnings) {
	if m.Channels < 1 || m.Channels > types.MAX_CHANNELS {
		errs.Add(types.ErrCount, "channels", "%d", m.Channels)
	}
	if len(m.Mixes) > types.MAX_MIXERS {
		errs.Add(types.ErrCount, "mixes", "%d > %d", len(m.Mixes), types.MAX_MIXERS)
	}
	if len(m.Expos) > types.MAX_EXPOS {
		errs.Add(types.ErrCount, "inputs", "%d > %d", len(m.Expos), types.MAX_EXPOS)
	}
	if len(m.Limits) > m.Channels {
		errs.Add(types.ErrCount, "outputs", "%d > %d channels", len(m.Limits), m.Channels)
	}
	if len(m.Curves) > types.MAX_CURVES {
		errs.Add(types.ErrCount, "curves", "%d > %d", len(m.Curves), types.MAX_CURVES)
	}

	for j := range m.Expos {
		ed := &m.Expos[j]
		where := fmt.Sprintf("inputs[%d]", j)
		if ed.Input < 0 || ed.Input >= types.MAX_INPUTS {
			errs.Add(types.ErrIndexRange, where+".input", "%d", ed.Input)
		}
		sources.Validate(ed.Source, m, where+".source", errs)
		switches.Validate(ed.Switch, m, where+".switch", errs)
		if !validCurve(ed.Curve, m) {
			errs.Add(types.ErrIndexRange, where+".curve", "%d", ed.Curve)
		}
		if types.Abs(ed.Weight) > maxWeight || types.Abs(ed.Offset) > maxWeight {
			errs.Add(types.ErrValue, where, "weight %d offset %d", ed.Weight, ed.Offset)
		}
		if ed.Side < types.SIDE_BOTH || ed.Side > types.SIDE_NEG {
			errs.Add(types.ErrValue, where+".side", "%d", ed.Side)
		}
		if !validCarry(ed.CarryTrim) {
			errs.Add(types.ErrIndexRange, where+".carryTrim", "%d", ed.CarryTrim)
		}
	}

	first := make(map[int]bool)
	for j := range m.Mixes {
		md := &m.Mixes[j]
		where := fmt.Sprintf("mixes[%d]", j)
		if md.Dest < 0 || md.Dest >= m.Channels {
			errs.Add(types.ErrIndexRange, where+".dest", "%d", md.Dest)
		}
		sources.Validate(md.Source, m, where+".source", errs)
		switches.Validate(md.Switch, m, where+".switch", errs)
		if !validCurve(md.Curve, m) {
			errs.Add(types.ErrIndexRange, where+".curve", "%d", md.Curve)
		}
		if md.Mltpx > types.MLTPX_REP {
			errs.Add(types.ErrValue, where+".mltpx", "%d", md.Mltpx)
		}
		if types.Abs(md.Weight) > maxWeight || types.Abs(md.Offset) > maxWeight {
			errs.Add(types.ErrValue, where, "weight %d offset %d", md.Weight, md.Offset)
		}
		if md.DelayUp < 0 || md.DelayDown < 0 || md.SlewUp < 0 || md.SlewDown < 0 {
			errs.Add(types.ErrValue, where, "negative delay or slew")
		}
		if md.Warn < 0 || md.Warn > maxWarn {
			errs.Add(types.ErrValue, where+".warn", "%d", md.Warn)
		}
		if !validCarry(md.CarryTrim) {
			errs.Add(types.ErrIndexRange, where+".carryTrim", "%d", md.CarryTrim)
		}
		if !first[md.Dest] {
			first[md.Dest] = true
			if md.Mltpx == types.MLTPX_MUL {
				warns.Add(where, "multiply on the first line of CH%d always yields zero", md.Dest+1)
			}
		}
	}

	for j, ld := range m.Limits {
		where := fmt.Sprintf("outputs[%d]", j)
		lim := 1000
		if m.ExtendedLimits {
			lim = 1500
		}
		if types.Abs(ld.Min) > lim || types.Abs(ld.Max) > lim || types.Abs(ld.Offset) > 1000 {
			errs.Add(types.ErrValue, where, "min %d max %d offset %d", ld.Min, ld.Max, ld.Offset)
		} else if ld.Min != 0 && ld.Max != 0 && ld.Min > ld.Max {
			errs.Add(types.ErrValue, where, "min %d > max %d", ld.Min, ld.Max)
		}
	}
}
