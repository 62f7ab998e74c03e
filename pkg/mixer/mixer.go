package mixer

import (
	"github.com/stronnag/txlogic/pkg/curves"
	"github.com/stronnag/txlogic/pkg/flightmode"
	"github.com/stronnag/txlogic/pkg/sources"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

// Slewed values carry 8 bits of fraction.
const (
	slewShift = 8
	tick      = 100
)

type shapeState struct {
	primed  bool
	active  bool
	waiting bool
	wait    int
	target  int
	cur     int // << slewShift
}

// Mixer turns inputs into channel outputs. Inputs and Channels are the
// published arrays, updated in place; a CH source therefore sees lower
// channels from this frame and higher channels from the last one.
type Mixer struct {
	model     *types.ModelData
	sw        *switches.State
	src       *sources.Frame
	res       *flightmode.Resolver
	Inputs    []int
	Channels  []int
	byInput   [][]int
	byChannel [][]int
	shape     []shapeState
	limits    []limit
	outmax    int
	Warning   int
	Degraded  uint64
}

type limit struct {
	offset int
	min    int
	max    int
	revert bool
}

// New sizes all per-line and per-channel state from the model. inputs and
// channels are shared with the source frame.
func New(m *types.ModelData, sw *switches.State, src *sources.Frame, inputs, channels []int) *Mixer {
	mx := &Mixer{
		model:     m,
		sw:        sw,
		src:       src,
		res:       src.Resolver,
		Inputs:    inputs,
		Channels:  channels,
		byInput:   make([][]int, len(inputs)),
		byChannel: make([][]int, len(channels)),
		shape:     make([]shapeState, len(m.Mixes)),
		limits:    make([]limit, len(channels)),
		outmax:    m.OutputRange(),
	}
	for j := range m.Expos {
		if in := m.Expos[j].Input; in >= 0 && in < len(inputs) {
			mx.byInput[in] = append(mx.byInput[in], j)
		}
	}
	for j := range m.Mixes {
		if d := m.Mixes[j].Dest; d >= 0 && d < len(channels) {
			mx.byChannel[d] = append(mx.byChannel[d], j)
		}
	}
	for j := range mx.limits {
		l := limit{min: -types.RESX, max: types.RESX}
		if j < len(m.Limits) {
			ld := m.Limits[j]
			l.offset = types.Calc1000toRESX(ld.Offset)
			if ld.Min != 0 {
				l.min = types.Calc1000toRESX(ld.Min)
			}
			if ld.Max != 0 {
				l.max = types.Calc1000toRESX(ld.Max)
			}
			l.revert = ld.Revert
		}
		mx.limits[j] = l
	}
	return mx
}

func (mx *Mixer) Reset() {
	for j := range mx.shape {
		mx.shape[j] = shapeState{}
	}
	for j := range mx.Inputs {
		mx.Inputs[j] = 0
	}
	for j := range mx.Channels {
		mx.Channels[j] = 0
	}
	mx.Warning = 0
}

func fmEnabled(mask uint16, fm int) bool {
	return mask&(1<<uint(fm)) == 0
}

func (mx *Mixer) trim(ct types.CarryTrim, src types.RawSource, fm int) int {
	if idx := ct.TrimIndex(src); idx >= 0 && idx < types.MAX_TRIMS {
		return mx.res.TrimValue(fm, idx)
	}
	return 0
}

// EvalInputs computes the virtual inputs; the first active line of each
// input wins.
func (mx *Mixer) EvalInputs(fm int) {
	for in, lines := range mx.byInput {
		val := 0
		for _, j := range lines {
			ed := &mx.model.Expos[j]
			if !fmEnabled(ed.FlightModes, fm) || !mx.sw.Evaluate(ed.Switch) {
				continue
			}
			v, ok := mx.src.Value(ed.Source)
			if !ok {
				mx.Degraded++
				continue
			}
			if (ed.Side == types.SIDE_POS && v < 0) || (ed.Side == types.SIDE_NEG && v > 0) {
				continue
			}
			v += mx.trim(ed.CarryTrim, ed.Source, fm)
			if v, ok = curves.Apply(mx.model.Curves, ed.Curve, v); !ok {
				mx.Degraded++
			}
			v = int(types.DivRound(int64(v)*int64(ed.Weight), 100))
			val = v + types.Calc100toRESX(ed.Offset)
			break
		}
		mx.Inputs[in] = types.Limit(-types.LIMIT_EXT, val, types.LIMIT_EXT)
	}
}

// lineValue is a mix line's contribution before shaping.
func (mx *Mixer) lineValue(md *types.MixData, fm int) int {
	v, ok := mx.src.Value(md.Source)
	if !ok {
		mx.Degraded++
		return 0
	}
	v += mx.trim(md.CarryTrim, md.Source, fm)
	v = int(types.DivRound(int64(v)*int64(md.Weight), 100))
	if v, ok = curves.Apply(mx.model.Curves, md.Curve, v); !ok {
		mx.Degraded++
	}
	return v + types.Calc100toRESX(md.Offset)
}

// shaped applies the delay and slew of one line. An inactive line has
// value 0; a change of value is held for DelayUp or DelayDown, chosen by
// its direction, before it reaches the slew stage. It reports whether the
// line contributes this frame.
func (st *shapeState) shaped(md *types.MixData, active bool, v int, dt int) (int, bool) {
	if !active {
		v = 0
	}
	if !st.primed {
		st.primed = true
		st.active = active
		st.target = v
	}
	if v != st.target {
		if !st.waiting {
			st.waiting = true
			st.wait = md.DelayDown * tick
			if v > st.target {
				st.wait = md.DelayUp * tick
			}
		} else {
			st.wait -= dt
		}
		if st.wait <= 0 {
			st.target = v
			st.active = active
			st.waiting = false
		}
	} else {
		st.waiting = false
		st.active = active
	}

	target := st.target << slewShift
	rate := md.SlewDown
	if target > st.cur {
		rate = md.SlewUp
	}
	if rate == 0 {
		st.cur = target
	} else {
		step := int((int64(rate) * types.RESX << slewShift) * int64(dt) / (100 * 1000))
		if step < 1 {
			step = 1
		}
		if target > st.cur {
			st.cur = min(st.cur+step, target)
		} else {
			st.cur = max(st.cur-step, target)
		}
	}
	return st.cur >> slewShift, st.active || st.cur != 0
}

// EvalMixes runs every mix line and writes the limited channel outputs.
// Shaping state advances for every line each frame, even after a Replace
// line has settled the channel.
func (mx *Mixer) EvalMixes(fm int, dt int) {
	mx.Warning = 0
	for ch, lines := range mx.byChannel {
		acc := 0
		replaced := false
		for _, j := range lines {
			md := &mx.model.Mixes[j]
			active := fmEnabled(md.FlightModes, fm) && mx.sw.Evaluate(md.Switch)
			v := 0
			if active || md.HasShaping() {
				v = mx.lineValue(md, fm)
			}
			contributes := active
			if md.HasShaping() {
				v, contributes = mx.shape[j].shaped(md, active, v, dt)
			}
			if !contributes || replaced {
				continue
			}
			if active && md.Warn > mx.Warning {
				mx.Warning = md.Warn
			}
			switch md.Mltpx {
			case types.MLTPX_MUL:
				acc = int(types.DivRound(int64(acc)*int64(v), types.RESX))
			case types.MLTPX_REP:
				acc = v
				replaced = true
			default:
				acc += v
			}
		}
		mx.Channels[ch] = mx.applyLimits(ch, acc)
	}
}

func (mx *Mixer) applyLimits(ch int, v int) int {
	l := &mx.limits[ch]
	v = types.Limit(l.min, v+l.offset, l.max)
	if l.revert {
		v = -v
	}
	return types.Limit(-mx.outmax, v, mx.outmax)
}
