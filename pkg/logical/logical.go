package logical

import (
	"github.com/stronnag/txlogic/pkg/sources"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

// Times are kept in ms; configured values are in 0.1s.
const tick = 100

type slotState struct {
	// VOFS delta
	last   int
	primed bool
	// edge
	armed   bool
	holding bool
	firing  bool
	elapsed int
	// sticky
	latch bool
	// timer
	phase int
	// duration / delay filter
	rawOn   bool
	onTime  int
	offTime int
	output  bool
}

// Engine evaluates the logical switch slots once per frame. Out is the
// published result array; it is updated in place in ascending slot order,
// so a slot sees the current frame's value of lower slots and the previous
// frame's value of higher ones.
type Engine struct {
	lsw      []types.LogicalSwitchData
	state    []slotState
	Out      []bool
	sw       *switches.State
	src      *sources.Frame
	Degraded uint64
}

// New binds the engine to the switch and source state. out must have one
// entry per slot.
func New(lsw []types.LogicalSwitchData, out []bool, sw *switches.State, src *sources.Frame) *Engine {
	return &Engine{
		lsw:   lsw,
		state: make([]slotState, len(lsw)),
		Out:   out,
		sw:    sw,
		src:   src,
	}
}

func (e *Engine) Reset() {
	for j := range e.state {
		e.state[j] = slotState{}
		e.Out[j] = false
	}
}

// Step advances every slot by dt milliseconds.
func (e *Engine) Step(dt int) {
	for j := range e.lsw {
		e.Out[j] = e.eval(&e.lsw[j], &e.state[j], dt)
	}
}

func tolerance(src types.RawSource) int {
	if sources.IsRESX(src.Kind) {
		return types.RESX / 64
	}
	return 1
}

func (e *Engine) eval(ls *types.LogicalSwitchData, st *slotState, dt int) bool {
	var res bool

	switch ls.Func.Family() {
	case types.LS_FAMILY_OFF:
		return false

	case types.LS_FAMILY_VBOOL:
		a := e.sw.Operand(ls.Sw1)
		b := e.sw.Operand(ls.Sw2)
		switch ls.Func {
		case types.LS_FN_AND:
			res = a && b
		case types.LS_FN_OR:
			res = a || b
		case types.LS_FN_XOR:
			res = a != b
		}

	case types.LS_FAMILY_VOFS:
		v, ok := e.src.Value(ls.Src1)
		if !ok {
			e.Degraded++
			break
		}
		th := sources.Threshold(ls.Src1, ls.Val)
		delta := 0
		if st.primed {
			delta = v - st.last
		}
		st.last = v
		st.primed = true
		switch ls.Func {
		case types.LS_FN_VEQUAL:
			res = v == th
		case types.LS_FN_VALMOSTEQUAL:
			res = types.Abs(v-th) <= tolerance(ls.Src1)
		case types.LS_FN_VPOS:
			res = v > th
		case types.LS_FN_VNEG:
			res = v < th
		case types.LS_FN_APOS:
			res = types.Abs(v) > th
		case types.LS_FN_ANEG:
			res = types.Abs(v) < th
		case types.LS_FN_DPOS:
			res = delta > th
		case types.LS_FN_DAPOS:
			res = types.Abs(delta) > th
		default:
			e.Degraded++
		}

	case types.LS_FAMILY_VCOMP:
		a, ok1 := e.src.Value(ls.Src1)
		b, ok2 := e.src.Value(ls.Src2)
		if !ok1 || !ok2 {
			e.Degraded++
			break
		}
		switch ls.Func {
		case types.LS_FN_EQUAL:
			res = a == b
		case types.LS_FN_NEQUAL:
			res = a != b
		case types.LS_FN_GREATER:
			res = a > b
		case types.LS_FN_LESS:
			res = a < b
		case types.LS_FN_EGREATER:
			res = a >= b
		case types.LS_FN_ELESS:
			res = a <= b
		case types.LS_FN_ALMOSTEQUAL:
			res = types.Abs(a-b) <= tolerance(ls.Src1)
		}

	case types.LS_FAMILY_EDGE:
		res = st.edge(e.sw.Operand(ls.Sw1), ls.Val*tick, ls.Val2, dt)

	case types.LS_FAMILY_STICKY:
		if e.sw.Operand(ls.Sw2) {
			st.latch = false
		} else if e.sw.Operand(ls.Sw1) {
			st.latch = true
		}
		res = st.latch

	case types.LS_FAMILY_TIMER:
		on := ls.Val * tick
		period := on + ls.Val2*tick
		if period <= 0 {
			break
		}
		res = st.phase < on
		st.phase = (st.phase + dt) % period
	}

	if res && !ls.AndSwitch.IsNone() {
		res = e.sw.Evaluate(ls.AndSwitch)
	}
	return st.filter(res, ls.Duration*tick, ls.Delay*tick, dt)
}

// edge reports a rising edge of in once it has been held for dur ms. The
// window is EDGE_INSTANT (one frame), EDGE_UNTIL_RELEASE, or a further
// hold time in 0.1s. The slot rearms only after in goes false.
func (st *slotState) edge(in bool, dur int, window int, dt int) bool {
	if !in {
		st.armed = true
		st.holding = false
		st.firing = false
		st.elapsed = 0
		return false
	}
	if !st.armed {
		return false
	}
	if st.holding {
		st.elapsed += dt
	} else {
		st.holding = true
		st.elapsed = 0
	}
	if st.elapsed < dur {
		return false
	}
	if !st.firing {
		st.firing = true
		if window == types.EDGE_INSTANT {
			st.armed = false
		}
		return true
	}
	if window > 0 && st.elapsed >= dur+window*tick {
		st.armed = false
		st.firing = false
		return false
	}
	return true
}

// filter applies the minimum on time and the off delay to the raw result.
func (st *slotState) filter(res bool, dur int, delay int, dt int) bool {
	if res {
		st.offTime = 0
		if st.rawOn {
			st.onTime += dt
		} else {
			st.rawOn = true
			st.onTime = 0
		}
		if st.onTime >= dur {
			st.output = true
		}
	} else {
		st.onTime = 0
		if st.rawOn {
			st.rawOn = false
			st.offTime = 0
		} else {
			st.offTime += dt
		}
		if st.offTime >= delay {
			st.output = false
		}
	}
	return st.output
}
