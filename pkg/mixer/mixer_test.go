package mixer

import (
	"testing"

	"github.com/stronnag/txlogic/pkg/flightmode"
	"github.com/stronnag/txlogic/pkg/sources"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

type rig struct {
	m       *types.ModelData
	pos     [types.MAX_SWITCHES]int
	analogs [types.MAX_ANALOGS]int
	sw      switches.State
	src     sources.Frame
	mx      *Mixer
}

func newRig(m *types.ModelData) *rig {
	r := &rig{m: m}
	inputs := make([]int, types.MAX_INPUTS)
	chans := make([]int, m.Channels)
	r.sw = switches.State{Positions: &r.pos}
	r.src = sources.Frame{Analogs: &r.analogs, Positions: &r.pos, Inputs: inputs, Channels: chans,
		Curves: m.Curves, Resolver: flightmode.NewResolver(m)}
	r.mx = New(m, &r.sw, &r.src, inputs, chans)
	return r
}

func (r *rig) step(fm int) {
	r.sw.FlightMode = fm
	r.src.FlightMode = fm
	r.mx.EvalInputs(fm)
	r.mx.EvalMixes(fm, 10)
}

var (
	thr    = types.RawSource{Kind: types.SOURCE_STICK, Index: types.STICK_THR}
	ail    = types.RawSource{Kind: types.SOURCE_STICK, Index: types.STICK_AIL}
	ele    = types.RawSource{Kind: types.SOURCE_STICK, Index: types.STICK_ELE}
	maxsrc = types.RawSource{Kind: types.SOURCE_MAX}
	saDown = types.PhysicalSwitch(0, types.SW_DOWN)
)

func TestHalfThrottle(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 8,
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 100, Mltpx: types.MLTPX_ADD}}})
	r.analogs[types.STICK_THR] = 512
	r.step(0)
	if pct := types.Percent(r.mx.Channels[0]); pct != 50.0 {
		t.Errorf("got %.1f%%", pct)
	}
}

func TestClamp(t *testing.T) {
	mixes := []types.MixData{
		{Dest: 0, Source: thr, Weight: 100},
		{Dest: 0, Source: thr, Weight: 100},
		{Dest: 0, Source: thr, Weight: 100},
	}
	r := newRig(&types.ModelData{Channels: 1, Mixes: mixes})
	for _, v := range []int{1024, -1024} {
		r.analogs[types.STICK_THR] = v
		r.step(0)
		if got, want := r.mx.Channels[0], types.Limit(-1024, 3*v, 1024); got != want {
			t.Errorf("standard: got %d, want %d", got, want)
		}
	}
	r = newRig(&types.ModelData{Channels: 1, Mixes: mixes, ExtendedLimits: true,
		Limits: []types.LimitData{{Min: -1500, Max: 1500}}})
	r.analogs[types.STICK_THR] = 1024
	r.step(0)
	if got := r.mx.Channels[0]; got != types.LIMIT_EXT {
		t.Errorf("extended: got %d", got)
	}
	// extended limits in a standard model still stop at 100%
	r = newRig(&types.ModelData{Channels: 1, Mixes: mixes,
		Limits: []types.LimitData{{Min: -1500, Max: 1500}}})
	r.analogs[types.STICK_THR] = 1024
	r.step(0)
	if got := r.mx.Channels[0]; got != types.LIMIT_STD {
		t.Errorf("standard with wide limits: got %d", got)
	}
}

func TestMultiplexOps(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 2, Mixes: []types.MixData{
		{Dest: 0, Source: thr, Weight: 100},
		{Dest: 0, Source: ail, Weight: 100, Mltpx: types.MLTPX_MUL},
		{Dest: 1, Source: thr, Weight: 100},
		{Dest: 1, Source: maxsrc, Weight: 25, Mltpx: types.MLTPX_REP, Switch: saDown},
		{Dest: 1, Source: ail, Weight: 100},
	}})
	r.analogs[types.STICK_THR] = 512
	r.analogs[types.STICK_AIL] = 512
	r.step(0)
	if got := r.mx.Channels[0]; got != 256 {
		t.Errorf("multiply: got %d", got)
	}
	if got := r.mx.Channels[1]; got != 1024 {
		t.Errorf("replace off: got %d", got)
	}
	r.pos[0] = types.SW_DOWN
	r.step(0)
	if got := r.mx.Channels[1]; got != 256 {
		t.Errorf("replace on: got %d", got)
	}
}

func TestLineOrder(t *testing.T) {
	m := &types.ModelData{Channels: 1,
		Curves: []types.CurveData{{Type: types.CURVE_TYPE_CUSTOM,
			Points: []types.CurvePoint{{X: -100, Y: -100}, {X: 0, Y: 0}, {X: 50, Y: 100}, {X: 100, Y: 100}}}},
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 50, Curve: 1, Offset: -10}},
	}
	r := newRig(m)
	r.analogs[types.STICK_THR] = 1024
	r.step(0)
	if got := r.mx.Channels[0]; got != 922 {
		t.Errorf("got %d, want weight then curve then offset", got)
	}
}

func TestFlightModeMask(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 1, FlightModes: make([]types.FlightModeData, 3),
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 100, FlightModes: 1 << 1}}})
	r.analogs[types.STICK_THR] = 300
	for fm, want := range []int{300, 0, 300} {
		r.step(fm)
		if got := r.mx.Channels[0]; got != want {
			t.Errorf("FM%d: got %d", fm, got)
		}
	}
}

func TestCarryTrim(t *testing.T) {
	m := &types.ModelData{Channels: 3, FlightModes: make([]types.FlightModeData, 1),
		Mixes: []types.MixData{
			{Dest: 0, Source: thr, Weight: 100},
			{Dest: 1, Source: thr, Weight: 100, CarryTrim: types.CARRY_NOTRIM},
			{Dest: 2, Source: thr, Weight: 100, CarryTrim: types.CarryFrom(types.STICK_ELE)},
		}}
	m.FlightModes[0].Trims[types.STICK_THR].Value = 10
	m.FlightModes[0].Trims[types.STICK_ELE].Value = 5
	r := newRig(m)
	r.step(0)
	for ch, want := range []int{20, 0, 10} {
		if got := r.mx.Channels[ch]; got != want {
			t.Errorf("CH%d: got %d, want %d", ch+1, got, want)
		}
	}
}

func TestVirtualInputs(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 2,
		Expos: []types.ExpoData{
			{Input: 0, Source: thr, Weight: 50, Switch: saDown},
			{Input: 0, Source: thr, Weight: 100},
			{Input: 1, Source: ele, Weight: 100, Side: types.SIDE_POS},
		},
		Mixes: []types.MixData{
			{Dest: 0, Source: types.RawSource{Kind: types.SOURCE_INPUT, Index: 0}, Weight: 100},
			{Dest: 1, Source: types.RawSource{Kind: types.SOURCE_INPUT, Index: 1}, Weight: 100},
		}})
	r.analogs[types.STICK_THR] = 512
	r.analogs[types.STICK_ELE] = -400
	r.step(0)
	if got := r.mx.Channels[0]; got != 512 {
		t.Errorf("second line: got %d", got)
	}
	if got := r.mx.Channels[1]; got != 0 {
		t.Errorf("positive side only: got %d", got)
	}
	r.pos[0] = types.SW_DOWN
	r.analogs[types.STICK_ELE] = 400
	r.step(0)
	if got := r.mx.Channels[0]; got != 256 {
		t.Errorf("first active line: got %d", got)
	}
	if got := r.mx.Channels[1]; got != 400 {
		t.Errorf("positive side: got %d", got)
	}
}

func TestSlew(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 1,
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 100, SlewUp: 100}}})
	r.analogs[types.STICK_THR] = 1024
	for k := 0; k < 50; k++ {
		r.step(0)
	}
	if got := r.mx.Channels[0]; got != 511 {
		t.Errorf("after 0.5s: got %d", got)
	}
	for k := 0; k < 51; k++ {
		r.step(0)
	}
	if got := r.mx.Channels[0]; got != 1024 {
		t.Errorf("after 1.01s: got %d", got)
	}
	r.analogs[types.STICK_THR] = 0
	r.step(0)
	if got := r.mx.Channels[0]; got != 0 {
		t.Errorf("no slew down: got %d", got)
	}
}

func TestDelay(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 1,
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 100, Switch: saDown, DelayUp: 5}}})
	r.analogs[types.STICK_THR] = 700
	r.step(0)
	r.pos[0] = types.SW_DOWN
	for k := 0; k < 60; k++ {
		r.step(0)
		want := 0
		if k >= 50 {
			want = 700
		}
		if got := r.mx.Channels[0]; got != want {
			t.Fatalf("frame %d: got %d, want %d", k, got, want)
		}
	}
	r.pos[0] = types.SW_UP
	r.step(0)
	if got := r.mx.Channels[0]; got != 0 {
		t.Errorf("no delay down: got %d", got)
	}
}

func TestDelayValueChange(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 1,
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 100, DelayUp: 5, DelayDown: 5}}})
	r.step(0)
	for _, sv := range []struct{ from, to int }{{0, 700}, {700, -700}} {
		r.analogs[types.STICK_THR] = sv.to
		for k := 0; k <= 50; k++ {
			r.step(0)
			want := sv.from
			if k == 50 {
				want = sv.to
			}
			if got := r.mx.Channels[0]; got != want {
				t.Fatalf("%d->%d frame %d: got %d, want %d", sv.from, sv.to, k, got, want)
			}
		}
	}
	// a change that reverts inside the window never propagates
	r.analogs[types.STICK_THR] = 200
	r.step(0)
	r.analogs[types.STICK_THR] = -700
	for k := 0; k < 60; k++ {
		r.step(0)
	}
	if got := r.mx.Channels[0]; got != -700 {
		t.Errorf("reverted change: got %d", got)
	}
}

func TestShapingBehindReplace(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 1, Mixes: []types.MixData{
		{Dest: 0, Source: maxsrc, Weight: 100, Mltpx: types.MLTPX_REP, Switch: saDown},
		{Dest: 0, Source: thr, Weight: 100, SlewUp: 100},
	}})
	r.analogs[types.STICK_THR] = 1024
	r.pos[0] = types.SW_DOWN
	for k := 0; k < 50; k++ {
		r.step(0)
		if got := r.mx.Channels[0]; got != 1024 {
			t.Fatalf("replaced frame %d: got %d", k, got)
		}
	}
	r.pos[0] = types.SW_UP
	r.step(0)
	if got := r.mx.Channels[0]; got != 522 {
		t.Errorf("got %d, slew did not advance behind replace", got)
	}
}

func TestLimits(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 2,
		Mixes: []types.MixData{{Dest: 0, Source: thr, Weight: 100}, {Dest: 1, Source: thr, Weight: 100}},
		Limits: []types.LimitData{{Offset: 100, Revert: true}, {Min: -500}}})
	r.analogs[types.STICK_THR] = 512
	r.step(0)
	if got := r.mx.Channels[0]; got != -614 {
		t.Errorf("offset+revert: got %d", got)
	}
	r.analogs[types.STICK_THR] = -1024
	r.step(0)
	if got := r.mx.Channels[1]; got != -512 {
		t.Errorf("min: got %d", got)
	}
}

func TestChannelSource(t *testing.T) {
	r := newRig(&types.ModelData{Channels: 2, Mixes: []types.MixData{
		{Dest: 0, Source: types.RawSource{Kind: types.SOURCE_CH, Index: 1}, Weight: 100},
		{Dest: 1, Source: thr, Weight: 100, Warn: 2},
	}})
	r.analogs[types.STICK_THR] = 512
	r.step(0)
	if r.mx.Channels[0] != 0 || r.mx.Channels[1] != 512 {
		t.Errorf("first frame %v", r.mx.Channels)
	}
	if r.mx.Warning != 2 {
		t.Errorf("warning %d", r.mx.Warning)
	}
	r.step(0)
	if r.mx.Channels[0] != 512 {
		t.Errorf("second frame %v", r.mx.Channels)
	}
	r.mx.Reset()
	if r.mx.Channels[0] != 0 || r.mx.Channels[1] != 0 {
		t.Error("reset")
	}
}

func TestValidate(t *testing.T) {
	m := &types.ModelData{Channels: 2,
		Mixes: []types.MixData{
			{Dest: 0, Source: thr, Weight: 100, Mltpx: types.MLTPX_MUL},
			{Dest: 2, Source: thr, Weight: 100},
			{Dest: 1, Source: thr, Weight: 600, Curve: 2},
		},
		Expos:  []types.ExpoData{{Input: types.MAX_INPUTS, Source: thr, Weight: 100}},
		Limits: []types.LimitData{{Min: 200, Max: -200}},
	}
	var errs types.ConfigErrors
	var warns types.Warnings
	Validate(m, &errs, &warns)
	if len(errs) != 5 {
		t.Errorf("got %d errors: %v", len(errs), errs)
	}
	if len(warns) != 1 {
		t.Errorf("got %v", warns)
	}
}
