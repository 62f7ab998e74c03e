package engine

import (
	"github.com/stronnag/txlogic/pkg/failsafe"
	"github.com/stronnag/txlogic/pkg/flightmode"
	"github.com/stronnag/txlogic/pkg/logical"
	"github.com/stronnag/txlogic/pkg/mixer"
	"github.com/stronnag/txlogic/pkg/sources"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/timers"
	"github.com/stronnag/txlogic/pkg/types"
)

type Diagnostics struct {
	Frames        uint64
	Resolution    uint64
	Degraded      uint64
	DroppedEvents uint64
}

// Frame is the result of one Step. Its slices belong to the engine and
// are overwritten by the next Step.
type Frame struct {
	FlightMode int
	Channels   []int
	Logical    []bool
	Timers     []int
	Events     []timers.Event
	Warning    int
}

// Engine evaluates a loaded model once per frame. All state is sized at
// load; Step does not allocate.
type Engine struct {
	model   *types.ModelData
	fms     []types.FlightModeData
	analogs [types.MAX_ANALOGS]int
	pos     [types.MAX_SWITCHES]int
	telem   []int
	checks  []bool

	sw       switches.State
	src      sources.Frame
	resolver *flightmode.Resolver
	logic    *logical.Engine
	mix      *mixer.Mixer
	tmr      *timers.Timers
	fs       *failsafe.Resolver

	frame  Frame
	frames uint64
	Warns  types.Warnings
}

// Load validates m and builds an engine for it. m must not be modified
// while the engine uses it.
func Load(m *types.ModelData) (*Engine, error) {
	errs, warns := Validate(m)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	e := &Engine{Warns: warns}
	e.build(m)
	return e, nil
}

// Reload replaces the model between frames. On error the current model
// stays loaded; on success all runtime state starts afresh.
func (e *Engine) Reload(m *types.ModelData) error {
	errs, warns := Validate(m)
	if err := errs.Err(); err != nil {
		return err
	}
	e.Warns = warns
	e.build(m)
	return nil
}

func (e *Engine) build(m *types.ModelData) {
	e.model = m
	e.fms = m.FlightModes
	if len(e.fms) == 0 {
		e.fms = make([]types.FlightModeData, 1)
	}
	e.analogs = [types.MAX_ANALOGS]int{}
	e.pos = [types.MAX_SWITCHES]int{}
	e.telem = make([]int, len(m.Sensors))
	e.checks = make([]bool, len(m.TelemetryChecks))
	lsout := make([]bool, len(m.LogicalSwitches))
	inputs := make([]int, types.MAX_INPUTS)
	chans := make([]int, m.Channels)
	tvals := make([]int, len(m.Timers))

	e.resolver = flightmode.NewResolver(m)
	e.sw = switches.State{Positions: &e.pos, Logical: lsout, Telemetry: e.checks}
	e.src = sources.Frame{
		Analogs:   &e.analogs,
		Positions: &e.pos,
		Telemetry: e.telem,
		Inputs:    inputs,
		Channels:  chans,
		Logical:   lsout,
		Timers:    tvals,
		Curves:    m.Curves,
		Resolver:  e.resolver,
	}
	e.logic = logical.New(m.LogicalSwitches, lsout, &e.sw, &e.src)
	e.mix = mixer.New(m, &e.sw, &e.src, inputs, chans)
	e.tmr = timers.New(m.Timers, tvals, &e.sw)
	e.fs = failsafe.New(m)
	e.frame = Frame{Channels: chans, Logical: lsout, Timers: tvals}
	e.frames = 0
}

// Reset returns every runtime state to its initial value.
func (e *Engine) Reset() {
	e.logic.Reset()
	e.mix.Reset()
	e.tmr.Reset()
	for j := range e.telem {
		e.telem[j] = 0
	}
	for j := range e.checks {
		e.checks[j] = false
	}
	e.sw.FlightMode = 0
	e.src.FlightMode = 0
	e.frame.FlightMode = 0
	e.frame.Events = nil
	e.frame.Warning = 0
}

func (e *Engine) Model() *types.ModelData {
	return e.model
}

// Step evaluates one frame of dt milliseconds.
func (e *Engine) Step(in *types.Inputs, dt int) *Frame {
	e.frames++
	e.analogs = in.Analogs
	e.pos = in.Switches

	for j := range e.telem {
		if in.TelemetryValid[j] {
			e.telem[j] = in.Telemetry[j]
		}
	}
	switches.EvalChecks(e.model.TelemetryChecks, e.telem, e.checks)

	fm := flightmode.Select(e.fms, &e.sw)
	if in.ForceFlightMode && in.FlightMode >= 0 && in.FlightMode < len(e.fms) {
		fm = in.FlightMode
	}
	e.sw.FlightMode = fm
	e.src.FlightMode = fm

	e.logic.Step(dt)
	e.mix.EvalInputs(fm)
	e.mix.EvalMixes(fm, dt)
	e.frame.Events = e.tmr.Step(dt)

	e.frame.FlightMode = fm
	e.frame.Warning = e.mix.Warning
	return &e.frame
}

func (e *Engine) Failsafe(module int) (failsafe.Result, bool) {
	return e.fs.Compute(module)
}

func (e *Engine) TimerState(j int) timers.TimerState {
	return e.tmr.State(j)
}

func (e *Engine) ResetTimer(j int) {
	e.tmr.ResetTimer(j)
}

func (e *Engine) ResetFlight() {
	e.tmr.ResetFlight()
}

func (e *Engine) PowerOn(saved map[int]int) {
	e.tmr.PowerOn(saved)
}

func (e *Engine) PersistedTimers() map[int]int {
	return e.tmr.Persisted()
}

// Inputs returns the virtual input values of the last frame.
func (e *Engine) Inputs() []int {
	return e.src.Inputs
}

// GVar returns gv in the current flight mode for display, with its
// precision applied.
func (e *Engine) GVar(gv int) float64 {
	return e.resolver.GVarScaled(e.sw.FlightMode, gv)
}

func (e *Engine) Diagnostics() Diagnostics {
	return Diagnostics{
		Frames:        e.frames,
		Resolution:    e.resolver.Fallbacks,
		Degraded:      e.logic.Degraded + e.mix.Degraded,
		DroppedEvents: e.tmr.Dropped,
	}
}
