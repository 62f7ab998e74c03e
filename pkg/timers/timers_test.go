package timers

import (
	"testing"

	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

var saDown = types.PhysicalSwitch(0, types.SW_DOWN)

type rig struct {
	pos [types.MAX_SWITCHES]int
	sw  switches.State
	t   *Timers
}

func newRig(cfg ...types.TimerData) *rig {
	r := &rig{}
	r.sw = switches.State{Positions: &r.pos}
	r.t = New(cfg, make([]int, len(cfg)), &r.sw)
	return r
}

func (r *rig) run(frames int) []Event {
	var evs []Event
	for k := 0; k < frames; k++ {
		evs = append(evs, r.t.Step(10)...)
	}
	return evs
}

func TestCountUp(t *testing.T) {
	r := newRig(types.TimerData{Switch: saDown, MinuteBeep: true})
	if evs := r.run(100); len(evs) != 0 || r.t.Values[0] != 0 || r.t.State(0) != STOPPED {
		t.Fatalf("ran with switch off: %v %d", evs, r.t.Values[0])
	}
	r.pos[0] = types.SW_DOWN
	r.run(100)
	if r.t.Values[0] != 1 || r.t.State(0) != RUNNING {
		t.Fatalf("after 1s: %d %s", r.t.Values[0], r.t.State(0))
	}
	evs := r.run(5900)
	if r.t.Values[0] != 60 {
		t.Fatalf("after 60s: %d", r.t.Values[0])
	}
	if len(evs) != 1 || evs[0].Kind != EVT_MINUTE || evs[0].Value != 60 {
		t.Errorf("events %v", evs)
	}
}

func TestCountdown(t *testing.T) {
	r := newRig(types.TimerData{Start: 12, Switch: saDown, CountdownBeep: types.COUNTDOWN_BEEPS})
	if r.t.Values[0] != 12 {
		t.Fatalf("initial %d", r.t.Values[0])
	}
	r.pos[0] = types.SW_DOWN
	evs := r.run(1400)
	if r.t.Values[0] != -2 {
		t.Errorf("value %d", r.t.Values[0])
	}
	if len(evs) != 11 {
		t.Fatalf("events %v", evs)
	}
	for j := 0; j < 10; j++ {
		e := evs[j]
		if e.Kind != EVT_COUNTDOWN || e.Value != 10-j || e.Style != types.COUNTDOWN_BEEPS {
			t.Errorf("event %d: %v", j, e)
		}
	}
	if evs[10].Kind != EVT_EXPIRED {
		t.Errorf("last event %v", evs[10])
	}
}

func TestCountdownSilentLargeStep(t *testing.T) {
	r := newRig(types.TimerData{Start: 12, Switch: saDown, CountdownStart: 5})
	r.pos[0] = types.SW_DOWN
	r.t.Step(0)
	if evs := r.t.Step(11000); len(evs) != 0 || r.t.Values[0] != 1 {
		t.Fatalf("silent countdown %v %d", evs, r.t.Values[0])
	}
	evs := r.t.Step(2000)
	if len(evs) != 1 || evs[0].Kind != EVT_EXPIRED {
		t.Errorf("events %v", evs)
	}

	r = newRig(types.TimerData{Start: 12, Switch: saDown, CountdownBeep: types.COUNTDOWN_VOICE})
	r.pos[0] = types.SW_DOWN
	r.t.Step(0)
	evs = r.t.Step(3000)
	if len(evs) != 2 || evs[0].Value != 10 || evs[1].Value != 9 {
		t.Errorf("events %v", evs)
	}
}

func TestStopModes(t *testing.T) {
	r := newRig(
		types.TimerData{Switch: saDown, StopMode: types.STOP_PAUSE},
		types.TimerData{Start: 30, Switch: saDown, StopMode: types.STOP_RESET},
	)
	r.pos[0] = types.SW_DOWN
	r.run(500)
	if r.t.Values[0] != 5 || r.t.Values[1] != 25 {
		t.Fatalf("running %v", r.t.Values)
	}
	r.pos[0] = types.SW_UP
	r.run(300)
	if r.t.Values[0] != 5 || r.t.State(0) != PAUSED {
		t.Errorf("paused %d %s", r.t.Values[0], r.t.State(0))
	}
	if r.t.Values[1] != 30 || r.t.State(1) != STOPPED {
		t.Errorf("stopped %d %s", r.t.Values[1], r.t.State(1))
	}
	r.pos[0] = types.SW_DOWN
	r.run(100)
	if r.t.Values[0] != 6 || r.t.Values[1] != 29 {
		t.Errorf("resumed %v", r.t.Values)
	}
}

func TestPersistence(t *testing.T) {
	r := newRig(
		types.TimerData{Switch: saDown, Persistent: types.PERSIST_OFF},
		types.TimerData{Start: 600, Switch: saDown, Persistent: types.PERSIST_FLIGHT},
		types.TimerData{Switch: saDown, Persistent: types.PERSIST_MANUAL},
	)
	r.pos[0] = types.SW_DOWN
	r.run(1000)
	saved := r.t.Persisted()
	if len(saved) != 2 || saved[1] != 590 || saved[2] != 10 {
		t.Fatalf("persisted %v", saved)
	}

	r.pos[0] = types.SW_UP
	r.t.PowerOn(saved)
	if r.t.Values[0] != 0 || r.t.Values[1] != 590 || r.t.Values[2] != 10 {
		t.Fatalf("power on %v", r.t.Values)
	}
	r.pos[0] = types.SW_DOWN
	r.run(100)
	if r.t.Values[1] != 589 || r.t.Values[2] != 11 {
		t.Errorf("continued %v", r.t.Values)
	}
	r.t.ResetFlight()
	if r.t.Values[0] != 0 || r.t.Values[1] != 600 || r.t.Values[2] != 11 {
		t.Errorf("flight reset %v", r.t.Values)
	}
	r.t.ResetTimer(2)
	if r.t.Values[2] != 0 {
		t.Errorf("manual reset %v", r.t.Values)
	}
}

func TestValidate(t *testing.T) {
	m := &types.ModelData{Timers: []types.TimerData{
		{Start: -1},
		{Switch: types.LogicalSwitch(0)},
		{Persistent: 9},
		{}, {},
	}}
	var errs types.ConfigErrors
	Validate(m, &errs)
	if len(errs) != 4 {
		t.Errorf("got %v", errs)
	}
}
