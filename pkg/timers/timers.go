package timers

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

type TimerState uint8

const (
	STOPPED TimerState = iota
	RUNNING
	PAUSED
)

func (s TimerState) String() string {
	switch s {
	case RUNNING:
		return "Running"
	case PAUSED:
		return "Paused"
	}
	return "Stopped"
}

type EventKind uint8

const (
	EVT_MINUTE EventKind = iota + 1
	EVT_COUNTDOWN
	EVT_EXPIRED
)

func (k EventKind) String() string {
	switch k {
	case EVT_MINUTE:
		return "MinuteBeep"
	case EVT_COUNTDOWN:
		return "CountdownBeep"
	case EVT_EXPIRED:
		return "Expired"
	}
	return "None"
}

type Event struct {
	Timer int
	Kind  EventKind
	Style types.CountdownStyle
	Value int
}

func (e Event) String() string {
	if e.Kind == EVT_COUNTDOWN {
		return fmt.Sprintf("Tmr%d %s(%s) %d", e.Timer+1, e.Kind, e.Style, e.Value)
	}
	return fmt.Sprintf("Tmr%d %s %d", e.Timer+1, e.Kind, e.Value)
}

type runtime struct {
	state   TimerState
	elapsed int // ms
}

// Timers advances the configured timers. Values holds each timer's
// displayed value in seconds and is shared with the source frame.
type Timers struct {
	cfg     []types.TimerData
	rt      []runtime
	Values  []int
	sw      *switches.State
	events  []Event
	Dropped uint64
}

const eventsPerTimer = 8

func New(cfg []types.TimerData, values []int, sw *switches.State) *Timers {
	t := &Timers{
		cfg:    cfg,
		rt:     make([]runtime, len(cfg)),
		Values: values,
		sw:     sw,
		events: make([]Event, 0, eventsPerTimer*len(cfg)),
	}
	t.Reset()
	return t
}

func (t *Timers) Reset() {
	for j := range t.rt {
		t.rt[j] = runtime{}
		t.Values[j] = t.value(j)
	}
	t.events = t.events[:0]
}

func (t *Timers) value(j int) int {
	secs := t.rt[j].elapsed / 1000
	if t.cfg[j].Start > 0 {
		return t.cfg[j].Start - secs
	}
	return secs
}

func (t *Timers) setValue(j int, v int) {
	if t.cfg[j].Start > 0 {
		v = t.cfg[j].Start - v
	}
	t.rt[j].elapsed = v * 1000
	t.Values[j] = t.value(j)
}

func (t *Timers) State(j int) TimerState {
	return t.rt[j].state
}

func (t *Timers) emit(e Event) {
	if len(t.events) < cap(t.events) {
		t.events = append(t.events, e)
	} else {
		t.Dropped++
	}
}

// Step advances running timers by dt ms and returns the events raised. The
// returned slice is reused by the next Step.
func (t *Timers) Step(dt int) []Event {
	t.events = t.events[:0]
	for j := range t.cfg {
		td := &t.cfg[j]
		rt := &t.rt[j]
		on := t.sw.Evaluate(td.Switch)
		switch rt.state {
		case STOPPED, PAUSED:
			if on {
				rt.state = RUNNING
			}
		case RUNNING:
			if !on {
				if td.StopMode == types.STOP_RESET {
					rt.state = STOPPED
					rt.elapsed = 0
					t.Values[j] = t.value(j)
				} else {
					rt.state = PAUSED
				}
			}
		}
		if rt.state != RUNNING {
			continue
		}
		prev := t.value(j)
		rt.elapsed += dt
		cur := t.value(j)
		if cur == prev {
			continue
		}
		step := 1
		if cur < prev {
			step = -1
		}
		for v := prev + step; ; v += step {
			t.announce(j, td, v)
			if v == cur {
				break
			}
		}
		t.Values[j] = cur
	}
	return t.events
}

func (t *Timers) announce(j int, td *types.TimerData, v int) {
	if td.Start > 0 && v == 0 {
		t.emit(Event{Timer: j, Kind: EVT_EXPIRED})
		return
	}
	if td.Start > 0 && v > 0 && td.CountdownBeep != types.COUNTDOWN_SILENT {
		cs := td.CountdownStart
		if cs == 0 {
			cs = types.DEFAULT_COUNTDOWN_START
		}
		if v <= cs {
			t.emit(Event{Timer: j, Kind: EVT_COUNTDOWN, Style: td.CountdownBeep, Value: v})
			return
		}
	}
	if td.MinuteBeep && v != 0 && v%60 == 0 {
		t.emit(Event{Timer: j, Kind: EVT_MINUTE, Value: v})
	}
}

// ResetTimer returns timer j to its start value. It restarts on the next
// Step if its switch is still on.
func (t *Timers) ResetTimer(j int) {
	if j < 0 || j >= len(t.rt) {
		return
	}
	t.rt[j] = runtime{}
	t.Values[j] = t.value(j)
}

// ResetFlight resets every timer not kept until a manual reset.
func (t *Timers) ResetFlight() {
	for j := range t.cfg {
		if t.cfg[j].Persistent != types.PERSIST_MANUAL {
			t.ResetTimer(j)
		}
	}
}

// PowerOn restores persisted values, indexed by timer; timers that do
// not persist start from their start value.
func (t *Timers) PowerOn(saved map[int]int) {
	for j := range t.cfg {
		t.rt[j] = runtime{}
		t.Values[j] = t.value(j)
		if t.cfg[j].Persistent == types.PERSIST_OFF {
			continue
		}
		if v, ok := saved[j]; ok {
			t.setValue(j, v)
		}
	}
}

// Persisted returns the values to save for persistent timers.
func (t *Timers) Persisted() map[int]int {
	m := make(map[int]int)
	for j := range t.cfg {
		if t.cfg[j].Persistent != types.PERSIST_OFF {
			m[j] = t.Values[j]
		}
	}
	return m
}

func Validate(m *types.ModelData, errs *types.ConfigErrors) {
	if len(m.Timers) > types.MAX_TIMERS {
		errs.Add(types.ErrCount, "timers", "%d > %d", len(m.Timers), types.MAX_TIMERS)
	}
	for j, td := range m.Timers {
		where := fmt.Sprintf("timers[%d]", j)
		switches.Validate(td.Switch, m, where+".switch", errs)
		if td.Start < 0 || td.CountdownStart < 0 {
			errs.Add(types.ErrValue, where, "start %d countdown %d", td.Start, td.CountdownStart)
		}
		if td.CountdownBeep > types.COUNTDOWN_HAPTIC || td.Persistent > types.PERSIST_MANUAL || td.StopMode > types.STOP_RESET {
			errs.Add(types.ErrValue, where, "bad mode")
		}
	}
}
