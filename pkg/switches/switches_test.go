package switches

import (
	"testing"

	"github.com/stronnag/txlogic/pkg/types"
)

func TestEvaluate(t *testing.T) {
	var pos [types.MAX_SWITCHES]int
	pos[0] = types.SW_DOWN
	pos[2] = types.SW_MID
	st := State{Positions: &pos, Logical: []bool{false, true}, Telemetry: []bool{true}, FlightMode: 2}

	tests := []struct {
		sw   types.RawSwitch
		want bool
	}{
		{types.RawSwitch{}, true},
		{types.RawSwitch{Kind: types.SWITCH_ON}, true},
		{types.RawSwitch{Kind: types.SWITCH_OFF}, false},
		{types.RawSwitch{Kind: types.SWITCH_OFF, Invert: true}, true},
		{types.PhysicalSwitch(0, types.SW_DOWN), true},
		{types.PhysicalSwitch(0, types.SW_UP), false},
		{types.PhysicalSwitch(1, types.SW_UP), true},
		{types.PhysicalSwitch(2, types.SW_MID), true},
		{types.LogicalSwitch(0), false},
		{types.LogicalSwitch(1), true},
		{types.RawSwitch{Kind: types.SWITCH_LOGICAL, Index: 1, Invert: true}, false},
		{types.LogicalSwitch(9), false},
		{types.RawSwitch{Kind: types.SWITCH_FLIGHT_MODE, Index: 2}, true},
		{types.RawSwitch{Kind: types.SWITCH_FLIGHT_MODE, Index: 0}, false},
		{types.RawSwitch{Kind: types.SWITCH_TELEM, Index: 0}, true},
		{types.RawSwitch{Kind: types.SWITCH_TELEM, Index: 0, Invert: true}, false},
	}
	for _, tc := range tests {
		if got := st.Evaluate(tc.sw); got != tc.want {
			t.Errorf("Evaluate(%s) = %v, want %v", tc.sw, got, tc.want)
		}
	}
	if st.Operand(types.RawSwitch{}) {
		t.Error("unset operand should be off")
	}
}

func TestEvalChecks(t *testing.T) {
	checks := []types.TelemetryCheck{
		{Sensor: 0, Op: types.CMP_LT, Value: 50},
		{Sensor: 1, Op: types.CMP_GE, Value: 3},
		{Sensor: 5, Op: types.CMP_EQ, Value: 0},
	}
	out := make([]bool, len(checks))
	EvalChecks(checks, []int{42, 2}, out)
	if !out[0] || out[1] || out[2] {
		t.Errorf("got %v", out)
	}
}

func TestValidate(t *testing.T) {
	m := &types.ModelData{LogicalSwitches: make([]types.LogicalSwitchData, 2)}
	var errs types.ConfigErrors
	Validate(types.LogicalSwitch(1), m, "a", &errs)
	Validate(types.RawSwitch{Kind: types.SWITCH_FLIGHT_MODE, Index: 0}, m, "b", &errs)
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	Validate(types.LogicalSwitch(2), m, "c", &errs)
	Validate(types.PhysicalSwitch(types.MAX_SWITCHES, 0), m, "d", &errs)
	Validate(types.RawSwitch{Kind: types.SWITCH_FLIGHT_MODE, Index: 1}, m, "e", &errs)
	Validate(types.RawSwitch{Kind: types.SWITCH_KINDS}, m, "f", &errs)
	if len(errs) != 4 || errs[3].Code != types.ErrValue {
		t.Errorf("got %v", errs)
	}
}
