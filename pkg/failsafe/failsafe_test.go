package failsafe

import (
	"testing"

	"github.com/stronnag/txlogic/pkg/types"
)

func testModel() *types.ModelData {
	return &types.ModelData{Channels: 8, Modules: []types.ModuleData{
		{ChannelsStart: 0, ChannelsCount: 4, FailsafeMode: types.FAILSAFE_CUSTOM,
			FailsafeChannels: []int{types.FAILSAFE_HOLD, types.FAILSAFE_NOPULSE, 512, -1024}},
		{ChannelsStart: 4, ChannelsCount: 4, FailsafeMode: types.FAILSAFE_MODE_HOLD},
	}}
}

func TestCustom(t *testing.T) {
	r := New(testModel())
	res, ok := r.Compute(0)
	if !ok || res.Mode != types.FAILSAFE_CUSTOM || len(res.Channels) != 4 {
		t.Fatalf("got %+v", res)
	}
	want := []string{"Hold", "No Pulse", "50.0%", "-100.0%"}
	for j, c := range res.Channels {
		if c.String() != want[j] {
			t.Errorf("channel %d: %s, want %s", j, c, want[j])
		}
	}
	if res.Channels[0].Kind != CH_HOLD || res.Channels[1].Kind != CH_NOPULSE || res.Channels[2].Value != 512 {
		t.Errorf("kinds %+v", res.Channels)
	}
}

func TestSentinelsNotScaled(t *testing.T) {
	for _, v := range []int{types.FAILSAFE_HOLD, types.FAILSAFE_NOPULSE} {
		if c := Decode(v); c.Kind == CH_VALUE || c.Value != 0 {
			t.Errorf("%d decoded as %+v", v, c)
		}
	}
	if c := Decode(1999); c.Kind != CH_VALUE || c.Value != 1999 {
		t.Errorf("1999 decoded as %+v", c)
	}
}

func TestModes(t *testing.T) {
	m := testModel()
	m.Modules = append(m.Modules[:1], types.ModuleData{ChannelsCount: 8, FailsafeMode: types.FAILSAFE_NOPULSES})
	r := New(m)
	res, ok := r.Compute(1)
	if !ok || res.Mode != types.FAILSAFE_NOPULSES || res.Channels != nil {
		t.Errorf("no pulses: %+v", res)
	}
	if _, ok := r.Compute(2); ok {
		t.Error("module out of range")
	}
	dst := make([]int, 8)
	np := make([]bool, 8)
	if Fill(res, nil, dst, np) {
		t.Error("no pulses filled values")
	}
}

func TestFill(t *testing.T) {
	r := New(testModel())
	last := []int{100, 200, 300, 400, 500, 600, 700, 800}
	dst := make([]int, 4)
	np := make([]bool, 4)

	res, _ := r.Compute(0)
	if !Fill(res, last, dst, np) {
		t.Fatal("custom not filled")
	}
	if dst[0] != 100 || dst[2] != 512 || dst[3] != -1024 || !np[1] || np[0] {
		t.Errorf("custom %v %v", dst, np)
	}

	res, _ = r.Compute(1)
	if !Fill(res, last, dst, np) {
		t.Fatal("hold not filled")
	}
	for j, v := range dst {
		if v != last[4+j] || np[j] {
			t.Errorf("hold channel %d: %d %v", j, v, np[j])
		}
	}
}

func TestValidate(t *testing.T) {
	m := testModel()
	m.Modules[0].FailsafeChannels[2] = 3000
	m.Modules[1].ChannelsCount = 5
	m.Modules = append(m.Modules, types.ModuleData{})
	var errs types.ConfigErrors
	Validate(m, &errs)
	if len(errs) != 3 {
		t.Errorf("got %v", errs)
	}
}
