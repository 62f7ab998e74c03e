package failsafe

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/types"
)

type ChannelKind uint8

const (
	CH_VALUE ChannelKind = iota
	CH_HOLD
	CH_NOPULSE
)

type Channel struct {
	Kind  ChannelKind
	Value int
}

func (c Channel) String() string {
	switch c.Kind {
	case CH_HOLD:
		return "Hold"
	case CH_NOPULSE:
		return "No Pulse"
	}
	return fmt.Sprintf("%.1f%%", types.Percent(c.Value))
}

func Decode(v int) Channel {
	switch v {
	case types.FAILSAFE_HOLD:
		return Channel{Kind: CH_HOLD}
	case types.FAILSAFE_NOPULSE:
		return Channel{Kind: CH_NOPULSE}
	}
	return Channel{Value: v}
}

// Result is what a module's encoder receives. Channels is only set for
// FAILSAFE_CUSTOM; Start is the first model channel the module sends.
type Result struct {
	Module   int
	Mode     types.FailsafeMode
	Start    int
	Channels []Channel
}

type Resolver struct {
	modules []types.ModuleData
	bufs    [][]Channel
}

func New(m *types.ModelData) *Resolver {
	r := &Resolver{modules: m.Modules, bufs: make([][]Channel, len(m.Modules))}
	for j, md := range m.Modules {
		r.bufs[j] = make([]Channel, md.ChannelsCount)
	}
	return r
}

// Compute resolves the failsafe of module. The returned channel slice is
// owned by the resolver.
func (r *Resolver) Compute(module int) (Result, bool) {
	if module < 0 || module >= len(r.modules) {
		return Result{}, false
	}
	md := &r.modules[module]
	res := Result{Module: module, Mode: md.FailsafeMode, Start: md.ChannelsStart}
	if md.FailsafeMode == types.FAILSAFE_CUSTOM {
		buf := r.bufs[module]
		for j := range buf {
			v := 0
			if j < len(md.FailsafeChannels) {
				v = md.FailsafeChannels[j]
			}
			buf[j] = Decode(v)
		}
		res.Channels = buf
	}
	return res, true
}

// Fill writes the channel values an encoder should send for res into dst,
// using last (the model's last transmitted channels) for held channels.
// nopulse marks channels that must not be sent. It returns false when the
// mode carries no values (not set, no pulses, receiver).
func Fill(res Result, last []int, dst []int, nopulse []bool) bool {
	lastv := func(j int) int {
		if k := res.Start + j; k >= 0 && k < len(last) {
			return last[k]
		}
		return 0
	}
	switch res.Mode {
	case types.FAILSAFE_MODE_HOLD:
		for j := range dst {
			dst[j] = lastv(j)
			nopulse[j] = false
		}
		return true
	case types.FAILSAFE_CUSTOM:
		for j := range dst {
			c := Channel{}
			if j < len(res.Channels) {
				c = res.Channels[j]
			}
			nopulse[j] = c.Kind == CH_NOPULSE
			switch c.Kind {
			case CH_HOLD:
				dst[j] = lastv(j)
			case CH_NOPULSE:
				dst[j] = 0
			default:
				dst[j] = c.Value
			}
		}
		return true
	}
	return false
}

func Validate(m *types.ModelData, errs *types.ConfigErrors) {
	if len(m.Modules) > types.MAX_MODULES {
		errs.Add(types.ErrCount, "modules", "%d > %d", len(m.Modules), types.MAX_MODULES)
	}
	for j, md := range m.Modules {
		where := fmt.Sprintf("modules[%d]", j)
		if md.ChannelsStart < 0 || md.ChannelsCount < 0 || md.ChannelsStart+md.ChannelsCount > m.Channels {
			errs.Add(types.ErrIndexRange, where, "channels %d+%d", md.ChannelsStart, md.ChannelsCount)
		}
		if md.FailsafeMode > types.FAILSAFE_RECEIVER {
			errs.Add(types.ErrValue, where+".failsafeMode", "%d", md.FailsafeMode)
		}
		if len(md.FailsafeChannels) > md.ChannelsCount {
			errs.Add(types.ErrCount, where+".failsafeChannels", "%d > %d", len(md.FailsafeChannels), md.ChannelsCount)
		}
		for k, v := range md.FailsafeChannels {
			if v != types.FAILSAFE_HOLD && v != types.FAILSAFE_NOPULSE && types.Abs(v) > types.LIMIT_EXT {
				errs.Add(types.ErrValue, fmt.Sprintf("%s.failsafeChannels[%d]", where, k), "%d", v)
			}
		}
	}
}
