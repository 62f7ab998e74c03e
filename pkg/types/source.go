package types

import "fmt"

type SourceKind uint8

const (
	SOURCE_NONE SourceKind = iota
	SOURCE_STICK
	SOURCE_INPUT
	SOURCE_CH
	SOURCE_TRIM
	SOURCE_GVAR
	SOURCE_CURVE
	SOURCE_TELEM
	SOURCE_MAX
	SOURCE_SWITCH
	SOURCE_LS
	SOURCE_TIMER
	SOURCE_KINDS
)

func (k SourceKind) String() string {
	var names = [...]string{"None", "Stick", "Input", "CH", "Trim", "GV", "Curve", "Telem", "MAX", "Switch", "LS", "Timer"}
	if int(k) >= len(names) {
		return "???"
	}
	return names[k]
}

// RawSource references a numeric value. Param is only used by SOURCE_CURVE,
// where it names the analog the curve is applied to.
type RawSource struct {
	Kind  SourceKind `json:"kind"`
	Index int        `json:"index"`
	Param int        `json:"param,omitempty"`
}

func (s RawSource) IsNone() bool {
	return s.Kind == SOURCE_NONE
}

func (s RawSource) String() string {
	switch s.Kind {
	case SOURCE_NONE:
		return "---"
	case SOURCE_STICK:
		if s.Index >= 0 && s.Index < len(AnalogNames) {
			return AnalogNames[s.Index]
		}
	case SOURCE_INPUT:
		return fmt.Sprintf("I%d", s.Index+1)
	case SOURCE_CH:
		return fmt.Sprintf("CH%d", s.Index+1)
	case SOURCE_TRIM:
		if s.Index >= 0 && s.Index < MAX_TRIMS {
			return "T" + AnalogNames[s.Index]
		}
	case SOURCE_GVAR:
		return fmt.Sprintf("GV%d", s.Index+1)
	case SOURCE_CURVE:
		return fmt.Sprintf("CV%d(%s)", s.Index+1, RawSource{Kind: SOURCE_STICK, Index: s.Param})
	case SOURCE_TELEM:
		return fmt.Sprintf("Tele%d", s.Index+1)
	case SOURCE_MAX:
		return "MAX"
	case SOURCE_SWITCH:
		if s.Index >= 0 && s.Index < len(SwitchNames) {
			return SwitchNames[s.Index]
		}
	case SOURCE_LS:
		return fmt.Sprintf("L%d", s.Index+1)
	case SOURCE_TIMER:
		return fmt.Sprintf("Tmr%d", s.Index+1)
	}
	return fmt.Sprintf("%s?%d", s.Kind, s.Index)
}

type SwitchKind uint8

const (
	SWITCH_NONE SwitchKind = iota
	SWITCH_PHYSICAL
	SWITCH_LOGICAL
	SWITCH_FLIGHT_MODE
	SWITCH_TELEM
	SWITCH_ON
	SWITCH_OFF
	SWITCH_KINDS
)

func (k SwitchKind) String() string {
	var names = [...]string{"None", "Switch", "LS", "FM", "Telem", "ON", "OFF"}
	if int(k) >= len(names) {
		return "???"
	}
	return names[k]
}

// RawSwitch references a boolean. For SWITCH_PHYSICAL the index is
// switch*SW_POSITIONS + position.
type RawSwitch struct {
	Kind   SwitchKind `json:"kind"`
	Index  int        `json:"index"`
	Invert bool       `json:"invert,omitempty"`
}

func (s RawSwitch) IsNone() bool {
	return s.Kind == SWITCH_NONE
}

func PhysicalSwitch(sw, pos int) RawSwitch {
	return RawSwitch{Kind: SWITCH_PHYSICAL, Index: sw*SW_POSITIONS + pos}
}

func LogicalSwitch(idx int) RawSwitch {
	return RawSwitch{Kind: SWITCH_LOGICAL, Index: idx}
}

func (s RawSwitch) String() string {
	var name string
	switch s.Kind {
	case SWITCH_NONE:
		return "---"
	case SWITCH_PHYSICAL:
		sw := s.Index / SW_POSITIONS
		if sw < len(SwitchNames) {
			name = SwitchNames[sw] + [...]string{"↑", "-", "↓"}[s.Index%SW_POSITIONS]
		} else {
			name = fmt.Sprintf("SW%d", s.Index)
		}
	case SWITCH_LOGICAL:
		name = fmt.Sprintf("L%d", s.Index+1)
	case SWITCH_FLIGHT_MODE:
		name = fmt.Sprintf("FM%d", s.Index)
	case SWITCH_TELEM:
		name = fmt.Sprintf("Tel%d", s.Index+1)
	case SWITCH_ON:
		name = "ON"
	case SWITCH_OFF:
		name = "OFF"
	default:
		name = "???"
	}
	if s.Invert {
		return "!" + name
	}
	return name
}
