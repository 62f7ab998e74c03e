package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/timers"
	"github.com/stronnag/txlogic/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#575B7E")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Width(5)
	valueStyle = lipgloss.NewStyle().Width(8).Align(lipgloss.Right)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF41")).Bold(true)
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	alarmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selStyle   = lipgloss.NewStyle().Reverse(true)
)

// Bar draws a centre-zero bar of width cells for v on a scale of
// +/-max. The returned string is uncoloured.
func Bar(v, max, width int) string {
	if width < 3 {
		width = 3
	}
	half := width / 2
	n := 0
	if max > 0 {
		n = types.Abs(v) * half / max
	}
	if n > half {
		n = half
	}
	cells := make([]byte, width)
	for j := range cells {
		cells[j] = ' '
	}
	cells[half] = '|'
	for j := 1; j <= n; j++ {
		if v < 0 {
			cells[half-j] = '#'
		} else if half+j < width {
			cells[half+j] = '#'
		}
	}
	return string(cells)
}

func RenderChannels(f *engine.Frame, outmax, width int, p *Palette) string {
	var sb strings.Builder
	bw := width - 16
	if bw < 11 {
		bw = 11
	}
	for j, v := range f.Channels {
		if j > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("CH%d", j+1)))
		sb.WriteString(lipgloss.NewStyle().Foreground(p.At(v, outmax)).Render(Bar(v, outmax, bw)))
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%.1f%%", types.Percent(v))))
	}
	return sb.String()
}

func RenderLogical(ls []bool, perRow int) string {
	if perRow <= 0 {
		perRow = 8
	}
	var sb strings.Builder
	for j, v := range ls {
		if j > 0 {
			if j%perRow == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		s := fmt.Sprintf("L%02d", j+1)
		if v {
			sb.WriteString(onStyle.Render(s))
		} else {
			sb.WriteString(offStyle.Render(s))
		}
	}
	return sb.String()
}

// FormatTimer renders seconds as [-]m:ss.
func FormatTimer(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d:%02d", sign, v/60, v%60)
}

func RenderTimers(cfg []types.TimerData, vals []int, state func(int) timers.TimerState, sel int) string {
	var sb strings.Builder
	for j, v := range vals {
		if j > 0 {
			sb.WriteByte('\n')
		}
		name := fmt.Sprintf("Tmr%d", j+1)
		if j < len(cfg) && cfg[j].Name != "" {
			name = cfg[j].Name
		}
		s := fmt.Sprintf("%-8.8s %7s %s", name, FormatTimer(v), state(j))
		switch {
		case j == sel:
			s = selStyle.Render(s)
		case v < 0:
			s = alarmStyle.Render(s)
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// RenderVirtualInputs shows the inputs that have at least one line.
func RenderVirtualInputs(expos []types.ExpoData, vals []int) string {
	var sb strings.Builder
	seen := make([]bool, len(vals))
	for _, ed := range expos {
		in := ed.Input
		if in < 0 || in >= len(vals) || seen[in] {
			continue
		}
		seen[in] = true
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		name := fmt.Sprintf("I%d", in+1)
		if ed.Name != "" {
			name = ed.Name
		}
		sb.WriteString(fmt.Sprintf("%-6.6s %6.1f%%", name, types.Percent(vals[in])))
	}
	return sb.String()
}

// RenderGVars shows each configured GVar as displayed on the radio.
func RenderGVars(cfg []types.GVarData, value func(int) float64) string {
	var sb strings.Builder
	for j := range cfg {
		if j > 0 {
			sb.WriteByte('\n')
		}
		name := fmt.Sprintf("GV%d", j+1)
		if cfg[j].Name != "" {
			name = cfg[j].Name
		}
		prec := 0
		if cfg[j].Prec == 1 {
			prec = 1
		}
		sb.WriteString(fmt.Sprintf("%-6.6s %7.*f %s", name, prec, value(j), cfg[j].Unit))
	}
	return sb.String()
}

func RenderInputs(in *types.Inputs, sel int) string {
	var sb strings.Builder
	for j, v := range in.Analogs {
		s := fmt.Sprintf("%-3s %6.1f%%", types.AnalogNames[j], types.Percent(v))
		if j == sel {
			s = selStyle.Render(s)
		}
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	pos := "^-v"
	for j, v := range in.Switches {
		if j > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(types.SwitchNames[j])
		if v >= 0 && v < len(pos) {
			sb.WriteByte(pos[v])
		}
	}
	return sb.String()
}

func renderWarning(w int) string {
	switch {
	case w <= 0:
		return ""
	case w == 1:
		return warnStyle.Render(" WARN ")
	}
	return alarmStyle.Render(fmt.Sprintf(" WARN%d ", w))
}
