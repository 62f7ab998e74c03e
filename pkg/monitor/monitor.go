package monitor

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/types"
)

// Source feeds the monitor with inputs. Next updates in and returns the
// frame time in ms; ok is false once the source is exhausted.
type Source interface {
	Next(in *types.Inputs) (dt int, ok bool)
}

type record struct {
	in types.Inputs
	dt int
}

// Recording is a replayable list of inputs, typically read from a log.
type Recording struct {
	recs []record
	pos  int
}

func (r *Recording) Add(in *types.Inputs, dt int) {
	r.recs = append(r.recs, record{*in, dt})
}

func (r *Recording) Len() int {
	return len(r.recs)
}

func (r *Recording) Next(in *types.Inputs) (int, bool) {
	if r.pos >= len(r.recs) {
		return 0, false
	}
	rec := &r.recs[r.pos]
	r.pos++
	*in = rec.in
	return rec.dt, true
}

type tickMsg time.Time

// shared is held by pointer so every copy of the bubbletea model sees the
// same engine and inputs.
type shared struct {
	eng     *engine.Engine
	src     Source
	in      types.Inputs
	frame   *engine.Frame
	palette *Palette
	period  time.Duration
	outmax  int
	done    bool
}

type Model struct {
	width  int
	height int
	paused bool
	sel    int
	tsel   int
	shared *shared
}

// New builds a monitor for eng. With a nil src the sticks and switches are
// driven from the keyboard and frames run every period.
func New(eng *engine.Engine, src Source, period time.Duration, gradient string) Model {
	sh := &shared{
		eng:     eng,
		src:     src,
		palette: NewPalette(gradient),
		period:  period,
		outmax:  eng.Model().OutputRange(),
	}
	sh.in.Reset()
	sh.frame = eng.Step(&sh.in, 0)
	return Model{shared: sh}
}

func (m Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.shared.period, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// step runs one engine frame.
func (m Model) step() {
	sh := m.shared
	dt := int(sh.period / time.Millisecond)
	if sh.src != nil {
		var ok bool
		if dt, ok = sh.src.Next(&sh.in); !ok {
			sh.done = true
			return
		}
	}
	sh.frame = sh.eng.Step(&sh.in, dt)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if !m.paused && !m.shared.done {
			m.step()
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := &m.shared.in
	manual := m.shared.src == nil
	switch k := msg.String(); k {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case ".":
		if m.paused {
			m.step()
		}
	case "r":
		m.shared.eng.ResetFlight()
	case "R":
		m.shared.eng.Reset()
	case "tab":
		if n := len(m.shared.frame.Timers); n > 0 {
			m.tsel = (m.tsel + 1) % n
		}
	case "t":
		m.shared.eng.ResetTimer(m.tsel)
	case "up", "k":
		if m.sel > 0 {
			m.sel--
		}
	case "down", "j":
		if m.sel < types.MAX_ANALOGS-1 {
			m.sel++
		}
	case "left", "h":
		if manual {
			in.Analogs[m.sel] = types.Limit(-types.RESX, in.Analogs[m.sel]-types.RESX/16, types.RESX)
		}
	case "right", "l":
		if manual {
			in.Analogs[m.sel] = types.Limit(-types.RESX, in.Analogs[m.sel]+types.RESX/16, types.RESX)
		}
	case "0":
		if manual {
			in.Analogs[m.sel] = 0
		}
	default:
		// a..g cycle SA..SG; h is taken by the vi keys
		if manual && len(k) == 1 && k[0] >= 'a' && k[0] <= 'g' {
			j := int(k[0] - 'a')
			in.Switches[j] = (in.Switches[j] + 1) % types.SW_POSITIONS
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing monitor..."
	}
	sh := m.shared
	mdl := sh.eng.Model()
	f := sh.frame

	status := "running"
	switch {
	case sh.done:
		status = "end of log"
	case m.paused:
		status = "paused"
	}
	fmname := fmt.Sprintf("FM%d", f.FlightMode)
	if f.FlightMode < len(mdl.FlightModes) && mdl.FlightModes[f.FlightMode].Name != "" {
		fmname = mdl.FlightModes[f.FlightMode].Name
	}
	title := titleStyle.Render(fmt.Sprintf("%s  %s  %s", mdl.Name, fmname, status)) + renderWarning(f.Warning)

	leftW := m.width * 2 / 3
	chans := panelStyle.Width(leftW).Render(RenderChannels(f, sh.outmax, leftW-4, sh.palette))
	panels := []string{
		panelStyle.Render(RenderInputs(&sh.in, m.sel)),
		panelStyle.Render(RenderTimers(mdl.Timers, f.Timers, sh.eng.TimerState, m.tsel)),
	}
	if len(mdl.Expos) > 0 {
		panels = append(panels, panelStyle.Render(RenderVirtualInputs(mdl.Expos, sh.eng.Inputs())))
	}
	if len(mdl.GVars) > 0 {
		panels = append(panels, panelStyle.Render(RenderGVars(mdl.GVars, sh.eng.GVar)))
	}
	right := lipgloss.JoinVertical(lipgloss.Left, panels...)
	body := lipgloss.JoinHorizontal(lipgloss.Top, chans, right)
	lsw := panelStyle.Render(RenderLogical(f.Logical, 16))

	d := sh.eng.Diagnostics()
	help := helpStyle.Render(fmt.Sprintf("frames %d  q quit  space pause  . step  r new flight  R reset  tab/t timer reset  arrows sticks  a-g switches", d.Frames))
	return lipgloss.JoinVertical(lipgloss.Left, title, body, lsw, help)
}
