package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ljforce/internal/experiment"
	"github.com/san-kum/ljforce/internal/metrics"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const historyLen = 60

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	exp   *experiment.Experiment
	steps int
	step  int

	paused bool
	err    error

	summary   metrics.Summary
	rms       []float64
	kinetic   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func newModel(exp *experiment.Experiment) model {
	return model{
		exp:     exp,
		steps:   exp.Steps(),
		summary: metrics.Summarize(exp.System().F),
		rms:     make([]float64, 0, historyLen),
		kinetic: make([]float64, 0, historyLen),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) done() bool { return m.err != nil || m.step >= m.steps }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
			if !m.paused && !m.done() {
				return m, tick()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.paused || m.done() {
			return m, nil
		}
		now := time.Now()
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 1.0 / dt
			}
		}
		m.lastFrame = now

		if err := m.exp.Step(); err != nil {
			m.err = err
			return m, nil
		}
		m.step++
		m.summary = metrics.Summarize(m.exp.System().F)
		m.rms = pushHistory(m.rms, m.summary.RMS)
		if m.exp.Integrating() {
			m.kinetic = pushHistory(m.kinetic, m.exp.KineticEnergy())
		}

		if m.done() {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyLen {
		h = h[1:]
	}
	return h
}

func (m model) View() string {
	cw := m.width - 6
	ch := m.height - 14
	if cw < 40 {
		cw = 40
	}
	if ch < 8 {
		ch = 8
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	switch {
	case m.err != nil:
		statusIcon, statusText = red.Render("●"), red.Render("error")
	case m.done():
		statusIcon, statusText = dim.Render("●"), dim.Render("done")
	case m.paused:
		statusIcon, statusText = yellow.Render("○"), yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n",
		statusIcon, cyan.Render(m.exp.Force().Name()), statusText))

	progress := 1.0
	if m.steps > 0 {
		progress = float64(m.step) / float64(m.steps)
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n", bar,
		dim.Render(fmt.Sprintf("step %d/%d", m.step, m.steps)),
		dim.Render(fmt.Sprintf("%.0ffps", m.fps))))

	for _, row := range m.canvas(cw, ch) {
		b.WriteString("   " + string(row) + "\n")
	}

	b.WriteString("\n   ")
	for _, f := range []struct {
		label string
		value float64
	}{
		{"max|F|", m.summary.MaxMag},
		{"rms", m.summary.RMS},
		{"net", m.summary.Net.Norm()},
	} {
		b.WriteString(dim.Render(f.label+"=") + white.Render(fmt.Sprintf("%.4g", f.value)) + "  ")
	}
	if m.exp.Integrating() && len(m.kinetic) > 0 {
		b.WriteString(dim.Render("ke=") + white.Render(fmt.Sprintf("%.4g", m.kinetic[len(m.kinetic)-1])))
	}
	b.WriteString("\n")

	if m.summary.Invalid > 0 {
		b.WriteString(red.Render(fmt.Sprintf("   %d non-finite forces", m.summary.Invalid)) + "\n")
	}
	if len(m.rms) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("rms"), cyan.Render(sparkline(m.rms, 24))))
	}
	if len(m.kinetic) > 1 {
		b.WriteString(fmt.Sprintf("   %s  %s\n", dim.Render("ke"), green.Render(sparkline(m.kinetic, 24))))
	}
	if m.err != nil {
		b.WriteString("\n   " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dim.Render("   space pause  q quit") + "\n")
	return b.String()
}

// canvas projects the particles onto the xy plane, one glyph per cell chosen
// by the largest force magnitude in it.
func (m model) canvas(w, h int) [][]rune {
	grid := make([][]rune, h)
	mags := make([][]float64, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
		mags[i] = make([]float64, w)
	}

	sys := m.exp.System()
	if sys.NLocal == 0 {
		return grid
	}

	minX, maxX := sys.X[0][0], sys.X[0][0]
	minY, maxY := sys.X[0][1], sys.X[0][1]
	for i := 0; i < sys.NLocal; i++ {
		x, y := sys.X[i][0], sys.X[i][1]
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	for i := 0; i < sys.NLocal; i++ {
		cx := int((sys.X[i][0] - minX) / rangeX * float64(w-1))
		cy := h - 1 - int((sys.X[i][1]-minY)/rangeY*float64(h-1))
		if cx < 0 || cx >= w || cy < 0 || cy >= h {
			continue
		}
		f := sys.F[i]
		if !f.IsValid() {
			grid[cy][cx] = '×'
			mags[cy][cx] = -1
			continue
		}
		if mag := f.Norm(); mags[cy][cx] >= 0 && (grid[cy][cx] == ' ' || mag > mags[cy][cx]) {
			mags[cy][cx] = mag
			grid[cy][cx] = forceChar(mag, m.summary.MaxMag)
		}
	}
	return grid
}

func forceChar(mag, maxMag float64) rune {
	if maxMag == 0 {
		return '·'
	}
	ratio := mag / maxMag
	if ratio < 0.25 {
		return '·'
	} else if ratio < 0.5 {
		return '∘'
	} else if ratio < 0.75 {
		return '○'
	}
	return '●'
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Watch runs exp step by step in a full-screen view. exp must be set up.
func Watch(exp *experiment.Experiment) error {
	if err := exp.Prime(); err != nil {
		return err
	}
	p := tea.NewProgram(newModel(exp), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
