package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sirsim/internal/export"
)

const (
	minInterval = 10 * time.Millisecond
	maxInterval = 2 * time.Second
)

type tickMsg struct{}

// Replay steps through a stored series one entry at a time.
type Replay struct {
	id       string
	series   *export.Series
	cursor   int
	playing  bool
	interval time.Duration
	width    int
}

func NewReplay(id string, s *export.Series) Replay {
	return Replay{
		id:       id,
		series:   s,
		interval: 100 * time.Millisecond,
		width:    80,
	}
}

// Cursor is the index of the entry on screen.
func (m Replay) Cursor() int { return m.cursor }

func (m Replay) Playing() bool { return m.playing }

func (m Replay) Init() tea.Cmd { return nil }

func (m Replay) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.cursor >= m.series.Len()-1 {
			m.playing = false
			return m, nil
		}
		m.cursor++
		return m, m.tick()
	}
	return m, nil
}

func (m Replay) handleKey(msg tea.KeyMsg) (Replay, tea.Cmd) {
	last := m.series.Len() - 1
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.playing = !m.playing
		if m.playing {
			if m.cursor >= last {
				m.cursor = 0
			}
			return m, m.tick()
		}
	case "right", "l":
		m.playing = false
		m.cursor = min(m.cursor+1, last)
	case "left", "h":
		m.playing = false
		m.cursor = max(m.cursor-1, 0)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.playing = false
		m.cursor = last
	case "+", "=":
		m.interval = max(m.interval/2, minInterval)
	case "-":
		m.interval = min(m.interval*2, maxInterval)
	}
	return m, nil
}

func (m Replay) View() string {
	if m.series.Len() == 0 {
		return "empty run\n"
	}

	var sb strings.Builder
	k := m.cursor
	last := m.series.Len() - 1

	status := StatusPaused.Render("⏸ paused")
	if m.playing {
		status = StatusPlaying.Render("▶ playing")
	}
	sb.WriteString(HeaderStyle.Render(fmt.Sprintf("replay %s", m.id)) + "\n")
	sb.WriteString(fmt.Sprintf("%s  %s %s  %s %s\n\n",
		status,
		MetricLabel.Render("t ="), MetricValue.Render(fmt.Sprintf("%.4f", m.series.Times[k])),
		MetricLabel.Render("entry"), MetricValue.Render(fmt.Sprintf("%d/%d", k, last)),
	))

	barWidth := max(10, min(40, m.width-40))
	bands := [3]export.Band{m.series.S[k], m.series.I[k], m.series.R[k]}
	for c, b := range bands {
		value := fmt.Sprintf("%.6f", b.Mean)
		if b.StdDev > 0 {
			value += fmt.Sprintf(" ± %.4f", b.StdDev)
		}
		if b.Mean < 0 || b.Mean > 1 {
			value = Warning.Render(value)
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			CompartmentStyles[c].Render(fmt.Sprintf("%-12s", compartmentNames[c])),
			FractionBar(b.Mean, barWidth, CompartmentStyles[c]),
			value,
		))
	}

	sb.WriteString("\n")
	sparkWidth := max(10, min(60, m.width-16))
	for c := range compartmentNames {
		col := m.series.Column(c)[:k+1]
		sb.WriteString(fmt.Sprintf("%s %s\n",
			MetricLabel.Render(fmt.Sprintf("%-12s", compartmentNames[c][:1])),
			Sparkline(col, sparkWidth, CompartmentStyles[c]),
		))
	}

	sb.WriteString("\n" + KeyHint.Render(fmt.Sprintf("space play/pause · ←/→ step · home/end jump · +/- speed (%v) · q quit", m.interval)) + "\n")
	return sb.String()
}
