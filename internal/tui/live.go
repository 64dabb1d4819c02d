// Package tui hosts the interactive terminal front end: a live view that
// advances a density solution checkpoint by checkpoint and replots it.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stochdyn/stochdyn/internal/fokkerplanck"
	"github.com/stochdyn/stochdyn/internal/viz"
)

const frameInterval = 100 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// LiveModel steps a snapshot iterator on a timer and renders each density
// as it arrives.
type LiveModel struct {
	title  string
	iter   *fokkerplanck.Iter
	snap   *fokkerplanck.Snapshot
	paused bool
	done   bool
	err    error
	width  int
	height int
}

// NewLive builds the live view over a prepared snapshot iterator.
func NewLive(title string, iter *fokkerplanck.Iter) LiveModel {
	return LiveModel{title: title, iter: iter, width: 70, height: 16}
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = msg.Width - 12
		}
		if msg.Height > 10 {
			m.height = msg.Height - 8
		}
		return m, nil
	case tickMsg:
		if m.paused || m.done {
			return m, tick()
		}
		snap, ok := m.iter.Next()
		if !ok {
			m.done = true
			m.err = m.iter.Err()
			return m, tick()
		}
		m.snap = snap
		return m, tick()
	}
	return m, nil
}

func (m LiveModel) View() string {
	s := viz.Header(m.title) + "\n"

	if m.err != nil {
		return s + fmt.Sprintf("error: %v\n", m.err) + viz.Help("q quit") + "\n"
	}
	if m.snap == nil {
		return s + "waiting for first checkpoint...\n" + viz.Help("q quit") + "\n"
	}

	s += viz.Density(m.snap.X, m.snap.P, "P(x, t)", m.width, m.height) + "\n\n"
	s += viz.StatLine("t", "%.4f", m.snap.T) + "\n"
	s += viz.StatLine("mass", "%.6f", fokkerplanck.Mass(m.snap.X, m.snap.P)) + "\n"

	status := "running"
	if m.paused {
		status = "paused"
	}
	if m.done {
		status = "done"
	}
	s += viz.StatLine("status", "%s", status) + "\n"
	s += viz.Help("space pause", "q quit") + "\n"
	return s
}
