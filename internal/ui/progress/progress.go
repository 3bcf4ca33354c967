// Package progress renders a live terminal progress bar for a
// long-running block-transfer operation (erase/write/read/verify),
// fed by a channel of progress events rather than a direct callback,
// grounded on the teacher's buffered-channel/ticker outputWriter.
package progress

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Event is one progress update. Op is a short verb ("erase", "write",
// "read", "verify"); Done/Total are byte or unit counts.
type Event struct {
	Op    string
	Done  int
	Total int
}

var labelStyle = lipgloss.NewStyle().Bold(true).Width(10)

type model struct {
	bar    progress.Model
	events <-chan Event
	op     string
	done   bool
}

func newModel(events <-chan Event) model {
	return model{
		bar:    progress.New(progress.WithDefaultGradient()),
		events: events,
	}
}

type eventMsg Event
type closedMsg struct{}

func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(e)
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case eventMsg:
		m.op = msg.Op
		pct := 0.0
		if msg.Total > 0 {
			pct = float64(msg.Done) / float64(msg.Total)
		}
		cmd := m.bar.SetPercent(pct)
		return m, tea.Batch(cmd, waitForEvent(m.events))
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		newModel, cmd := m.bar.Update(msg)
		m.bar = newModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", labelStyle.Render(m.op), m.bar.View())
}

// Run drives a bubbletea program off events until the channel closes.
// The caller is responsible for closing events when the underlying
// operation completes.
func Run(events <-chan Event) error {
	p := tea.NewProgram(newModel(events))
	_, err := p.Run()
	return err
}

// Relay returns the send and receive ends of one Event channel buffered
// to bufSize: a progress callback sends into the first, Run drains the
// second. A send blocks once bufSize events are pending.
func Relay(bufSize int) (chan<- Event, <-chan Event) {
	ch := make(chan Event, bufSize)
	return ch, ch
}

// Throttle wraps a raw event channel so downstream consumers receive
// at most one update per interval, coalescing intermediate events —
// useful when an engine reports per-block progress on every 256-byte
// chunk of a 512 KiB transfer.
func Throttle(in <-chan Event, interval time.Duration) <-chan Event {
	out := make(chan Event, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var latest Event
		var have bool
		for {
			select {
			case e, ok := <-in:
				if !ok {
					if have {
						out <- latest
					}
					return
				}
				latest = e
				have = true
			case <-ticker.C:
				if have {
					out <- latest
					have = false
				}
			}
		}
	}()
	return out
}
