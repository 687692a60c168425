// Package tui provides a terminal front-end for the music box simulator.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/musicbox/pkg/glyph"
	"github.com/james-see/musicbox/pkg/hal/sim"
	"github.com/james-see/musicbox/pkg/musicbox"
	"github.com/james-see/musicbox/pkg/player"
)

// ClickHold is how long a simulated click keeps the button down.
const ClickHold = 120 * time.Millisecond

// Acid-inspired color scheme
var (
	acidGreen  = lipgloss.Color("#39FF14")
	acidYellow = lipgloss.Color("#FFFF00")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(acidGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(acidYellow).
			PaddingTop(1)

	ledOn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF2020")).Render("●")
	ledOff = lipgloss.NewStyle().Foreground(darkGray).Render("·")

	heldStyle = lipgloss.NewStyle().
			Foreground(darkGray).
			Background(acidGreen).
			Bold(true).
			Padding(0, 1)

	upStyle = lipgloss.NewStyle().
		Foreground(silverGray).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(acidGreen).
			Padding(1, 2)
)

type keyMap struct {
	ClickA key.Binding
	ClickB key.Binding
	HoldA  key.Binding
	HoldB  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ClickA, k.ClickB, k.HoldA, k.HoldB, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ClickA, k.HoldA},
		{k.ClickB, k.HoldB},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	ClickA: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "click A")),
	ClickB: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "click B")),
	HoldA:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "hold/release A")),
	HoldB:  key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "hold/release B")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "bindings")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// releaseMsg ends a simulated click.
type releaseMsg struct {
	id musicbox.ButtonID
}

// Model is the simulator view. Buttons are simulated pins shared with the
// running host.
type Model struct {
	pins     [2]*sim.Pin
	held     [2]bool
	names    []string
	status   musicbox.Status
	poll     func() musicbox.Status
	spinner  spinner.Model
	help     help.Model
	bindings bool
}

// New returns a model driving a and b. poll reports the box status and is
// called on every spinner frame; names lists the playlist.
func New(a, b *sim.Pin, names []string, poll func() musicbox.Status) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(acidGreen)

	return Model{
		pins:    [2]*sim.Pin{a, b},
		names:   names,
		status:  poll(),
		poll:    poll,
		spinner: s,
		help:    help.New(),
	}
}

// Init starts the spinner, which also paces status polling.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses and box updates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.bindings = !m.bindings
			m.help.ShowAll = m.bindings
		case key.Matches(msg, keys.ClickA):
			return m, m.click(musicbox.ButtonA)
		case key.Matches(msg, keys.ClickB):
			return m, m.click(musicbox.ButtonB)
		case key.Matches(msg, keys.HoldA):
			m.toggle(musicbox.ButtonA)
		case key.Matches(msg, keys.HoldB):
			m.toggle(musicbox.ButtonB)
		}
		return m, nil

	case releaseMsg:
		if !m.held[msg.id] {
			m.pins[msg.id].Release()
		}
		return m, nil

	case spinner.TickMsg:
		m.status = m.poll()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) click(id musicbox.ButtonID) tea.Cmd {
	if m.held[id] {
		return nil
	}
	m.pins[id].Press()
	return tea.Tick(ClickHold, func(time.Time) tea.Msg {
		return releaseMsg{id: id}
	})
}

func (m *Model) toggle(id musicbox.ButtonID) {
	m.held[id] = !m.held[id]
	m.pins[id].Set(m.held[id])
}

// View renders the matrix, the buttons and the playlist.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" MUSIC BOX "))
	s.WriteString("\n")

	matrix := lipgloss.JoinHorizontal(lipgloss.Top,
		renderGlyph(glyph.ForMode(m.status.State.Mode)),
		"   ",
		renderGlyph(glyph.Volume(m.status.Volume)),
	)
	s.WriteString(matrix)
	s.WriteString("\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		m.renderButton(musicbox.ButtonA), "  ", m.renderButton(musicbox.ButtonB)))
	s.WriteString("\n")

	s.WriteString(statusStyle.Render(m.statusLine()))
	s.WriteString("\n\n")
	for i, name := range m.names {
		if m.status.State.Mode != player.Stop && i == m.status.State.Pos {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", name)))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", name)))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.help.View(keys))
	return boxStyle.Render(s.String())
}

func (m Model) statusLine() string {
	st := m.status
	switch st.State.Mode {
	case player.Play:
		return fmt.Sprintf("%s %s  note %d  volume %d", m.spinner.View(), st.Melody, st.State.Progress+1, st.Volume)
	case player.Pause:
		return fmt.Sprintf("paused: %s  note %d  volume %d", st.Melody, st.State.Progress+1, st.Volume)
	}
	return fmt.Sprintf("stopped  volume %d", st.Volume)
}

func (m Model) renderButton(id musicbox.ButtonID) string {
	label := " " + id.String() + " "
	if m.pins[id].IsLow() {
		return heldStyle.Render(label)
	}
	return upStyle.Render(label)
}

func renderGlyph(g glyph.Glyph) string {
	var s strings.Builder
	for y := 0; y < glyph.Size; y++ {
		for x := 0; x < glyph.Size; x++ {
			if x > 0 {
				s.WriteByte(' ')
			}
			if g.At(x, y) {
				s.WriteString(ledOn)
			} else {
				s.WriteString(ledOff)
			}
		}
		if y < glyph.Size-1 {
			s.WriteByte('\n')
		}
	}
	return s.String()
}

// Run shows the simulator for host until the user quits or ctx is done.
// a and b must be the pins host was built with.
func Run(ctx context.Context, host *musicbox.Host, a, b *sim.Pin) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- host.Run(ctx)
	}()

	box := host.Box()
	model := New(a, b, box.Playlist().Names(), box.Status)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	cancel()
	herr := <-errc
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return herr
}
