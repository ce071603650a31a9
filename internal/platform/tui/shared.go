package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/shared"
	"github.com/vovakirdan/tui-life/internal/sink"
)

// SharedState is the step of the shared room flow.
type SharedState int

const (
	SharedStateChoose    SharedState = iota // Create or join
	SharedStateEnterCode                    // Typing a join code
	SharedStateWatching                     // Watching a room
)

const joinCodeLen = 6

// SharedModel lets an SSH session create or join a shared room and watch it.
type SharedModel struct {
	state   SharedState
	width   int
	height  int
	hub     *shared.Hub
	viewer  *shared.ChannelViewer
	variant registry.VariantInfo
	keys    KeyMap

	// Room state
	code    string
	title   string
	host    bool
	viewers int
	frame   *shared.Frame
	view    *sink.Terminal
	screen  *core.Screen

	// Join state
	codeInput string
	err       string
	notice    string

	backToMenu bool
	quitting   bool
}

// NewSharedModel creates the shared room flow for one viewer. variant is
// the variant a newly created room runs.
func NewSharedModel(hub *shared.Hub, viewer *shared.ChannelViewer, variant registry.VariantInfo, width, height int) SharedModel {
	return SharedModel{
		state:   SharedStateChoose,
		width:   width,
		height:  height,
		hub:     hub,
		viewer:  viewer,
		variant: variant,
		keys:    DefaultKeyMap(),
		view:    sink.NewTerminal(),
		screen:  core.NewScreen(width, core.Max(height-2, 0)),
	}
}

// Init starts listening for room events.
func (m SharedModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next room event. It
// yields nil once the viewer is closed.
func (m SharedModel) waitForEvent() tea.Cmd {
	v := m.viewer
	return func() tea.Msg {
		select {
		case evt := <-v.Events():
			return evt
		case <-v.Done():
			return nil
		}
	}
}

// Update handles messages.
func (m SharedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-2, 0))
		return m, nil
	case shared.RoomJoinedEvent:
		m.code = msg.Code
		m.title = msg.Title
		m.host = msg.Host
		m.state = SharedStateWatching
		m.err = ""
		return m, m.waitForEvent()
	case shared.ViewersEvent:
		m.viewers = msg.Viewers
		return m, m.waitForEvent()
	case shared.Frame:
		m.frame = &msg
		return m, m.waitForEvent()
	case shared.RoomClosedEvent:
		m.notice = msg.Reason.String()
		m.resetRoom()
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m SharedModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case SharedStateChoose:
		return m.handleChooseKey(msg)
	case SharedStateEnterCode:
		return m.handleCodeKey(msg)
	case SharedStateWatching:
		return m.handleWatchKey(msg)
	}
	return m, nil
}

func (m SharedModel) handleChooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c", "C", "1":
		if _, err := m.hub.Create(m.variant.ID, m.viewer); err != nil {
			m.err = err.Error()
		}
		return m, nil
	case "j", "J", "2":
		m.state = SharedStateEnterCode
		m.codeInput = ""
		m.err = ""
		return m, nil
	case "esc", "b":
		return m.leave()
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m SharedModel) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case "esc":
		m.state = SharedStateChoose
		m.err = ""
		return m, nil
	case "enter":
		if len(m.codeInput) != joinCodeLen {
			return m, nil
		}
		if err := m.hub.Join(m.codeInput, m.viewer); err != nil {
			if errors.Is(err, shared.ErrRoomNotFound) {
				m.err = "Room not found"
			} else {
				m.err = err.Error()
			}
		}
		return m, nil
	case "backspace":
		if m.codeInput != "" {
			m.codeInput = m.codeInput[:len(m.codeInput)-1]
		}
		return m, nil
	}

	// Join codes are base32: A-Z and 2-7
	if len(k) == 1 && len(m.codeInput) < joinCodeLen {
		c := strings.ToUpper(k)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
			m.codeInput += string(c)
		}
	}
	return m, nil
}

func (m SharedModel) handleWatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.hub.Leave(m.code, m.viewer.ID())
		m.resetRoom()
		return m, nil
	}

	switch a := m.keys.MapKey(msg); a {
	case core.ActionQuit:
		return m.quit()
	case core.ActionLayerUp, core.ActionLayerDown:
		if m.frame != nil {
			delta := 1
			if a == core.ActionLayerDown {
				delta = -1
			}
			m.view.ShiftLayer(delta, m.frame.Grid.Dims().D())
		}
	case core.ActionNone:
	default:
		m.hub.Input(m.code, a)
	}
	return m, nil
}

// resetRoom returns to the create/join choice.
func (m *SharedModel) resetRoom() {
	m.state = SharedStateChoose
	m.code = ""
	m.title = ""
	m.host = false
	m.viewers = 0
	m.frame = nil
}

func (m SharedModel) leave() (tea.Model, tea.Cmd) {
	if m.code != "" {
		m.hub.Leave(m.code, m.viewer.ID())
	}
	m.viewer.Close()
	m.backToMenu = true
	return m, nil
}

func (m SharedModel) quit() (tea.Model, tea.Cmd) {
	if m.code != "" {
		m.hub.Leave(m.code, m.viewer.ID())
	}
	m.viewer.Close()
	m.quitting = true
	return m, tea.Quit
}

// View renders the current state.
func (m SharedModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	switch m.state {
	case SharedStateEnterCode:
		return m.viewEnterCode()
	case SharedStateWatching:
		return m.viewWatching()
	}
	return m.viewChoose()
}

func (m SharedModel) viewChoose() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SHARED UNIVERSES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[C] Create a %s room", m.variant.Title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a room", m.width))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(pausedStyle.Render(m.notice), m.width))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.err), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

func (m SharedModel) viewEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("JOIN ROOM"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the room code:", m.width))
	b.WriteString("\n\n")

	codeDisplay := m.codeInput
	if len(codeDisplay) < joinCodeLen {
		codeDisplay += "_" + strings.Repeat(" ", joinCodeLen-1-len(m.codeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.err), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText(helpStyle.Render("Enter: Join  |  Esc: Back"), m.width))

	return b.String()
}

func (m SharedModel) viewWatching() string {
	m.screen.Clear()
	area := core.NewRect(0, 0, m.screen.Width(), m.screen.Height())
	if area.W >= 3 && area.H >= 3 {
		m.screen.DrawBox(area, core.ColorGray)
		if m.frame != nil {
			m.view.Draw(m.screen, area.Inset(1), m.frame.View(), m.frame.Generation)
		}
	}

	parts := []string{titleStyle.Render(m.title), "room " + m.code}
	if m.host {
		parts = append(parts, "(host)")
	}
	parts = append(parts, fmt.Sprintf("%d watching", m.viewers))
	if f := m.frame; f != nil {
		parts = append(parts,
			fmt.Sprintf("gen %d", f.Generation),
			fmt.Sprintf("pop %d", f.Population),
			fmt.Sprintf("+%d -%d", f.Born, f.Died),
			fmt.Sprintf("%d tps", f.TickRate),
			fmt.Sprintf("seed %d", f.Seed),
		)
		if d := f.Grid.Dims().D(); d > 1 {
			parts = append(parts, fmt.Sprintf("layer %d/%d", m.view.Layer()+1, d))
		}
	}
	status := statusStyle.Render(strings.Join(parts, "  "))
	if m.frame != nil && m.frame.Paused {
		status += "  " + pausedStyle.Render("PAUSED")
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space: pause  n: step  r/s: replay/new seed  +/-: speed  esc: leave room  q: quit"))
	return b.String()
}

// State returns the current step of the flow.
func (m SharedModel) State() SharedState {
	return m.state
}

// Code returns the code of the room being watched.
func (m SharedModel) Code() string {
	return m.code
}

// BackToMenu returns true if user wants to go back to menu.
func (m SharedModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m SharedModel) IsQuitting() bool {
	return m.quitting
}
