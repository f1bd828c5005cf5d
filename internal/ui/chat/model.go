// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/chatdeck/internal/api"
	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/store"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// State tracks what the UI is doing.
type State int

const (
	StateReady State = iota
	StateStreaming
)

// focusArea is which pane receives keystrokes.
type focusArea int

const (
	focusComposer focusArea = iota
	focusSidebar
)

// Model is the top-level Bubble Tea model.
type Model struct {
	store  *store.Store
	client *api.Client
	cfg    *config.Config
	theme  *styles.Theme
	keys   KeyMap

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	state        State
	focus        focusArea
	sidebarIndex int
	confirmClear bool

	// In-flight stream bookkeeping. Gen guards against chunks from a
	// superseded stream reaching the thread.
	streamConvID int
	streamGen    uint64
	streamMsgID  int64
	streamCancel context.CancelFunc
	events       chan tea.Msg
	buffer       *StreamingBuffer

	healthy    bool
	statusNote string
	lastErr    error

	renderer *glamour.TermRenderer
	width    int
	height   int
	ready    bool
}

// New builds the TUI model around a store, a backend client, and the
// loaded configuration.
func New(st *store.Store, client *api.Client, cfg *config.Config) *Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	return &Model{
		store:  st,
		client: client,
		cfg:    cfg,
		theme:  styles.NewTheme(),
		keys:   DefaultKeyMap(),
		input:  input,
		spin:   spin,
		buffer: NewStreamingBuffer(),
	}
}

// Init starts the cursor blink and the first health probe.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		probeHealth(m.client),
		healthTickCmd(m.healthInterval()),
	)
}

func (m *Model) healthInterval() time.Duration {
	return time.Duration(m.cfg.Server.HealthIntervalSecs) * time.Second
}

// Update is the event loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m, m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamChunkMsg:
		if m.state == StateStreaming && msg.Gen == m.streamGen {
			m.buffer.Append(msg.Delta)
			return m, waitForStream(m.events)
		}
		return m, nil

	case flushTickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		m.flushPending()
		m.refreshThread(true)
		return m, streamTickCmd()

	case StreamCompleteMsg:
		// The state check matters after esc-cancel: the canceled
		// goroutine's final message can still arrive through the command
		// that was pending at cancel time, carrying the old generation.
		if m.state != StateStreaming || msg.Gen != m.streamGen {
			return m, nil
		}
		m.flushPending()
		m.store.FinishStream(msg.ConvID, msg.Gen)
		if !msg.Offline {
			// First time the backend answered for this conversation.
			if _, err := m.store.EnsureSessionID(msg.ConvID); err != nil {
				m.lastErr = err
			}
		}
		m.endStream()
		m.refreshThread(true)
		return m, nil

	case StreamErrorMsg:
		if m.state != StateStreaming || msg.Gen != m.streamGen {
			return m, nil
		}
		m.buffer.Drain()
		reply := api.ErrorReply
		if msg.Offline {
			reply = api.OfflineReply
		}
		m.store.SetMessageContent(msg.ConvID, msg.MsgID, reply)
		m.lastErr = msg.Err
		m.endStream()
		m.refreshThread(true)
		return m, nil

	case HealthMsg:
		m.healthy = msg.Healthy
		api.SetOffline(!msg.Healthy)
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(probeHealth(m.client), healthTickCmd(m.healthInterval()))

	case clipboardMsg:
		if msg.err != nil {
			m.statusNote = "copy failed"
		} else {
			m.statusNote = "reply copied"
		}
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = config.Global()
		return m, nil

	case spinner.TickMsg:
		if m.state == StateStreaming {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	threadWidth := m.threadWidth()
	if !m.ready {
		m.viewport = viewport.New(threadWidth, m.threadHeight())
		m.ready = true
	} else {
		m.viewport.Width = threadWidth
		m.viewport.Height = m.threadHeight()
	}
	m.input.Width = threadWidth - 4

	// Word wrap tracks the thread width, so the renderer is rebuilt on
	// every resize.
	if m.cfg.UI.Markdown {
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(threadWidth-6),
		); err == nil {
			m.renderer = r
		}
	}

	m.refreshThread(false)
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key other than a repeated ctrl+l withdraws a pending clear.
	if m.confirmClear && !key.Matches(msg, m.keys.ClearAll) {
		m.confirmClear = false
		m.statusNote = ""
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelActiveStream()
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == focusComposer {
			m.focus = focusSidebar
			m.input.Blur()
			m.syncSidebarIndex()
		} else {
			m.focus = focusComposer
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewConv):
		m.statusNote = ""
		if _, err := m.store.NewConversation(); err != nil {
			m.lastErr = err
		}
		m.sidebarIndex = 0
		m.refreshThread(false)
		return m, nil

	case key.Matches(msg, m.keys.DeleteConv):
		m.statusNote = ""
		m.deleteSelected()
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		// Destructive, so a second press confirms.
		if !m.confirmClear {
			m.confirmClear = true
			m.statusNote = "press ctrl+l again to clear all conversations"
			return m, nil
		}
		m.confirmClear = false
		m.cancelActiveStream()
		if err := m.store.ClearAll(); err != nil {
			m.lastErr = err
		}
		m.sidebarIndex = 0
		m.statusNote = "all conversations cleared"
		m.refreshThread(false)
		return m, nil

	case key.Matches(msg, m.keys.Regenerate):
		return m, m.regenerate()

	case key.Matches(msg, m.keys.CancelStream):
		if m.state == StateStreaming {
			cmd := m.cancelActiveStream()
			m.statusNote = "stream stopped"
			m.refreshThread(false)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyReply):
		return m, m.copyLastReply()
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if key.Matches(msg, m.keys.Send) {
		text := m.input.Value()
		if text == "" || m.state == StateStreaming {
			return m, nil
		}
		m.input.Reset()
		return m, m.startSend(text, false)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	convs := m.sidebarConversations()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sidebarIndex < len(convs)-1 {
			m.sidebarIndex++
		}
	case key.Matches(msg, m.keys.Select):
		if m.sidebarIndex < len(convs) {
			if err := m.store.SetActive(convs[m.sidebarIndex].ID); err != nil {
				m.lastErr = err
			}
			m.focus = focusComposer
			m.input.Focus()
			m.refreshThread(false)
		}
	}
	return m, nil
}

// syncSidebarIndex points the sidebar cursor at the active conversation.
func (m *Model) syncSidebarIndex() {
	active := m.store.ActiveID()
	for i, c := range m.sidebarConversations() {
		if c.ID == active {
			m.sidebarIndex = i
			return
		}
	}
	m.sidebarIndex = 0
}

func (m *Model) deleteSelected() {
	convs := m.sidebarConversations()
	target := m.store.ActiveID()
	if m.focus == focusSidebar && m.sidebarIndex < len(convs) {
		target = convs[m.sidebarIndex].ID
	}
	if m.state == StateStreaming && m.streamConvID == target {
		m.cancelActiveStream()
	}
	if err := m.store.Delete(target); err != nil {
		m.lastErr = err
		return
	}
	m.syncSidebarIndex()
	m.statusNote = "conversation deleted"
	m.refreshThread(false)
}

// startSend runs the full send pipeline: derive the title on the first
// message, record the user message, open an assistant placeholder, and
// kick off the network goroutine. resend skips the user-message steps,
// which regeneration has already handled.
func (m *Model) startSend(text string, resend bool) tea.Cmd {
	conv := m.store.Active()
	if conv == nil {
		return nil
	}

	var cmds []tea.Cmd
	if m.state == StateStreaming {
		if cmd := m.cancelActiveStream(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if !resend {
		if err := m.store.RenameOnFirstMessage(conv.ID, text); err != nil {
			m.lastErr = err
		}
	}

	// History carries the thread as it stood before this send.
	history := conv.History()
	if resend && len(history) > 0 {
		history = history[:len(history)-1]
	}
	if !resend {
		if _, err := m.store.AppendUserMessage(conv.ID, text); err != nil {
			m.lastErr = err
			return nil
		}
	}

	msgID, gen, err := m.store.BeginAssistantStream(conv.ID)
	if err != nil {
		m.lastErr = err
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan tea.Msg, 64)

	m.state = StateStreaming
	m.streamConvID = conv.ID
	m.streamGen = gen
	m.streamMsgID = msgID
	m.streamCancel = cancel
	m.events = ch
	m.statusNote = ""
	m.lastErr = nil

	go runStream(ctx, m.client, ch, conv.ID, gen, msgID, text, conv.SessionID, history)

	m.refreshThread(true)
	cmds = append(cmds, waitForStream(ch), streamTickCmd(), m.spin.Tick)
	return tea.Batch(cmds...)
}

// regenerate truncates the active thread back to its last user message
// and resends it.
func (m *Model) regenerate() tea.Cmd {
	if m.state == StateStreaming {
		return nil
	}
	conv := m.store.Active()
	if conv == nil || len(conv.Messages) == 0 {
		return nil
	}

	text, ok, err := m.store.TruncateForRegenerate(conv.ID, len(conv.Messages)-1)
	if err != nil || !ok {
		m.lastErr = err
		return nil
	}
	return m.startSend(text, true)
}

// cancelActiveStream stops the in-flight stream, keeps the partial
// content that already arrived, and bumps the generation so stragglers
// are dropped. Returns a command that drains the dead channel.
func (m *Model) cancelActiveStream() tea.Cmd {
	if m.state != StateStreaming {
		return nil
	}
	m.flushPending()
	if m.streamCancel != nil {
		m.streamCancel()
	}
	m.store.CancelStream(m.streamConvID)

	var cmd tea.Cmd
	if m.events != nil {
		cmd = drainStream(m.events)
	}
	m.endStream()
	return cmd
}

// flushPending applies buffered deltas to the streaming message.
func (m *Model) flushPending() {
	delta := m.buffer.Drain()
	if delta == "" {
		return
	}
	m.store.AppendStreamChunk(m.streamConvID, m.streamGen, m.streamMsgID, delta)
}

func (m *Model) endStream() {
	m.state = StateReady
	m.streamCancel = nil
	m.events = nil
}

// copyLastReply puts the most recent assistant message on the clipboard.
func (m *Model) copyLastReply() tea.Cmd {
	conv := m.store.Active()
	if conv == nil {
		return nil
	}
	msg := conv.LastAssistantMessage()
	if msg == nil || msg.Content == "" {
		return nil
	}
	return copyToClipboard(msg.Content)
}
