package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"charterbot/internal/conversation"
	"charterbot/internal/domain"
	"charterbot/internal/service"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Submit(ctx context.Context, state *conversation.State, text string) []domain.Turn
	SetMode(state *conversation.State, m domain.Mode)
	Clear(state *conversation.State)
	Transcript(state *conversation.State) []domain.Turn
	Stats() service.Stats
}

// replyMsg carries the transcript after a submission resolved.
type replyMsg struct {
	turns []domain.Turn
}

// Model is the Bubble Tea model for the chat window.
type Model struct {
	ctx      context.Context
	service  ChatPort
	state    *conversation.State
	stats    service.Stats
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	turns    []domain.Turn
	pending  string
	status   string
	ready    bool
}

// New creates a chat model over one session. notice is shown in the
// status line at startup, e.g. knowledge load warnings.
func New(ctx context.Context, svc ChatPort, state *conversation.State, notice string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about yacht charters, sales, fleet details, or general inquiries..."
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	status := notice
	if status == "" {
		status = "Ready. Enter sends, Tab switches service, Ctrl+L clears, Esc quits."
	}
	return Model{
		ctx:      ctx,
		service:  svc,
		state:    state,
		stats:    svc.Stats(),
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		turns:    svc.Transcript(state),
		status:   status,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header + mode bar, status, input, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(20, msg.Width-6)),
		)
		m.refresh()
		return m, nil
	case replyMsg:
		m.turns = msg.turns
		m.pending = ""
		m.status = fmt.Sprintf("%d messages in this session.", len(m.turns))
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.pending != "" {
				return m, nil
			}
			m.input.Reset()
			m.pending = text
			m.status = "Thinking..."
			m.refresh()
			return m, tea.Batch(m.spinner.Tick, m.submit(text))
		case "tab", "shift+tab":
			if m.pending != "" {
				return m, nil
			}
			next := m.state.Mode().Next()
			if msg.String() == "shift+tab" {
				next = m.state.Mode().Prev()
			}
			m.service.SetMode(m.state, next)
			m.status = "Service: " + m.state.Mode().String()
			return m, nil
		case "ctrl+l":
			if m.pending != "" {
				return m, nil
			}
			m.service.Clear(m.state)
			m.turns = m.service.Transcript(m.state)
			m.status = "Chat history cleared."
			m.refresh()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs one blocking request off the UI loop. Mode switches and
// clears are refused until its replyMsg arrives, so the session state is
// only touched by this command meanwhile.
func (m Model) submit(text string) tea.Cmd {
	svc, state, ctx := m.service, m.state, m.ctx
	return func() tea.Msg {
		return replyMsg{turns: svc.Submit(ctx, state, text)}
	}
}

// View renders the header, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("⛵ Inara Yachts · Charter & Sales")
	modeBar := modeStyle.Render(fmt.Sprintf("Service: %s  |  Charter FAQs: %d  Sales FAQs: %d  |  Model: %s",
		m.state.Mode(), m.stats.Charter, m.stats.Sales, m.stats.Model))
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + modeBar + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 && m.pending == "" {
		return mutedStyle.Render("Welcome aboard! Pick a service with Tab and ask us anything about charters, sales or our fleet.")
	}
	var b strings.Builder
	for _, turn := range m.turns {
		b.WriteString(m.renderTurn(turn))
		b.WriteString("\n")
	}
	if m.pending != "" {
		b.WriteString(m.renderTurn(domain.Turn{Role: domain.RoleUser, Content: m.pending}))
		b.WriteString("\n")
		b.WriteString(assistantLabelStyle.Render("Inara"))
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
		b.WriteString(" Thinking...")
	}
	return b.String()
}

func (m Model) renderTurn(turn domain.Turn) string {
	if turn.Role == domain.RoleUser {
		return userLabelStyle.Render("You") + "\n" + turn.Content + "\n"
	}
	body := turn.Content
	if m.renderer != nil {
		if out, err := m.renderer.Render(turn.Content); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	return assistantLabelStyle.Render("Inara") + "\n" + body + "\n"
}

var (
	headerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5e9"))
	modeStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0f2fe")).Background(lipgloss.Color("#1e3a8a")).Padding(0, 1)
	transcriptBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#0284c7")).Padding(0, 1)
	inputBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f97316"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981"))
)
