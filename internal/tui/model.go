// Package tui is the full-screen chat interface built on bubbletea.
//
// The Model never blocks in Update. Submissions are accepted with
// Session.Begin, the network call runs inside a tea.Cmd and the result
// comes back as a replyMsg that Update hands to Session.Complete.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"light-chat/internal/agent"
	"light-chat/internal/chat"
	"light-chat/internal/history"
	"light-chat/internal/ui"
)

type view int

const (
	viewChat view = iota
	viewProfile
)

const knowledgeExcerptWords = 40

type replyMsg struct {
	outcome chat.Outcome
}

type profileMsg struct {
	err error
}

// Options configures the Model
type Options struct {
	BackendURL string
	Theme      string // glamour style; "auto" resolves from the terminal background
	Verbose    bool
}

// Model is the bubbletea model for the chat and profile views
type Model struct {
	ctx      context.Context
	session  *chat.Session
	profiles *chat.ProfileLoader
	opts     Options

	active         view
	profileLoading bool
	agentName      string
	hint           string
	quitting       bool

	input      textinput.Model
	transcript viewport.Model
	details    viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
	theme      styles

	width  int
	height int
}

// New builds the model. ctx bounds every request the model starts.
func New(ctx context.Context, session *chat.Session, profiles *chat.ProfileLoader, opts Options) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "Type your message..."
	input.CharLimit = 8000
	input.SetValue(session.Draft())
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7c3aed"))

	if opts.Theme == "" || opts.Theme == "auto" {
		opts.Theme = "dark"
		if !lipgloss.HasDarkBackground() {
			opts.Theme = "light"
		}
	}

	m := Model{
		ctx:        ctx,
		session:    session,
		profiles:   profiles,
		opts:       opts,
		agentName:  "Agent",
		input:      input,
		transcript: viewport.New(0, 0),
		details:    viewport.New(0, 0),
		spinner:    sp,
		theme:      newStyles(),
	}
	m.resize(80, 24)
	m.refresh()
	return m
}

// Init starts the spinner and loads the profile for the agent's name
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.loadProfileCmd(),
	)
}

func (m Model) loadProfileCmd() tea.Cmd {
	if m.profiles == nil {
		return nil
	}
	ctx, loader := m.ctx, m.profiles
	return func() tea.Msg {
		return profileMsg{err: loader.Load(ctx)}
	}
}

func (m Model) runCmd(x *chat.Exchange) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{outcome: x.Run(ctx)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.session.Pending() || m.profileLoading {
			m.refresh()
		}

	case replyMsg:
		if _, ok := m.session.Complete(msg.outcome); ok {
			m.hint = ""
			if m.opts.Verbose {
				m.hint = chat.Describe(msg.outcome.Err)
			}
		}
		m.refresh()

	case profileMsg:
		m.profileLoading = false
		if m.profiles != nil {
			if p, ok := m.profiles.Profile(); ok && strings.TrimSpace(p.Name) != "" {
				m.agentName = p.Name
			}
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.session.Close()
			if m.profiles != nil {
				m.profiles.Close()
			}
			return m, tea.Quit

		case "tab", "shift+tab":
			if m.active == viewChat {
				m.active = viewProfile
				m.input.Blur()
				m.profileLoading = m.profiles != nil
				cmds = append(cmds, m.loadProfileCmd())
			} else {
				m.active = viewChat
				cmds = append(cmds, m.input.Focus())
			}
			m.refresh()
			return m, tea.Batch(cmds...)
		}

		if m.active == viewProfile {
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "enter":
			x, ok := m.session.Begin(m.input.Value())
			if !ok {
				return m, nil
			}
			m.input.SetValue("")
			m.hint = ""
			m.refresh()
			return m, m.runCmd(x)
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.session.SetDraft(m.input.Value())
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = max(40, width)
	m.height = max(10, height)

	inner := m.width - 4
	m.input.Width = max(10, inner-4)

	bodyHeight := max(3, m.height-8)
	m.transcript.Width = inner
	m.transcript.Height = bodyHeight
	m.details.Width = inner
	m.details.Height = bodyHeight

	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.opts.Theme),
		glamour.WithWordWrap(max(20, inner-4)),
	)
}

// refresh re-renders viewport content from the session and loader
func (m *Model) refresh() {
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
	m.details.SetContent(m.renderProfile())
}

// View renders the active view
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.transcript.View()
	if m.active == viewProfile {
		body = m.details.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.theme.panel.Width(m.width-2).Render(body),
		m.renderInput(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	chatTab, profileTab := m.theme.tabActive, m.theme.tabInactive
	if m.active == viewProfile {
		chatTab, profileTab = profileTab, chatTab
	}
	return m.theme.header.Render(lipgloss.JoinHorizontal(lipgloss.Left,
		chatTab.Render("Chat"),
		profileTab.Render("Agent"),
		m.theme.muted.Render("  "+m.agentName+" · "+m.opts.BackendURL),
	))
}

func (m Model) renderInput() string {
	if m.active != viewChat {
		return m.theme.inputPanel.Width(m.width - 2).Render(
			m.theme.muted.Render("Press Tab to return to the chat."))
	}
	return m.theme.inputPanel.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderFooter() string {
	return m.theme.footer.Render("Enter send · Tab switch view · PgUp/PgDn scroll · Esc quit")
}

func (m Model) renderTranscript() string {
	snap := m.session.Snapshot()

	if len(snap.Entries) == 0 && snap.State == chat.Idle {
		return m.theme.panelTitle.Render("Start a conversation") + "\n" +
			m.theme.muted.Render("Send a message to begin chatting with your AI agent.")
	}

	var b strings.Builder
	for i, e := range snap.Entries {
		b.WriteString(m.renderEntry(e))
		if i == len(snap.Entries)-1 && m.hint != "" && !e.IsUser() {
			b.WriteString("\n")
			b.WriteString(m.theme.hint.Render("(" + m.hint + ")"))
		}
		b.WriteString("\n\n")
	}

	if snap.State == chat.Pending {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(m.theme.muted.Render("Thinking..."))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderEntry(e history.Entry) string {
	stamp := e.CreatedAt.Format("15:04")
	if e.IsUser() {
		return m.theme.userLabel.Render("You") + " " + m.theme.muted.Render(stamp) + "\n" +
			m.theme.userText.Width(max(10, m.transcript.Width-2)).Render(e.Content)
	}

	content := e.Content
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(e.Content); err == nil {
			content = strings.Trim(rendered, "\n")
		}
	}
	return m.theme.agentLabel.Render(m.agentName) + " " + m.theme.muted.Render(stamp) + "\n" + content
}

func (m Model) renderProfile() string {
	if m.profiles == nil {
		return m.theme.errorText.Render("Failed to fetch agent details")
	}

	p, ok := m.profiles.Profile()
	if !ok {
		if m.profileLoading || m.profiles.Status() == chat.ProfileLoading {
			return m.spinner.View() + " " + m.theme.muted.Render("Loading agent details...")
		}
		return m.theme.errorText.Render("Failed to fetch agent details")
	}
	return m.renderProfileDetails(p)
}

func (m Model) renderProfileDetails(p agent.Profile) string {
	var b strings.Builder

	b.WriteString(m.theme.panelTitle.Render(p.Name))
	if p.Bio != "" {
		b.WriteString("\n" + p.Bio)
	}
	b.WriteString("\n")

	b.WriteString(m.theme.section.Render("Basic Information") + "\n")
	fmt.Fprintf(&b, "Model Provider:    %s\n", p.ModelProvider)
	fmt.Fprintf(&b, "Context ID:        %s\n", p.ContextID)
	fmt.Fprintf(&b, "Knowledge Base:    %d documents\n", len(p.Knowledge))
	fmt.Fprintf(&b, "Example Responses: %d examples\n", len(p.ExampleResponses))

	if p.Personality != "" {
		b.WriteString(m.theme.section.Render("Personality") + "\n")
		b.WriteString(p.Personality + "\n")
	}
	if p.System != "" {
		b.WriteString(m.theme.section.Render("System Prompt") + "\n")
		b.WriteString(p.System + "\n")
	}
	if len(p.Knowledge) > 0 {
		b.WriteString(m.theme.section.Render("Knowledge Base") + "\n")
		for i, doc := range p.Knowledge {
			fmt.Fprintf(&b, "%d. %s\n", i+1, ui.Excerpt(doc, knowledgeExcerptWords))
		}
	}
	if len(p.ExampleResponses) > 0 {
		b.WriteString(m.theme.section.Render("Example Responses") + "\n")
		for _, r := range p.ExampleResponses {
			b.WriteString("• " + r + "\n")
		}
	}

	return lipgloss.NewStyle().Width(max(10, m.details.Width-2)).Render(strings.TrimRight(b.String(), "\n"))
}

// Run starts the program on the terminal and blocks until the user quits
func Run(ctx context.Context, session *chat.Session, profiles *chat.ProfileLoader, opts Options) error {
	p := tea.NewProgram(
		New(ctx, session, profiles, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
