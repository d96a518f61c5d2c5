package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"light-chat/internal/agent"
	"light-chat/internal/chat"
)

type stubSender struct {
	reply string
	err   error
}

func (s stubSender) Send(ctx context.Context, content string) (string, error) {
	return s.reply, s.err
}

type stubFetcher struct {
	profile agent.Profile
	err     error
}

func (f stubFetcher) FetchProfile(ctx context.Context) (agent.Profile, error) {
	return f.profile, f.err
}

func newTestModel(t *testing.T, sender chat.Sender, fetcher chat.ProfileFetcher, verbose bool) (Model, *chat.Session, *chat.ProfileLoader) {
	t.Helper()
	session := chat.NewSession(sender)
	var profiles *chat.ProfileLoader
	if fetcher != nil {
		profiles = chat.NewProfileLoader(fetcher, nil)
	}
	m := New(context.Background(), session, profiles, Options{
		BackendURL: "http://127.0.0.1:8000",
		Theme:      "notty",
		Verbose:    verbose,
	})
	return m, session, profiles
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok)
	return result, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestModel_EmptyState(t *testing.T) {
	m, _, _ := newTestModel(t, stubSender{reply: "Hi"}, nil, false)

	view := m.View()
	assert.Contains(t, view, "Start a conversation")
	assert.Contains(t, view, "Chat")
}

func TestModel_SendAndReply(t *testing.T) {
	m, session, _ := newTestModel(t, stubSender{reply: "Hi there!"}, nil, false)

	m = typeText(t, m, "Hello")
	assert.Equal(t, "Hello", session.Draft())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, session.Pending())
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, "", session.Draft())
	assert.Contains(t, m.renderTranscript(), "Thinking...")
	assert.Contains(t, m.renderTranscript(), "Hello")

	m, _ = update(t, m, cmd())

	assert.False(t, session.Pending())
	entries := session.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Hi there!", entries[1].Content)
	assert.Contains(t, m.renderTranscript(), "Hi there!")
	assert.NotContains(t, m.renderTranscript(), "Thinking...")
}

func TestModel_BlankEnterIsIgnored(t *testing.T) {
	m, session, _ := newTestModel(t, stubSender{reply: "Hi"}, nil, false)

	m = typeText(t, m, "   ")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, session.Len())
}

func TestModel_EnterWhilePendingIsIgnored(t *testing.T) {
	m, session, _ := newTestModel(t, stubSender{reply: "Hi"}, nil, false)

	m = typeText(t, m, "first")
	m, first := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)

	m = typeText(t, m, "second")
	m, second := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, second)
	assert.Equal(t, 1, session.Len())
	assert.Equal(t, "second", m.input.Value())

	m, _ = update(t, m, first())
	assert.Equal(t, 2, session.Len())
}

func TestModel_FailureShowsFallback(t *testing.T) {
	err := &agent.Error{Op: "send", Kind: agent.KindTransport, Err: errors.New("connection refused")}
	m, session, _ := newTestModel(t, stubSender{err: err}, nil, true)

	m = typeText(t, m, "Hello")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())

	entries := session.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, chat.DefaultFallbackMessage, entries[1].Content)

	transcript := m.renderTranscript()
	assert.Contains(t, transcript, "(backend unreachable)")
	assert.NotContains(t, transcript, "connection refused")
}

func TestModel_QuitClosesSession(t *testing.T) {
	m, session, _ := newTestModel(t, stubSender{reply: "late"}, nil, false)

	m = typeText(t, m, "Hello")
	m, pending := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, pending)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.True(t, session.Closed())
	assert.Equal(t, "", m.View())

	// A reply landing after teardown is dropped.
	_, _ = update(t, m, pending())
	assert.Equal(t, 1, session.Len())
}

func TestModel_TabShowsProfile(t *testing.T) {
	fetcher := stubFetcher{profile: agent.Profile{
		Name:             "Light",
		ModelProvider:    "openRouter",
		Knowledge:        []string{"doc1", "doc2"},
		ExampleResponses: []string{"Hello!"},
	}}
	m, _, profiles := newTestModel(t, stubSender{}, fetcher, false)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.NotNil(t, cmd)
	assert.Equal(t, viewProfile, m.active)
	assert.Contains(t, m.renderProfile(), "Loading agent details...")

	require.NoError(t, profiles.Load(context.Background()))
	m, _ = update(t, m, profileMsg{})

	details := m.renderProfile()
	assert.Contains(t, details, "Light")
	assert.Contains(t, details, "Knowledge Base:    2 documents")
	assert.Contains(t, details, "1. doc1")
	assert.Contains(t, details, "2. doc2")
	assert.Contains(t, details, "• Hello!")
	assert.Equal(t, "Light", m.agentName)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, viewChat, m.active)
	assert.True(t, m.input.Focused())
}

func TestModel_ProfileUnavailable(t *testing.T) {
	fetcher := stubFetcher{err: &agent.Error{Op: "being", Kind: agent.KindRequestFailed, StatusCode: 500}}
	m, _, profiles := newTestModel(t, stubSender{}, fetcher, false)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Error(t, profiles.Load(context.Background()))
	m, _ = update(t, m, profileMsg{})

	assert.Contains(t, m.renderProfile(), "Failed to fetch agent details")
	assert.Equal(t, "Agent", m.agentName)
}

func TestModel_ProfileKeysDoNotReachInput(t *testing.T) {
	m, session, _ := newTestModel(t, stubSender{}, stubFetcher{}, false)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "abc")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, 0, session.Len())
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, stubSender{}, nil, false)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	// Tiny terminals are clamped instead of producing negative sizes.
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.Equal(t, 40, m.width)
	assert.Equal(t, 10, m.height)
	assert.NotEmpty(t, m.View())
}
