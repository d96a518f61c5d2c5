// Package chat holds the conversation controller and the profile loader.
//
// A Session owns the entry log and the Idle/Pending state machine. Only one
// request may be outstanding at a time; every accepted submission produces
// exactly one agent entry (the reply or a fallback) and returns the session
// to Idle.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"light-chat/internal/history"
)

// DefaultFallbackMessage is shown in place of a reply when the backend fails
const DefaultFallbackMessage = "Sorry, I encountered an error. Please try again."

// State of the request lifecycle
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Sender delivers user text to the agent and returns its reply
type Sender interface {
	Send(ctx context.Context, content string) (string, error)
}

// Snapshot is a consistent read of the session for renderers
type Snapshot struct {
	Entries []history.Entry
	State   State
	Draft   string
	LastErr error
}

// Session is the chat session controller.
type Session struct {
	mu       sync.Mutex
	sender   Sender
	log      *history.Log
	state    State
	draft    string
	current  *Exchange
	lastErr  error
	closed   bool
	fallback string
	logger   *zap.Logger
	onChange func()
}

// Option configures a Session
type Option func(*Session)

// WithFallbackMessage overrides the text used when a send fails
func WithFallbackMessage(msg string) Option {
	return func(s *Session) {
		if strings.TrimSpace(msg) != "" {
			s.fallback = msg
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates an Idle session with an empty log
func NewSession(sender Sender, opts ...Option) *Session {
	s := &Session{
		sender:   sender,
		log:      history.NewLog(),
		state:    Idle,
		fallback: DefaultFallbackMessage,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.log.SessionID()))
	return s
}

// Exchange is one accepted submission whose request has not resolved yet.
// Run must be called exactly once and its Outcome handed to Complete.
type Exchange struct {
	session *Session
	text    string
	user    history.Entry
	started time.Time
}

// Text returns the literal submitted text
func (x *Exchange) Text() string { return x.text }

// UserEntry returns the entry appended for the submission
func (x *Exchange) UserEntry() history.Entry { return x.user }

// Outcome is the resolution of an Exchange
type Outcome struct {
	exchange *Exchange
	Reply    string
	Err      error
	Elapsed  time.Duration
}

// Run performs the network call. It does not touch session state, so it
// may run off the renderer's thread.
func (x *Exchange) Run(ctx context.Context) Outcome {
	reply, err := x.session.sender.Send(ctx, x.text)
	return Outcome{
		exchange: x,
		Reply:    reply,
		Err:      err,
		Elapsed:  time.Since(x.started),
	}
}

// Begin accepts a submission if the session is Idle and text is not blank.
// It appends the user entry, clears the draft and moves to Pending.
// A rejected submission changes nothing and returns false.
func (s *Session) Begin(text string) (*Exchange, bool) {
	s.mu.Lock()

	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, false
	case s.state == Pending:
		s.mu.Unlock()
		s.logger.Debug("submission ignored while pending")
		return nil, false
	case strings.TrimSpace(text) == "":
		s.mu.Unlock()
		return nil, false
	}

	x := &Exchange{
		session: s,
		text:    text,
		started: time.Now(),
	}
	x.user = s.log.Append(history.OriginUser, text)
	s.draft = ""
	s.state = Pending
	s.current = x
	notify := s.onChange
	s.mu.Unlock()

	s.logger.Debug("submission accepted", zap.String("entry", x.user.ID))
	if notify != nil {
		notify()
	}
	return x, true
}

// Complete applies an Outcome: the reply, or the fallback message on
// failure, becomes an agent entry and the session returns to Idle.
// Outcomes for a closed session or a stale exchange are discarded.
func (s *Session) Complete(o Outcome) (history.Entry, bool) {
	s.mu.Lock()

	if s.closed || o.exchange == nil || o.exchange != s.current {
		s.mu.Unlock()
		s.logger.Debug("discarding outcome for inactive exchange", zap.Error(o.Err))
		return history.Entry{}, false
	}

	content := o.Reply
	if o.Err != nil {
		content = s.fallback
		s.lastErr = o.Err
	} else {
		s.lastErr = nil
	}

	entry := s.log.Append(history.OriginAgent, content)
	s.state = Idle
	s.current = nil
	notify := s.onChange
	s.mu.Unlock()

	if o.Err != nil {
		s.logger.Warn("send failed",
			zap.String("hint", Describe(o.Err)),
			zap.Duration("elapsed", o.Elapsed),
			zap.Error(o.Err))
	} else {
		s.logger.Debug("reply received",
			zap.String("entry", entry.ID),
			zap.Int("chars", len(o.Reply)),
			zap.Duration("elapsed", o.Elapsed))
	}

	if notify != nil {
		notify()
	}
	return entry, true
}

// Send submits text and blocks until the agent entry is appended.
// It returns false when the submission was rejected or the session was
// closed before the reply arrived.
func (s *Session) Send(ctx context.Context, text string) (history.Entry, bool) {
	x, ok := s.Begin(text)
	if !ok {
		return history.Entry{}, false
	}
	return s.Complete(x.Run(ctx))
}

// Submit starts a submission in the background. done, if non-nil, is
// called once with the agent entry; it is not called when the submission
// is rejected or the session closes first.
func (s *Session) Submit(ctx context.Context, text string, done func(history.Entry)) bool {
	x, ok := s.Begin(text)
	if !ok {
		return false
	}

	go func() {
		entry, applied := s.Complete(x.Run(ctx))
		if applied && done != nil {
			done(entry)
		}
	}()
	return true
}

// Close marks the session defunct. Later outcomes are dropped and new
// submissions are refused.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.current = nil
	s.mu.Unlock()
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ID returns the session id
func (s *Session) ID() string {
	return s.log.SessionID()
}

// Entries returns a copy of the log in conversation order
func (s *Session) Entries() []history.Entry {
	return s.log.Entries()
}

// StartedAt returns when the session's log was created
func (s *Session) StartedAt() time.Time {
	return s.log.StartedAt()
}

// Recent returns the last N entries
func (s *Session) Recent(limit int) []history.Entry {
	return s.log.Recent(limit)
}

// Len returns the number of entries
func (s *Session) Len() int {
	return s.log.Len()
}

// State returns Idle or Pending
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a request is outstanding
func (s *Session) Pending() bool {
	return s.State() == Pending
}

// Draft returns the unsent input text
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft records the unsent input text
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// LastError returns the cause of the most recent failed send, or nil when
// the most recent send succeeded. It is for diagnostics only.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FallbackMessage returns the text used for failed sends
func (s *Session) FallbackMessage() string {
	return s.fallback
}

// Snapshot returns entries and state read under one lock
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Entries: s.log.Entries(),
		State:   s.state,
		Draft:   s.draft,
		LastErr: s.lastErr,
	}
}

// OnChange registers fn to run after every log or state change.
// fn is called without the session lock held.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}
