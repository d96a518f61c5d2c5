package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"light-chat/internal/agent"
)

// ProfileStatus is what the profile view should show
type ProfileStatus int

const (
	ProfileNotLoaded ProfileStatus = iota
	ProfileLoading
	ProfileReady
	ProfileUnavailable
)

func (s ProfileStatus) String() string {
	switch s {
	case ProfileLoading:
		return "loading"
	case ProfileReady:
		return "ready"
	case ProfileUnavailable:
		return "unavailable"
	default:
		return "not loaded"
	}
}

// ProfileFetcher retrieves the agent profile
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (agent.Profile, error)
}

// ProfileLoader performs the one-shot profile fetch for a profile view.
// A profile is only ever exposed after a successful fetch; a failed or
// in-flight load hides whatever was shown before.
type ProfileLoader struct {
	mu      sync.Mutex
	fetcher ProfileFetcher
	status  ProfileStatus
	profile agent.Profile
	err     error
	gen     uint64
	closed  bool
	logger  *zap.Logger
}

// NewProfileLoader creates a loader in the NotLoaded state
func NewProfileLoader(fetcher ProfileFetcher, logger *zap.Logger) *ProfileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileLoader{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Load fetches the profile. The returned error is for diagnostics; callers
// render from Status and Profile.
func (l *ProfileLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.gen++
	gen := l.gen
	l.status = ProfileLoading
	l.profile = agent.Profile{}
	l.err = nil
	l.mu.Unlock()

	profile, err := l.fetcher.FetchProfile(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.gen {
		l.logger.Debug("discarding stale profile load")
		return err
	}

	if err != nil {
		l.status = ProfileUnavailable
		l.err = err
		l.logger.Warn("profile unavailable",
			zap.String("hint", Describe(err)),
			zap.Error(err))
		return err
	}

	l.status = ProfileReady
	l.profile = profile.Clone()
	l.logger.Debug("profile loaded",
		zap.String("name", profile.Name),
		zap.Int("knowledge", len(profile.Knowledge)),
		zap.Int("examples", len(profile.ExampleResponses)))
	return nil
}

// Status returns the current load status
func (l *ProfileLoader) Status() ProfileStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Profile returns the loaded profile and true only when Status is Ready
func (l *ProfileLoader) Profile() (agent.Profile, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != ProfileReady {
		return agent.Profile{}, false
	}
	return l.profile.Clone(), true
}

// Err returns the cause of the last failed load
func (l *ProfileLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close drops any in-flight result
func (l *ProfileLoader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}
