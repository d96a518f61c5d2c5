package chat

import (
	"errors"
	"fmt"

	"light-chat/internal/agent"
)

// Describe reduces a failure to a short category a user can act on,
// without exposing backend internals.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var agentErr *agent.Error
	if !errors.As(err, &agentErr) {
		return "unexpected error"
	}
	switch agentErr.Kind {
	case agent.KindTransport:
		return "backend unreachable"
	case agent.KindRequestFailed:
		return fmt.Sprintf("agent error (status %d)", agentErr.StatusCode)
	case agent.KindInvalidResponse:
		return "unreadable reply from agent"
	default:
		return "unexpected error"
	}
}
