package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionContext holds the opaque identifier that correlates every audit
// entry written by one running client instance. The id is generated once
// at construction and never regenerated.
type SessionContext struct {
	id        string
	startedAt time.Time
}

// NewSessionContext generates a fresh session identifier: the start
// timestamp in milliseconds plus a random suffix.
func NewSessionContext() *SessionContext {
	now := time.Now()
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return &SessionContext{
		id:        fmt.Sprintf("%d-%s", now.UnixMilli(), suffix),
		startedAt: now,
	}
}

// ID returns the session identifier.
func (s *SessionContext) ID() string {
	return s.id
}

// StartedAt returns when this session was created.
func (s *SessionContext) StartedAt() time.Time {
	return s.startedAt
}
