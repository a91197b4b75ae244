package model

import "strings"

// SessionStatus is a session's lifecycle state.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionEnded    SessionStatus = "ended"
	SessionOrphaned SessionStatus = "orphaned"
)

// GlobalScope is the session scope value for a project-wide session.
const GlobalScope = "global"

// EpicScopePrefix prefixes an epic-scoped session's scope value, e.g.
// "epic:T42".
const EpicScopePrefix = "epic:"

// Session is a scoped, resumable unit of work tied to an agent or
// human operator (spec.md §3).
type Session struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Scope       string        `json:"scope"`
	Status      SessionStatus `json:"status"`
	StartedAt   string        `json:"startedAt"`
	EndedAt     *string       `json:"endedAt,omitempty"`
	Agent       *string       `json:"agent,omitempty"`
	FocusTaskID *string       `json:"focusTaskId,omitempty"`
	EndNote     *string       `json:"endNote,omitempty"`

	// PID, if recorded, is the owning process id, used by session gc
	// to detect sessions whose process no longer exists (spec.md §4.F
	// "session ... gc").
	PID *int `json:"pid,omitempty"`
}

// EpicScope builds the scope value for a session bound to an epic.
func EpicScope(epicID string) string {
	return EpicScopePrefix + epicID
}

// ScopedEpicID returns the epic id a session is scoped to, and true,
// or "", false if the session is global-scoped.
func (s *Session) ScopedEpicID() (string, bool) {
	if strings.HasPrefix(s.Scope, EpicScopePrefix) {
		return strings.TrimPrefix(s.Scope, EpicScopePrefix), true
	}
	return "", false
}

// SessionsFile is the aggregate root persisting all sessions, shared
// by every concurrent process via file locking (spec.md §3 Ownership).
type SessionsFile struct {
	Sessions []*Session `json:"sessions"`
}

// FocusBinding records the task a session is currently focused on.
type FocusBinding struct {
	TaskID string  `json:"taskId"`
	Note   *string `json:"note,omitempty"`
	SetAt  string  `json:"setAt"`
}
