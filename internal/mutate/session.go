package mutate

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
)

// SessionStartOptions carries session start()'s optional fields.
type SessionStartOptions struct {
	Name  string
	Scope string // defaults to model.GlobalScope
	Agent string
}

// SessionStart creates a new active session record, recording the
// current process id so gc can later detect whether it's still alive
// (spec.md §4.F session start/end/resume/list/gc; §3 Session).
func (c *Core) SessionStart(ctx context.Context, id string, opts SessionStartOptions) (*model.Session, error) {
	scope := opts.Scope
	if scope == "" {
		scope = model.GlobalScope
	}
	pid := os.Getpid()

	session := &model.Session{
		ID:        id,
		Name:      opts.Name,
		Scope:     scope,
		Status:    model.SessionActive,
		StartedAt: paths.NowISO(),
		PID:       &pid,
	}
	if opts.Agent != "" {
		session.Agent = &opts.Agent
	}

	err := c.Store.MutateSessions(ctx, func(file *model.SessionsFile) error {
		for _, s := range file.Sessions {
			if s.ID == id {
				return apperr.New(apperr.CodeAlreadyExists, "session "+id+" already exists")
			}
		}
		file.Sessions = append(file.Sessions, session)
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = c.appendAudit(ctx, model.AuditEntry{Operation: "session_started", Details: map[string]interface{}{"sessionId": id, "scope": scope}})
	return session, nil
}

// SessionEnd marks a session ended, optionally recording a closing
// note.
func (c *Core) SessionEnd(ctx context.Context, id, note string) error {
	err := c.Store.MutateSessions(ctx, func(file *model.SessionsFile) error {
		session := findSession(file, id)
		if session == nil {
			return apperr.New(apperr.CodeNotFound, "session "+id+" does not exist")
		}
		now := paths.NowISO()
		session.Status = model.SessionEnded
		session.EndedAt = &now
		if note != "" {
			session.EndNote = &note
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = c.appendAudit(ctx, model.AuditEntry{Operation: "session_ended", Details: map[string]interface{}{"sessionId": id}})
	return nil
}

// SessionResume reactivates a previously ended session, preserving its
// identity and scope.
func (c *Core) SessionResume(ctx context.Context, id string) (*model.Session, error) {
	var resumed *model.Session
	err := c.Store.MutateSessions(ctx, func(file *model.SessionsFile) error {
		session := findSession(file, id)
		if session == nil {
			return apperr.New(apperr.CodeNotFound, "session "+id+" does not exist")
		}
		session.Status = model.SessionActive
		session.EndedAt = nil
		pid := os.Getpid()
		session.PID = &pid
		resumed = session
		return nil
	})
	return resumed, err
}

// SessionList returns every session, newest-started first.
func (c *Core) SessionList(ctx context.Context) ([]*model.Session, error) {
	file, err := c.Store.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Session, len(file.Sessions))
	for i, s := range file.Sessions {
		out[len(file.Sessions)-1-i] = s
	}
	return out, nil
}

// MaxSessionAge bounds how long an active session may go without a
// live owning process before gc marks it orphaned regardless of PID
// liveness, covering processes that never recorded a PID.
const MaxSessionAge = 24 * time.Hour

// SessionGC marks as orphaned any active session whose owning process
// no longer exists (when a PID was recorded) or that has exceeded
// MaxSessionAge (spec.md §4.F: "gc marks as orphaned any active
// session whose owning process no longer exists ... or older than a
// configurable max age").
//
// Active sessions' PID-liveness checks run concurrently through
// errgroup, since isAlive's real implementation (concurrency.IsAlive)
// is a syscall per session and a project with many active sessions
// shouldn't pay for that sequentially.
func (c *Core) SessionGC(ctx context.Context, isAlive func(pid int) bool) ([]string, error) {
	var orphaned []string
	err := c.Store.MutateSessions(ctx, func(file *model.SessionsFile) error {
		active := make([]*model.Session, 0, len(file.Sessions))
		for _, s := range file.Sessions {
			if s.Status == model.SessionActive {
				active = append(active, s)
			}
		}

		dead := make([]bool, len(active))
		if isAlive != nil {
			g, _ := errgroup.WithContext(ctx)
			for i, s := range active {
				if s.PID == nil {
					continue
				}
				i, pid := i, *s.PID
				g.Go(func() error {
					dead[i] = !isAlive(pid)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
		}

		for i, s := range active {
			started, parseErr := time.Parse("2006-01-02T15:04:05Z", s.StartedAt)
			tooOld := parseErr == nil && time.Since(started) > MaxSessionAge
			deadPID := s.PID != nil && dead[i]
			if deadPID || tooOld {
				s.Status = model.SessionOrphaned
				orphaned = append(orphaned, s.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(orphaned) > 0 {
		_ = c.appendAudit(ctx, model.AuditEntry{Operation: "sessions_gc", Details: map[string]interface{}{"orphaned": orphaned}})
	}
	return orphaned, nil
}

func findSession(file *model.SessionsFile, id string) *model.Session {
	for _, s := range file.Sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}
