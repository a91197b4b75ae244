package mutate

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/cleohq/cleo/internal/model"
)

func TestSessionGCOrphansDeadPIDSessions(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()

	if _, err := c.SessionStart(ctx, "s1", SessionStartOptions{}); err != nil {
		t.Fatalf("SessionStart: %v", err)
	}
	if _, err := c.SessionStart(ctx, "s2", SessionStartOptions{}); err != nil {
		t.Fatalf("SessionStart: %v", err)
	}

	var calls int32
	isAlive := func(pid int) bool {
		atomic.AddInt32(&calls, 1)
		return false
	}

	orphaned, err := c.SessionGC(ctx, isAlive)
	if err != nil {
		t.Fatalf("SessionGC: %v", err)
	}
	if len(orphaned) != 2 {
		t.Fatalf("orphaned = %v, want both sessions", orphaned)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("isAlive called %d times, want 2 (one per active session)", calls)
	}

	sessions, err := c.SessionList(ctx)
	if err != nil {
		t.Fatalf("SessionList: %v", err)
	}
	for _, s := range sessions {
		if s.Status != model.SessionOrphaned {
			t.Errorf("session %s status = %s, want orphaned", s.ID, s.Status)
		}
	}
}

func TestSessionGCLeavesLiveSessionsActive(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	if _, err := c.SessionStart(ctx, "s1", SessionStartOptions{}); err != nil {
		t.Fatalf("SessionStart: %v", err)
	}

	orphaned, err := c.SessionGC(ctx, func(pid int) bool { return true })
	if err != nil {
		t.Fatalf("SessionGC: %v", err)
	}
	if len(orphaned) != 0 {
		t.Errorf("orphaned = %v, want none for a live pid", orphaned)
	}
}

func TestSessionGCNilIsAliveOnlyAppliesAgeCutoff(t *testing.T) {
	c := newCore(t)
	ctx := context.Background()
	if _, err := c.SessionStart(ctx, "s1", SessionStartOptions{}); err != nil {
		t.Fatalf("SessionStart: %v", err)
	}

	orphaned, err := c.SessionGC(ctx, nil)
	if err != nil {
		t.Fatalf("SessionGC: %v", err)
	}
	if len(orphaned) != 0 {
		t.Errorf("orphaned = %v, want none: a freshly started session isn't too old", orphaned)
	}
}
