package gateway

import (
	"context"

	"github.com/cleohq/cleo/internal/concurrency"
	"github.com/cleohq/cleo/internal/mutate"
)

type sessionParams struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Scope string `json:"scope"`
	Agent string `json:"agent"`
	Note  string `json:"note"`
}

func registerSessionHandlers(m *Matrix, core *mutate.Core) {
	m.Register(Operation{Domain: DomainSessions, Kind: KindMutate, Name: "start", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p sessionParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		session, err := core.SessionStart(ctx, p.ID, mutate.SessionStartOptions{Name: p.Name, Scope: p.Scope, Agent: p.Agent})
		if err != nil {
			return nil, "", false, err
		}
		return session, "started session " + session.ID, false, nil
	}})

	m.Register(Operation{Domain: DomainSessions, Kind: KindMutate, Name: "end", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p sessionParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		if err := core.SessionEnd(ctx, p.ID, p.Note); err != nil {
			return nil, "", false, err
		}
		return nil, "ended session " + p.ID, false, nil
	}})

	m.Register(Operation{Domain: DomainSessions, Kind: KindMutate, Name: "resume", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p sessionParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		session, err := core.SessionResume(ctx, p.ID)
		if err != nil {
			return nil, "", false, err
		}
		return session, "resumed session " + p.ID, false, nil
	}})

	m.Register(Operation{Domain: DomainSessions, Kind: KindQuery, Name: "list", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		sessions, err := core.SessionList(ctx)
		if err != nil {
			return nil, "", false, err
		}
		return sessions, "", true, nil
	}})

	m.Register(Operation{Domain: DomainSessions, Kind: KindMutate, Name: "gc", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		orphaned, err := core.SessionGC(ctx, concurrency.IsAlive)
		if err != nil {
			return nil, "", false, err
		}
		return orphaned, "", len(orphaned) == 0, nil
	}})
}
