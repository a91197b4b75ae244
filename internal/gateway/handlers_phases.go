package gateway

import (
	"context"

	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/mutate"
)

func registerPhaseHandlers(m *Matrix, core *mutate.Core) {
	m.Register(Operation{Domain: DomainPhases, Kind: KindQuery, Name: "show", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var project model.ProjectMeta
		err := core.Store.Query(ctx, func(todo *model.TodoFile) error {
			project = todo.Project
			return nil
		})
		if err != nil {
			return nil, "", false, err
		}
		return project, "", true, nil
	}})

	m.Register(Operation{Domain: DomainPhases, Kind: KindMutate, Name: "set", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			Target   string `json:"target"`
			Rollback bool   `json:"rollback"`
			Force    bool   `json:"force"`
			Reason   string `json:"reason"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		if err := core.PhaseSet(ctx, p.Target, mutate.PhaseSetOptions{Rollback: p.Rollback, Force: p.Force, Reason: p.Reason}); err != nil {
			return nil, "", false, err
		}
		return nil, "phase set to " + p.Target, false, nil
	}})
}
