package gateway

import (
	"context"
	"time"

	"github.com/cleohq/cleo/internal/backup"
	"github.com/cleohq/cleo/internal/concurrency"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
	"github.com/cleohq/cleo/internal/sequence"
	"github.com/cleohq/cleo/internal/storage"
	"github.com/cleohq/cleo/internal/verify"
)

func registerSystemHandlers(m *Matrix, store storage.Accessor, layout paths.Layout, verifyCore *verify.Core) {
	m.Register(Operation{Domain: DomainSystem, Kind: KindQuery, Name: "sequence-show", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		status, err := sequence.Show(ctx, store)
		if err != nil {
			return nil, "", false, err
		}
		return status, "", true, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindQuery, Name: "sequence-check", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		status, err := sequence.Check(ctx, store)
		if err != nil {
			return nil, "", false, err
		}
		return status, "", status.InSync, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindMutate, Name: "sequence-repair", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		status, err := sequence.Repair(ctx, store)
		if err != nil {
			return nil, "", false, err
		}
		return status, "sequence repaired", false, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindQuery, Name: "doctor", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		todo, err := store.LoadTodo(ctx)
		if err != nil {
			return nil, "", false, err
		}
		archive, err := store.LoadArchive(ctx)
		if err != nil {
			return nil, "", false, err
		}
		seq, err := store.LoadSequence(ctx)
		if err != nil {
			return nil, "", false, err
		}
		summary := schema.TodoSummary{
			MaxTaskSeq:    maxNumericID(todo.Tasks, archive.Tasks),
			SequenceCount: seq.Counter,
			TaskCount:     len(todo.Tasks),
			ArchivedCount: len(archive.Tasks),
		}
		findings := schema.Doctor(layout, summary)
		return findings, "", len(findings) == 0, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindMutate, Name: "checkpoint", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		name, err := backup.Checkpoint(layout, time.Now())
		if err != nil {
			return nil, "", false, err
		}
		return map[string]string{"snapshot": name}, "checkpoint created: " + name, false, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindQuery, Name: "checkpoint-list", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		names, err := backup.ListSnapshots(layout)
		if err != nil {
			return nil, "", false, err
		}
		return names, "", len(names) == 0, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindMutate, Name: "restore", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			Source    string `json:"source"`
			Target    string `json:"target"`
			RingEntry int    `json:"ringEntry"`
			Snapshot  string `json:"snapshot"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		src := backup.SourceRing
		if p.Source == "snapshot" {
			src = backup.SourceSnapshot
		}
		target := p.Target
		if src == backup.SourceSnapshot {
			target = p.Snapshot
		}
		if err := backup.Restore(layout, src, target, p.RingEntry); err != nil {
			return nil, "", false, err
		}
		return nil, "restored " + p.Target, false, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindMutate, Name: "gate-set", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			ID    string `json:"id"`
			Gate  string `json:"gate"`
			Agent string `json:"agent"`
			Value bool   `json:"value"`
			Round int    `json:"round"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		task, err := verifyCore.SetGate(ctx, p.ID, model.GateName(p.Gate), verify.SetGateOptions{Agent: p.Agent, Value: p.Value, Round: p.Round})
		if err != nil {
			return nil, "", false, err
		}
		return task, "gate " + p.Gate + " set on " + p.ID, false, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindQuery, Name: "gate-status", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var p struct {
			ID string `json:"id"`
		}
		if err := decodeParams(raw, &p); err != nil {
			return nil, "", false, err
		}
		v, err := verifyCore.Status(ctx, p.ID)
		if err != nil {
			return nil, "", false, err
		}
		return v, "", true, nil
	}})

	m.Register(Operation{Domain: DomainSystem, Kind: KindQuery, Name: "context-locks", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		infos, err := concurrency.ScanLocks(layout, time.Now())
		if err != nil {
			return nil, "", false, err
		}
		warnings := concurrency.Warnings(infos, false)
		return map[string]interface{}{"locks": infos, "warnings": warnings}, "", len(warnings) == 0, nil
	}})
}

func maxNumericID(live, archived []*model.Task) int {
	max := 0
	for _, t := range live {
		if n, ok := model.ParseNumericID(t.ID); ok && n > max {
			max = n
		}
	}
	for _, t := range archived {
		if n, ok := model.ParseNumericID(t.ID); ok && n > max {
			max = n
		}
	}
	return max
}
