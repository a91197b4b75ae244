package gateway

import (
	"context"
	"strconv"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/schema"
	"github.com/cleohq/cleo/internal/storage"
)

func registerValidateHandlers(m *Matrix, store storage.Accessor) {
	m.Register(Operation{Domain: DomainValidate, Kind: KindQuery, Name: "check", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		var violations []schema.Violation
		err := store.Query(ctx, func(todo *model.TodoFile) error {
			archive, loadErr := store.LoadArchive(ctx)
			if loadErr != nil {
				return loadErr
			}
			violations = schema.Validate(todo, archive)
			return nil
		})
		if err != nil {
			return nil, "", false, err
		}
		return violations, "", len(violations) == 0, nil
	}})

	m.Register(Operation{Domain: DomainValidate, Kind: KindQuery, Name: "plan-repair", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		plan, err := planRepair(ctx, store)
		if err != nil {
			return nil, "", false, err
		}
		return plan, "", plan.Empty(), nil
	}})

	m.Register(Operation{Domain: DomainValidate, Kind: KindMutate, Name: "repair", Mode: ModeNative, Handler: func(ctx context.Context, raw interface{}) (interface{}, string, bool, error) {
		plan, err := planRepair(ctx, store)
		if err != nil {
			return nil, "", false, err
		}
		if plan.Empty() {
			return plan, "nothing to repair", true, nil
		}

		var applied *schema.RepairPlan
		err = store.MutateSequence(ctx, func(seq *model.Sequence) error {
			return store.MutateTodoAndArchive(ctx, func(todo *model.TodoFile, archive *model.ArchiveFile) error {
				p := schema.Plan(todo, archive, seq)
				schema.Apply(p, todo, archive, seq)
				todo.Meta.Checksum = schema.ChecksumTasks(todo.Tasks)
				archive.Meta.Checksum = schema.ChecksumTasks(archive.Tasks)
				if violations := schema.Validate(todo, archive); len(violations) > 0 {
					return apperr.New(apperr.CodeValidationError, violations[0].Error())
				}
				applied = p
				return nil
			})
		})
		if err != nil {
			return nil, "", false, err
		}
		return applied, "repaired " + strconv.Itoa(len(applied.Actions)) + " issue(s)", false, nil
	}})
}

func planRepair(ctx context.Context, store storage.Accessor) (*schema.RepairPlan, error) {
	todo, err := store.LoadTodo(ctx)
	if err != nil {
		return nil, err
	}
	archive, err := store.LoadArchive(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := store.LoadSequence(ctx)
	if err != nil {
		return nil, err
	}
	return schema.Plan(todo, archive, seq), nil
}
