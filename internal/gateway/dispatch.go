package gateway

import (
	"context"
	"time"

	"github.com/cleohq/cleo/internal/apperr"
)

// Handler runs one operation's native logic against a decoded params
// value, returning the payload to embed in the envelope's Data field,
// a human-facing message, and a noChange flag.
type Handler func(ctx context.Context, params interface{}) (data interface{}, message string, noChange bool, err error)

// Operation is one entry of the capability matrix (spec.md §4.J: "Each
// operation has an execution mode declared in a capability matrix").
type Operation struct {
	Domain  Domain
	Kind    Kind
	Name    string
	Mode    Mode
	Handler Handler  // nil for ModeCLI operations
	CLIArgs []string // argv for ModeCLI operations; params go to the CLIRunner as JSON on stdin
}

// Matrix is the gateway's dispatch table, keyed by domain then
// operation name.
type Matrix struct {
	operations map[Domain]map[string]Operation
	runner     *CLIRunner
}

// NewMatrix returns an empty Matrix ready for Register calls.
func NewMatrix(runner *CLIRunner) *Matrix {
	return &Matrix{operations: make(map[Domain]map[string]Operation), runner: runner}
}

// Register adds op to the matrix, keyed by (op.Domain, op.Name).
func (m *Matrix) Register(op Operation) {
	if m.operations[op.Domain] == nil {
		m.operations[op.Domain] = make(map[string]Operation)
	}
	m.operations[op.Domain][op.Name] = op
}

// Lookup finds the registered Operation for (domain, name).
func (m *Matrix) Lookup(domain Domain, name string) (Operation, bool) {
	byName, ok := m.operations[domain]
	if !ok {
		return Operation{}, false
	}
	op, ok := byName[name]
	return op, ok
}

// CanExecuteNatively reports whether a transport without CLI access
// (e.g. an embedded library caller) can still run op.
func (op Operation) CanExecuteNatively() bool {
	return op.Mode == ModeNative || op.Mode == ModeHybrid
}

// Dispatch runs (domain, operation) against params, honoring op.Mode:
// ModeNative and ModeHybrid call op.Handler; ModeCLI shells out via
// the Matrix's CLIRunner (spec.md §4.J: "cli-only operations shell out
// to a bundled engine with a bounded timeout"). hasCLI lets a caller
// whose transport lacks shell access (e.g. a remote RPC client) force
// ModeCLI operations to fail with CLI_REQUIRED instead of attempting a
// local shell-out that would succeed for the wrong process.
func (m *Matrix) Dispatch(ctx context.Context, kind Kind, domain Domain, name string, params interface{}, hasCLI bool) Envelope {
	started := time.Now()
	op, ok := m.Lookup(domain, name)
	if !ok {
		return FromError(domain, name, apperr.New(apperr.CodeInvalidOperation, "unknown operation "+string(domain)+"."+name), started)
	}
	if op.Kind != kind {
		return FromError(domain, name, apperr.New(apperr.CodeInvalidOperation, string(domain)+"."+name+" is not a "+string(kind)+" operation"), started)
	}

	if op.Mode == ModeCLI && !hasCLI {
		return FromError(domain, name, apperr.New(apperr.CodeCLIRequired, string(domain)+"."+name+" requires CLI access").
			WithFix("install the cleo CLI and invoke this operation through a transport with shell access"), started)
	}

	var data interface{}
	var message string
	var noChange bool
	var err error

	switch op.Mode {
	case ModeNative, ModeHybrid:
		if op.Handler == nil {
			err = apperr.New(apperr.CodeInvalidOperation, string(domain)+"."+name+" has no native handler registered")
		} else {
			data, message, noChange, err = op.Handler(ctx, params)
		}
	case ModeCLI:
		if m.runner == nil {
			err = apperr.New(apperr.CodeCLIRequired, "no CLI runner configured for "+string(domain)+"."+name)
		} else {
			data, err = m.runner.Run(ctx, op.CLIArgs, params)
		}
	default:
		err = apperr.New(apperr.CodeInvalidOperation, "unknown execution mode for "+string(domain)+"."+name)
	}

	if err != nil {
		return FromError(domain, name, err, started)
	}
	return Success(domain, name, data, message, noChange, started)
}
