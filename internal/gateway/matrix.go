package gateway

import (
	"github.com/cleohq/cleo/internal/mutate"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
	"github.com/cleohq/cleo/internal/verify"
)

// cliOnlyDomains enumerates the domains spec.md §4.J names that have
// no native CLEO backend: each shells out through a bundled external
// engine rather than calling back into the gateway process (no LLM or
// orchestration call belongs in this binary). Each operation name maps
// 1:1 onto the external engine's own subcommand.
type cliOp struct {
	name string
	kind Kind
}

var cliOnlyDomains = map[Domain][]cliOp{
	DomainOrchestrate: {{"run", KindMutate}, {"status", KindQuery}, {"cancel", KindMutate}},
	DomainResearch:    {{"query", KindQuery}, {"summarize", KindQuery}},
	DomainLifecycle:   {{"plan", KindQuery}, {"advance", KindMutate}},
	DomainRelease:     {{"cut", KindMutate}, {"publish", KindMutate}},
	DomainNexus:       {{"sync", KindMutate}, {"pull", KindMutate}},
	DomainIssues:      {{"import", KindMutate}, {"export", KindQuery}},
}

// NewDefaultMatrix builds the Matrix every cleo entrypoint (CLI,
// embedded library caller) dispatches through: native handlers for
// tasks/sessions/phases/system/validate wired against the already
// constructed mutate/verify cores, plus CLI-only stubs for the domains
// with no native backend.
func NewDefaultMatrix(store storage.Accessor, layout paths.Layout, runner *CLIRunner) *Matrix {
	core := mutate.New(store, layout)
	verifyCore := verify.New(store, layout)

	m := NewMatrix(runner)
	registerTaskHandlers(m, core)
	registerSessionHandlers(m, core)
	registerPhaseHandlers(m, core)
	registerValidateHandlers(m, store)
	registerSystemHandlers(m, store, layout, verifyCore)

	for domain, ops := range cliOnlyDomains {
		for _, op := range ops {
			m.Register(Operation{
				Domain:  domain,
				Kind:    op.kind,
				Name:    op.name,
				Mode:    ModeCLI,
				CLIArgs: []string{"cleo-engine", string(domain), op.name},
			})
		}
	}

	return m
}
