// CLI-only domains with no native Go handler (spec.md §4.J capability
// matrix): each shells out through the gateway's CLIRunner to a
// bundled "cleo-engine" binary. Registered generically here since
// every one of these subcommands is a thin (domain, operation,
// key=value...) pass-through with no domain-specific flag parsing.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/gateway"
)

var cliOnlyCommands = []struct {
	domain gateway.Domain
	kind   gateway.Kind
	op     string
	short  string
}{
	{gateway.DomainOrchestrate, gateway.KindMutate, "run", "Run an orchestration workflow"},
	{gateway.DomainOrchestrate, gateway.KindQuery, "status", "Show orchestration run status"},
	{gateway.DomainOrchestrate, gateway.KindMutate, "cancel", "Cancel a running orchestration"},
	{gateway.DomainResearch, gateway.KindQuery, "query", "Run a research query"},
	{gateway.DomainResearch, gateway.KindQuery, "summarize", "Summarize research findings"},
	{gateway.DomainLifecycle, gateway.KindQuery, "plan", "Plan the project's lifecycle stages"},
	{gateway.DomainLifecycle, gateway.KindMutate, "advance", "Advance the project's lifecycle stage"},
	{gateway.DomainRelease, gateway.KindMutate, "cut", "Cut a release"},
	{gateway.DomainRelease, gateway.KindMutate, "publish", "Publish a cut release"},
	{gateway.DomainNexus, gateway.KindMutate, "sync", "Sync with the configured nexus"},
	{gateway.DomainNexus, gateway.KindMutate, "pull", "Pull updates from the configured nexus"},
	{gateway.DomainIssues, gateway.KindMutate, "import", "Import issues from an external tracker"},
	{gateway.DomainIssues, gateway.KindQuery, "export", "Export issues to an external tracker"},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func init() {
	groups := map[gateway.Domain]*cobra.Command{}
	for _, c := range cliOnlyCommands {
		group, ok := groups[c.domain]
		if !ok {
			group = &cobra.Command{
				Use:   string(c.domain),
				Short: capitalize(string(c.domain)) + " (delegates to the bundled cleo-engine)",
			}
			groups[c.domain] = group
			rootCmd.AddCommand(group)
		}
		op := c
		cmd := &cobra.Command{
			Use:   op.op + " [key=value...]",
			Short: op.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				params := map[string]interface{}{}
				for _, kv := range args {
					parts := strings.SplitN(kv, "=", 2)
					if len(parts) != 2 {
						continue
					}
					params[parts[0]] = parts[1]
				}
				runOp(op.kind, op.domain, op.op, params)
				return nil
			},
		}
		group.AddCommand(cmd)
	}
}
