package main

import (
	"fmt"
	"os"

	"github.com/cleohq/cleo/internal/gateway"
	"github.com/cleohq/cleo/internal/mutate"
	"github.com/cleohq/cleo/internal/ui"
)

// confirmCascade asks the operator to confirm a destructive delete
// after its impact preview has already been rendered. Outside a TTY,
// --force is the only legal path (spec.md §4.F), so this always
// refuses there rather than prompting.
func confirmCascade(impactEnv gateway.Envelope) bool {
	if !impactEnv.Success {
		return false
	}
	impact, ok := impactEnv.Data.(*mutate.DeleteImpact)
	if !ok {
		return false
	}
	if !ui.IsTerminal() {
		fmt.Fprintln(os.Stderr, "cleo: refusing to delete without --force outside a terminal")
		return false
	}
	ok, err := ui.ConfirmCascadeDelete(impact.WouldDelete)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return ok
}

// confirmPhaseRollback asks the operator to confirm rolling a project
// back to an earlier phase. Outside a TTY, --force is required.
func confirmPhaseRollback(from, to string) bool {
	if !ui.IsTerminal() {
		fmt.Fprintln(os.Stderr, "cleo: refusing phase rollback without --force outside a terminal")
		return false
	}
	ok, err := ui.ConfirmPhaseRollback(from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return ok
}
