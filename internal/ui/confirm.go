package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Confirm prompts question interactively via huh and returns the
// user's answer, defaulting to defaultYes. Callers must check
// IsTerminal themselves first — outside a TTY the caller's --force
// flag is the only legal path (spec.md §4.F phase set(): "outside a
// TTY additionally require Force"), so Confirm is never reached there.
func Confirm(question string, defaultYes bool) (bool, error) {
	answer := defaultYes
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("ui: confirm prompt: %w", err)
	}
	return answer, nil
}

// ConfirmPhaseRollback prompts before rolling a project back to an
// earlier phase (spec.md §4.F phase set() rollback path).
func ConfirmPhaseRollback(from, to string) (bool, error) {
	return Confirm(fmt.Sprintf("Roll back from phase %q to %q? In-progress work in %q will reopen.", from, to, from), false)
}

// ConfirmCascadeDelete prompts before a cascade delete, summarizing
// the impact (spec.md §4.F delete(): "Always offered in --dry-run with
// an impact report").
func ConfirmCascadeDelete(wouldDelete []string) (bool, error) {
	return Confirm(fmt.Sprintf("Delete %d task(s), including all descendants?", len(wouldDelete)), false)
}
