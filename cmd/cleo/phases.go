package main

import (
	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/gateway"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/ui"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Inspect and advance a project's phase",
}

var phasesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project's phase map and current phase",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainPhases, "show", nil)
	},
}

var phasesSetCmd = &cobra.Command{
	Use:   "set <phase>",
	Short: "Advance or roll back the project's current phase",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rollback, _ := cmd.Flags().GetBool("rollback")
		reason, _ := cmd.Flags().GetString("reason")
		force := forceFlag

		// Outside a terminal there's no one to prompt: fall straight
		// through to dispatch so PhaseSet's own force-check surfaces
		// PHASE_ROLLBACK_REQUIRES_FORCE with the right exit code,
		// instead of this command exiting 0 with nothing printed.
		if rollback && !force && ui.IsTerminal() {
			env := matrix.Dispatch(rootCtx, gateway.KindQuery, gateway.DomainPhases, "show", nil, true)
			from := ""
			if project, ok := env.Data.(model.ProjectMeta); ok {
				from = project.CurrentPhase
			}
			if !confirmPhaseRollback(from, args[0]) {
				return
			}
			force = true
		}

		runOp(gateway.KindMutate, gateway.DomainPhases, "set", map[string]interface{}{
			"target": args[0], "rollback": rollback, "force": force, "reason": reason,
		})
	},
}

func init() {
	phasesSetCmd.Flags().Bool("rollback", false, "roll back to an earlier phase instead of advancing")
	phasesSetCmd.Flags().String("reason", "", "reason recorded in the phase history")

	phasesCmd.AddCommand(phasesShowCmd, phasesSetCmd)
	rootCmd.AddCommand(phasesCmd)
}
