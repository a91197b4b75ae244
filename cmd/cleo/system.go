package main

import (
	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/gateway"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Sequence, backup, verification gate, and lock diagnostics",
}

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Inspect and repair the id sequence counter",
}

var sequenceShowCmd = &cobra.Command{
	Use: "show",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainSystem, "sequence-show", nil)
	},
}

var sequenceCheckCmd = &cobra.Command{
	Use: "check",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainSystem, "sequence-check", nil)
	},
}

var sequenceRepairCmd = &cobra.Command{
	Use: "repair",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindMutate, gateway.DomainSystem, "sequence-repair", nil)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report on project state-directory health",
	Run:   func(cmd *cobra.Command, args []string) { runOp(gateway.KindQuery, gateway.DomainSystem, "doctor", nil) },
}

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Snapshot the project's current state",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindMutate, gateway.DomainSystem, "checkpoint", nil)
	},
}

var checkpointListCmd = &cobra.Command{
	Use:   "checkpoint-list",
	Short: "List available snapshots",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainSystem, "checkpoint-list", nil)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a file from the backup ring or a named snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		source, _ := cmd.Flags().GetString("source")
		target, _ := cmd.Flags().GetString("target")
		ringEntry, _ := cmd.Flags().GetInt("ring-entry")
		snapshot, _ := cmd.Flags().GetString("snapshot")
		runOp(gateway.KindMutate, gateway.DomainSystem, "restore", map[string]interface{}{
			"source": source, "target": target, "ringEntry": ringEntry, "snapshot": snapshot,
		})
	},
}

var gateSetCmd = &cobra.Command{
	Use:   "gate-set <id> <gate>",
	Short: "Set a verification gate on a task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		agent, _ := cmd.Flags().GetString("agent")
		value, _ := cmd.Flags().GetBool("value")
		round, _ := cmd.Flags().GetInt("round")
		runOp(gateway.KindMutate, gateway.DomainSystem, "gate-set", map[string]interface{}{
			"id": args[0], "gate": args[1], "agent": agent, "value": value, "round": round,
		})
	},
}

var gateStatusCmd = &cobra.Command{
	Use:   "gate-status <id>",
	Short: "Print a task's verification gate status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainSystem, "gate-status", map[string]interface{}{"id": args[0]})
	},
}

var contextLocksCmd = &cobra.Command{
	Use:   "context-locks",
	Short: "Scan for stale or foreign advisory locks",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainSystem, "context-locks", nil)
	},
}

func init() {
	gateSetCmd.Flags().Bool("value", true, "gate pass/fail value")
	gateSetCmd.Flags().String("agent", "", "agent id setting the gate")
	gateSetCmd.Flags().Int("round", 0, "verification round")

	restoreCmd.Flags().String("source", "ring", "ring or snapshot")
	restoreCmd.Flags().String("target", "", "file name to restore (ring mode)")
	restoreCmd.Flags().Int("ring-entry", 0, "ring entry index (ring mode)")
	restoreCmd.Flags().String("snapshot", "", "snapshot name (snapshot mode)")

	sequenceCmd.AddCommand(sequenceShowCmd, sequenceCheckCmd, sequenceRepairCmd)
	systemCmd.AddCommand(sequenceCmd, doctorCmd, checkpointCmd, checkpointListCmd, restoreCmd,
		gateSetCmd, gateStatusCmd, contextLocksCmd)
	rootCmd.AddCommand(systemCmd)
}
