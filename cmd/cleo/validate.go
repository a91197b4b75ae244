package main

import (
	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/gateway"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check structural invariants and repair violations",
}

var validateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "List invariant violations across todo and archive",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainValidate, "check", nil)
	},
}

var validateRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Apply the repair plan, or preview it with --dry-run",
	Run: func(cmd *cobra.Command, args []string) {
		if dryRun {
			runOp(gateway.KindQuery, gateway.DomainValidate, "plan-repair", nil)
			return
		}
		runOp(gateway.KindMutate, gateway.DomainValidate, "repair", nil)
	},
}

func init() {
	validateCmd.AddCommand(validateCheckCmd, validateRepairCmd)
	rootCmd.AddCommand(validateCmd)
}
