package main

import (
	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/gateway"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Start, resume, and manage work sessions",
}

var sessionsStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a new session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		scope, _ := cmd.Flags().GetString("scope")
		agent, _ := cmd.Flags().GetString("agent")
		runOp(gateway.KindMutate, gateway.DomainSessions, "start", map[string]interface{}{
			"id": args[0], "name": name, "scope": scope, "agent": agent,
		})
	},
}

var sessionsEndCmd = &cobra.Command{
	Use:   "end <id>",
	Short: "End a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		note, _ := cmd.Flags().GetString("note")
		runOp(gateway.KindMutate, gateway.DomainSessions, "end", map[string]interface{}{"id": args[0], "note": note})
	},
}

var sessionsResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Resume an ended or orphaned session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindMutate, gateway.DomainSessions, "resume", map[string]interface{}{"id": args[0]})
	},
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainSessions, "list", nil)
	},
}

var sessionsGCCmd = &cobra.Command{
	Use:   "gc",
	Short: "Mark sessions orphaned whose owning process no longer exists",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindMutate, gateway.DomainSessions, "gc", nil)
	},
}

func init() {
	sessionsStartCmd.Flags().String("name", "", "session name")
	sessionsStartCmd.Flags().String("scope", "", "global or epic:<id>")
	sessionsStartCmd.Flags().String("agent", "", "agent identifier")
	sessionsEndCmd.Flags().String("note", "", "end-of-session note")

	sessionsCmd.AddCommand(sessionsStartCmd, sessionsEndCmd, sessionsResumeCmd, sessionsListCmd, sessionsGCCmd)
	rootCmd.AddCommand(sessionsCmd)
}
