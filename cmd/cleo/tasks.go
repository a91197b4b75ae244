package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/dateparse"
	"github.com/cleohq/cleo/internal/gateway"
	"github.com/cleohq/cleo/internal/tasktemplate"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Create, update, and query tasks",
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := cmd.Flags()
		description, _ := f.GetString("description")
		priority, _ := f.GetString("priority")
		size, _ := f.GetString("size")
		taskType, _ := f.GetString("type")
		parentID, _ := f.GetString("parent")
		phase, _ := f.GetString("phase")
		labels, _ := f.GetStringSlice("label")
		depends, _ := f.GetStringSlice("depends")
		blockedBy, _ := f.GetStringSlice("blocked-by")
		files, _ := f.GetStringSlice("file")
		acceptance, _ := f.GetStringSlice("acceptance")

		if templateName, _ := f.GetString("template"); templateName != "" {
			rawVars, _ := f.GetStringSlice("var")
			tmpl, err := loadTaskTemplate(templateName, rawVars)
			if err != nil {
				fmt.Fprintln(os.Stderr, "cleo:", err)
				os.Exit(1)
			}
			if !f.Changed("description") {
				description = tmpl.Description
			}
			if !f.Changed("priority") {
				priority = tmpl.Priority
			}
			if !f.Changed("size") {
				size = tmpl.Size
			}
			if !f.Changed("type") {
				taskType = tmpl.Type
			}
			if !f.Changed("label") {
				labels = tmpl.Labels
			}
			if !f.Changed("acceptance") {
				acceptance = tmpl.Acceptance
			}
		}

		runOp(gateway.KindMutate, gateway.DomainTasks, "add", map[string]interface{}{
			"title":       args[0],
			"description": description,
			"priority":    priority,
			"size":        size,
			"type":        taskType,
			"parentId":    parentID,
			"phase":       phase,
			"labels":      labels,
			"depends":     depends,
			"blockedBy":   blockedBy,
			"files":       files,
			"acceptance":  acceptance,
		})
	},
}

// loadTaskTemplate loads name from the templates directory and renders
// its {{key}} placeholders from rawVars, each a "key=value" pair.
func loadTaskTemplate(name string, rawVars []string) (*tasktemplate.Template, error) {
	dir, err := tasktemplate.Dir()
	if err != nil {
		return nil, err
	}
	tmpl, err := tasktemplate.Load(dir, name)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string, len(rawVars))
	for _, kv := range rawVars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q, want key=value", kv)
		}
		vars[k] = v
	}
	return tmpl.Render(vars), nil
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update one or more fields of a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := cmd.Flags()
		params := map[string]interface{}{"id": args[0]}
		if f.Changed("title") {
			v, _ := f.GetString("title")
			params["title"] = v
		}
		if f.Changed("description") {
			v, _ := f.GetString("description")
			params["description"] = v
		}
		if f.Changed("status") {
			v, _ := f.GetString("status")
			params["status"] = v
		}
		if f.Changed("priority") {
			v, _ := f.GetString("priority")
			params["priority"] = v
		}
		if f.Changed("size") {
			v, _ := f.GetString("size")
			params["size"] = v
		}
		if f.Changed("phase") {
			v, _ := f.GetString("phase")
			params["phase"] = v
		}
		if f.Changed("parent") {
			v, _ := f.GetString("parent")
			params["parentId"] = v
		}
		if f.Changed("label") {
			v, _ := f.GetStringSlice("label")
			params["labels"] = v
		}
		if f.Changed("depends") {
			v, _ := f.GetStringSlice("depends")
			params["depends"] = v
		}
		if f.Changed("blocked-by") {
			v, _ := f.GetStringSlice("blocked-by")
			params["blockedBy"] = v
		}
		if f.Changed("file") {
			v, _ := f.GetStringSlice("file")
			params["files"] = v
		}
		if f.Changed("acceptance") {
			v, _ := f.GetStringSlice("acceptance")
			params["acceptance"] = v
		}
		runOp(gateway.KindMutate, gateway.DomainTasks, "update", params)
	},
}

var tasksCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task done",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		note, _ := cmd.Flags().GetString("note")
		runOp(gateway.KindMutate, gateway.DomainTasks, "complete", map[string]interface{}{"id": args[0], "note": note})
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task, previewing impact first unless --force",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strategy, _ := cmd.Flags().GetString("strategy")
		params := map[string]interface{}{"id": args[0], "strategy": strategy}
		if dryRun {
			runOp(gateway.KindQuery, gateway.DomainTasks, "preview-delete", params)
			return
		}
		if !forceFlag {
			impactEnv := matrix.Dispatch(rootCtx, gateway.KindQuery, gateway.DomainTasks, "preview-delete", params, true)
			renderEnvelope(impactEnv)
			if !confirmCascade(impactEnv) {
				return
			}
		}
		runOp(gateway.KindMutate, gateway.DomainTasks, "delete", params)
	},
}

var tasksArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move eligible done tasks to the archive",
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days-until-archive")
		keep, _ := cmd.Flags().GetInt("preserve-recent-count")
		since, _ := cmd.Flags().GetString("since")

		params := map[string]interface{}{
			"daysUntilArchive":    days,
			"preserveRecentCount": keep,
		}
		if since != "" {
			cutoff, err := dateparse.Parse(since, time.Now())
			if err != nil {
				fmt.Fprintln(os.Stderr, "cleo:", err)
				os.Exit(1)
			}
			params["sinceCutoff"] = cutoff.Format(time.RFC3339)
		}
		runOp(gateway.KindMutate, gateway.DomainTasks, "archive", params)
	},
}

var tasksDepsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Print the project's tasks in dependency-resolved waves",
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainTasks, "deps", nil)
	},
}

var tasksTreeCmd = &cobra.Command{
	Use:   "tree <id>",
	Short: "Print a task's descendant tree",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindQuery, gateway.DomainTasks, "tree", map[string]interface{}{"id": args[0]})
	},
}

var tasksNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Suggest the next tasks to work on, highest score first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		runOp(gateway.KindQuery, gateway.DomainTasks, "next", map[string]interface{}{"limit": limit})
	},
}

var tasksFocusSetCmd = &cobra.Command{
	Use:   "focus-set <session-id> <task-id>",
	Short: "Bind a session's focus to a task",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		params := map[string]interface{}{"sessionId": args[0], "taskId": args[1]}
		if len(args) == 3 {
			params["note"] = args[2]
		}
		runOp(gateway.KindMutate, gateway.DomainTasks, "focus-set", params)
	},
}

var tasksFocusClearCmd = &cobra.Command{
	Use:   "focus-clear <session-id>",
	Short: "Clear a session's focus binding",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindMutate, gateway.DomainTasks, "focus-clear", map[string]interface{}{"sessionId": args[0]})
	},
}

var tasksFocusNoteCmd = &cobra.Command{
	Use:   "focus-note <session-id> <note>",
	Short: "Update a session's focus note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runOp(gateway.KindMutate, gateway.DomainTasks, "focus-note", map[string]interface{}{"sessionId": args[0], "note": args[1]})
	},
}

func init() {
	tasksAddCmd.Flags().String("description", "", "long-form description")
	tasksAddCmd.Flags().String("priority", "", "low, medium, high, or critical")
	tasksAddCmd.Flags().String("size", "", "small, medium, or large")
	tasksAddCmd.Flags().String("type", "", "epic, task, or subtask")
	tasksAddCmd.Flags().String("parent", "", "parent task id")
	tasksAddCmd.Flags().String("phase", "", "phase name")
	tasksAddCmd.Flags().StringSlice("label", nil, "label (repeatable)")
	tasksAddCmd.Flags().StringSlice("depends", nil, "task id this depends on (repeatable)")
	tasksAddCmd.Flags().StringSlice("blocked-by", nil, "task id blocking this one (repeatable)")
	tasksAddCmd.Flags().StringSlice("file", nil, "associated file path (repeatable)")
	tasksAddCmd.Flags().StringSlice("acceptance", nil, "acceptance criterion (repeatable)")
	tasksAddCmd.Flags().String("template", "", "load unset fields from ~/.cleo/templates/<name>.toml")
	tasksAddCmd.Flags().StringSlice("var", nil, "key=value substitution for the template's {{key}} placeholders (repeatable)")

	tasksUpdateCmd.Flags().String("title", "", "new title")
	tasksUpdateCmd.Flags().String("description", "", "new description")
	tasksUpdateCmd.Flags().String("status", "", "pending, active, blocked, done, or cancelled")
	tasksUpdateCmd.Flags().String("priority", "", "low, medium, high, or critical")
	tasksUpdateCmd.Flags().String("size", "", "small, medium, or large")
	tasksUpdateCmd.Flags().String("phase", "", "phase name")
	tasksUpdateCmd.Flags().String("parent", "", "parent task id")
	tasksUpdateCmd.Flags().StringSlice("label", nil, "replace labels (repeatable)")
	tasksUpdateCmd.Flags().StringSlice("depends", nil, "replace depends (repeatable)")
	tasksUpdateCmd.Flags().StringSlice("blocked-by", nil, "replace blockedBy (repeatable)")
	tasksUpdateCmd.Flags().StringSlice("file", nil, "replace files (repeatable)")
	tasksUpdateCmd.Flags().StringSlice("acceptance", nil, "replace acceptance (repeatable)")

	tasksCompleteCmd.Flags().String("note", "", "completion note")

	tasksDeleteCmd.Flags().String("strategy", "block", "block, cascade, or orphan")

	tasksArchiveCmd.Flags().Int("days-until-archive", 30, "minimum age in days before a done task is eligible")
	tasksArchiveCmd.Flags().Int("preserve-recent-count", 10, "always keep this many of the most recent done tasks")
	tasksArchiveCmd.Flags().String("since", "", "natural-language cutoff (e.g. \"2 weeks ago\"), overrides --days-until-archive")

	tasksNextCmd.Flags().Int("limit", 5, "max number of suggestions")

	tasksCmd.AddCommand(tasksAddCmd, tasksUpdateCmd, tasksCompleteCmd, tasksDeleteCmd, tasksArchiveCmd,
		tasksDepsCmd, tasksTreeCmd, tasksNextCmd, tasksFocusSetCmd, tasksFocusClearCmd, tasksFocusNoteCmd)
	rootCmd.AddCommand(tasksCmd)
}
