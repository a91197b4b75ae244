// Command cleo is the CLI front end for spec.md's gateway: it resolves
// the project root and storage engine, wires a gateway.Matrix, and
// dispatches each subcommand's (kind, domain, operation) through it,
// rendering the resulting envelope as JSON, YAML, or a human table.
//
// Grounded on the deleted cmd/bd's root command wiring (global flags,
// a package-level store/ctx/jsonOutput trio every subcommand reads)
// and cmd/bd/close.go's FatalErrorRespectJSON dual-output pattern,
// generalized from per-command ad hoc output to one envelope-rendering
// path every subcommand shares through runOp.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/config"
	"github.com/cleohq/cleo/internal/diagnostics"
	"github.com/cleohq/cleo/internal/gateway"
	"github.com/cleohq/cleo/internal/model"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/schema"
	"github.com/cleohq/cleo/internal/storage"
	_ "github.com/cleohq/cleo/internal/storage/jsonstore"
	_ "github.com/cleohq/cleo/internal/storage/sqlstore"
	"github.com/cleohq/cleo/internal/ui"
)

var (
	rootCtx = context.Background()

	layout paths.Layout
	store  storage.Accessor
	matrix *gateway.Matrix
	runner *gateway.CLIRunner

	format    string
	quiet     bool
	dryRun    bool
	verbose   bool
	forceFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "cleo",
	Short:         "Project-local task management for AI coding agents",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		root := paths.FindProjectRoot(".")
		if root == "" {
			return fmt.Errorf("cleo: no %s project found (run 'cleo init' first)", paths.MarkerDir)
		}
		if err := config.Initialize(root); err != nil {
			return err
		}
		layout = paths.NewLayout(root)
		diagPath := ""
		if verbose {
			diagPath = layout.DiagnosticsLog
		}
		diagnostics.Init(diagPath, verbose)

		engine := storage.Engine(config.GetString("storage.engine"))
		var err error
		store, err = storage.New(storage.Config{Engine: engine, Root: root})
		if err != nil {
			return err
		}

		runner = gateway.NewCLIRunner()
		matrix = gateway.NewDefaultMatrix(store, layout, runner)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&format, "format", "human", "output format: human, json, or yaml")
	rootCmd.PersistentFlags().Bool("json", false, "shorthand for --format json")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "preview the operation without applying it")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print extra diagnostic detail")
	rootCmd.PersistentFlags().BoolVarP(&forceFlag, "force", "f", false, "bypass confirmation prompts and soft guards")

	cobra.OnInitialize(func() {
		if asJSON, _ := rootCmd.PersistentFlags().GetBool("json"); asJSON {
			format = string(ui.FormatJSON)
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runOp dispatches (kind, domain, operation) with params, renders the
// envelope per --format, and exits with the envelope's mapped exit
// code (spec.md §4.J: "the process exit code mirrors the envelope").
func runOp(kind gateway.Kind, domain gateway.Domain, operation string, params interface{}) {
	env := matrix.Dispatch(rootCtx, kind, domain, operation, params, true)
	errCode := ""
	if !env.Success && env.Error != nil {
		errCode = env.Error.Name
	}
	diagnostics.Operation(rootCtx, string(domain), operation, env.Meta.DurationMS, env.Success, errCode)
	renderEnvelope(env)
	os.Exit(env.ExitCode())
}

func renderEnvelope(env gateway.Envelope) {
	switch ui.Format(format) {
	case ui.FormatJSON:
		printJSON(env)
	case ui.FormatYAML:
		out, err := ui.RenderYAML(env)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Print(out)
	default:
		renderHuman(env)
	}
}

func renderHuman(env gateway.Envelope) {
	if !env.Success {
		fmt.Fprintf(os.Stderr, "error: %s\n", env.Error.Message)
		if env.Error.Fix != "" {
			fmt.Fprintf(os.Stderr, "fix: %s\n", env.Error.Fix)
		}
		return
	}
	if quiet {
		return
	}
	if env.Message != "" {
		fmt.Println(env.Message)
	}
	if env.Data != nil {
		renderData(env.Data)
	}
	if verbose {
		fmt.Printf("(%s.%s, %dms)\n", env.Meta.Domain, env.Meta.Operation, env.Meta.DurationMS)
	}
}

// renderData prints a query/mutate result in --format human, dispatching
// to internal/ui's dedicated renderers for the shapes they know and
// falling back to indented JSON for everything else. Most read-only
// handlers carry their payload entirely in Data with an empty Message,
// so without this every "show"/"list"/"check" command would print
// nothing at all under the default format.
func renderData(data interface{}) {
	switch v := data.(type) {
	case []*model.Task:
		fmt.Println(ui.RenderTaskTable(v))
	case []schema.Finding:
		fmt.Println(ui.RenderFindings(v))
	case []schema.Violation:
		fmt.Println(ui.RenderViolations(v))
	case *schema.RepairPlan:
		out, err := ui.RenderRepairPlan(v)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Println(out)
	default:
		printJSON(data)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
