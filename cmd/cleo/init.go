package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/config"
	"github.com/cleohq/cleo/internal/paths"
	"github.com/cleohq/cleo/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a .cleo/ project in the current directory",
	Long: `Initialize creates the .cleo/ state directory and its empty
aggregate documents (todo, archive, sessions, sequence), and writes a
default config.json. Safe to re-run on an already-initialized project.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engineName, _ := cmd.Flags().GetString("engine")

		root, err := os.Getwd()
		if err != nil {
			return err
		}
		if existing := paths.FindProjectRoot(root); existing != "" && !forceFlag {
			fmt.Printf("cleo: project already initialized at %s\n", existing)
			return nil
		}

		l := paths.NewLayout(root)
		if err := os.MkdirAll(l.StateDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", l.StateDir, err)
		}

		if err := config.Initialize(root); err != nil {
			return err
		}
		if engineName != "" {
			config.Set("storage.engine", engineName)
		}
		if err := config.WriteConfigFile(l.ConfigFile); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		engine := storage.Engine(config.GetString("storage.engine"))
		store, err := storage.New(storage.Config{Engine: engine, Root: root})
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := rootCtx
		if _, err := store.LoadTodo(ctx); err != nil {
			return err
		}
		if _, err := store.LoadArchive(ctx); err != nil {
			return err
		}
		if _, err := store.LoadSessions(ctx); err != nil {
			return err
		}
		if _, err := store.LoadSequence(ctx); err != nil {
			return err
		}

		if !quiet {
			fmt.Printf("Initialized cleo project in %s (engine: %s)\n", l.StateDir, engine)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().String("engine", "", "storage engine to use: json or sqlite (default: json)")
	rootCmd.AddCommand(initCmd)
}
