package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleohq/cleo/internal/storage"
	"github.com/cleohq/cleo/internal/storage/migrate"
	"github.com/cleohq/cleo/internal/upgrade"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Run pre-flight storage/schema upgrades (idempotent)",
	Long: `upgrade detects a storage engine that was never explicitly
chosen, a stale document schema version, a checksum mismatch, or a
missing completedAt/size field, and repairs all of them in one pass.
Run with --dry-run to preview the action list without applying it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := cmd.Flags().GetString("root")
		if err != nil || root == "" {
			root = layout.Root
		}
		result, err := upgrade.Run(rootCtx, root, layout, store, dryRun)
		if err != nil {
			return err
		}
		if format == "human" {
			if len(result.Actions) == 0 {
				fmt.Println("up to date, nothing to do")
			} else {
				for _, a := range result.Actions {
					fmt.Printf("[%s] %s: %s\n", a.Status, a.Code, a.Description)
				}
			}
			return nil
		}
		printJSON(result)
		return nil
	},
}

var migrateStorageCmd = &cobra.Command{
	Use:   "migrate-storage <target>",
	Short: "Migrate all aggregates to a different storage engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := storage.Engine(args[0])
		dst, err := storage.New(storage.Config{Engine: target, Root: layout.Root})
		if err != nil {
			return err
		}
		defer dst.Close()

		result, err := migrate.Migrate(rootCtx, store, dst)
		if err != nil {
			return err
		}
		if format == "human" {
			fmt.Printf("migrated %d task(s), %d archived, %d session(s) to %s (checksum match: %v)\n",
				result.TasksMigrated, result.ArchivedMigrated, result.SessionsMigrated, target, result.ChecksumMatch)
			return nil
		}
		printJSON(result)
		return nil
	},
}

func init() {
	upgradeCmd.Flags().String("root", "", "project root (defaults to the resolved project root)")
	rootCmd.AddCommand(upgradeCmd, migrateStorageCmd)
}
