// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avoronov/cellarsync/models"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage local dataset snapshots",
}

var backupCreateCmd = &cobra.Command{
	Use:                "create",
	Short:              "Snapshot the local dataset",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		meta, err := a.services.Backups.Create(ctx, models.BackupManual)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		fmt.Printf("Backup %s created\n", meta.ID)
		for kind, count := range meta.PerEntityCounts {
			fmt.Printf("  %s: %d\n", kind, count)
		}

		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:                "list",
	Short:              "List stored snapshots, newest first",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		metas, err := a.services.Backups.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		if len(metas) == 0 {
			fmt.Println("No backups stored")
			return nil
		}

		for _, meta := range metas {
			total := 0
			for _, count := range meta.PerEntityCounts {
				total += count
			}
			fmt.Printf("%s  %s  %s  %d records\n",
				meta.ID,
				meta.CreatedAt.Format("2006-01-02 15:04:05"),
				meta.Reason,
				total,
			)
		}

		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Replace the local dataset with a snapshot",
	Long: `Replace the whole local dataset with the given snapshot in one
transaction. Pending sync operations are discarded: they refer to a dataset
that no longer exists after the restore.`,
	Args:               cobra.ExactArgs(1),
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		if err := a.services.Backups.Restore(ctx, args[0]); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Backup %s restored\n", args[0])
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:                "prune",
	Short:              "Delete snapshots beyond the retention count",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		deleted, err := a.services.Backups.Cleanup(ctx, keep)
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}

		fmt.Printf("Deleted %d backup(s)\n", deleted)
		return nil
	},
}

func init() {
	backupPruneCmd.Flags().Int("keep", 3, "How many newest snapshots to retain")
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd, backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}
