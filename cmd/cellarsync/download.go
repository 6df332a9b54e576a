// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avoronov/cellarsync/models"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Restore the full cloud dataset onto this device",
	Long: `Fetch every cloud collection and write it to the local database in one
transaction. A backup of the current local dataset is taken first whenever
the restore can destroy data.

Conflict strategies:
  replace_all    drop local state, keep every cloud record (default)
  keep_local     keep local state; only fills an empty database
  merge_by_date  per record, the copy with the later update wins

Ctrl+C before the commit rolls the restore back completely.`,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		strategyName, _ := cmd.Flags().GetString("strategy")
		strategy := models.ConflictStrategy(strategyName)

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		ctx = a.logger.WithContext(ctx)

		if state := a.connect(ctx); !state.Connected {
			return fmt.Errorf("cloud endpoint is not reachable")
		}

		result, err := a.services.DownloadFromCloud(ctx, strategy, printProgress)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}

		fmt.Println("\nDownload complete:")
		for kind, count := range result.Inserted {
			fmt.Printf("  %s: %d\n", kind, count)
		}
		if result.SkippedOrphans > 0 {
			fmt.Printf("  orphans skipped: %d\n", result.SkippedOrphans)
		}
		if result.ImagesDone+result.ImagesFailed > 0 {
			fmt.Printf("  images: %d cached, %d failed\n", result.ImagesDone, result.ImagesFailed)
		}
		if result.BackupID != "" {
			fmt.Printf("  pre-download backup: %s\n", result.BackupID)
		}

		return nil
	},
}

func printProgress(p models.DownloadProgress) {
	switch p.Phase {
	case models.PhaseBackingUp:
		fmt.Println("Backing up local dataset...")
	case models.PhaseFetching:
		if p.FetchingKind != "" {
			fmt.Printf("\rFetching %s: %d", p.FetchingKind, p.Done[p.FetchingKind])
		}
	case models.PhaseValidating:
		fmt.Println("\nValidating...")
	case models.PhaseInserting:
		total, done := 0, 0
		for kind, n := range p.Totals {
			total += n
			done += p.Done[kind]
		}
		fmt.Printf("\rInserting: %d/%d", done, total)
	case models.PhaseDownloadingImages:
		fmt.Printf("\rCaching images: %d/%d", p.DoneImages, p.TotalImages)
	}
}

func init() {
	downloadCmd.Flags().StringP("strategy", "s", string(models.StrategyReplaceAll),
		"Conflict strategy: replace_all, keep_local, or merge_by_date")
	rootCmd.AddCommand(downloadCmd)
}
