// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:                "status",
	Short:              "Show queue, connectivity, and cloud collection state",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		stats, err := a.services.QueueStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read queue stats: %w", err)
		}

		fmt.Println("Sync queue:")
		fmt.Printf("  pending:       %d\n", stats.PendingCount)
		fmt.Printf("  syncing:       %d\n", stats.SyncingCount)
		fmt.Printf("  dead-lettered: %d\n", stats.ErrorCount)
		if stats.LastEnqueuedAt != nil {
			fmt.Printf("  last enqueued: %s\n", stats.LastEnqueuedAt.Format("2006-01-02 15:04:05 MST"))
		}

		state := a.connect(ctx)
		fmt.Printf("\nCloud endpoint reachable: %v\n", state.Connected)
		if !state.Connected {
			return nil
		}

		cloud, err := a.services.CloudStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read cloud stats: %w", err)
		}

		fmt.Println("Cloud collections:")
		for kind, count := range cloud.PerEntityCounts {
			fmt.Printf("  %s: %d\n", kind, count)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
