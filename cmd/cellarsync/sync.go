// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push queued local mutations to the cloud once",
	Long: `Run one synchronous queue pass: probe the cloud endpoint and, if it is
reachable, apply every pending operation in enqueue order. Operations that
keep failing are retried on later passes or parked as dead letters.`,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		state := a.connect(ctx)
		if !state.Connected {
			return fmt.Errorf("cloud endpoint is not reachable")
		}

		if err := a.services.ForceSyncNow(ctx); err != nil {
			return fmt.Errorf("sync pass failed: %w", err)
		}

		stats, err := a.services.QueueStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read queue stats: %w", err)
		}

		fmt.Printf("Pending: %d\n", stats.PendingCount)
		fmt.Printf("Dead-lettered: %d\n", stats.ErrorCount)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
