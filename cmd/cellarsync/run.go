// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avoronov/cellarsync/models"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the replication agent until interrupted",
	Long: `Start the background replication loops: the connectivity prober and the
sync queue. Queued local mutations are pushed to the cloud whenever the
endpoint is reachable. Stop with Ctrl+C.`,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a.services.Network.SetTransport(models.TransportWired)

		a.logger.Info().Msg("replication agent started")
		a.services.Run(a.logger.WithContext(ctx))
		a.logger.Info().Msg("replication agent stopped")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
