// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.BackupDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Cloud.BaseURL == "" {
		return ErrInvalidCloudConfigs
	}

	return nil
}
