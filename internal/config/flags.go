package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-cloud-url cloud store base URL
//	-d local database file path
//	-backup-dir backup snapshot directory
//	-asset-dir local asset cache directory
//	-c/-config json file path with configs
//	-max-retries retry bound before dead-lettering a queued operation
//	-page-size cloud listing page size
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-probe-interval connectivity probe interval (e.g., "15s")
func ParseFlags() *StructuredConfig {
	var cloudURL string
	var databaseDSN string
	var backupDir string
	var assetDir string
	var jsonConfigPath string
	var maxRetries int
	var pageSize int
	var requestTimeout time.Duration
	var probeInterval time.Duration
	var autoBackupInterval time.Duration

	flag.StringVar(&cloudURL, "cloud-url", "", "Cloud store base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&backupDir, "backup-dir", "", "Backup snapshot directory")
	flag.StringVar(&assetDir, "asset-dir", "", "Asset cache directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&maxRetries, "max-retries", 0, "Max retries before dead-letter")
	flag.IntVar(&pageSize, "page-size", 0, "Cloud listing page size")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval (e.g., 15s)")
	flag.DurationVar(&autoBackupInterval, "auto-backup-interval", 0, "Automatic backup interval (e.g., 24h)")

	flag.Parse()

	return &StructuredConfig{
		Cloud: Cloud{
			BaseURL:        cloudURL,
			RequestTimeout: requestTimeout,
			PageSize:       pageSize,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			BackupDir: backupDir,
			AssetDir:  assetDir,
		},
		Sync: Sync{
			MaxRetries:         maxRetries,
			ProbeInterval:      probeInterval,
			AutoBackupInterval: autoBackupInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
