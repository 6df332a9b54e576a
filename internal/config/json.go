package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Cloud struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		PageSize       int      `json:"page_size"`
	} `json:"cloud,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		BackupDir string `json:"backup_dir"`
		AssetDir  string `json:"asset_dir"`
	} `json:"storage,omitempty"`

	Sync struct {
		MaxRetries         int      `json:"max_retries"`
		InsertBatchSize    int      `json:"insert_batch_size"`
		BackupKeep         int      `json:"backup_keep"`
		ProbeInterval      Duration `json:"probe_interval"`
		AutoBackupInterval Duration `json:"auto_backup_interval"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Cloud: Cloud{
			BaseURL:        jsonCfg.Cloud.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Cloud.RequestTimeout),
			PageSize:       jsonCfg.Cloud.PageSize,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			BackupDir: jsonCfg.Storage.BackupDir,
			AssetDir:  jsonCfg.Storage.AssetDir,
		},
		Sync: Sync{
			MaxRetries:         jsonCfg.Sync.MaxRetries,
			InsertBatchSize:    jsonCfg.Sync.InsertBatchSize,
			BackupKeep:         jsonCfg.Sync.BackupKeep,
			ProbeInterval:      time.Duration(jsonCfg.Sync.ProbeInterval),
			AutoBackupInterval: time.Duration(jsonCfg.Sync.AutoBackupInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
