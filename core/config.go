package core

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Config struct {
	ListenAddr        string `json:"listen_addr"`
	DataDir           string `json:"data_dir"`
	Source            string `json:"source"` // "system" or "wireguard"
	Interface         string `json:"interface"`
	SampleIntervalSec int    `json:"sample_interval_sec"`
	FlushIntervalSec  int    `json:"flush_interval_sec"`
	RetentionDays     int    `json:"retention_days"`
	APIKey            string `json:"api_key"`
	ConfigPath        string `json:"-"`
}

func LoadConfig(path ...string) *Config {
	home, _ := os.UserHomeDir()
	cfg := &Config{
		ListenAddr:        "127.0.0.1:8321",
		DataDir:           filepath.Join(home, "NetSpeedData"),
		Source:            "system",
		Interface:         "",
		SampleIntervalSec: 1,
		FlushIntervalSec:  30,
		RetentionDays:     365,
		APIKey:            "",
	}

	configPath := "config.json"
	if len(path) > 0 && path[0] != "" {
		configPath = path[0]
	}
	cfg.ConfigPath = configPath

	f, err := os.Open(configPath)
	if err == nil {
		defer f.Close()
		json.NewDecoder(f).Decode(cfg)
	}

	// Environment wins over the file.
	if v := os.Getenv("NETKIT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("NETKIT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("NETKIT_IFACE"); v != "" {
		cfg.Interface = v
	}
	if v := os.Getenv("NETKIT_API_KEY"); v != "" {
		cfg.APIKey = v
	}

	return cfg
}

func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}

func (c *Config) UsageFile() string {
	return filepath.Join(c.DataDir, "usage.json")
}

func (c *Config) ArchiveFile() string {
	return filepath.Join(c.DataDir, "archive.db")
}
