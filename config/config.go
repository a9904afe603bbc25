package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for drvx.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Mount   MountConfig   `yaml:"mount"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig holds walker defaults.
type ScanConfig struct {
	MaxDepth int      `yaml:"max_depth"`
	Pattern  string   `yaml:"pattern"` // glob on file base names, "*" for all
	Filter   string   `yaml:"filter"`  // extension, e.g. ".txt"
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// MountConfig holds mount table and mount command settings.
type MountConfig struct {
	MountsFile       string   `yaml:"mounts_file"` // mountinfo format; empty reads /proc/self/mountinfo
	SysBlockDir      string   `yaml:"sys_block_dir"`
	MountBase        string   `yaml:"mount_base"` // auto-mounts go to <mount_base>/drvx-<dev>
	UseSudo          bool     `yaml:"use_sudo"`
	ExcludeFsTypes   []string `yaml:"exclude_fs_types"`
	SkipDevicePrefix []string `yaml:"skip_device_prefix"`
}

// HistoryConfig controls the scan history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default is <data dir>/history.db
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			MaxDepth: 20,
			Pattern:  "*",
		},
		Mount: MountConfig{
			SysBlockDir: "/sys/block",
			MountBase:   "/mnt",
			UseSudo:     true,
			ExcludeFsTypes: []string{
				"proc", "sysfs", "devtmpfs", "devpts", "tmpfs", "cgroup", "overlay", "squashfs",
				"fusectl", "securityfs", "pstore", "efivarfs", "debugfs", "tracefs", "configfs", "ramfs",
			},
			SkipDevicePrefix: []string{"loop", "ram", "zram"},
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for drvx.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "drvx.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".drvx", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExcludedFsTypes returns the excluded filesystem types as a set.
func (m MountConfig) ExcludedFsTypes() map[string]bool {
	set := make(map[string]bool, len(m.ExcludeFsTypes))
	for _, t := range m.ExcludeFsTypes {
		set[t] = true
	}
	return set
}

// DataDir returns the directory drvx keeps its state in. It honours
// $XDG_STATE_HOME and falls back to ~/.drvx.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "drvx"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".drvx"), nil
}

// HistoryDBPath returns the path to the history database.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// EnsureDir ensures the parent directory of path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
