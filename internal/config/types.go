package config

import "path/filepath"

// DefaultPath is where commands look for the config file when -config
// is not given.
const DefaultPath = "runsolo.yaml"

// Config holds the fixed filesystem paths the guard operates on and the
// collector invocation it launches. Paths left empty are derived from
// WorkDir by ApplyDefaults.
type Config struct {
	// WorkDir is the base directory for all derived paths.
	WorkDir string `yaml:"work_dir,omitempty"`

	// LockPath is the lock marker whose existence means "a run is in
	// progress".
	LockPath string `yaml:"lock_path,omitempty"`

	// LogPath is the append-only run log: lifecycle markers plus the
	// collector's own output.
	LogPath string `yaml:"log_path,omitempty"`

	// StateDir holds the latest run state and the bounded run history.
	StateDir string `yaml:"state_dir,omitempty"`

	Collector CollectorConfig `yaml:"collector"`
}

// CollectorConfig describes how to launch the external collection
// program. The program itself is opaque to runsolo.
type CollectorConfig struct {
	Interpreter string   `yaml:"interpreter"`
	Script      string   `yaml:"script"`
	Args        []string `yaml:"args,omitempty"`
	Env         []string `yaml:"env,omitempty"`
	Dir         string   `yaml:"dir,omitempty"`
}

// ApplyDefaults fills unset paths relative to WorkDir.
func (c *Config) ApplyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.LockPath == "" {
		c.LockPath = filepath.Join(c.WorkDir, ".collector_lock")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.WorkDir, "collector.log")
	}
	if c.StateDir == "" {
		c.StateDir = filepath.Join(c.WorkDir, ".runsolo")
	}
	if c.Collector.Dir == "" {
		c.Collector.Dir = c.WorkDir
	}
}
