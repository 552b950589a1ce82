// Package config loads infracore's own process configuration: the Redis
// provider endpoint, queue lease/retry tuning, and throttle window defaults,
// all read from environment variables layered over a YAML file the same way
// the teacher's generic config reader works (kept in env.go, unmodified
// shape-wise, just no longer generic-any — Config below is the one struct
// every infracore process reads into).
package config

import "time"

// Config is the full set of values an infracore deployment's cmd/ binaries
// need at startup.
type Config struct {
	Redis struct {
		Addr      string `mapstructure:"addr"`
		Namespace string `mapstructure:"namespace"`
	} `mapstructure:"redis"`

	Queue struct {
		WorkItemTimeout time.Duration `mapstructure:"work_item_timeout"`
		MaxAttempts     int           `mapstructure:"max_attempts"`
		SweepInterval   time.Duration `mapstructure:"sweep_interval"`
		CloseGrace      time.Duration `mapstructure:"close_grace"`
	} `mapstructure:"queue"`

	Throttle struct {
		MaxHits int           `mapstructure:"max_hits"`
		Window  time.Duration `mapstructure:"window"`
	} `mapstructure:"throttle"`

	Jobs struct {
		ContinuousInterval time.Duration `mapstructure:"continuous_interval"`
		RetryInterval      time.Duration `mapstructure:"retry_interval"`
	} `mapstructure:"jobs"`
}

// Default returns the values Load and LoadFrom start from before the YAML
// file and environment overrides are applied; a missing YAML file is still
// fatal. The queue and Redis namespace values match the defaults
// queue/memory and providers/redis apply on their own; lock/throttle has no
// built-in defaults.
func Default() Config {
	var c Config
	c.Redis.Addr = "localhost:6379"
	c.Redis.Namespace = "infracore:cache:"
	c.Queue.WorkItemTimeout = time.Minute
	c.Queue.MaxAttempts = 3
	c.Queue.SweepInterval = 100 * time.Millisecond
	c.Queue.CloseGrace = 5 * time.Second
	c.Throttle.MaxHits = 100
	c.Throttle.Window = time.Minute
	c.Jobs.ContinuousInterval = 10 * time.Second
	c.Jobs.RetryInterval = 30 * time.Second
	return c
}

// Load reads Config from $APP_ENV's YAML file plus environment overrides.
func Load() Config {
	cfg := Default()
	Read(&cfg)
	return cfg
}

// LoadFrom reads Config from a specific config directory, bypassing the
// caller-relative cmd/ directory lookup Read uses.
func LoadFrom(cfgDirPath string) Config {
	cfg := Default()
	ReadWithConfigDirPath(&cfg, cfgDirPath)
	return cfg
}
