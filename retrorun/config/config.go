package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

// Pool configures job dispatch.
type Pool struct {
	// Workers is the number of worker threads; 0 means one per CPU.
	Workers int `env:"RETRORUN_WORKERS" envDefault:"0"`
	// JobTimeout is the wall-clock budget of a single job.
	JobTimeout time.Duration `env:"RETRORUN_JOB_TIMEOUT" envDefault:"30s"`
	// MaxFrames is the largest frame count a job may request.
	MaxFrames int `env:"RETRORUN_MAX_FRAMES" envDefault:"3600"`
}

// Log configures the default slog handler.
type Log struct {
	Level  string `env:"RETRORUN_LOG_LEVEL" envDefault:"info"`
	Format string `env:"RETRORUN_LOG_FORMAT" envDefault:"text"`
}

type Config struct {
	Pool Pool
	Log  Log
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Pool.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the pool settings.
func (p Pool) Validate() error {
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	if p.JobTimeout <= 0 {
		return fmt.Errorf("job timeout must be positive, got %s", p.JobTimeout)
	}
	if p.MaxFrames <= 0 {
		return fmt.Errorf("max frames must be positive, got %d", p.MaxFrames)
	}
	return nil
}

// WorkerCount resolves the number of workers to start.
func (p Pool) WorkerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}
