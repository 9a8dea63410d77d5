// Package config provides configuration management for the datastore daemon.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like ADMIN_SOCKET_PATH, SERVER_PORT)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Admin  AdminConfig  `mapstructure:"admin"`
	Txn    TxnConfig    `mapstructure:"txn"`
	Log    LogConfig    `mapstructure:"log"`
	Worker WorkerConfig `mapstructure:"worker"`
}

// ServerConfig contains the read-only introspection HTTP listener settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AdminConfig contains the textual command surface settings.
type AdminConfig struct {
	SocketPath  string        `mapstructure:"socket_path"`
	TCPAddr     string        `mapstructure:"tcp_addr"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// TxnConfig contains transaction state-machine tunables.
type TxnConfig struct {
	AutoCommitRetryBound int  `mapstructure:"auto_commit_retry_bound"`
	DryRunEnabled        bool `mapstructure:"dry_run_enabled"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// WorkerConfig contains worker pool settings.
//
// DispatchPoolSize is always 1: the command surface is single-threaded
// cooperative (spec §5) and every admitted command is serialized through
// one ants worker so only one do_update call ever runs at a time.
type WorkerConfig struct {
	DispatchPoolSize    int `mapstructure:"dispatch_pool_size"`
	PropagationPoolSize int `mapstructure:"propagation_pool_size"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lagopus-datastore")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Admin.SocketPath == "" && c.Admin.TCPAddr == "" {
		return fmt.Errorf("admin.socket_path or admin.tcp_addr must be set")
	}
	if c.Worker.DispatchPoolSize != 1 {
		return fmt.Errorf("worker.dispatch_pool_size must be 1 (single-threaded cooperative model)")
	}
	if c.Txn.AutoCommitRetryBound < 1 {
		return fmt.Errorf("txn.auto_commit_retry_bound must be at least 1")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server (read-only introspection HTTP mirror)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Admin (textual command surface)
	v.SetDefault("admin.socket_path", "/var/run/lagopus/datastore.sock")
	v.SetDefault("admin.tcp_addr", "")
	v.SetDefault("admin.dial_timeout", "5s")

	// Txn
	v.SetDefault("txn.auto_commit_retry_bound", 3)
	v.SetDefault("txn.dry_run_enabled", true)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Worker Pool
	v.SetDefault("worker.dispatch_pool_size", 1)
	v.SetDefault("worker.propagation_pool_size", 4)
}
