package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("ADMIN_SOCKET_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}

	if cfg.Admin.SocketPath != "/var/run/lagopus/datastore.sock" {
		t.Errorf("Admin.SocketPath = %q, want default socket path", cfg.Admin.SocketPath)
	}
	if cfg.Admin.DialTimeout != 5*time.Second {
		t.Errorf("Admin.DialTimeout = %v, want 5s", cfg.Admin.DialTimeout)
	}

	if cfg.Txn.AutoCommitRetryBound != 3 {
		t.Errorf("Txn.AutoCommitRetryBound = %d, want 3", cfg.Txn.AutoCommitRetryBound)
	}
	if !cfg.Txn.DryRunEnabled {
		t.Errorf("Txn.DryRunEnabled = %v, want true", cfg.Txn.DryRunEnabled)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}

	if cfg.Worker.DispatchPoolSize != 1 {
		t.Errorf("Worker.DispatchPoolSize = %d, want 1", cfg.Worker.DispatchPoolSize)
	}
	if cfg.Worker.PropagationPoolSize != 4 {
		t.Errorf("Worker.PropagationPoolSize = %d, want 4", cfg.Worker.PropagationPoolSize)
	}
}

func TestLoad_AdminSocketFromEnv(t *testing.T) {
	t.Setenv("ADMIN_SOCKET_PATH", "/tmp/custom.sock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Admin.SocketPath != "/tmp/custom.sock" {
		t.Fatalf("Admin.SocketPath = %q, want /tmp/custom.sock", cfg.Admin.SocketPath)
	}
}

func TestValidate_RejectsMissingAdminSurface(t *testing.T) {
	cfg := &Config{Worker: WorkerConfig{DispatchPoolSize: 1}, Txn: TxnConfig{AutoCommitRetryBound: 3}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() expected error when neither admin socket nor tcp addr is set")
	}
}

func TestValidate_RejectsNonSingleDispatchPool(t *testing.T) {
	cfg := &Config{
		Admin:  AdminConfig{SocketPath: "/tmp/x.sock"},
		Worker: WorkerConfig{DispatchPoolSize: 2},
		Txn:    TxnConfig{AutoCommitRetryBound: 3},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() expected error for dispatch pool size != 1")
	}
}

func TestValidate_RejectsZeroRetryBound(t *testing.T) {
	cfg := &Config{
		Admin:  AdminConfig{SocketPath: "/tmp/x.sock"},
		Worker: WorkerConfig{DispatchPoolSize: 1},
		Txn:    TxnConfig{AutoCommitRetryBound: 0},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() expected error for zero retry bound")
	}
}
