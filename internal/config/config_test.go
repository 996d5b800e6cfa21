package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DatabasePath == "" {
		t.Error("expected a default database path")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{DatabasePath: "./data/valyxo.db", Port: 8080},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{Port: 8080},
			wantErr: true,
		},
		{
			name:    "invalid port",
			cfg:     Config{DatabasePath: "./data/valyxo.db", Port: 0},
			wantErr: true,
		},
		{
			name:    "port out of range",
			cfg:     Config{DatabasePath: "./data/valyxo.db", Port: 70000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("COMPANY_IDS", "acme, globex ,,initech")

	got := getEnvAsList("COMPANY_IDS")
	want := []string{"acme", "globex", "initech"}

	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
