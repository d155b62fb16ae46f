package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/martinsuchenak/topogen/internal/storage"
	"github.com/martinsuchenak/topogen/internal/topology"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Driver != storage.DriverSQLite {
		t.Errorf("Expected driver sqlite, got %s", cfg.Driver)
	}
	if cfg.BatchSize != 100 {
		t.Errorf("Expected batch size 100, got %d", cfg.BatchSize)
	}
	if cfg.Nodes != 2028 || cfg.Elements != 0 || cfg.Links != 0 {
		t.Errorf("Unexpected counts %d/%d/%d", cfg.Nodes, cfg.Elements, cfg.Links)
	}
	if cfg.Seed != topology.DefaultSeed {
		t.Errorf("Expected seed 42, got %d", cfg.Seed)
	}
	if cfg.String() != "flags and environment" {
		t.Errorf("Unexpected source %q", cfg.String())
	}
	if !strings.Contains(cfg.DataSource(), filepath.Join("data", "topology.db")) {
		t.Errorf("Unexpected DSN %q", cfg.DataSource())
	}
}

func TestLoad_ProfileThenFlags(t *testing.T) {
	profile := writeProfile(t, `
nodes: 50
elements: 40
links: 100
batch_size: 25
seed: 7
delete_existing: true
`)

	cfg, err := Load(&Config{Nodes: 60, Links: 10}, profile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Nodes != 60 {
		t.Errorf("Expected flag to win for nodes, got %d", cfg.Nodes)
	}
	if cfg.Elements != 40 {
		t.Errorf("Expected profile elements 40, got %d", cfg.Elements)
	}
	if cfg.Links != 10 {
		t.Errorf("Expected flag links 10, got %d", cfg.Links)
	}
	if cfg.BatchSize != 25 || cfg.Seed != 7 || !cfg.DeleteExisting {
		t.Errorf("Profile values not applied: %+v", cfg)
	}
	if cfg.ConfigFile != profile {
		t.Errorf("Expected ConfigFile %s, got %s", profile, cfg.ConfigFile)
	}

	s := cfg.Settings()
	if s.Nodes != 60 || s.Elements != 40 || s.Links != 10 || s.Seed != 7 {
		t.Errorf("Unexpected settings %+v", s)
	}
}

func TestLoad_PostgresDefaultDSN(t *testing.T) {
	cfg, err := Load(&Config{Driver: "POSTGRES"}, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataSource() != DefaultPostgresDSN {
		t.Errorf("Expected default DSN, got %s", cfg.DataSource())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts *Config
	}{
		{"unknown driver", &Config{Driver: "oracle"}},
		{"negative batch size", &Config{BatchSize: -1}},
		{"bad pushgateway", &Config{Pushgateway: "not a url"}},
		{"negative watermark", &Config{Watermark: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts, "")
			if err == nil {
				t.Fatal("Expected error")
			}
			if !IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
			if !errors.Is(err, topology.ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
			var cerr *topology.ConfigurationError
			if !errors.As(err, &cerr) || len(cerr.Problems) != 1 {
				t.Errorf("Expected one problem, got %v", err)
			}
		})
	}
}

func TestLoad_BadProfile(t *testing.T) {
	if _, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing profile")
	}

	profile := writeProfile(t, "nodes: [1, 2")
	if _, err := Load(nil, profile); err == nil {
		t.Error("Expected error for malformed profile")
	}
}

func TestStorageOptions(t *testing.T) {
	cfg, err := Load(&Config{BatchSize: 10, Watermark: 99, LegacyLinkColumns: true}, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	opts := cfg.StorageOptions()
	if opts.BatchSize != 10 || opts.Watermark != 99 || !opts.LegacyLinkColumns {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestLoad_ProblemsUseYAMLNames(t *testing.T) {
	_, err := Load(&Config{BatchSize: -5}, "")
	if err == nil || !strings.Contains(err.Error(), `batch_size "-5" fails min=1`) {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_WatermarkZeroMeansDefault(t *testing.T) {
	cfg, err := Load(&Config{Watermark: 0}, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watermark != storage.DefaultWatermark {
		t.Errorf("Expected default watermark %d, got %d", storage.DefaultWatermark, cfg.Watermark)
	}

	cfg, err = Load(&Config{Watermark: 1}, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorageOptions().Watermark != 1 {
		t.Errorf("Expected watermark 1, got %d", cfg.StorageOptions().Watermark)
	}
}
