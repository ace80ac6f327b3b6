package config

import (
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	in := &Config{DefaultSession: "work", APIBaseURL: "http://localhost:9000"}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.DefaultSession != "work" {
		t.Errorf("default_session = %q, want work", out.DefaultSession)
	}
	if out.APIBaseURL != "http://localhost:9000" {
		t.Errorf("api_base_url = %q", out.APIBaseURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	cfg.Defaults()
	if cfg.APIBaseURL == "" {
		t.Error("api base url default missing")
	}
	if cfg.SweepIntervalSecs != 60 || cfg.ProbeIntervalSecs != 15 {
		t.Errorf("intervals = (%d, %d), want (60, 15)", cfg.SweepIntervalSecs, cfg.ProbeIntervalSecs)
	}
}
