package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxInputChars != 100_000 {
		t.Errorf("MaxInputChars = %d, want default 100000", cfg.MaxInputChars)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `{"max_input_chars": 5000, "deny_terms": ["internal-codename"], "db_max_open_conns": 1}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxInputChars != 5000 {
		t.Errorf("MaxInputChars = %d, want 5000", cfg.MaxInputChars)
	}
	if !reflect.DeepEqual(cfg.DenyTerms, []string{"internal-codename"}) {
		t.Errorf("DenyTerms = %v", cfg.DenyTerms)
	}
	if cfg.DBMaxOpenConns != 1 {
		t.Errorf("DBMaxOpenConns = %d, want 1", cfg.DBMaxOpenConns)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestMerge_ScalarsAndSlices(t *testing.T) {
	base := &Config{MaxInputChars: 100, DenyTerms: []string{"a", "b"}}
	overlay := &Config{DenyTerms: []string{"b", "c"}, AllowUnsafePaths: true}

	merged := Merge(base, overlay)

	if merged.MaxInputChars != 100 {
		t.Errorf("MaxInputChars = %d, want base value 100", merged.MaxInputChars)
	}
	if !reflect.DeepEqual(merged.DenyTerms, []string{"a", "b", "c"}) {
		t.Errorf("DenyTerms = %v, want deduplicated union", merged.DenyTerms)
	}
	if !merged.AllowUnsafePaths {
		t.Error("AllowUnsafePaths not carried from overlay")
	}
}

func TestMerge_EmptySlicesBecomeNil(t *testing.T) {
	merged := Merge(&Config{}, &Config{DenyTerms: []string{"  ", ""}})
	if merged.DenyTerms != nil {
		t.Errorf("DenyTerms = %v, want nil", merged.DenyTerms)
	}
}
