package shellconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenUnset(t *testing.T) {
	t.Setenv("DEVICE_LIBEXEC", "")
	t.Setenv("DEVICE_SYSCONF", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("DEVICE_EDITLINE", "")
	t.Setenv("PATHEXT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Libexec != DefaultLibexec {
		t.Errorf("Libexec = %q, want default", cfg.Libexec)
	}
	opts := cfg.DiscoveryOptions()
	if opts.CompletionCap != 1000 {
		t.Errorf("CompletionCap = %d, want 1000", opts.CompletionCap)
	}
}

func TestLoadAppliesYAMLOverrides(t *testing.T) {
	sysconf := t.TempDir()
	yaml := "discovery:\n  completion_cap: 50\n  timeout_seconds: 2\n"
	if err := os.WriteFile(filepath.Join(sysconf, "ncsh.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEVICE_SYSCONF", sysconf)
	t.Setenv("DEVICE_LIBEXEC", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := cfg.DiscoveryOptions()
	if opts.CompletionCap != 50 {
		t.Errorf("CompletionCap = %d, want 50", opts.CompletionCap)
	}
	if opts.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", opts.Timeout)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	sysconf := t.TempDir()
	if err := os.WriteFile(filepath.Join(sysconf, "ncsh.yaml"), []byte("discovery: [1,"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DEVICE_SYSCONF", sysconf)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
