package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFileFound(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("listen_addr = %q, want default", c.ListenAddr)
	}
	if c.TopProducts != 10 || c.ChartWidth != 800 || c.ChartHeight != 500 {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("listen_addr: 0.0.0.0:9999\ntop_products: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ListenAddr != "0.0.0.0:9999" {
		t.Errorf("listen_addr = %q", c.ListenAddr)
	}
	if c.TopProducts != 3 {
		t.Errorf("top_products = %d", c.TopProducts)
	}
	if c.PreviewRows != 5 {
		t.Errorf("unset key lost its default: %+v", c)
	}
}

func TestLoadMalformedExplicitFileIsError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("listen_addr: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}

// A malformed config discovered on the search path must fail loudly too,
// not silently fall back to defaults.
func TestLoadMalformedDiscoveredFileIsError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("listen_addr: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	chdir(t, dir)

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a malformed discovered config file")
	}
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	want := &Global{ListenAddr: "127.0.0.1:7070", TopProducts: 7, LogLevel: "debug"}
	if err := Save(want, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ListenAddr != want.ListenAddr || c.TopProducts != want.TopProducts || c.LogLevel != want.LogLevel {
		t.Errorf("round trip = %+v, want %+v", c, want)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
