package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveIncludeDirsWithGlobs(t *testing.T) {
	root := t.TempDir()
	rtlInc := filepath.Join(root, "rtl", "include")
	simInc := filepath.Join(root, "sim", "include")
	if err := os.MkdirAll(rtlInc, 0o755); err != nil {
		t.Fatalf("mkdir rtl include: %v", err)
	}
	if err := os.MkdirAll(simInc, 0o755); err != nil {
		t.Fatalf("mkdir sim include: %v", err)
	}

	cfg := Config{
		IncludeDirs: []string{"rtl/*", "sim/include"},
	}

	dirs, err := cfg.ResolveIncludeDirs(root)
	if err != nil {
		t.Fatalf("ResolveIncludeDirs: %v", err)
	}

	if !containsPath(dirs, rtlInc) {
		t.Fatalf("expected %s in resolved dirs, got %v", rtlInc, dirs)
	}
	if !containsPath(dirs, simInc) {
		t.Fatalf("expected %s in resolved dirs, got %v", simInc, dirs)
	}
}

func TestResolveIncludeDirsRecursive(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "vendor", "a", "b", "include")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested include: %v", err)
	}

	cfg := Config{
		IncludeDirs: []string{"vendor/**/include"},
	}

	dirs, err := cfg.ResolveIncludeDirs(root)
	if err != nil {
		t.Fatalf("ResolveIncludeDirs: %v", err)
	}
	if !containsPath(dirs, nested) {
		t.Fatalf("expected %s in resolved dirs, got %v", nested, dirs)
	}
}

func TestResolveIncludeDirsSkipsFiles(t *testing.T) {
	root := t.TempDir()
	incDir := filepath.Join(root, "include")
	if err := os.MkdirAll(incDir, 0o755); err != nil {
		t.Fatalf("mkdir include: %v", err)
	}
	stray := filepath.Join(root, "include.txt")
	if err := os.WriteFile(stray, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	cfg := Config{
		IncludeDirs: []string{"include*"},
	}

	dirs, err := cfg.ResolveIncludeDirs(root)
	if err != nil {
		t.Fatalf("ResolveIncludeDirs: %v", err)
	}
	if !containsPath(dirs, incDir) {
		t.Fatalf("expected %s in resolved dirs, got %v", incDir, dirs)
	}
	if containsPath(dirs, stray) {
		t.Fatalf("did not expect plain file %s in resolved dirs", stray)
	}
}

func containsPath(files []string, target string) bool {
	for _, f := range files {
		if filepath.Clean(f) == filepath.Clean(target) {
			return true
		}
	}
	return false
}
