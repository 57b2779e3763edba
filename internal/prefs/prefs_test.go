package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := Load("")
	if p != Defaults() {
		t.Fatalf("Load = %#v, want %#v", p, Defaults())
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "aurad")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("dark_mode = false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(""); p.DarkMode {
		t.Fatal("DarkMode = true, want false")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{DarkMode: false}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if loaded := Load(prefsFile); loaded.DarkMode {
		t.Fatal("DarkMode = true after saving false")
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(prefsFile); p != Defaults() {
		t.Fatalf("Load = %#v, want defaults", p)
	}
}

func TestToggleDarkMode_TwiceRestoresOriginal(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	original := Load(prefsFile).DarkMode

	first, err := ToggleDarkMode(prefsFile)
	if err != nil {
		t.Fatalf("ToggleDarkMode returned error: %v", err)
	}
	if first.DarkMode == original {
		t.Fatalf("DarkMode after one toggle = %v, want %v", first.DarkMode, !original)
	}
	if Load(prefsFile).DarkMode != first.DarkMode {
		t.Fatal("toggle was not persisted")
	}

	second, err := ToggleDarkMode(prefsFile)
	if err != nil {
		t.Fatalf("ToggleDarkMode returned error: %v", err)
	}
	if second.DarkMode != original || Load(prefsFile).DarkMode != original {
		t.Fatalf("DarkMode after two toggles = %v, want %v", second.DarkMode, original)
	}
}
