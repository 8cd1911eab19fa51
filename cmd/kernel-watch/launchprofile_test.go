package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLaunchProfileMissingFileReturnsDefaults(t *testing.T) {
	profile, err := loadLaunchProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing profile")
	}
	if profile != defaultLaunchProfile() {
		t.Fatalf("profile = %+v, want defaults", profile)
	}
}

func TestLoadLaunchProfileParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.yaml")
	content := "harts: 4\nram_mib: 256\ntimer_hz: 1000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	profile, err := loadLaunchProfile(path)
	if err != nil {
		t.Fatalf("loadLaunchProfile: %v", err)
	}
	want := launchProfile{Harts: 4, RAMMiB: 256, TimerHz: 1000}
	if profile != want {
		t.Fatalf("profile = %+v, want %+v", profile, want)
	}
}

func TestLoadLaunchProfilePartialOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.yaml")
	if err := os.WriteFile(path, []byte("harts: 2\n"), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	profile, err := loadLaunchProfile(path)
	if err != nil {
		t.Fatalf("loadLaunchProfile: %v", err)
	}
	if profile.Harts != 2 {
		t.Fatalf("Harts = %d, want 2", profile.Harts)
	}
	if profile.RAMMiB != defaultLaunchProfile().RAMMiB {
		t.Fatalf("RAMMiB = %d, want default %d", profile.RAMMiB, defaultLaunchProfile().RAMMiB)
	}
}
