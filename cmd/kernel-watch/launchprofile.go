package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// launchProfile is the small YAML document scripts/run.sh and this
// tool both read to decide how to launch QEMU: how many harts to
// simulate, how much RAM to give the board, and what rate to drive the
// periodic timer at, overriding boot.timerIntervalCycles's compiled-in
// default.
type launchProfile struct {
	Harts   int `yaml:"harts"`
	RAMMiB  int `yaml:"ram_mib"`
	TimerHz int `yaml:"timer_hz"`
}

func defaultLaunchProfile() launchProfile {
	return launchProfile{Harts: 1, RAMMiB: 128, TimerHz: 100}
}

func loadLaunchProfile(path string) (launchProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultLaunchProfile(), err
	}
	profile := defaultLaunchProfile()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return defaultLaunchProfile(), err
	}
	return profile, nil
}
