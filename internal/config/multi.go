package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	appName      = "polscrape"
	profileExt   = ".yaml"
	DefaultLabel = "Default"
)

var (
	ErrNoConfig       = errors.New("no config selected")
	ErrInvalidLabel   = errors.New("invalid config label")
	ErrProfileExists  = errors.New("config already exists")
	ErrProfileMissing = errors.New("config does not exist")
	ErrDefaultProfile = errors.New("the Default config cannot be removed")
)

// ConfigRoot resolves the per-user directory holding profiles and the
// active-profile marker. APPDATA wins over XDG_CONFIG_HOME.
func ConfigRoot() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, appName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

func ConfigPathByLabel(label string) string {
	return filepath.Join(ConfigsDir(), label+profileExt)
}

// checkLabel rejects labels that would escape the profiles directory.
func checkLabel(label string) error {
	l := strings.TrimSpace(label)
	if l == "" || l == "." || l == ".." || strings.ContainsAny(l, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	return nil
}

func ensureDirs() error {
	return os.MkdirAll(ConfigsDir(), 0o755)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func setCurrent(label string) error {
	return os.WriteFile(CurrentLabelFile(), []byte(label), 0o644)
}

func CurrentLabel() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(CurrentLabelFile())
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", ErrNoConfig
	case err != nil:
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil {
		return "", err
	}
	if label == "" {
		return "", ErrNoConfig
	}

	return ConfigPathByLabel(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

// ListConfigs returns every stored profile sorted by label.
func ListConfigs() ([]ConfigInfo, error) {
	if err := ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(ConfigsDir())
	if err != nil {
		return nil, err
	}

	active, _ := CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		label, ok := strings.CutSuffix(e.Name(), profileExt)
		if e.IsDir() || !ok {
			continue
		}
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   ConfigPathByLabel(label),
			Active: label == active,
		})
	}

	slices.SortFunc(out, func(a, b ConfigInfo) int { return strings.Compare(a.Label, b.Label) })
	return out, nil
}

func SwitchConfig(label string) error {
	if err := checkLabel(label); err != nil {
		return err
	}
	if err := ensureDirs(); err != nil {
		return err
	}
	if !exists(ConfigPathByLabel(label)) {
		return fmt.Errorf("%w: %q", ErrProfileMissing, label)
	}

	return setCurrent(label)
}

// CreateEmptyConfig writes a new profile holding DefaultConfig.
func CreateEmptyConfig(label string) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := ConfigPathByLabel(label)
	if exists(path) {
		return "", fmt.Errorf("%w: %q", ErrProfileExists, label)
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

// RenameConfig moves a profile. The active marker follows a renamed active
// profile.
func RenameConfig(oldLabel, newLabel string) error {
	if err := checkLabel(oldLabel); err != nil {
		return err
	}
	if err := checkLabel(newLabel); err != nil {
		return err
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	oldPath, newPath := ConfigPathByLabel(oldLabel), ConfigPathByLabel(newLabel)
	if !exists(oldPath) {
		return fmt.Errorf("%w: %q", ErrProfileMissing, oldLabel)
	}
	if exists(newPath) {
		return fmt.Errorf("%w: %q", ErrProfileExists, newLabel)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}

	if active, _ := CurrentLabel(); active == oldLabel {
		return setCurrent(newLabel)
	}

	return nil
}

// RemoveConfig deletes a profile. Removing the active profile falls back to
// Default first.
func RemoveConfig(label string) error {
	if err := checkLabel(label); err != nil {
		return err
	}
	if label == DefaultLabel {
		return ErrDefaultProfile
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	path := ConfigPathByLabel(label)
	if !exists(path) {
		return fmt.Errorf("%w: %q", ErrProfileMissing, label)
	}

	if active, _ := CurrentLabel(); active == label {
		if err := SwitchConfig(DefaultLabel); err != nil {
			return fmt.Errorf("fall back to %s: %w", DefaultLabel, err)
		}
	}

	return os.Remove(path)
}

// InitDefaultConfig writes the Default profile and selects it. An existing
// Default profile is selected as is and reported with os.ErrExist.
func InitDefaultConfig() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := ConfigPathByLabel(DefaultLabel)
	if exists(path) {
		if err := setCurrent(DefaultLabel); err != nil {
			return "", err
		}
		return path, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, setCurrent(DefaultLabel)
}
