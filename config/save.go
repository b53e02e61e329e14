package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveGlobal writes a key-value pair to the global config file,
// creating it if needed.
func SaveGlobal(key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s",
			key, strings.Join(Keys, ", "))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := filepath.Join(home, ".config", globalConfigDir, "config.yaml")

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	// Tokens may land in this file, keep it private.
	return writeKey(path, key, value, 0o600)
}

// SaveLocal writes a key-value pair to .gitflow.yaml in the repo root.
func SaveLocal(gitRoot, key, value string) error {
	if gitRoot == "" {
		return fmt.Errorf("git root not found")
	}
	if !validKey(key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s",
			key, strings.Join(Keys, ", "))
	}
	// Local config is checked in and shared.
	return writeKey(filepath.Join(gitRoot, LocalConfigName), key, value, 0o644)
}

func writeKey(path, key, value string, mode os.FileMode) error {
	var existing map[string]interface{}
	if data, readErr := os.ReadFile(path); readErr == nil {
		_ = yaml.Unmarshal(data, &existing)
	}
	if existing == nil {
		existing = make(map[string]interface{})
	}

	existing[key] = parseValue(value)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, mode)
}

// parseValue converts string values to native YAML types.
func parseValue(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
