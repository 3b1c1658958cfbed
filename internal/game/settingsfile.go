package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AlexeyInc/Color-Lines/internal/store"
)

// LoadSettings reads settings saved alongside a board. found is false when
// the file is missing or empty. Loaded values are validated.
func LoadSettings(path string) (s Settings, found bool, err error) {
	data, found, err := store.ReadFile(path)
	if err != nil || !found {
		return Settings{}, false, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, false, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, false, err
	}
	return s, true, nil
}

// SaveSettings writes s to path as YAML.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return store.WriteFile(path, data)
}
