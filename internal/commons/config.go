package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"orthanc/internal/config"
)

// LoadConfig reads configuration from a YAML file. Used instead of the
// env-based loader when a config file path is supplied.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}
