package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oggyb/roommate-match/internal/matching"
)

// LoadScoring reads a YAML scoring table and overlays it on the default
// table. An empty path returns the defaults.
//
// Example file:
//
//	weights:
//	  lifestyle: 0.4
//	  interests: 0.2
//	  budget: 0.2
//	  preferences: 0.1
//	  location: 0.1
//	budget_tolerance: 0.25
func LoadScoring(path string) (matching.ScoringConfig, error) {
	cfg := matching.DefaultScoringConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid scoring config %s: %w", path, err)
	}
	return cfg, nil
}
