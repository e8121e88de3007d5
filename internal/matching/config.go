package matching

import (
	"fmt"
	"math"
)

// Weights are the factor weights of the compatibility score. They must be
// non-negative and sum to 1.
type Weights struct {
	Lifestyle   float64 `yaml:"lifestyle"`
	Interests   float64 `yaml:"interests"`
	Budget      float64 `yaml:"budget"`
	Preferences float64 `yaml:"preferences"`
	Location    float64 `yaml:"location"`
}

func (w Weights) sum() float64 {
	return w.Lifestyle + w.Interests + w.Budget + w.Preferences + w.Location
}

// ScoringConfig holds every tunable constant used by the checker and scorer.
type ScoringConfig struct {
	Weights Weights `yaml:"weights"`

	// BudgetTolerance is the budget gate threshold as a fraction of the
	// first profile's max rent.
	BudgetTolerance float64 `yaml:"budget_tolerance"`
	// MaxLevelDistance is the largest ordinal gap the lifestyle gate accepts.
	MaxLevelDistance int `yaml:"max_level_distance"`

	LevelStep             float64 `yaml:"level_step"`
	ScheduleMismatchScore float64 `yaml:"schedule_mismatch_score"`
	EmptyInterestsScore   float64 `yaml:"empty_interests_score"`
	NeighborhoodScore     float64 `yaml:"neighborhood_score"`
	SameCityScore         float64 `yaml:"same_city_score"`

	ReasonThreshold    float64 `yaml:"reason_threshold"`
	MinSharedInterests int     `yaml:"min_shared_interests"`
}

// DefaultScoringConfig returns the production weights 30/25/20/15/10.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: Weights{
			Lifestyle:   0.30,
			Interests:   0.25,
			Budget:      0.20,
			Preferences: 0.15,
			Location:    0.10,
		},
		BudgetTolerance:       0.30,
		MaxLevelDistance:      1,
		LevelStep:             25,
		ScheduleMismatchScore: 50,
		EmptyInterestsScore:   50,
		NeighborhoodScore:     80,
		SameCityScore:         60,
		ReasonThreshold:       80,
		MinSharedInterests:    2,
	}
}

// Validate rejects tables that could push a score outside [0, 100].
func (c ScoringConfig) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"lifestyle": w.Lifestyle, "interests": w.Interests, "budget": w.Budget,
		"preferences": w.Preferences, "location": w.Location,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %v", name, v)
		}
	}
	if s := w.sum(); math.Abs(s-1) > 1e-6 {
		return fmt.Errorf("weights must sum to 1, got %v", s)
	}
	for name, v := range map[string]float64{
		"schedule_mismatch_score": c.ScheduleMismatchScore,
		"empty_interests_score":   c.EmptyInterestsScore,
		"neighborhood_score":      c.NeighborhoodScore,
		"same_city_score":         c.SameCityScore,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be within [0, 100], got %v", name, v)
		}
	}
	if c.LevelStep < 0 || c.BudgetTolerance < 0 || c.MaxLevelDistance < 0 {
		return fmt.Errorf("level_step, budget_tolerance and max_level_distance must not be negative")
	}
	return nil
}
