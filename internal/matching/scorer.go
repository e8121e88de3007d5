package matching

import (
	"fmt"
	"math"
)

// Match reason texts shown to users. They are advisory and not part of the
// numeric score.
const (
	ReasonSameListing = "Both interested in the same apartment"
	ReasonLifestyle   = "Very compatible lifestyles"
	ReasonBudget      = "Similar budget ranges"
	ReasonVerified    = "Both verified users"
)

func sharedInterestsReason(n int) string {
	return fmt.Sprintf("Share %d common interests", n)
}

// Breakdown holds each factor sub-score (0..100) and the rounded total.
type Breakdown struct {
	Lifestyle   float64 `json:"lifestyle"`
	Interests   float64 `json:"interests"`
	Budget      float64 `json:"budget"`
	Preferences float64 `json:"preferences"`
	Location    float64 `json:"location"`
	Total       int     `json:"total"`
}

// Scorer computes the weighted compatibility score of two profiles.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns the factor breakdown and the match reasons for a pair.
// Sparse inputs lower the score instead of failing.
func (s *Scorer) Score(a, b *SearchProfile) (Breakdown, []string) {
	shared := intersectionSize(tagSet(a.Interests), tagSet(b.Interests))

	bd := Breakdown{
		Lifestyle:   s.LifestyleScore(a, b),
		Interests:   s.InterestScore(a, b),
		Budget:      s.BudgetScore(a, b),
		Preferences: s.PreferenceScore(a, b),
		Location:    s.LocationScore(a, b),
	}
	w := s.cfg.Weights
	total := bd.Lifestyle*w.Lifestyle +
		bd.Interests*w.Interests +
		bd.Budget*w.Budget +
		bd.Preferences*w.Preferences +
		bd.Location*w.Location
	bd.Total = int(math.Round(clamp(total, 0, 100)))

	var reasons []string
	if a.ListingID != "" && a.ListingID == b.ListingID {
		reasons = append(reasons, ReasonSameListing)
	}
	if shared >= s.cfg.MinSharedInterests {
		reasons = append(reasons, sharedInterestsReason(shared))
	}
	if bd.Lifestyle > s.cfg.ReasonThreshold {
		reasons = append(reasons, ReasonLifestyle)
	}
	if bd.Budget > s.cfg.ReasonThreshold {
		reasons = append(reasons, ReasonBudget)
	}
	if a.Verified && b.Verified {
		reasons = append(reasons, ReasonVerified)
	}
	return bd, reasons
}

// LifestyleScore averages the cleanliness, social and schedule sub-scores.
func (s *Scorer) LifestyleScore(a, b *SearchProfile) float64 {
	la, lb := a.Lifestyle.normalize(), b.Lifestyle.normalize()

	clean := clamp(100-s.cfg.LevelStep*float64(Distance(la.Cleanliness, lb.Cleanliness)), 0, 100)
	social := clamp(100-s.cfg.LevelStep*float64(Distance(la.SocialLevel, lb.SocialLevel)), 0, 100)

	schedule := s.cfg.ScheduleMismatchScore
	if la.WorkSchedule == lb.WorkSchedule ||
		la.WorkSchedule == FlexibleSchedule || lb.WorkSchedule == FlexibleSchedule {
		schedule = 100
	}
	return (clean + social + schedule) / 3
}

// InterestScore is the shared tag count over the larger set, or a fixed
// default when both sets are empty.
func (s *Scorer) InterestScore(a, b *SearchProfile) float64 {
	sa, sb := tagSet(a.Interests), tagSet(b.Interests)
	larger := max(len(sa), len(sb))
	if larger == 0 {
		return s.cfg.EmptyInterestsScore
	}
	return float64(intersectionSize(sa, sb)) / float64(larger) * 100
}

// BudgetScore penalizes the rent gap relative to the average rent.
func (s *Scorer) BudgetScore(a, b *SearchProfile) float64 {
	avg := (a.Budget.MaxRent + b.Budget.MaxRent) / 2
	if math.IsNaN(avg) || math.IsInf(avg, 0) || avg <= 0 {
		return 0
	}
	diff := math.Abs(a.Budget.MaxRent - b.Budget.MaxRent)
	return clamp(100-diff/avg*100, 0, 100)
}

// PreferenceScore is the share of the four house rules that agree.
func (s *Scorer) PreferenceScore(a, b *SearchProfile) float64 {
	pa, pb := a.Preferences, b.Preferences
	same := 0
	for _, eq := range []bool{
		pa.PetFriendly == pb.PetFriendly,
		pa.SmokingAllowed == pb.SmokingAllowed,
		pa.DrinkingOK == pb.DrinkingOK,
		pa.LGBTQFriendly == pb.LGBTQFriendly,
	} {
		if eq {
			same++
		}
	}
	return float64(same) / 4 * 100
}

func (s *Scorer) LocationScore(a, b *SearchProfile) float64 {
	switch {
	case !sameCity(a, b):
		return 0
	case neighborhoodsOverlap(a, b):
		return s.cfg.NeighborhoodScore
	default:
		return s.cfg.SameCityScore
	}
}

// clamp maps NaN to lo so a total can always be rounded to an int.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
