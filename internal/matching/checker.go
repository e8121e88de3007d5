package matching

import (
	"math"
	"strings"
)

// Gates holds the four independent eligibility predicates for a pair.
type Gates struct {
	Listing   bool `json:"listingCompatible"`
	Budget    bool `json:"budgetCompatible"`
	Lifestyle bool `json:"lifestyleCompatible"`
	Location  bool `json:"locationCompatible"`
}

// Eligible reports whether the pair should be scored at all. Either a shared
// listing or a shared area is enough.
func (g Gates) Eligible() bool {
	return g.Listing || g.Location
}

// Checker evaluates the gate predicates. It is stateless apart from its
// configuration and safe for concurrent use.
type Checker struct {
	cfg ScoringConfig
}

func NewChecker(cfg ScoringConfig) *Checker {
	return &Checker{cfg: cfg}
}

// Evaluate runs every gate. Gates are not order-sensitive except Budget,
// whose threshold is taken from a.
func (c *Checker) Evaluate(a, b *SearchProfile) Gates {
	return Gates{
		Listing:   c.ListingCompatible(a, b),
		Budget:    c.BudgetCompatible(a, b),
		Lifestyle: c.LifestyleCompatible(a, b),
		Location:  c.LocationCompatible(a, b),
	}
}

// ListingCompatible is true when both searches target the same listing.
// Two listing-agnostic searches do not share a listing.
func (c *Checker) ListingCompatible(a, b *SearchProfile) bool {
	return a.ListingID != "" && a.ListingID == b.ListingID
}

// BudgetCompatible compares max rents against a tolerance of a's max rent.
// The threshold is intentionally asymmetric: swapping a and b can change
// the result.
func (c *Checker) BudgetCompatible(a, b *SearchProfile) bool {
	diff := math.Abs(a.Budget.MaxRent - b.Budget.MaxRent)
	return diff <= c.cfg.BudgetTolerance*a.Budget.MaxRent
}

// LifestyleCompatible fails on a cleanliness deal-breaker conflict in
// either direction, otherwise requires cleanliness and social levels to be
// within MaxLevelDistance of each other.
func (c *Checker) LifestyleCompatible(a, b *SearchProfile) bool {
	if violatesDealBreakers(a, b) || violatesDealBreakers(b, a) {
		return false
	}
	la, lb := a.Lifestyle.normalize(), b.Lifestyle.normalize()
	return Distance(la.Cleanliness, lb.Cleanliness) <= c.cfg.MaxLevelDistance &&
		Distance(la.SocialLevel, lb.SocialLevel) <= c.cfg.MaxLevelDistance
}

// LocationCompatible requires the same city and at least one shared
// neighborhood.
func (c *Checker) LocationCompatible(a, b *SearchProfile) bool {
	return sameCity(a, b) && neighborhoodsOverlap(a, b)
}

func sameCity(a, b *SearchProfile) bool {
	ca, cb := strings.TrimSpace(a.Location.City), strings.TrimSpace(b.Location.City)
	return ca != "" && strings.EqualFold(ca, cb)
}

func neighborhoodsOverlap(a, b *SearchProfile) bool {
	return intersectionSize(tagSet(a.Location.Neighborhoods), tagSet(b.Location.Neighborhoods)) > 0
}
