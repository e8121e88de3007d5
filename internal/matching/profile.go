package matching

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidProfile is returned when a profile is missing identity fields
// or carries a lifestyle level outside the known scales.
var ErrInvalidProfile = errors.New("invalid search profile")

// ProfileKey identifies a live search. ListingID is empty for a
// listing-agnostic search.
type ProfileKey struct {
	UserID    string
	ListingID string
}

func (k ProfileKey) String() string {
	if k.ListingID == "" {
		return k.UserID + "/*"
	}
	return k.UserID + "/" + k.ListingID
}

func (k ProfileKey) less(o ProfileKey) bool {
	if k.UserID != o.UserID {
		return k.UserID < o.UserID
	}
	return k.ListingID < o.ListingID
}

// Preferences are the four yes/no house rules compared field by field.
type Preferences struct {
	PetFriendly    bool `json:"petFriendly"`
	SmokingAllowed bool `json:"smokingAllowed"`
	DrinkingOK     bool `json:"drinkingOk"`
	LGBTQFriendly  bool `json:"lgbtqFriendly"`
}

type Budget struct {
	MaxRent        float64 `json:"maxRent"`
	PreferredSplit float64 `json:"preferredSplit"` // percent of total rent
}

type MoveInWindow struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	Flexible bool      `json:"flexible"`
}

type Location struct {
	City              string   `json:"city"`
	Neighborhoods     []string `json:"neighborhoods"`
	MaxCommuteMinutes int      `json:"maxCommuteMinutes"`
}

// SearchProfile is one user's roommate search, either tied to a listing or
// to general location and budget criteria. Profiles held by the engine are
// never modified in place; a resubmission replaces the whole value.
type SearchProfile struct {
	UserID    string `json:"userId"`
	ListingID string `json:"listingId,omitempty"`

	// Display payload, opaque to matching except Verified for reasons.
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Avatar     string  `json:"avatar,omitempty"`
	Verified   bool    `json:"verified"`
	TrustScore float64 `json:"trustScore"`

	Lifestyle    Lifestyle    `json:"lifestyle"`
	Preferences  Preferences  `json:"preferences"`
	Budget       Budget       `json:"budget"`
	MoveIn       MoveInWindow `json:"moveInWindow"`
	Location     Location     `json:"location"`
	Interests    []string     `json:"interests"`
	DealBreakers []string     `json:"dealBreakers"`

	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

func (p *SearchProfile) Key() ProfileKey {
	return ProfileKey{UserID: p.UserID, ListingID: p.ListingID}
}

// Validate checks the fields the registry cannot work without.
func (p *SearchProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidProfile)
	}
	if !p.Lifestyle.valid() {
		return fmt.Errorf("%w: lifestyle level out of range", ErrInvalidProfile)
	}
	if !finiteNonNegative(p.Budget.MaxRent) || !finiteNonNegative(p.Budget.PreferredSplit) {
		return fmt.Errorf("%w: budget must be a finite non-negative amount", ErrInvalidProfile)
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Clone returns a deep copy so the caller's slices are never shared with
// the registry.
func (p *SearchProfile) Clone() *SearchProfile {
	c := *p
	c.Location.Neighborhoods = append([]string(nil), p.Location.Neighborhoods...)
	c.Interests = append([]string(nil), p.Interests...)
	c.DealBreakers = append([]string(nil), p.DealBreakers...)
	return &c
}

// prepare clones, trims identity and fills defaults for a submission.
func (p *SearchProfile) prepare(now time.Time) *SearchProfile {
	c := p.Clone()
	c.UserID = strings.TrimSpace(c.UserID)
	c.ListingID = strings.TrimSpace(c.ListingID)
	c.Lifestyle = c.Lifestyle.normalize()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.LastActive.IsZero() {
		c.LastActive = now
	}
	return c
}

// tagSet lower-cases and trims free-text tags into a set. Empty tags are dropped.
func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
