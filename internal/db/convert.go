package db

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/oggyb/roommate-match/internal/matching"
)

// NewSearchProfile converts an engine profile into its row.
func NewSearchProfile(p *matching.SearchProfile) *SearchProfile {
	return &SearchProfile{
		UserID:     p.UserID,
		ListingID:  p.ListingID,
		Name:       p.Name,
		Age:        p.Age,
		Avatar:     p.Avatar,
		Verified:   p.Verified,
		TrustScore: p.TrustScore,

		Cleanliness:  p.Lifestyle.Cleanliness.String(),
		SocialLevel:  p.Lifestyle.SocialLevel.String(),
		WorkSchedule: p.Lifestyle.WorkSchedule.String(),
		GuestPolicy:  p.Lifestyle.GuestPolicy.String(),

		PetFriendly:    p.Preferences.PetFriendly,
		SmokingAllowed: p.Preferences.SmokingAllowed,
		DrinkingOK:     p.Preferences.DrinkingOK,
		LGBTQFriendly:  p.Preferences.LGBTQFriendly,

		MaxRent:        p.Budget.MaxRent,
		PreferredSplit: p.Budget.PreferredSplit,

		MoveInEarliest: timePtr(p.MoveIn.Earliest),
		MoveInLatest:   timePtr(p.MoveIn.Latest),
		MoveInFlexible: p.MoveIn.Flexible,

		City:              p.Location.City,
		Neighborhoods:     p.Location.Neighborhoods,
		MaxCommuteMinutes: p.Location.MaxCommuteMinutes,
		Interests:         p.Interests,
		DealBreakers:      p.DealBreakers,

		CreatedAt:  p.CreatedAt,
		LastActive: p.LastActive,
	}
}

// Profile converts a row back into an engine profile.
func (r *SearchProfile) Profile() (*matching.SearchProfile, error) {
	var (
		l   matching.Lifestyle
		err error
	)
	if l.Cleanliness, err = matching.ParseCleanliness(r.Cleanliness); err != nil {
		return nil, fmt.Errorf("profile %s/%s: %w", r.UserID, r.ListingID, err)
	}
	if l.SocialLevel, err = matching.ParseSocialLevel(r.SocialLevel); err != nil {
		return nil, fmt.Errorf("profile %s/%s: %w", r.UserID, r.ListingID, err)
	}
	if l.WorkSchedule, err = matching.ParseWorkSchedule(r.WorkSchedule); err != nil {
		return nil, fmt.Errorf("profile %s/%s: %w", r.UserID, r.ListingID, err)
	}
	if l.GuestPolicy, err = matching.ParseGuestPolicy(r.GuestPolicy); err != nil {
		return nil, fmt.Errorf("profile %s/%s: %w", r.UserID, r.ListingID, err)
	}

	p := &matching.SearchProfile{
		UserID:     r.UserID,
		ListingID:  r.ListingID,
		Name:       r.Name,
		Age:        r.Age,
		Avatar:     r.Avatar,
		Verified:   r.Verified,
		TrustScore: r.TrustScore,
		Lifestyle:  l,
		Preferences: matching.Preferences{
			PetFriendly:    r.PetFriendly,
			SmokingAllowed: r.SmokingAllowed,
			DrinkingOK:     r.DrinkingOK,
			LGBTQFriendly:  r.LGBTQFriendly,
		},
		Budget: matching.Budget{MaxRent: r.MaxRent, PreferredSplit: r.PreferredSplit},
		MoveIn: matching.MoveInWindow{Flexible: r.MoveInFlexible},
		Location: matching.Location{
			City:              r.City,
			Neighborhoods:     r.Neighborhoods,
			MaxCommuteMinutes: r.MaxCommuteMinutes,
		},
		Interests:    r.Interests,
		DealBreakers: r.DealBreakers,
		CreatedAt:    r.CreatedAt.UTC(),
		LastActive:   r.LastActive.UTC(),
	}
	if r.MoveInEarliest != nil {
		p.MoveIn.Earliest = r.MoveInEarliest.UTC()
	}
	if r.MoveInLatest != nil {
		p.MoveIn.Latest = r.MoveInLatest.UTC()
	}
	return p, nil
}

// NewMatch converts an engine match into its row.
func NewMatch(m *matching.Match) *Match {
	return &Match{
		PairHash:            PairHash(m.Key()),
		ID:                  m.ID,
		UserA:               m.A.UserID,
		ListingA:            m.A.ListingID,
		UserB:               m.B.UserID,
		ListingB:            m.B.ListingID,
		Score:               m.Score,
		Reasons:             m.Reasons,
		ListingCompatible:   m.Gates.Listing,
		BudgetCompatible:    m.Gates.Budget,
		LifestyleCompatible: m.Gates.Lifestyle,
		LocationCompatible:  m.Gates.Location,
		Breakdown:           m.Breakdown,
		MatchedAt:           m.MatchedAt,
	}
}

// PairHash is the hex blake2b-256 digest of a pair key. Each of the four
// ids is length-prefixed, so ids containing separators cannot collide.
func PairHash(k matching.PairKey) string {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	for _, id := range []string{k.First.UserID, k.First.ListingID, k.Second.UserID, k.Second.ListingID} {
		binary.BigEndian.PutUint64(n[:], uint64(len(id)))
		h.Write(n[:])
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
