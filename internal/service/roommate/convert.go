package roommate

import (
	"time"

	"github.com/oggyb/roommate-match/internal/matching"
	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
)

// toProfile converts a wire profile into an engine profile. Timestamps are
// owned by the server and ignored here.
func toProfile(in *pb.Profile) (*matching.SearchProfile, error) {
	p := &matching.SearchProfile{
		UserID:     in.GetUserId(),
		ListingID:  in.GetListingId(),
		Name:       in.Name,
		Age:        int(in.Age),
		Avatar:     in.Avatar,
		Verified:   in.Verified,
		TrustScore: in.TrustScore,
		Interests:  in.Interests,
		// phrases stay free text; the engine classifies them
		DealBreakers: in.DealBreakers,
	}

	if l := in.Lifestyle; l != nil {
		var err error
		if p.Lifestyle.Cleanliness, err = matching.ParseCleanliness(l.Cleanliness); err != nil {
			return nil, err
		}
		if p.Lifestyle.SocialLevel, err = matching.ParseSocialLevel(l.SocialLevel); err != nil {
			return nil, err
		}
		if p.Lifestyle.WorkSchedule, err = matching.ParseWorkSchedule(l.WorkSchedule); err != nil {
			return nil, err
		}
		if p.Lifestyle.GuestPolicy, err = matching.ParseGuestPolicy(l.GuestPolicy); err != nil {
			return nil, err
		}
	}
	if pr := in.Preferences; pr != nil {
		p.Preferences = matching.Preferences{
			PetFriendly:    pr.PetFriendly,
			SmokingAllowed: pr.SmokingAllowed,
			DrinkingOK:     pr.DrinkingOk,
			LGBTQFriendly:  pr.LgbtqFriendly,
		}
	}
	if b := in.Budget; b != nil {
		p.Budget = matching.Budget{MaxRent: b.MaxRent, PreferredSplit: b.PreferredSplit}
	}
	if m := in.MoveIn; m != nil {
		p.MoveIn = matching.MoveInWindow{
			Earliest: fromMillis(m.Earliest),
			Latest:   fromMillis(m.Latest),
			Flexible: m.Flexible,
		}
	}
	if loc := in.Location; loc != nil {
		p.Location = matching.Location{
			City:              loc.City,
			Neighborhoods:     loc.Neighborhoods,
			MaxCommuteMinutes: int(loc.MaxCommuteMinutes),
		}
	}
	return p, nil
}

func fromProfile(p *matching.SearchProfile) *pb.Profile {
	return &pb.Profile{
		UserId:     p.UserID,
		ListingId:  p.ListingID,
		Name:       p.Name,
		Age:        int32(p.Age),
		Avatar:     p.Avatar,
		Verified:   p.Verified,
		TrustScore: p.TrustScore,
		Lifestyle: &pb.Lifestyle{
			Cleanliness:  p.Lifestyle.Cleanliness.String(),
			SocialLevel:  p.Lifestyle.SocialLevel.String(),
			WorkSchedule: p.Lifestyle.WorkSchedule.String(),
			GuestPolicy:  p.Lifestyle.GuestPolicy.String(),
		},
		Preferences: &pb.Preferences{
			PetFriendly:    p.Preferences.PetFriendly,
			SmokingAllowed: p.Preferences.SmokingAllowed,
			DrinkingOk:     p.Preferences.DrinkingOK,
			LgbtqFriendly:  p.Preferences.LGBTQFriendly,
		},
		Budget: &pb.Budget{MaxRent: p.Budget.MaxRent, PreferredSplit: p.Budget.PreferredSplit},
		MoveIn: &pb.MoveIn{
			Earliest: toMillis(p.MoveIn.Earliest),
			Latest:   toMillis(p.MoveIn.Latest),
			Flexible: p.MoveIn.Flexible,
		},
		Location: &pb.Location{
			City:              p.Location.City,
			Neighborhoods:     p.Location.Neighborhoods,
			MaxCommuteMinutes: int32(p.Location.MaxCommuteMinutes),
		},
		Interests:    p.Interests,
		DealBreakers: p.DealBreakers,
		CreatedAt:    toMillis(p.CreatedAt),
		LastActive:   toMillis(p.LastActive),
	}
}

func fromMatch(m *matching.Match) *pb.Match {
	return &pb.Match{
		Id:                 m.ID,
		A:                  fromProfile(m.A),
		B:                  fromProfile(m.B),
		CompatibilityScore: int32(m.Score),
		MatchReasons:       m.Reasons,
		Gates: &pb.Gates{
			Listing:   m.Gates.Listing,
			Budget:    m.Gates.Budget,
			Lifestyle: m.Gates.Lifestyle,
			Location:  m.Gates.Location,
		},
		Breakdown: &pb.Breakdown{
			Lifestyle:   m.Breakdown.Lifestyle,
			Interests:   m.Breakdown.Interests,
			Budget:      m.Breakdown.Budget,
			Preferences: m.Breakdown.Preferences,
			Location:    m.Breakdown.Location,
		},
		UnixTimestamp: toMillis(m.MatchedAt),
	}
}

func fromMatches(ms []*matching.Match) []*pb.Match {
	out := make([]*pb.Match, 0, len(ms))
	for _, m := range ms {
		out = append(out, fromMatch(m))
	}
	return out
}

func toMillis(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixMilli())
}

func fromMillis(ms uint64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}
