package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/roommate-match/internal/matching"
)

var (
	seedCities = map[string][]string{
		"SF":  {"Mission", "SoMa", "Castro", "Sunset", "Richmond"},
		"NYC": {"SoHo", "Williamsburg", "Astoria", "Harlem", "Chelsea"},
	}
	seedInterests = []string{
		"cooking", "yoga", "tech", "hiking", "music", "gaming",
		"reading", "cycling", "film", "gardening",
	}
	seedDealBreakers = []string{"must be clean", "no smoking indoors", "no loud music after 11"}
)

// SeedTestData resets the search tables and populates them with demo
// roommate searches.
//
// Behavior:
//  1. Clears existing rows in `matches` and `search_profiles`.
//  2. Creates n users split across SF and NYC; every third user searches
//     without a listing, the rest pick one of a few listings per city.
//  3. The generator is seeded with seed, so the same seed gives the same data.
//
// Matches are not seeded: the server recomputes them when it restores the
// engine from `search_profiles`.
func SeedTestData(db *gorm.DB, n int, seed int64, log *slog.Logger) error {
	r := rand.New(rand.NewSource(seed))

	// --- Fresh start ---
	if err := db.Exec("DELETE FROM matches").Error; err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}
	if err := db.Exec("DELETE FROM search_profiles").Error; err != nil {
		return fmt.Errorf("failed to clear search profiles: %w", err)
	}
	log.Info("cleared existing search data")

	cities := []string{"SF", "NYC"}
	now := time.Now().UTC().Truncate(time.Second)

	rows := make([]*SearchProfile, 0, n)
	for i := 1; i <= n; i++ {
		city := cities[i%len(cities)]
		hoods := seedCities[city]

		listing := ""
		if i%3 != 0 {
			listing = fmt.Sprintf("%s-L%d", city, 1+r.Intn(3))
		}

		p := &matching.SearchProfile{
			UserID:     fmt.Sprintf("user%d", i),
			ListingID:  listing,
			Name:       fmt.Sprintf("Demo User %d", i),
			Age:        21 + r.Intn(15),
			Verified:   r.Intn(100) < 60,
			TrustScore: float64(50 + r.Intn(51)),
			Lifestyle: matching.Lifestyle{
				Cleanliness:  matching.Cleanliness(1 + r.Intn(4)),
				SocialLevel:  matching.SocialLevel(1 + r.Intn(4)),
				WorkSchedule: matching.WorkSchedule(1 + r.Intn(4)),
				GuestPolicy:  matching.GuestPolicy(1 + r.Intn(4)),
			},
			Preferences: matching.Preferences{
				PetFriendly:    r.Intn(2) == 0,
				SmokingAllowed: r.Intn(5) == 0,
				DrinkingOK:     r.Intn(3) != 0,
				LGBTQFriendly:  r.Intn(10) != 0,
			},
			Budget: matching.Budget{
				MaxRent:        float64(900 + 50*r.Intn(40)),
				PreferredSplit: 50,
			},
			MoveIn: matching.MoveInWindow{
				Earliest: now.AddDate(0, 0, r.Intn(30)),
				Latest:   now.AddDate(0, 1, r.Intn(30)),
				Flexible: r.Intn(2) == 0,
			},
			Location: matching.Location{
				City:              city,
				Neighborhoods:     pick(r, hoods, 1+r.Intn(2)),
				MaxCommuteMinutes: 15 * (1 + r.Intn(4)),
			},
			Interests:  pick(r, seedInterests, r.Intn(5)),
			CreatedAt:  now.Add(-time.Duration(r.Intn(500)) * time.Hour),
			LastActive: now.Add(-time.Duration(r.Intn(72)) * time.Hour),
		}
		if r.Intn(4) == 0 {
			p.DealBreakers = pick(r, seedDealBreakers, 1)
		}
		row := NewSearchProfile(p)
		row.Seq = uint64(i)
		rows = append(rows, row)
	}

	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("failed to seed search profiles: %w", err)
	}
	log.Info("seeded search profiles", "count", len(rows))
	return nil
}

// pick returns k distinct elements of from.
func pick(r *rand.Rand, from []string, k int) []string {
	idx := r.Perm(len(from))
	out := make([]string, 0, k)
	for _, i := range idx[:min(k, len(from))] {
		out = append(out, from[i])
	}
	return out
}
