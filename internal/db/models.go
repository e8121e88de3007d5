package db

import (
	"time"

	"github.com/oggyb/roommate-match/internal/matching"
)

// SearchProfile is the persisted form of a roommate search.
//
// Composite PK: (UserID, ListingID)
//   - Mirrors the registry invariant: one live search per user and listing.
//   - ListingID is "" for a listing-agnostic search.
//
// Seq is the submission order: it is bumped on every upsert, so a
// resubmitted search moves behind every other one, as it does in the engine.
// Replaying rows by Seq rebuilds the same registry and match order.
//
// Lifestyle levels are stored in their text form ("very-clean", "quiet", ...)
// so rows stay readable and survive enum reordering.
type SearchProfile struct {
	UserID    string `gorm:"primaryKey;size:64"`
	ListingID string `gorm:"primaryKey;size:64"`
	Seq       uint64 `gorm:"index;not null"`

	Name       string `gorm:"size:128"`
	Age        int
	Avatar     string `gorm:"size:512"`
	Verified   bool
	TrustScore float64

	Cleanliness  string `gorm:"size:16"`
	SocialLevel  string `gorm:"size:16"`
	WorkSchedule string `gorm:"size:16"`
	GuestPolicy  string `gorm:"size:16"`

	PetFriendly    bool
	SmokingAllowed bool
	DrinkingOK     bool
	LGBTQFriendly  bool

	MaxRent        float64
	PreferredSplit float64

	MoveInEarliest *time.Time
	MoveInLatest   *time.Time
	MoveInFlexible bool

	City              string   `gorm:"size:128;index"`
	Neighborhoods     []string `gorm:"serializer:json;type:text"`
	MaxCommuteMinutes int
	Interests         []string `gorm:"serializer:json;type:text"`
	DealBreakers      []string `gorm:"serializer:json;type:text"`

	CreatedAt  time.Time
	LastActive time.Time `gorm:"index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Match is a persisted scored pair.
//
// PK: PairHash, a blake2b-256 digest of the unordered pair of profile keys,
// so a recomputed pair overwrites its previous row.
//
// Indexes:
//   - idx_match_user_a / idx_match_user_b: "matches for user" lookups from
//     either side.
type Match struct {
	PairHash string `gorm:"primaryKey;size:64"`
	ID       string `gorm:"uniqueIndex;size:36;not null"`

	UserA    string `gorm:"size:64;not null;index:idx_match_user_a"`
	ListingA string `gorm:"size:64"`
	UserB    string `gorm:"size:64;not null;index:idx_match_user_b"`
	ListingB string `gorm:"size:64"`

	Score   int      `gorm:"not null;index"`
	Reasons []string `gorm:"serializer:json;type:text"`

	ListingCompatible   bool
	BudgetCompatible    bool
	LifestyleCompatible bool
	LocationCompatible  bool

	Breakdown matching.Breakdown `gorm:"serializer:json;type:text"`

	MatchedAt time.Time
}
