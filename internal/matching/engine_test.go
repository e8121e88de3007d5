package matching

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine returns an engine with a clock that advances one minute per
// call and sequential match ids, so ordering assertions are deterministic.
func testEngine(t *testing.T) *Engine {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var ticks, ids int
	return New(
		WithClock(func() time.Time {
			ticks++
			return base.Add(time.Duration(ticks) * time.Minute)
		}),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("m%d", ids)
		}),
	)
}

func TestSubmitSearchSameListing(t *testing.T) {
	e := testEngine(t)

	a := newProfile("a", "L1")
	a.Interests = []string{"cooking", "yoga"}
	b := newProfile("b", "L1")
	b.Budget.MaxRent = 1600
	b.Interests = []string{"cooking", "tech"}

	first, err := e.SubmitSearch(a)
	require.NoError(t, err)
	assert.Empty(t, first, "nobody to compare against yet")

	matches, err := e.SubmitSearch(b)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "b", m.A.UserID)
	assert.Equal(t, "a", m.B.UserID)
	assert.True(t, m.Gates.Listing)
	assert.True(t, m.Gates.Lifestyle)
	assert.GreaterOrEqual(t, m.Score, 80)
	assert.Less(t, m.Score, 100)
	assert.Contains(t, m.Reasons, ReasonSameListing)
	assert.Equal(t, "m1", m.ID)

	// the stored match is visible from both sides
	assert.Equal(t, []*Match{m}, e.MatchesForUser("a"))
	assert.Equal(t, []*Match{m}, e.MatchesForUser("b"))
}

func TestSubmitSearchIneligiblePair(t *testing.T) {
	e := testEngine(t)

	c := newProfile("c", "")
	c.Location = Location{City: "SF", Neighborhoods: []string{"Mission"}}
	c.Budget.MaxRent = 1000
	d := newProfile("d", "")
	d.Location = Location{City: "NYC", Neighborhoods: []string{"SoHo"}}
	d.Budget.MaxRent = 5000

	_, err := e.SubmitSearch(c)
	require.NoError(t, err)
	matches, err := e.SubmitSearch(d)
	require.NoError(t, err)

	assert.Empty(t, matches)
	assert.Empty(t, e.MatchesForUser("c"))
	assert.Empty(t, e.MatchesForUser("d"))
}

func TestSubmitSearchLocationOnly(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(newProfile("a", "L1"))
	require.NoError(t, err)
	matches, err := e.SubmitSearch(newProfile("b", "L2"))
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.False(t, matches[0].Gates.Listing)
	assert.True(t, matches[0].Gates.Location)
	assert.NotContains(t, matches[0].Reasons, ReasonSameListing)
}

func TestSubmitSearchReplacesProfile(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(newProfile("a", "L1"))
	require.NoError(t, err)
	_, err = e.SubmitSearch(newProfile("b", "L1"))
	require.NoError(t, err)

	updated := newProfile("a", "L1")
	updated.Name = "Alice v2"
	sub, err := e.Submit(updated)
	require.NoError(t, err)

	require.NotNil(t, sub.Replaced)
	assert.Equal(t, "user a", sub.Replaced.Name)
	assert.Len(t, sub.Dropped, 1)
	assert.Len(t, sub.Matches, 1)

	// exactly one resident profile for the key, and it is the newest
	feed := e.Feed("")
	require.Len(t, feed, 2)
	var names []string
	for _, p := range feed {
		if p.UserID == "a" {
			names = append(names, p.Name)
		}
	}
	assert.Equal(t, []string{"Alice v2"}, names)

	// no duplicate match for the same pair after resubmission
	matches := e.MatchesForUser("b")
	require.Len(t, matches, 1)
	assert.Equal(t, "Alice v2", matches[0].Other("b").Name)
}

func TestSubmitSearchKeepsMatchesOfDifferentListings(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(newProfile("a", "L1"))
	require.NoError(t, err)
	_, err = e.SubmitSearch(newProfile("a", "L2"))
	require.NoError(t, err)
	matches, err := e.SubmitSearch(newProfile("b", "L1"))
	require.NoError(t, err)

	// b pairs with both of a's searches, never a with itself
	assert.Len(t, matches, 2)
	assert.Len(t, e.MatchesForUser("a"), 2)
	for _, m := range e.MatchesForUser("a") {
		assert.NotEqual(t, m.A.UserID, m.B.UserID)
	}
}

func TestSubmitSearchValidation(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(&SearchProfile{ListingID: "L1"})
	assert.True(t, errors.Is(err, ErrInvalidProfile))

	_, err = e.SubmitSearch(nil)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	bad := newProfile("a", "L1")
	bad.Lifestyle.Cleanliness = Cleanliness(9)
	_, err = e.SubmitSearch(bad)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	profiles, _ := e.Stats()
	assert.Zero(t, profiles, "rejected profiles never reach the registry")
}

// TestSubmitSearchRejectsNonFiniteBudget keeps NaN and infinite rents out
// of the registry, where they would break the 0..100 score range.
func TestSubmitSearchRejectsNonFiniteBudget(t *testing.T) {
	e := testEngine(t)
	_, err := e.SubmitSearch(newProfile("a", "L1"))
	require.NoError(t, err)

	for name, mutate := range map[string]func(*SearchProfile){
		"nan rent":       func(p *SearchProfile) { p.Budget.MaxRent = math.NaN() },
		"infinite rent":  func(p *SearchProfile) { p.Budget.MaxRent = math.Inf(1) },
		"negative rent":  func(p *SearchProfile) { p.Budget.MaxRent = -1 },
		"nan split":      func(p *SearchProfile) { p.Budget.PreferredSplit = math.NaN() },
		"infinite split": func(p *SearchProfile) { p.Budget.PreferredSplit = math.Inf(-1) },
	} {
		t.Run(name, func(t *testing.T) {
			p := newProfile("b", "L1")
			mutate(p)
			matches, err := e.SubmitSearch(p)
			assert.ErrorIs(t, err, ErrInvalidProfile)
			assert.Empty(t, matches)
		})
	}

	profiles, matches := e.Stats()
	assert.Equal(t, 1, profiles)
	assert.Zero(t, matches)
}

func TestScoreStaysInRangeForNonFiniteBudget(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	a, b := newProfile("a", "L1"), newProfile("b", "L1")

	for _, rent := range []float64{math.Inf(1), math.NaN()} {
		b.Budget.MaxRent = rent
		bd, _ := s.Score(a, b)
		assert.Zero(t, bd.Budget)
		assert.GreaterOrEqual(t, bd.Total, 0)
		assert.LessOrEqual(t, bd.Total, 100)
	}
}

func TestSubmitSearchSparseProfile(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(&SearchProfile{UserID: "a", ListingID: "L1"})
	require.NoError(t, err)
	matches, err := e.SubmitSearch(&SearchProfile{UserID: "b", ListingID: "L1"})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	// lifestyle 100, interests default 50, budget 0, preferences 100, location 0
	assert.Equal(t, 58, matches[0].Score)
}

func TestSubmitSearchDoesNotAliasInput(t *testing.T) {
	e := testEngine(t)

	p := newProfile("a", "L1")
	p.Interests = []string{"yoga"}
	_, err := e.SubmitSearch(p)
	require.NoError(t, err)

	p.Interests[0] = "changed"
	stored, ok := e.Profile(ProfileKey{UserID: "a", ListingID: "L1"})
	require.True(t, ok)
	assert.Equal(t, []string{"yoga"}, stored.Interests)
}

func TestMatchesForUserSortedByScore(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(newProfile("me", "L1"))
	require.NoError(t, err)

	far := newProfile("far", "L1")
	far.Budget.MaxRent = 3000
	far.Lifestyle.Cleanliness = Relaxed
	near := newProfile("near", "L1")
	mid := newProfile("mid", "L1")
	mid.Budget.MaxRent = 2000
	twin := newProfile("twin", "L1")

	for _, p := range []*SearchProfile{far, near, mid, twin} {
		_, err := e.SubmitSearch(p)
		require.NoError(t, err)
	}

	matches := e.MatchesForUser("me")
	require.Len(t, matches, 4)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	// near and twin tie; insertion order breaks the tie
	assert.Equal(t, "near", matches[0].Other("me").UserID)
	assert.Equal(t, "twin", matches[1].Other("me").UserID)
	assert.Equal(t, "far", matches[3].Other("me").UserID)
	assert.Equal(t, 4, e.MatchCount("me"))
}

func TestFeed(t *testing.T) {
	e := testEngine(t)

	old := newProfile("old", "L1")
	old.LastActive = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []*SearchProfile{old, newProfile("me", "L1"), newProfile("recent", "L9")} {
		_, err := e.SubmitSearch(p)
		require.NoError(t, err)
	}

	feed := e.Feed("me")
	require.Len(t, feed, 2)
	assert.Equal(t, "recent", feed[0].UserID)
	assert.Equal(t, "old", feed[1].UserID)
	for _, p := range feed {
		assert.NotEqual(t, "me", p.UserID)
	}

	assert.Len(t, e.Feed(""), 3)
}

// TestWithdrawSearch pins the cascade decision: withdrawing a search removes
// it from the feed and deletes every match that referenced it.
func TestWithdrawSearch(t *testing.T) {
	e := testEngine(t)

	for _, p := range []*SearchProfile{newProfile("a", "L1"), newProfile("a", "L2"), newProfile("b", "L1")} {
		_, err := e.SubmitSearch(p)
		require.NoError(t, err)
	}
	require.Len(t, e.MatchesForUser("b"), 2)

	l2 := "L2"
	assert.Equal(t, 1, e.WithdrawSearch("a", &l2))
	assert.Len(t, e.Feed("b"), 1)
	assert.Len(t, e.MatchesForUser("b"), 1)

	missing := "nope"
	assert.Equal(t, 0, e.WithdrawSearch("a", &missing))

	w := e.Withdraw("a", nil)
	assert.Equal(t, []ProfileKey{{UserID: "a", ListingID: "L1"}}, w.Removed)
	assert.Len(t, w.Dropped, 1)
	assert.Empty(t, e.Feed("b"))
	assert.Empty(t, e.MatchesForUser("b"))
	assert.Empty(t, e.MatchesForUser("a"))
}

func TestWithdrawAllListings(t *testing.T) {
	e := testEngine(t)

	for _, l := range []string{"", "L1", "L2"} {
		_, err := e.SubmitSearch(newProfile("a", l))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, e.WithdrawSearch("a", nil))
	profiles, matches := e.Stats()
	assert.Zero(t, profiles)
	assert.Zero(t, matches)
}

func TestRestore(t *testing.T) {
	e := testEngine(t)

	require.NoError(t, e.Restore([]*SearchProfile{
		newProfile("a", "L1"), newProfile("b", "L1"), newProfile("c", "L1"),
	}))
	profiles, matches := e.Stats()
	assert.Equal(t, 3, profiles)
	assert.Equal(t, 3, matches)

	assert.ErrorIs(t, e.Restore([]*SearchProfile{{}}), ErrInvalidProfile)
}

func TestMatchesInStoreOrder(t *testing.T) {
	e := testEngine(t)

	_, err := e.SubmitSearch(newProfile("a", "L1"))
	require.NoError(t, err)
	_, err = e.SubmitSearch(newProfile("b", "L1"))
	require.NoError(t, err)
	_, err = e.SubmitSearch(newProfile("c", "L1"))
	require.NoError(t, err)

	all := e.Matches()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestEngineConcurrentAccess(t *testing.T) {
	e := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				id := fmt.Sprintf("u%d", (i*25+j)%40)
				_, err := e.SubmitSearch(newProfile(id, "L1"))
				assert.NoError(t, err)
				_ = e.Feed(id)
				_ = e.MatchesForUser(id)
				if j%5 == 0 {
					e.WithdrawSearch(id, nil)
				}
			}
		}(i)
	}
	wg.Wait()

	// every pair of resident profiles on L1 is matched exactly once
	profiles, matches := e.Stats()
	assert.Equal(t, profiles*(profiles-1)/2, matches)
}
