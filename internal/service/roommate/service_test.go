package roommate_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/roommate-match/internal/app"
	"github.com/oggyb/roommate-match/internal/cache"
	"github.com/oggyb/roommate-match/internal/config"
	"github.com/oggyb/roommate-match/internal/db"
	"github.com/oggyb/roommate-match/internal/logger"
	"github.com/oggyb/roommate-match/internal/matching"
	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
	"github.com/oggyb/roommate-match/internal/service/roommate"
)

//
// Test helpers
//

type fixture struct {
	svc *roommate.Service
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

// setupService spins up an in-memory SQLite DB, applies migrations, starts
// a miniredis and wires everything into a RoommateService instance with a
// fresh engine.
//
// Each test gets its own isolated DB + Redis.
func setupService(t *testing.T) *fixture {
	t.Helper()

	// In-memory SQLite
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	// Fake Redis
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	log := logger.Discard() // discard logs in tests

	var ids int
	engine := matching.New(
		matching.WithLogger(log),
		matching.WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("match-%d", ids)
		}),
	)

	appCtx := app.New(dbase, redisCache, log, engine)
	return &fixture{svc: roommate.NewRoommateService(appCtx), db: dbase, mr: mr}
}

func wireProfile(userID, listingID string) *pb.Profile {
	return &pb.Profile{
		UserId:    userID,
		ListingId: listingID,
		Name:      "user " + userID,
		Verified:  true,
		Lifestyle: &pb.Lifestyle{
			Cleanliness:  "clean",
			SocialLevel:  "social",
			WorkSchedule: "day",
			GuestPolicy:  "occasional",
		},
		Budget:    &pb.Budget{MaxRent: 1500, PreferredSplit: 50},
		Location:  &pb.Location{City: "SF", Neighborhoods: []string{"Mission"}},
		Interests: []string{"yoga", "cooking"},
	}
}

func submit(t *testing.T, f *fixture, p *pb.Profile) *pb.SubmitSearchResponse {
	t.Helper()
	resp, err := f.svc.SubmitSearch(context.Background(), &pb.SubmitSearchRequest{Profile: p})
	require.NoError(t, err)
	return resp
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}

//
// Tests
//

// TestSubmitSearchPersistsAndMatches checks that a second search for the
// same listing produces a match that is written through to the database.
func TestSubmitSearchPersistsAndMatches(t *testing.T) {
	f := setupService(t)

	first := submit(t, f, wireProfile("1", "apt-7"))
	assert.Empty(t, first.Matches)

	second := submit(t, f, wireProfile("2", "apt-7"))
	require.Len(t, second.Matches, 1)

	m := second.Matches[0]
	assert.Equal(t, "match-1", m.Id)
	assert.Equal(t, "2", m.A.UserId)
	assert.Equal(t, "1", m.B.UserId)
	assert.True(t, m.Gates.Listing)
	assert.Contains(t, m.MatchReasons, matching.ReasonSameListing)
	assert.NotZero(t, m.UnixTimestamp)

	assert.Equal(t, int64(2), countRows(t, f.db, &db.SearchProfile{}))
	assert.Equal(t, int64(1), countRows(t, f.db, &db.Match{}))
}

// TestSubmitSearchReplacesMatches resubmits a search and expects the pair
// to be rescored in place instead of accumulating.
func TestSubmitSearchReplacesMatches(t *testing.T) {
	f := setupService(t)
	submit(t, f, wireProfile("1", "apt-7"))
	submit(t, f, wireProfile("2", "apt-7"))

	again := wireProfile("2", "apt-7")
	again.Budget.MaxRent = 1600
	resp := submit(t, f, again)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "match-2", resp.Matches[0].Id)

	assert.Equal(t, int64(2), countRows(t, f.db, &db.SearchProfile{}))
	assert.Equal(t, int64(1), countRows(t, f.db, &db.Match{}))

	var row db.Match
	require.NoError(t, f.db.First(&row).Error)
	assert.Equal(t, "match-2", row.ID)
}

func TestSubmitSearchValidation(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.SubmitSearch(ctx, &pb.SubmitSearchRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.svc.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: &pb.Profile{ListingId: "apt-7"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	bad := wireProfile("1", "apt-7")
	bad.Lifestyle.Cleanliness = "spotless"
	_, err = f.svc.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: bad})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	assert.Zero(t, countRows(t, f.db, &db.SearchProfile{}))
}

// TestWithdrawSearchCascades removes every search of a user and expects
// their matches to disappear from the engine and the database.
func TestWithdrawSearchCascades(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	submit(t, f, wireProfile("1", "apt-7"))
	submit(t, f, wireProfile("1", "apt-9"))
	submit(t, f, wireProfile("2", "apt-7"))
	submit(t, f, wireProfile("3", "apt-9"))

	resp, err := f.svc.WithdrawSearch(ctx, &pb.WithdrawSearchRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp.Removed)

	count, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "2"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count.Count, "2 and 3 share SF/Mission")

	assert.Equal(t, int64(2), countRows(t, f.db, &db.SearchProfile{}))
	assert.Equal(t, int64(1), countRows(t, f.db, &db.Match{}))

	// nothing left to remove
	resp, err = f.svc.WithdrawSearch(ctx, &pb.WithdrawSearchRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Zero(t, resp.Removed)

	_, err = f.svc.WithdrawSearch(ctx, &pb.WithdrawSearchRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestWithdrawSingleListing(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	submit(t, f, wireProfile("1", "apt-7"))
	submit(t, f, wireProfile("1", "apt-9"))

	listing := "apt-9"
	resp, err := f.svc.WithdrawSearch(ctx, &pb.WithdrawSearchRequest{UserId: "1", ListingId: &listing})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.Removed)
	assert.Equal(t, int64(1), countRows(t, f.db, &db.SearchProfile{}))
}

// TestGetFeedPagination walks the feed two profiles at a time.
func TestGetFeedPagination(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	for i := 1; i <= 5; i++ {
		submit(t, f, wireProfile(fmt.Sprint(i), ""))
	}

	var seen []string
	var token *string
	for {
		resp, err := f.svc.GetFeed(ctx, &pb.GetFeedRequest{ExcludingUserId: "3", PageSize: 2, PaginationToken: token})
		require.NoError(t, err)
		for _, p := range resp.Profiles {
			seen = append(seen, p.UserId)
		}
		if resp.NextPaginationToken == nil {
			break
		}
		token = resp.NextPaginationToken
	}
	assert.ElementsMatch(t, []string{"1", "2", "4", "5"}, seen)
	assert.Len(t, seen, 4)

	bad := "%%%"
	_, err := f.svc.GetFeed(ctx, &pb.GetFeedRequest{PaginationToken: &bad})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetMatchesSortedByScore(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	submit(t, f, wireProfile("1", "apt-7"))

	far := wireProfile("2", "apt-7")
	far.Budget.MaxRent = 3000
	far.Interests = nil
	submit(t, f, far)
	submit(t, f, wireProfile("3", "apt-7"))

	resp, err := f.svc.GetMatches(ctx, &pb.GetMatchesRequest{UserId: "1"})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 2)
	assert.GreaterOrEqual(t, resp.Matches[0].CompatibilityScore, resp.Matches[1].CompatibilityScore)
	assert.Equal(t, "3", resp.Matches[0].A.UserId)
	assert.Nil(t, resp.NextPaginationToken)

	_, err = f.svc.GetMatches(ctx, &pb.GetMatchesRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestCountMatchesCache verifies counts are served from Redis and dropped
// when a write changes the user's matches.
func TestCountMatchesCache(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	submit(t, f, wireProfile("1", "apt-7"))
	submit(t, f, wireProfile("2", "apt-7"))

	// First call → engine
	resp1, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp1.Count)
	assert.True(t, f.mr.Exists("matches:count:1"))

	// Second call → cache
	require.NoError(t, f.mr.Set("matches:count:1", "41"))
	resp2, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(41), resp2.Count)

	// a new match for user 1 invalidates the counter
	submit(t, f, wireProfile("3", "apt-7"))
	assert.False(t, f.mr.Exists("matches:count:1"))

	resp3, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp3.Count)
}

// TestCountMatchesRedisDown falls back to the engine when Redis is gone.
func TestCountMatchesRedisDown(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	submit(t, f, wireProfile("1", "apt-7"))
	submit(t, f, wireProfile("2", "apt-7"))

	f.mr.Close()

	resp, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "2"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.Count)
}

// TestCountMatchesConcurrentWrites counts while other goroutines keep
// adding matches for the same user; once writes settle the cached count
// must agree with the engine.
func TestCountMatchesConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)
	submit(t, f, wireProfile("0", "apt-7"))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: wireProfile(fmt.Sprint(i), "apt-7")})
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "0"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	resp, err := f.svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "0"})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), resp.Count)
	assert.Equal(t, "20", mustGet(t, f.mr, "matches:count:0"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
