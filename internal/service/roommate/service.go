package roommate

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/oggyb/roommate-match/internal/app"
	svcErr "github.com/oggyb/roommate-match/internal/errors"
	"github.com/oggyb/roommate-match/internal/logger"
	"github.com/oggyb/roommate-match/internal/matching"
	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
	"github.com/oggyb/roommate-match/internal/repository"
	"github.com/oggyb/roommate-match/internal/utils/pagination"
)

// Service implements the RoommateService gRPC API.
// The matching engine answers every read; MySQL and Redis are kept in step
// on writes. Each method corresponds to a gRPC endpoint of
// roommate.v1.RoommateService.
type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	matchRepo   *repository.MatchRepository

	// writeMu keeps engine order and database order identical.
	writeMu sync.Mutex

	pb.UnimplementedRoommateServiceServer
}

// NewRoommateService creates a new Roommate service with dependencies from AppContext.
// Dependencies include:
//   - Engine holding live searches and matches
//   - DB connection (via ProfileRepository and MatchRepository)
//   - RedisCache for match counters
func NewRoommateService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
	}
}

// SubmitSearch creates or replaces a roommate search and returns the
// matches found for it.
//
// Behavior:
//   - Resubmitting the same (user_id, listing_id) replaces the search and
//     discards the matches of the previous version.
//   - The search and its match changes are written in one transaction.
//   - Cached match counts of every user whose matches changed are dropped.
//
// Example:
//
//	svc.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: &pb.Profile{UserId: "42", ListingId: "apt-7"}})
func (s *Service) SubmitSearch(ctx context.Context, req *pb.SubmitSearchRequest) (*pb.SubmitSearchResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("SubmitSearch called", "user", req.GetProfile().GetUserId(), "listing", req.GetProfile().GetListingId())

	if req.GetProfile() == nil {
		return nil, svcErr.InvalidArgument("profile is required")
	}
	profile, err := toProfile(req.GetProfile())
	if err != nil {
		return nil, svcErr.Map(err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if prev, ok := s.appCtx.Engine.Profile(profile.Key()); ok {
		profile.CreatedAt = prev.CreatedAt
	}
	sub, err := s.appCtx.Engine.Submit(profile)
	if err != nil {
		log.Warn("SubmitSearch rejected", "err", err)
		return nil, svcErr.Map(err)
	}

	if err := s.persistSubmission(ctx, sub); err != nil {
		// the engine stays authoritative; the next restart replays searches
		log.Error("failed to persist search", "profile", sub.Profile.Key().String(), "err", err)
	}

	touched := []string{sub.Profile.UserID}
	for _, m := range sub.Matches {
		touched = append(touched, m.Other(sub.Profile.UserID).UserID)
	}
	touched = append(touched, pairUsers(sub.Dropped)...)
	s.invalidateCounts(ctx, touched)

	log.Debug("SubmitSearch result", "matches", len(sub.Matches), "dropped", len(sub.Dropped))
	return &pb.SubmitSearchResponse{Matches: fromMatches(sub.Matches)}, nil
}

// WithdrawSearch removes one search, or every search of the user when
// listing_id is absent, together with their matches.
//
// Example:
//
//	svc.WithdrawSearch(ctx, &pb.WithdrawSearchRequest{UserId: "42"})
func (s *Service) WithdrawSearch(ctx context.Context, req *pb.WithdrawSearchRequest) (*pb.WithdrawSearchResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("WithdrawSearch called", "user", req.GetUserId())

	userID := strings.TrimSpace(req.GetUserId())
	if userID == "" {
		return nil, svcErr.InvalidArgument("user_id is required")
	}
	var listingID *string
	if req.ListingId != nil {
		l := strings.TrimSpace(*req.ListingId)
		listingID = &l
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	w := s.appCtx.Engine.Withdraw(userID, listingID)
	if len(w.Removed) == 0 {
		return &pb.WithdrawSearchResponse{}, nil
	}

	if err := s.persistWithdrawal(ctx, w); err != nil {
		log.Error("failed to persist withdrawal", "user", userID, "err", err)
	}
	s.invalidateCounts(ctx, append([]string{userID}, pairUsers(w.Dropped)...))

	return &pb.WithdrawSearchResponse{Removed: uint64(len(w.Removed))}, nil
}

// GetFeed lists live searches, most recently active first, optionally
// hiding the searches of one user.
//
// Example:
//
//	svc.GetFeed(ctx, &pb.GetFeedRequest{ExcludingUserId: "42", PageSize: 10})
func (s *Service) GetFeed(ctx context.Context, req *pb.GetFeedRequest) (*pb.GetFeedResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("GetFeed called", "excluding", req.GetExcludingUserId(), "token", req.GetPaginationToken())

	feed := s.appCtx.Engine.Feed(strings.TrimSpace(req.GetExcludingUserId()))
	page, next, err := pagination.Page(feed, req.PaginationToken, pagination.PageSize(req.PageSize),
		profileAnchor)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.GetFeedResponse{Profiles: make([]*pb.Profile, 0, len(page)), NextPaginationToken: next}
	for _, p := range page {
		resp.Profiles = append(resp.Profiles, fromProfile(p))
	}
	return resp, nil
}

// profileAnchor is the feed cursor id of p. The user id is length-prefixed
// so ids containing "/" cannot alias another search.
func profileAnchor(p *matching.SearchProfile) string {
	return strconv.Itoa(len(p.UserID)) + ":" + p.UserID + p.ListingID
}

// GetMatches lists the matches of a user, highest compatibility first.
//
// Example:
//
//	svc.GetMatches(ctx, &pb.GetMatchesRequest{UserId: "42"})
func (s *Service) GetMatches(ctx context.Context, req *pb.GetMatchesRequest) (*pb.GetMatchesResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("GetMatches called", "user", req.GetUserId(), "token", req.GetPaginationToken())

	userID := strings.TrimSpace(req.GetUserId())
	if userID == "" {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	matches := s.appCtx.Engine.MatchesForUser(userID)
	page, next, err := pagination.Page(matches, req.PaginationToken, pagination.PageSize(req.PageSize),
		func(m *matching.Match) string { return m.ID })
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.GetMatchesResponse{Matches: fromMatches(page), NextPaginationToken: next}
	log.Debug("GetMatches result", "match_count", len(resp.Matches), "next_token", resp.GetNextPaginationToken())
	return resp, nil
}

// CountMatches returns how many matches a user has.
// Cache-first strategy:
//  1. Attempts to read from Redis (matches:count:userID).
//  2. On a miss or Redis error, counts in the engine.
//  3. Writes the count back with the configured TTL.
//
// Example:
//
//	svc.CountMatches(ctx, &pb.CountMatchesRequest{UserId: "42"})
func (s *Service) CountMatches(ctx context.Context, req *pb.CountMatchesRequest) (*pb.CountMatchesResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("CountMatches called", "user", req.GetUserId())

	userID := strings.TrimSpace(req.GetUserId())
	if userID == "" {
		return nil, svcErr.InvalidArgument("user_id is required")
	}

	rc := s.appCtx.RedisCache
	if rc != nil {
		n, ok, err := rc.GetMatchCount(ctx, userID)
		if err != nil {
			log.Warn("match count cache read failed", "user", userID, "err", err)
		} else if ok {
			return &pb.CountMatchesResponse{Count: uint64(n)}, nil
		}
	}

	// Writers invalidate under writeMu, so counting and filling the cache
	// under it too keeps a stale count from landing after an invalidation.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	count := s.appCtx.Engine.MatchCount(userID)
	if rc != nil {
		if err := rc.SetMatchCount(ctx, userID, int64(count)); err != nil {
			log.Warn("match count cache write failed", "user", userID, "err", err)
		}
	}
	return &pb.CountMatchesResponse{Count: uint64(count)}, nil
}

func (s *Service) persistSubmission(ctx context.Context, sub *matching.Submission) error {
	if s.appCtx.DB == nil {
		return nil
	}
	return s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.profileRepo.WithTx(tx).Upsert(ctx, sub.Profile); err != nil {
			return err
		}
		return s.matchRepo.WithTx(tx).Apply(ctx, sub.Dropped, sub.Matches)
	})
}

func (s *Service) persistWithdrawal(ctx context.Context, w *matching.Withdrawal) error {
	if s.appCtx.DB == nil {
		return nil
	}
	return s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.matchRepo.WithTx(tx).Apply(ctx, w.Dropped, nil); err != nil {
			return err
		}
		return s.profileRepo.WithTx(tx).Delete(ctx, w.Removed)
	})
}

func (s *Service) invalidateCounts(ctx context.Context, userIDs []string) {
	if s.appCtx.RedisCache == nil {
		return
	}
	if err := s.appCtx.RedisCache.InvalidateMatchCounts(ctx, dedupe(userIDs)...); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Warn("failed to invalidate match counts", "err", err)
	}
}

func pairUsers(keys []matching.PairKey) []string {
	out := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k.First.UserID, k.Second.UserID)
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
