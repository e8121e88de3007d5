package matching

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine owns a Registry and a MatchStore and serializes access to them.
// Writers hold the exclusive lock for the whole replace, rescan and store
// sequence; readers share the read lock.
type Engine struct {
	mu       sync.RWMutex
	registry *Registry
	store    *MatchStore

	checker *Checker
	scorer  *Scorer
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
}

type Option func(*Engine)

// WithScoring replaces the default scoring table. The table is expected to
// be validated already.
func WithScoring(cfg ScoringConfig) Option {
	return func(e *Engine) {
		e.checker = NewChecker(cfg)
		e.scorer = NewScorer(cfg)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	cfg := DefaultScoringConfig()
	e := &Engine{
		registry: NewRegistry(),
		store:    NewMatchStore(),
		checker:  NewChecker(cfg),
		scorer:   NewScorer(cfg),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submission describes the effect of one SubmitSearch call.
type Submission struct {
	Profile  *SearchProfile
	Replaced *SearchProfile // previous version under the same key, if any
	Matches  []*Match       // new matches, in discovery order
	Dropped  []PairKey      // matches of the replaced version that were discarded
}

// Submit validates p, upserts it and scores it against every other resident
// profile. Profiles of the same user are never paired with each other.
func (e *Engine) Submit(p *SearchProfile) (*Submission, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	profile := p.prepare(now)
	key := profile.Key()

	sub := &Submission{Profile: profile}
	if sub.Replaced = e.registry.Upsert(profile); sub.Replaced != nil {
		sub.Dropped = e.store.DropProfile(key)
	}

	for _, other := range e.registry.Others(key) {
		if other.UserID == profile.UserID {
			continue
		}
		gates := e.checker.Evaluate(profile, other)
		if !gates.Eligible() {
			continue
		}
		bd, reasons := e.scorer.Score(profile, other)
		m := &Match{
			ID:        e.newID(),
			A:         profile,
			B:         other,
			Score:     bd.Total,
			Reasons:   reasons,
			Gates:     gates,
			Breakdown: bd,
			MatchedAt: now,
		}
		e.store.Put(m)
		sub.Matches = append(sub.Matches, m)
	}

	e.logger.Debug("search submitted",
		"profile", key.String(),
		"replaced", sub.Replaced != nil,
		"new_matches", len(sub.Matches),
		"dropped_matches", len(sub.Dropped),
	)
	return sub, nil
}

// SubmitSearch upserts p and returns the matches discovered for it.
func (e *Engine) SubmitSearch(p *SearchProfile) ([]*Match, error) {
	sub, err := e.Submit(p)
	if err != nil {
		return nil, err
	}
	return sub.Matches, nil
}

// Withdrawal describes the effect of one Withdraw call.
type Withdrawal struct {
	Removed []ProfileKey
	Dropped []PairKey
}

// Withdraw removes the search for (userID, *listingID), or every search of
// the user when listingID is nil. Matches referencing removed profiles are
// deleted with them.
func (e *Engine) Withdraw(userID string, listingID *string) *Withdrawal {
	e.mu.Lock()
	defer e.mu.Unlock()

	w := &Withdrawal{Removed: e.registry.Remove(userID, listingID)}
	for _, key := range w.Removed {
		w.Dropped = append(w.Dropped, e.store.DropProfile(key)...)
	}

	e.logger.Debug("search withdrawn",
		"user", userID,
		"removed_profiles", len(w.Removed),
		"dropped_matches", len(w.Dropped),
	)
	return w
}

// WithdrawSearch is Withdraw returning only the number of removed profiles.
func (e *Engine) WithdrawSearch(userID string, listingID *string) int {
	return len(e.Withdraw(userID, listingID).Removed)
}

// Feed returns all resident profiles except those of excludingUserID, most
// recently active first. Returned profiles must not be modified.
func (e *Engine) Feed(excludingUserID string) []*SearchProfile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Feed(excludingUserID)
}

// MatchesForUser returns every stored match involving userID, highest
// score first.
func (e *Engine) MatchesForUser(userID string) []*Match {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.ForUser(userID)
}

func (e *Engine) MatchCount(userID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Count(userID)
}

// Matches returns every stored match in the order it was stored.
func (e *Engine) Matches() []*Match {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.All()
}

// Profile looks up a resident profile.
func (e *Engine) Profile(key ProfileKey) (*SearchProfile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Get(key)
}

// Stats reports the number of resident profiles and stored matches.
func (e *Engine) Stats() (profiles, matches int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Len(), e.store.Len()
}

// Restore replays profiles in order, rebuilding the match store. Used to
// warm an engine from persisted searches.
func (e *Engine) Restore(profiles []*SearchProfile) error {
	for _, p := range profiles {
		if _, err := e.Submit(p); err != nil {
			return err
		}
	}
	return nil
}
