package matching

import (
	"sort"
	"time"
)

// PairKey is the unordered identity of a match: the two profile keys in
// canonical order.
type PairKey struct {
	First, Second ProfileKey
}

// NewPairKey orders the two keys by (UserID, ListingID).
func NewPairKey(a, b ProfileKey) PairKey {
	if b.less(a) {
		a, b = b, a
	}
	return PairKey{First: a, Second: b}
}

func (k PairKey) String() string {
	return k.First.String() + "|" + k.Second.String()
}

// Involves reports whether either side belongs to userID.
func (k PairKey) Involves(userID string) bool {
	return k.First.UserID == userID || k.Second.UserID == userID
}

// Match is an immutable scored pair. A and B point at the profile versions
// that were scored.
type Match struct {
	ID        string         `json:"id"`
	A         *SearchProfile `json:"a"`
	B         *SearchProfile `json:"b"`
	Score     int            `json:"compatibilityScore"`
	Reasons   []string       `json:"matchReasons"`
	Gates     Gates          `json:"gates"`
	Breakdown Breakdown      `json:"breakdown"`
	MatchedAt time.Time      `json:"matchedAt"`

	seq uint64
}

func (m *Match) Key() PairKey {
	return NewPairKey(m.A.Key(), m.B.Key())
}

// Other returns the side of the match not owned by userID.
func (m *Match) Other(userID string) *SearchProfile {
	if m.A.UserID == userID {
		return m.B
	}
	return m.A
}

// MatchStore keeps at most one match per PairKey. A recomputed pair
// replaces the earlier record. Like Registry it relies on Engine for
// locking.
type MatchStore struct {
	matches map[PairKey]*Match
	seq     uint64
}

func NewMatchStore() *MatchStore {
	return &MatchStore{matches: make(map[PairKey]*Match)}
}

// Put stores m under its pair key and stamps its insertion sequence.
func (s *MatchStore) Put(m *Match) {
	s.seq++
	m.seq = s.seq
	s.matches[m.Key()] = m
}

// DropProfile deletes every match referencing key and returns the
// removed pair keys.
func (s *MatchStore) DropProfile(key ProfileKey) []PairKey {
	var dropped []PairKey
	for pk := range s.matches {
		if pk.First == key || pk.Second == key {
			delete(s.matches, pk)
			dropped = append(dropped, pk)
		}
	}
	return dropped
}

// ForUser returns matches involving userID, highest score first. Equal
// scores keep insertion order.
func (s *MatchStore) ForUser(userID string) []*Match {
	var out []*Match
	for pk, m := range s.matches {
		if pk.Involves(userID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (s *MatchStore) Count(userID string) int {
	n := 0
	for pk := range s.matches {
		if pk.Involves(userID) {
			n++
		}
	}
	return n
}

func (s *MatchStore) Len() int { return len(s.matches) }

// All returns every stored match in insertion order.
func (s *MatchStore) All() []*Match {
	out := make([]*Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
