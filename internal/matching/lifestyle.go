package matching

import (
	"fmt"
	"strings"
)

// Cleanliness is an ordinal level, most tidy first.
type Cleanliness int

const (
	CleanlinessUnset Cleanliness = iota
	VeryClean
	Clean
	ModeratelyClean
	Relaxed
)

// SocialLevel is an ordinal level, most outgoing first.
type SocialLevel int

const (
	SocialUnset SocialLevel = iota
	VerySocial
	Social
	ModeratelySocial
	Quiet
)

// WorkSchedule is categorical; only equality and Flexible matter for scoring.
type WorkSchedule int

const (
	ScheduleUnset WorkSchedule = iota
	DaySchedule
	NightSchedule
	FlexibleSchedule
	RemoteSchedule
)

// GuestPolicy is carried on the profile but not scored.
type GuestPolicy int

const (
	GuestsUnset GuestPolicy = iota
	GuestsFrequent
	GuestsOccasional
	GuestsRare
	GuestsNone
)

var (
	cleanlinessNames = []string{"", "very-clean", "clean", "moderate", "relaxed"}
	socialNames      = []string{"", "very-social", "social", "moderate", "quiet"}
	scheduleNames    = []string{"", "day", "night", "flexible", "remote"}
	guestNames       = []string{"", "frequent", "occasional", "rare", "none"}
)

// Lifestyle groups the ordinal attributes compared by the checker and scorer.
type Lifestyle struct {
	Cleanliness  Cleanliness  `json:"cleanliness"`
	SocialLevel  SocialLevel  `json:"socialLevel"`
	WorkSchedule WorkSchedule `json:"workSchedule"`
	GuestPolicy  GuestPolicy  `json:"guestPolicy"`
}

// normalize fills unset levels with the middle of each scale.
func (l Lifestyle) normalize() Lifestyle {
	if l.Cleanliness == CleanlinessUnset {
		l.Cleanliness = ModeratelyClean
	}
	if l.SocialLevel == SocialUnset {
		l.SocialLevel = ModeratelySocial
	}
	if l.WorkSchedule == ScheduleUnset {
		l.WorkSchedule = FlexibleSchedule
	}
	if l.GuestPolicy == GuestsUnset {
		l.GuestPolicy = GuestsOccasional
	}
	return l
}

func (l Lifestyle) valid() bool {
	return inRange(int(l.Cleanliness), cleanlinessNames) &&
		inRange(int(l.SocialLevel), socialNames) &&
		inRange(int(l.WorkSchedule), scheduleNames) &&
		inRange(int(l.GuestPolicy), guestNames)
}

// Distance returns the ordinal distance between two levels of the same scale.
func Distance[T ~int](a, b T) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func (c Cleanliness) String() string  { return nameOf(int(c), cleanlinessNames) }
func (s SocialLevel) String() string  { return nameOf(int(s), socialNames) }
func (w WorkSchedule) String() string { return nameOf(int(w), scheduleNames) }
func (g GuestPolicy) String() string  { return nameOf(int(g), guestNames) }

// ParseCleanliness parses the text form, e.g. "very-clean".
func ParseCleanliness(s string) (Cleanliness, error) {
	i, err := parseLevel("cleanliness", s, cleanlinessNames)
	return Cleanliness(i), err
}

func ParseSocialLevel(s string) (SocialLevel, error) {
	i, err := parseLevel("social level", s, socialNames)
	return SocialLevel(i), err
}

func ParseWorkSchedule(s string) (WorkSchedule, error) {
	i, err := parseLevel("work schedule", s, scheduleNames)
	return WorkSchedule(i), err
}

func ParseGuestPolicy(s string) (GuestPolicy, error) {
	i, err := parseLevel("guest policy", s, guestNames)
	return GuestPolicy(i), err
}

func (c Cleanliness) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cleanliness) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCleanliness(string(b))
	return err
}

func (s SocialLevel) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SocialLevel) UnmarshalText(b []byte) (err error) {
	*s, err = ParseSocialLevel(string(b))
	return err
}

func (w WorkSchedule) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *WorkSchedule) UnmarshalText(b []byte) (err error) {
	*w, err = ParseWorkSchedule(string(b))
	return err
}

func (g GuestPolicy) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *GuestPolicy) UnmarshalText(b []byte) (err error) {
	*g, err = ParseGuestPolicy(string(b))
	return err
}

func parseLevel(kind, s string, names []string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidProfile, kind, s)
}

func nameOf(i int, names []string) string {
	if inRange(i, names) {
		return names[i]
	}
	return fmt.Sprintf("unknown(%d)", i)
}

func inRange(i int, names []string) bool {
	return i >= 0 && i < len(names)
}
