package matching

import "strings"

// DealBreakerCategory tags a free-text deal-breaker phrase so it can be
// matched against structured lifestyle fields.
type DealBreakerCategory int

const (
	DealBreakerOther DealBreakerCategory = iota
	DealBreakerCleanliness
)

// categoryKeywords maps a lower-case keyword to the category of any phrase
// containing it.
var categoryKeywords = []struct {
	keyword  string
	category DealBreakerCategory
}{
	{"clean", DealBreakerCleanliness},
}

// conflictRules reports whether the other profile violates a deal-breaker
// of the given category. Categories without a rule never conflict.
var conflictRules = map[DealBreakerCategory]func(other *SearchProfile) bool{
	DealBreakerCleanliness: func(other *SearchProfile) bool {
		return other.Lifestyle.Cleanliness == Relaxed
	},
}

// ClassifyDealBreaker returns the category of a deal-breaker phrase.
func ClassifyDealBreaker(phrase string) DealBreakerCategory {
	p := strings.ToLower(phrase)
	for _, kw := range categoryKeywords {
		if strings.Contains(p, kw.keyword) {
			return kw.category
		}
	}
	return DealBreakerOther
}

// violatesDealBreakers reports whether other conflicts with any of owner's
// deal-breakers.
func violatesDealBreakers(owner, other *SearchProfile) bool {
	for _, phrase := range owner.DealBreakers {
		if rule, ok := conflictRules[ClassifyDealBreaker(phrase)]; ok && rule(other) {
			return true
		}
	}
	return false
}
