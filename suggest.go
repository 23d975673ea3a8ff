package verifier

import (
	"github.com/hbollon/go-edlib"

	"github.com/reachmail/verifier/cache"
)

// DomainSuggestion is the cached shape for the typo-suggestion namespace.
// A zero-value Suggested means no correction was confident enough to offer.
type DomainSuggestion struct {
	Suggested  string
	Confidence float32
}

// popularDomains is the small reference set candidate corrections are drawn
// from. Real deployments would supply a much larger list (free-mail
// providers plus the caller's own customer domain list); this seed mirrors
// the size of the free/disposable seed sets used elsewhere in this package.
var popularDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com",
	"icloud.com", "protonmail.com", "live.com", "msn.com", "comcast.net",
	"att.net", "verizon.net",
}

// DomainSuggester finds likely-intended corrections for a typo'd domain via
// edit distance, grounded on the teacher's own declared (but, in the pruned
// pack, unexercised) go-edlib dependency.
type DomainSuggester struct {
	Cache     cache.Cache
	Candidates []string
	// MaxDistance bounds how many edits away a candidate may be and still
	// be offered; beyond this the input is assumed to be intentional.
	MaxDistance int
}

// NewDomainSuggester builds a suggester over the built-in popular-domain
// seed list.
func NewDomainSuggester(c cache.Cache) *DomainSuggester {
	return &DomainSuggester{Cache: c, Candidates: popularDomains, MaxDistance: 2}
}

// Suggest returns the closest candidate domain to input by Levenshtein
// distance, or a zero-value DomainSuggestion if nothing is within
// MaxDistance or input already exactly matches a candidate.
func (s *DomainSuggester) Suggest(domain string) DomainSuggestion {
	domain = trimLower(domain)

	key := cache.Key(domain)
	if s.Cache != nil {
		var sug DomainSuggestion
		if s.Cache.GetTyped(cache.NamespaceDomainSuggestion, key, &sug) {
			return sug
		}
	}

	suggestion := s.compute(domain)
	if s.Cache != nil {
		s.Cache.Set(cache.NamespaceDomainSuggestion, key, suggestion, cache.TTLDomainSuggestion)
	}
	return suggestion
}

func (s *DomainSuggester) compute(domain string) DomainSuggestion {
	best := DomainSuggestion{}
	found := false

	for _, candidate := range s.Candidates {
		if candidate == domain {
			return DomainSuggestion{} // exact match, nothing to suggest
		}
		if s.MaxDistance > 0 && edlib.LevenshteinDistance(domain, candidate) > s.MaxDistance {
			continue
		}
		// go-edlib's similarity score is normalized to [0,1]; higher means
		// closer. The candidate with the highest score wins.
		score, err := edlib.StringsSimilarity(domain, candidate, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > best.Confidence {
			best = DomainSuggestion{Suggested: candidate, Confidence: score}
			found = true
		}
	}

	if !found || best.Confidence < minSuggestionConfidence {
		return DomainSuggestion{}
	}
	return best
}

// minSuggestionConfidence is the similarity floor below which a correction
// is considered too uncertain to surface.
const minSuggestionConfidence float32 = 0.7
