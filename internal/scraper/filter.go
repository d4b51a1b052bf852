package scraper

import (
	"leaders-scraper/pkg/textutil"

	"github.com/antzucaro/matchr"
)

// UnknownCountry is a requested country the api does not know about.
type UnknownCountry struct {
	Requested string
	// Suggestion is the most similar known country, empty if none is close.
	Suggestion string
}

// below this Jaro-Winkler similarity a suggestion is more confusing than
// helpful
const suggestionThreshold = 0.7

func suggest(requested string, available []string) string {
	best := ""
	bestScore := 0.0
	for _, candidate := range available {
		score := matchr.JaroWinkler(requested, candidate, false)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < suggestionThreshold {
		return ""
	}
	return best
}

// FilterCountries keeps the `wanted` countries that are `available`, in the
// order of `wanted`. Matching ignores case and whitespace. An
// empty `wanted` keeps everything.
func FilterCountries(available, wanted []string) ([]string, []UnknownCountry) {
	if len(wanted) == 0 {
		return available, nil
	}

	byKey := map[string]string{}
	for _, country := range available {
		byKey[textutil.NormalizeName(country)] = country
	}

	var kept []string
	var unknown []UnknownCountry
	seen := map[string]bool{}
	for _, w := range wanted {
		key := textutil.NormalizeName(w)
		country, ok := byKey[key]
		if !ok {
			unknown = append(unknown, UnknownCountry{
				Requested:  w,
				Suggestion: suggest(key, available),
			})
			continue
		}
		if seen[country] {
			continue
		}
		seen[country] = true
		kept = append(kept, country)
	}
	return kept, unknown
}
