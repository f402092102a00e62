package internal

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// MaxSuggestions caps the words offered for a rejected tag word
const MaxSuggestions = 3

// Suggestion formatting
const (
	SuggestionPrefix    = "did you mean "
	SuggestionSeparator = ", "
	SuggestionLast      = " or "
	SuggestionSuffix    = "?"
)

// SimilarWords returns up to limit distinct candidates within edit distance
// of target, closest first. Comparison ignores case.
func SimilarWords(target string, candidates []string, limit int) []string {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	threshold := max(len([]rune(target))/2, 2)
	folded := cases.Fold().String(target)

	type scored struct {
		word     string
		distance int
	}
	seen := make(map[string]struct{}, len(candidates))
	var similar []scored
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if d := editDistance(folded, cases.Fold().String(c)); d <= threshold {
			similar = append(similar, scored{word: c, distance: d})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		if similar[i].distance != similar[j].distance {
			return similar[i].distance < similar[j].distance
		}
		return similar[i].word < similar[j].word
	})

	out := make([]string, 0, min(limit, len(similar)))
	for i := 0; i < len(similar) && i < limit; i++ {
		out = append(out, similar[i].word)
	}
	return out
}

// editDistance is the Levenshtein distance between a and b over runes
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// FormatSuggestions renders "did you mean 'A', 'B' or 'C'?"; empty for none
func FormatSuggestions(words []string) string {
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(SuggestionPrefix)
	for i, w := range words {
		if i > 0 {
			if i == len(words)-1 {
				sb.WriteString(SuggestionLast)
			} else {
				sb.WriteString(SuggestionSeparator)
			}
		}
		sb.WriteByte(CharSingleQuote)
		sb.WriteString(w)
		sb.WriteByte(CharSingleQuote)
	}
	sb.WriteString(SuggestionSuffix)
	return sb.String()
}
