package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier title words are better)
	ScorePositionBonus = 10.0

	// Short titles are usually the more specific hit
	ScoreLengthBonus = 5.0

	// Whole title equals the query
	ScoreExactTitleBonus = 200.0

	// Query word only found in the description
	ScoreDescriptionMatch = 10.0
)

// ScoreListing rates how well a listing answers a free-text search. Title
// words carry the score; the description only breaks ties.
func ScoreListing(query string, l *Listing) float64 {
	if l == nil {
		return 0.0
	}

	queryWords := Words(query)
	if len(queryWords) == 0 {
		return 0.0
	}
	titleWords := Words(l.Title)

	if strings.Join(queryWords, " ") == strings.Join(titleWords, " ") {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	var total float64
	for _, q := range queryWords {
		best := 0.0
		for i, w := range titleWords {
			if s := scoreWord(q, w, i); s > best {
				best = s
			}
		}
		if best == 0.0 && containsFold(l.Description, q) {
			best = ScoreDescriptionMatch
		}
		total += best
	}

	// Only apply length bonus if there was a match
	if total > 0 && len(titleWords) <= 3 {
		total += ScoreLengthBonus
	}

	return total
}

// RankByRelevance orders listings by ScoreListing, keeping the incoming order
// (newest first from every store) for equal scores.
func RankByRelevance(query string, listings []*Listing) []*Listing {
	if len(Words(query)) == 0 || len(listings) < 2 {
		return listings
	}

	scores := make(map[*Listing]float64, len(listings))
	for _, l := range listings {
		scores[l] = ScoreListing(query, l)
	}

	out := make([]*Listing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}

// Words splits free text into lowercase letter/digit words.
func Words(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

// scoreWord scores a single query word against a title word
func scoreWord(queryWord, titleWord string, position int) float64 {
	if queryWord == "" || titleWord == "" {
		return 0.0
	}

	// Exact match
	if queryWord == titleWord {
		return ScoreExactMatch + positionBonus(position)
	}

	// Prefix match
	if strings.HasPrefix(titleWord, queryWord) {
		return ScorePrefixMatch + positionBonus(position)
	}

	// Substring match, earlier is better
	if index := strings.Index(titleWord, queryWord); index >= 0 {
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(index)/float64(len(titleWord)))
	}

	// Fuzzy match for typos ("iphnoe")
	if similarity := similarity(queryWord, titleWord); similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

func positionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// similarity is the share of query runes present in the word.
func similarity(queryWord, word string) float64 {
	runes := []rune(queryWord)
	if len(runes) == 0 || word == "" {
		return 0.0
	}

	matches := 0
	for _, c := range runes {
		if strings.ContainsRune(word, c) {
			matches++
		}
	}

	return float64(matches) / float64(len(runes))
}
