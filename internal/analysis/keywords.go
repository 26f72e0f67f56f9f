package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vidlens/vidlens/internal/models"
)

const (
	// TOP_KEYWORDS is how many keywords a run reports.
	TOP_KEYWORDS = 20
	// minTermRunes filters out one-letter tokens before scoring.
	minTermRunes = 2
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?\n]+`)

// termStats accumulates the statistical features of one candidate term
// across the whole corpus.
type termStats struct {
	surface        string
	tf             float64
	tfUpper        float64
	tfProper       float64
	sentenceIdxs   []float64
	sentences      map[int]struct{}
	leftNeighbors  map[string]struct{}
	leftCount      float64
	rightNeighbors map[string]struct{}
	rightCount     float64
}

// ExtractKeywords scores candidate unigram keywords over the concatenated
// comment corpus using frequency, casing, position, spread, and
// co-occurrence features, in the manner of YAKE. Matching is
// case-insensitive; the first-seen surface form is what gets reported.
//
// Scores are inverse-relevance: LOWER score means MORE salient. Callers
// ranking or displaying keywords must sort ascending by score.
func ExtractKeywords(corpus string, topN int) []models.KeywordScore {
	if topN <= 0 {
		topN = TOP_KEYWORDS
	}

	sentences := sentenceSplitPattern.Split(corpus, -1)
	stats := make(map[string]*termStats)
	totalSentences := 0

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		var tokens []string
		var surfaces []string
		for _, w := range words {
			surface := trimToken(w)
			if surface == "" {
				continue
			}
			tokens = append(tokens, strings.ToLower(surface))
			surfaces = append(surfaces, surface)
		}
		if len(tokens) == 0 {
			continue
		}
		sentenceIdx := totalSentences
		totalSentences++

		for i, term := range tokens {
			if utf8.RuneCountInString(term) < minTermRunes || isStopword(term) || isNumeric(term) {
				continue
			}

			ts, ok := stats[term]
			if !ok {
				ts = &termStats{
					surface:        surfaces[i],
					sentences:      make(map[int]struct{}),
					leftNeighbors:  make(map[string]struct{}),
					rightNeighbors: make(map[string]struct{}),
				}
				stats[term] = ts
			}

			ts.tf++
			ts.sentenceIdxs = append(ts.sentenceIdxs, float64(sentenceIdx))
			ts.sentences[sentenceIdx] = struct{}{}

			if isAcronym(surfaces[i]) {
				ts.tfUpper++
			} else if i > 0 && startsUpper(surfaces[i]) {
				// Capitalized mid-sentence reads as a proper noun.
				ts.tfProper++
			}

			if i > 0 {
				ts.leftNeighbors[tokens[i-1]] = struct{}{}
				ts.leftCount++
			}
			if i < len(tokens)-1 {
				ts.rightNeighbors[tokens[i+1]] = struct{}{}
				ts.rightCount++
			}
		}
	}

	if len(stats) == 0 {
		return nil
	}

	meanTF, stdTF, maxTF := tfMoments(stats)

	keywords := make([]models.KeywordScore, 0, len(stats))
	for _, ts := range stats {
		keywords = append(keywords, models.KeywordScore{
			Keyword: ts.surface,
			Score:   yakeScore(ts, meanTF, stdTF, maxTF, totalSentences),
		})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score < keywords[j].Score
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})

	if len(keywords) > topN {
		keywords = keywords[:topN]
	}
	return keywords
}

// yakeScore combines the per-term features into a single inverse-relevance
// value: salient terms (frequent, spread across sentences, early, cased,
// with focused context) score LOW.
func yakeScore(ts *termStats, meanTF, stdTF, maxTF float64, totalSentences int) float64 {
	wCase := math.Max(ts.tfUpper, ts.tfProper) / (1 + math.Log(ts.tf))

	medianSentence := median(ts.sentenceIdxs)
	wPos := math.Log(math.Log(3 + medianSentence))

	wFreq := ts.tf / (meanTF + stdTF)

	wl := 0.0
	if ts.leftCount > 0 {
		wl = float64(len(ts.leftNeighbors)) / ts.leftCount
	}
	wr := 0.0
	if ts.rightCount > 0 {
		wr = float64(len(ts.rightNeighbors)) / ts.rightCount
	}
	wRel := 1 + (wl+wr)*(ts.tf/maxTF)

	wSpread := float64(len(ts.sentences)) / float64(totalSentences)

	return (wRel * wPos) / (wCase + wFreq/wRel + wSpread/wRel)
}

func tfMoments(stats map[string]*termStats) (mean, std, max float64) {
	for _, ts := range stats {
		mean += ts.tf
		if ts.tf > max {
			max = ts.tf
		}
	}
	mean /= float64(len(stats))

	for _, ts := range stats {
		diff := ts.tf - mean
		std += diff * diff
	}
	std = math.Sqrt(std / float64(len(stats)))
	return mean, std, max
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// trimToken strips surrounding punctuation and rejects tokens with no
// letters or digits.
func trimToken(w string) string {
	trimmed := strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return trimmed
		}
	}
	return ""
}

func isNumeric(term string) bool {
	for _, r := range term {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isAcronym(surface string) bool {
	if utf8.RuneCountInString(surface) < 2 {
		return false
	}
	for _, r := range surface {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func startsUpper(surface string) bool {
	r, _ := utf8.DecodeRuneInString(surface)
	return unicode.IsUpper(r)
}
