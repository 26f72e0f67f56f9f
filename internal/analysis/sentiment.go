package analysis

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/vidlens/vidlens/internal/models"
)

// Discretization thresholds for the VADER compound score. Boundaries are
// inclusive: exactly 0.05 is Positive and exactly -0.05 is Negative.
const (
	POSITIVE_THRESHOLD = 0.05
	NEGATIVE_THRESHOLD = -0.05
)

var vaderAnalyzer = govader.NewSentimentIntensityAnalyzer()

var (
	mdLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks strips markdown links down to their text and drops bare URLs.
func RemoveLinks(input string) string {
	input = mdLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText flattens markdown formatting to plain text so the
// lexicon scorer sees words, not markup.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}

// ScoreSentiment runs VADER over one comment text and discretizes the
// compound polarity into a three-way label.
func ScoreSentiment(text string) models.SentimentScore {
	plainText := ConvertMarkdownToText(text)
	sentiment := vaderAnalyzer.PolarityScores(plainText)

	score := models.SentimentScore{
		Neg:      sentiment.Negative,
		Neu:      sentiment.Neutral,
		Pos:      sentiment.Positive,
		Compound: sentiment.Compound,
	}
	score.Label = ClassifySentiment(score.Compound)
	return score
}

func ClassifySentiment(compound float64) models.SentimentLabel {
	switch {
	case compound >= POSITIVE_THRESHOLD:
		return models.SentimentPositive
	case compound <= NEGATIVE_THRESHOLD:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ScoreAllSentiments scores the FULL, non-deduplicated comment list in
// input order and tallies label counts. Duplicate comments count once per
// occurrence: sentiment aggregation reflects comment volume, not distinct
// opinions.
func ScoreAllSentiments(comments models.CommentSet) ([]models.SentimentScore, map[models.SentimentLabel]int) {
	scores := make([]models.SentimentScore, len(comments))
	counts := make(map[models.SentimentLabel]int)

	for i, c := range comments {
		scores[i] = ScoreSentiment(c.Text)
		counts[scores[i].Label]++
	}

	return scores, counts
}
