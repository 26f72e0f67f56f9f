package report

import (
	"fmt"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/vidlens/vidlens/internal/models"
)

// BuildReport renders one AnalysisResult as a markdown dashboard: top
// topics, sentiment distribution, keywords, and an auto-generated FAQ.
// The result is treated strictly read-only.
func BuildReport(videoID string, result *models.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comment Analysis: %s\n\n", videoID)

	if result.State == models.StateEmpty {
		b.WriteString("Not enough unique comments to generate a dashboard.\n")
		return b.String()
	}

	writeTopics(&b, result.Topics)
	writeSentiment(&b, result)
	writeKeywords(&b, result.Keywords)
	writeFAQ(&b, result.Topics)

	return b.String()
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(markdown string) []byte {
	return blackfriday.Run([]byte(markdown))
}

func writeTopics(b *strings.Builder, topics []models.TopicSummary) {
	b.WriteString("## Top Discussion Topics\n\n")
	if len(topics) == 0 {
		b.WriteString("No significant topics were identified from the comments.\n\n")
		return
	}

	b.WriteString("| Rank | Topic | Comments |\n|---|---|---|\n")
	for i, t := range topics {
		fmt.Fprintf(b, "| %d | %s | %d |\n", i+1, t.Label, t.Size)
	}
	b.WriteString("\n")
}

func writeSentiment(b *strings.Builder, result *models.AnalysisResult) {
	b.WriteString("## Sentiment Distribution\n\n")

	total := len(result.AllComments)
	if total == 0 || len(result.SentimentCounts) == 0 {
		b.WriteString("Could not determine sentiment.\n\n")
		return
	}

	for _, label := range []models.SentimentLabel{
		models.SentimentPositive,
		models.SentimentNegative,
		models.SentimentNeutral,
	} {
		count := result.SentimentCounts[label]
		fmt.Fprintf(b, "- **%s**: %d (%.1f%%)\n",
			label, count, 100*float64(count)/float64(total))
	}
	b.WriteString("\n")
}

func writeKeywords(b *strings.Builder, keywords []models.KeywordScore) {
	b.WriteString("## Frequent Keywords\n\n")
	if len(keywords) == 0 {
		b.WriteString("No significant keywords found.\n\n")
		return
	}

	// Keyword scores are inverse-relevance: the table is already sorted
	// ascending, most salient first.
	b.WriteString("| Keyword | Score |\n|---|---|\n")
	for _, kw := range keywords {
		fmt.Fprintf(b, "| %s | %.4f |\n", kw.Keyword, kw.Score)
	}
	b.WriteString("\n")
}

func writeFAQ(b *strings.Builder, topics []models.TopicSummary) {
	b.WriteString("## Auto-Generated FAQ\n\n")
	if len(topics) == 0 {
		b.WriteString("No topics found to generate an FAQ.\n")
		return
	}

	for _, t := range topics {
		fmt.Fprintf(b, "### Theme: %s (%d comments)\n\n", t.Label, t.Size)
		for _, sample := range t.Samples {
			fmt.Fprintf(b, "- *%s*\n", sample)
		}
		b.WriteString("\n")
	}
}
