package report

import (
	"strings"
	"testing"

	"github.com/vidlens/vidlens/internal/models"
)

func completeResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		State: models.StateComplete,
		Topics: []models.TopicSummary{
			{ClusterID: 0, Size: 6, Label: "what camera gear do you...",
				Samples: []string{"what camera gear do you use", "camera recommendations please"}},
		},
		SentimentCounts: map[models.SentimentLabel]int{
			models.SentimentPositive: 6,
			models.SentimentNegative: 2,
			models.SentimentNeutral:  2,
		},
		Keywords: []models.KeywordScore{
			{Keyword: "camera", Score: 0.021},
			{Keyword: "editing", Score: 0.094},
		},
		AllComments: make(models.CommentSet, 10),
	}
}

func TestBuildReportEmptyState(t *testing.T) {
	result := models.EmptyResult(nil)
	got := BuildReport("abc123", result)

	if !strings.Contains(got, "Not enough unique comments") {
		t.Fatalf("expected empty-state notice, got:\n%s", got)
	}
	if strings.Contains(got, "## Top Discussion Topics") {
		t.Fatal("empty-state report must not render analysis sections")
	}
}

func TestBuildReportSections(t *testing.T) {
	got := BuildReport("abc123", completeResult())

	for _, want := range []string{
		"# Comment Analysis: abc123",
		"## Top Discussion Topics",
		"what camera gear do you...",
		"## Sentiment Distribution",
		"**Positive**: 6 (60.0%)",
		"**Negative**: 2 (20.0%)",
		"## Frequent Keywords",
		"| camera | 0.0210 |",
		"## Auto-Generated FAQ",
		"*camera recommendations please*",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestBuildReportKeywordOrderPreserved(t *testing.T) {
	got := BuildReport("abc123", completeResult())

	// Lower score = more relevant, so camera must render before editing.
	if strings.Index(got, "| camera |") > strings.Index(got, "| editing |") {
		t.Fatal("keywords must keep ascending-score order")
	}
}

func TestRenderHTML(t *testing.T) {
	html := string(RenderHTML("# Title\n\nSome **bold** text.\n"))

	if !strings.Contains(html, "<h1>") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("unexpected HTML rendering: %s", html)
	}
}
