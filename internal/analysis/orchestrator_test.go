package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vidlens/vidlens/internal/models"
)

type fakeEmbedder struct {
	calls   int
	failErr error
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failErr != nil {
		return nil, f.failErr
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no fixture vector for %q", text)
		}
		out[i] = v
	}
	return out, nil
}

func clusterableComments() (models.CommentSet, map[string][]float32) {
	vectors := make(map[string][]float32)
	var comments models.CommentSet

	// Six near-identical camera questions, six editing remarks, one stray.
	for i := 0; i < 6; i++ {
		text := fmt.Sprintf("camera question %d", i)
		comments = append(comments, models.Comment{ID: fmt.Sprintf("a%d", i), Text: text})
		vectors[text] = jittered([]float32{1, 0, 0, 0}, 1, 0.001*float32(i))
	}
	for i := 0; i < 6; i++ {
		text := fmt.Sprintf("editing remark %d", i)
		comments = append(comments, models.Comment{ID: fmt.Sprintf("b%d", i), Text: text})
		vectors[text] = jittered([]float32{0, 1, 0, 0}, 2, 0.001*float32(i))
	}
	comments = append(comments, models.Comment{ID: "stray", Text: "totally unrelated"})
	vectors["totally unrelated"] = []float32{0, 0, 0, 1}

	return comments, vectors
}

func TestRunEmptyInputShortCircuits(t *testing.T) {
	embedder := &fakeEmbedder{}
	analyzer := NewAnalyzer(embedder)

	result, err := analyzer.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != models.StateEmpty {
		t.Fatalf("expected Empty state, got %s", result.State)
	}
	if embedder.calls != 0 {
		t.Fatal("embedding provider must not run for empty input")
	}
}

func TestRunSingleUniqueTextShortCircuits(t *testing.T) {
	comments := models.CommentSet{
		{ID: "c1", Text: "great video thanks"},
		{ID: "c2", Text: "great video thanks"},
		{ID: "c3", Text: "great video thanks"},
	}

	embedder := &fakeEmbedder{}
	analyzer := NewAnalyzer(embedder)

	result, err := analyzer.Run(context.Background(), comments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != models.StateEmpty {
		t.Fatalf("expected Empty state, got %s", result.State)
	}
	if embedder.calls != 0 {
		t.Fatal("embedding provider must not run below 2 unique texts")
	}
	if len(result.ClusteredTexts) != 0 || len(result.SentimentCounts) != 0 || len(result.Keywords) != 0 {
		t.Fatalf("Empty result must have empty analysis fields: %+v", result)
	}
	if len(result.AllComments) != len(comments) {
		t.Fatal("Empty result must still carry the original comments")
	}
}

func TestRunComplete(t *testing.T) {
	comments, vectors := clusterableComments()
	// A duplicate: counted in sentiment, collapsed for topics.
	comments = append(comments, models.Comment{ID: "dup", Text: "camera question 0"})

	embedder := &fakeEmbedder{vectors: vectors}
	analyzer := NewAnalyzer(embedder)

	result, err := analyzer.Run(context.Background(), comments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State != models.StateComplete {
		t.Fatalf("expected Complete state, got %s", result.State)
	}
	if analyzer.State() != models.StateComplete {
		t.Fatalf("analyzer must land in Complete, got %s", analyzer.State())
	}

	// Embedding/cluster alignment.
	if len(result.Labels) != len(result.UniqueTexts) {
		t.Fatalf("labels (%d) must align with unique texts (%d)",
			len(result.Labels), len(result.UniqueTexts))
	}
	for i, text := range result.UniqueTexts {
		if result.ClusteredTexts[text] != result.Labels[i] {
			t.Fatalf("clustered text map out of sync at %d", i)
		}
	}

	// Sentiment runs over the full, non-deduplicated list.
	if len(result.Sentiments) != len(comments) {
		t.Fatalf("expected %d sentiment scores, got %d", len(comments), len(result.Sentiments))
	}
	total := 0
	for _, n := range result.SentimentCounts {
		total += n
	}
	if total != len(comments) {
		t.Fatalf("sentiment counts must sum to %d, got %d", len(comments), total)
	}

	// Two dense groups of six, one stray.
	if len(result.Topics) != 2 {
		t.Fatalf("expected 2 ranked topics, got %+v", result.Topics)
	}
	if result.ClusteredTexts["totally unrelated"] != models.NoiseLabel {
		t.Fatal("stray comment must land in the noise bucket")
	}

	if embedder.calls == 0 {
		t.Fatal("embedding provider should have run")
	}
}

func TestRunSmallCorpusCompletesWithoutTopics(t *testing.T) {
	// Seven comments but only three unique texts: analysis completes, yet
	// no neighborhood can reach the minimum cluster size, so everything
	// stays in the noise bucket.
	comments := models.CommentSet{
		{ID: "c1", Text: "great video thanks"},
		{ID: "c2", Text: "great video thanks"},
		{ID: "c3", Text: "great video thanks"},
		{ID: "c4", Text: "great video thanks"},
		{ID: "c5", Text: "great video thanks"},
		{ID: "c6", Text: "what camera do you use"},
		{ID: "c7", Text: "the editing was rough"},
	}
	vectors := map[string][]float32{
		"great video thanks":     {1, 0, 0, 0},
		"what camera do you use": {0, 1, 0, 0},
		"the editing was rough":  {0, 0, 1, 0},
	}

	embedder := &fakeEmbedder{vectors: vectors}
	result, err := NewAnalyzer(embedder).Run(context.Background(), comments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.State != models.StateComplete {
		t.Fatalf("expected Complete state, got %s", result.State)
	}
	if len(result.UniqueTexts) != 3 {
		t.Fatalf("expected 3 unique texts, got %d", len(result.UniqueTexts))
	}
	if len(result.Topics) != 0 {
		t.Fatalf("expected no ranked topics below minimum cluster size, got %+v", result.Topics)
	}

	total := 0
	for _, n := range result.SentimentCounts {
		total += n
	}
	if total != 7 {
		t.Fatalf("sentiment counts must cover all 7 comments, got %d", total)
	}
}

func TestRunIdempotentAcrossFreshAnalyzers(t *testing.T) {
	comments, vectors := clusterableComments()

	first, err := NewAnalyzer(&fakeEmbedder{vectors: vectors}).Run(context.Background(), comments)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := NewAnalyzer(&fakeEmbedder{vectors: vectors}).Run(context.Background(), comments)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for label, count := range first.SentimentCounts {
		if second.SentimentCounts[label] != count {
			t.Fatalf("sentiment counts differ between runs: %v vs %v",
				first.SentimentCounts, second.SentimentCounts)
		}
	}

	if len(first.Keywords) != len(second.Keywords) {
		t.Fatalf("keyword sets differ between runs")
	}
	for i := range first.Keywords {
		if first.Keywords[i] != second.Keywords[i] {
			t.Fatalf("keyword %d differs: %v vs %v", i, first.Keywords[i], second.Keywords[i])
		}
	}

	// Membership partition identical up to relabeling: same texts share a
	// cluster in one run iff they share one in the other.
	for _, a := range first.UniqueTexts {
		for _, b := range first.UniqueTexts {
			sameFirst := first.ClusteredTexts[a] == first.ClusteredTexts[b]
			sameSecond := second.ClusteredTexts[a] == second.ClusteredTexts[b]
			if sameFirst != sameSecond {
				t.Fatalf("cluster partition differs for %q / %q", a, b)
			}
		}
	}
}

func TestRunEmbeddingFailureReturnsNoPartialResult(t *testing.T) {
	comments, _ := clusterableComments()
	wantErr := errors.New("onnx backend missing")

	analyzer := NewAnalyzer(&fakeEmbedder{failErr: wantErr})
	result, err := analyzer.Run(context.Background(), comments)

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped embedder error, got %v", err)
	}
	if result != nil {
		t.Fatalf("no partial result on failure, got %+v", result)
	}
}

func TestRunRejectsReuse(t *testing.T) {
	comments, vectors := clusterableComments()
	analyzer := NewAnalyzer(&fakeEmbedder{vectors: vectors})

	if _, err := analyzer.Run(context.Background(), comments); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := analyzer.Run(context.Background(), comments); !errors.Is(err, ErrAnalyzerReused) {
		t.Fatalf("expected ErrAnalyzerReused, got %v", err)
	}
}
