package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vidlens/vidlens/internal/embedding"
	"github.com/vidlens/vidlens/internal/models"
)

// ErrAnalyzerReused means Run was called on an analyzer that already
// finished a run. Each CommentSet gets a fresh Analyzer; no cross-run
// state is retained.
var ErrAnalyzerReused = errors.New("analysis: analyzer already ran, create a new one per comment set")

// Analyzer sequences one analysis run: dedup, embed, cluster, sentiment,
// keywords, topic ranking. Sentiment scoring and keyword extraction depend
// only on the raw texts, so they run concurrently with the
// embed-then-cluster chain. All intermediate state is private to the run.
type Analyzer struct {
	embedder embedding.Provider

	mu    sync.Mutex
	state models.AnalysisState
}

func NewAnalyzer(embedder embedding.Provider) *Analyzer {
	return &Analyzer{embedder: embedder, state: models.StateIdle}
}

func (a *Analyzer) State() models.AnalysisState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Analyzer) setState(s models.AnalysisState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// Run executes the pipeline over one CommentSet. Fewer than two unique
// texts is not a failure: the run terminates in the Empty state with an
// all-default result and the embedding provider is never invoked.
// Any mid-run failure returns an error and no partial result.
//
// Sentiment is computed over the FULL comment list while topics are
// discovered over the deduplicated list: label counts should reflect
// comment volume, but repeated texts add nothing to topic discovery.
func (a *Analyzer) Run(ctx context.Context, comments models.CommentSet) (*models.AnalysisResult, error) {
	a.mu.Lock()
	if a.state != models.StateIdle {
		a.mu.Unlock()
		return nil, ErrAnalyzerReused
	}
	if len(comments) == 0 {
		a.state = models.StateEmpty
		a.mu.Unlock()
		return models.EmptyResult(comments), nil
	}
	a.state = models.StateRunning
	a.mu.Unlock()

	uniqueTexts := DedupTexts(comments)
	if len(uniqueTexts) < 2 {
		slog.Info("[Analyzer] Fewer than 2 unique texts, skipping analysis",
			slog.Int("comments", len(comments)))
		a.setState(models.StateEmpty)
		return models.EmptyResult(comments), nil
	}

	slog.Info("[Analyzer] Starting analysis",
		slog.Int("comments", len(comments)),
		slog.Int("unique_texts", len(uniqueTexts)))
	start := time.Now()

	var (
		wg sync.WaitGroup

		labels   []int
		embedErr error

		sentiments      []models.SentimentScore
		sentimentCounts map[models.SentimentLabel]int

		keywords []models.KeywordScore
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		vectors, err := a.embedder.Embed(ctx, uniqueTexts)
		if err != nil {
			embedErr = err
			return
		}
		if len(vectors) != len(uniqueTexts) {
			embedErr = fmt.Errorf("analysis: embedder returned %d vectors for %d texts",
				len(vectors), len(uniqueTexts))
			return
		}
		labels = ClusterEmbeddings(vectors)
	}()

	go func() {
		defer wg.Done()
		sentiments, sentimentCounts = ScoreAllSentiments(comments)
	}()

	go func() {
		defer wg.Done()
		corpus := strings.Join(comments.Texts(), " ")
		keywords = ExtractKeywords(corpus, TOP_KEYWORDS)
	}()

	wg.Wait()

	if embedErr != nil {
		return nil, fmt.Errorf("analysis failed: %w", embedErr)
	}

	clusteredTexts := make(map[string]int, len(uniqueTexts))
	for i, text := range uniqueTexts {
		clusteredTexts[text] = labels[i]
	}

	result := &models.AnalysisResult{
		ClusteredTexts:  clusteredTexts,
		UniqueTexts:     uniqueTexts,
		Labels:          labels,
		SentimentCounts: sentimentCounts,
		Sentiments:      sentiments,
		Keywords:        keywords,
		Topics:          RankTopics(uniqueTexts, labels),
		AllComments:     comments,
		State:           models.StateComplete,
	}

	a.setState(models.StateComplete)
	slog.Info("[Analyzer] Analysis complete",
		slog.Int("topics", len(result.Topics)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}
