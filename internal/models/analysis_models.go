package models

// NoiseLabel marks texts the clusterer left unassigned. Cluster ids other
// than NoiseLabel are join keys valid only within a single run; they are
// not contiguous and not stable across runs.
const NoiseLabel = -1

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// SentimentScore holds the VADER polarity breakdown for one comment.
// Compound is in [-1,1]; the others are in [0,1].
type SentimentScore struct {
	Neg      float64        `json:"neg"`
	Neu      float64        `json:"neu"`
	Pos      float64        `json:"pos"`
	Compound float64        `json:"compound"`
	Label    SentimentLabel `json:"label"`
}

// KeywordScore pairs a unigram keyword with its relevance score.
// Lower score means MORE relevant; any ranking over keywords must sort
// ascending by Score.
type KeywordScore struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// TopicSummary describes one ranked topic cluster. ClusterID is a per-run
// join key and must not be shown to end users; Label and Size are the
// user-facing fields.
type TopicSummary struct {
	ClusterID int      `json:"cluster_id"`
	Size      int      `json:"size"`
	Label     string   `json:"label"`
	Samples   []string `json:"samples"`
}

type AnalysisState string

const (
	StateIdle     AnalysisState = "idle"
	StateRunning  AnalysisState = "running"
	StateComplete AnalysisState = "complete"
	StateEmpty    AnalysisState = "empty"
)

// AnalysisResult is the single output contract of one pipeline run. It is
// assembled once inside the orchestrator and read-only afterwards.
type AnalysisResult struct {
	// ClusteredTexts maps each unique comment text to its cluster label.
	ClusteredTexts map[string]int `json:"clustered_texts"`
	// UniqueTexts preserves first-seen dedup order; Labels is aligned by
	// index with it.
	UniqueTexts []string `json:"unique_texts"`
	Labels      []int    `json:"labels"`

	SentimentCounts map[SentimentLabel]int `json:"sentiment_counts"`
	// Sentiments is aligned by index with AllComments.
	Sentiments []SentimentScore `json:"sentiments"`

	Keywords []KeywordScore `json:"keywords"`
	Topics   []TopicSummary `json:"topics"`

	AllComments CommentSet    `json:"all_comments"`
	State       AnalysisState `json:"state"`
}

// EmptyResult is the terminal result for inputs with fewer than two unique
// texts. It is a recognized outcome, not a failure.
func EmptyResult(comments CommentSet) *AnalysisResult {
	return &AnalysisResult{
		ClusteredTexts:  map[string]int{},
		SentimentCounts: map[SentimentLabel]int{},
		AllComments:     comments,
		State:           StateEmpty,
	}
}
