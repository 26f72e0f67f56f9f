package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/vidlens/vidlens/internal/utils"
)

const (
	MODEL_NAME        = "sentence-transformers/all-MiniLM-L6-v2"
	DEFAULT_MODEL_DIR = "./models"
	EMBEDDING_DIM     = 384
)

// ErrModelUnavailable means the ONNX backend or model weights could not be
// initialized. The pipeline must fail fast on it; substituting zero
// vectors is not allowed.
var ErrModelUnavailable = errors.New("embedding: model backend unavailable")

// Provider converts texts into fixed-size dense vectors, aligned by index
// with its input.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

var (
	embedderInstance *HugotEmbedder
	embedderOnce     sync.Once
	embedderErr      error
)

// HugotEmbedder runs a MiniLM feature-extraction pipeline in-process. The
// ORT session and pipeline are built once per process and shared read-only
// across runs; Embed holds no per-run mutable state.
type HugotEmbedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// GetEmbedder returns the process-wide embedder, downloading the model on
// first use. Initialization failures are sticky: every subsequent call
// reports the same ErrModelUnavailable.
func GetEmbedder() (*HugotEmbedder, error) {
	embedderOnce.Do(func() {
		modelDir := os.Getenv("EMBED_MODEL_DIR")
		if modelDir == "" {
			modelDir = DEFAULT_MODEL_DIR
		}

		if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
			embedderErr = fmt.Errorf("%w: failed to create model directory: %v", ErrModelUnavailable, err)
			return
		}

		slog.Info("[Embedder] Resolving embedding model",
			slog.String("model", MODEL_NAME),
			slog.String("dir", modelDir))

		modelPath, err := hugot.DownloadModel(MODEL_NAME, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			embedderErr = fmt.Errorf("%w: failed to download model: %v", ErrModelUnavailable, err)
			return
		}

		session, err := hugot.NewORTSession()
		if err != nil {
			embedderErr = fmt.Errorf("%w: failed to initialize ORT session: %v", ErrModelUnavailable, err)
			return
		}

		config := hugot.FeatureExtractionConfig{
			ModelPath: modelPath,
			Name:      "commentEmbeddingPipeline",
		}
		pipeline, err := hugot.NewPipeline(session, config)
		if err != nil {
			session.Destroy()
			embedderErr = fmt.Errorf("%w: failed to initialize embedding pipeline: %v", ErrModelUnavailable, err)
			return
		}

		slog.Info("[Embedder] Embedding pipeline ready", slog.String("path", modelPath))
		embedderInstance = &HugotEmbedder{session: session, pipeline: pipeline}
	})

	return embedderInstance, embedderErr
}

// Embed returns one vector per input text, index-aligned with texts.
func (e *HugotEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for _, batch := range utils.Chunk(texts, utils.EMBED_BATCH_SIZE) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := e.pipeline.RunPipeline(batch)
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(output.Embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts",
				len(output.Embeddings), len(batch))
		}
		vectors = append(vectors, output.Embeddings...)
	}

	return vectors, nil
}
