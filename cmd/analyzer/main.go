package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/vidlens/vidlens/config"
	"github.com/vidlens/vidlens/internal/analysis"
	"github.com/vidlens/vidlens/internal/cache"
	"github.com/vidlens/vidlens/internal/clients"
	"github.com/vidlens/vidlens/internal/embedding"
	"github.com/vidlens/vidlens/internal/logging"
	"github.com/vidlens/vidlens/internal/models"
	"github.com/vidlens/vidlens/internal/report"
)

func main() {
	videoArg := flag.String("video", "", "YouTube video URL or video id")
	outPath := flag.String("out", "report.md", "markdown report output path")
	htmlPath := flag.String("html", "", "optional HTML report output path")
	withScript := flag.Bool("script", false, "also generate a 60-second video script")
	smartNames := flag.Bool("smart-names", false, "rewrite topic labels with the OpenAI API")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	if *videoArg == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -video <youtube url or id> [-out report.md] [-html report.html] [-script] [-smart-names]")
		os.Exit(2)
	}

	videoID, err := extractVideoID(*videoArg)
	if err != nil {
		slog.Error("[Main] Invalid video argument", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if err := run(ctx, videoID, *outPath, *htmlPath, *withScript, *smartNames); err != nil {
		slog.Error("[Main] Analysis run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, videoID, outPath, htmlPath string, withScript, smartNames bool) error {
	dbPath := os.Getenv("COMMENTS_DB_PATH")
	if dbPath == "" {
		dbPath = "youtube_comments.db"
	}

	store, err := cache.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	comments, err := loadOrFetch(ctx, store, videoID)
	if err != nil {
		return err
	}

	embedder, err := embedding.GetEmbedder()
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(embedder)
	result, err := analyzer.Run(ctx, comments)
	if err != nil {
		return err
	}

	if result.State == models.StateEmpty {
		slog.Warn("[Main] Not enough unique comments for topic analysis",
			slog.String("video_id", videoID))
	}

	topics := result.Topics
	if smartNames && len(topics) > 0 {
		topics = analysis.RenameTopicsWithLLM(ctx, topics)
	}

	display := *result
	display.Topics = topics

	markdown := report.BuildReport(videoID, &display)
	if err := os.WriteFile(outPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	slog.Info("[Main] Report written", slog.String("path", outPath))

	if htmlPath != "" {
		if err := os.WriteFile(htmlPath, report.RenderHTML(markdown), 0o644); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		slog.Info("[Main] HTML report written", slog.String("path", htmlPath))
	}

	if withScript {
		script, err := report.GenerateScript(topics)
		if errors.Is(err, report.ErrInsufficientTopics) {
			slog.Warn("[Main] Not enough topics to create a full script; analysis results are still available",
				slog.Int("topics", len(topics)))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(script)
	}

	return nil
}

func loadOrFetch(ctx context.Context, store *cache.Store, videoID string) (models.CommentSet, error) {
	comments, found, err := store.Load(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if found {
		return comments, nil
	}

	slog.Info("[Main] No cache found, fetching comments from YouTube",
		slog.String("video_id", videoID))

	comments, err = clients.GetYouTubeClient().FetchComments(videoID)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrAuthFailure):
			return nil, fmt.Errorf("check your YOUTUBE_API_KEY and that the YouTube Data API v3 is enabled: %w", err)
		case errors.Is(err, clients.ErrQuotaExceeded):
			return nil, fmt.Errorf("daily API quota exhausted, try again later: %w", err)
		case errors.Is(err, clients.ErrVideoNotFound):
			return nil, fmt.Errorf("check the video id %q: %w", videoID, err)
		default:
			return nil, err
		}
	}

	if err := store.StoreComments(ctx, videoID, "", comments); err != nil {
		// Caching is best-effort; the fetched comments are still usable.
		slog.Warn("[Main] Failed to cache comments", slog.String("error", err.Error()))
	}

	return comments, nil
}

// extractVideoID accepts a watch URL, a youtu.be short link, or a bare
// video id.
func extractVideoID(arg string) (string, error) {
	if !strings.Contains(arg, "/") && !strings.Contains(arg, "?") {
		return arg, nil
	}

	u, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL: %w", err)
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	if strings.Contains(u.Host, "youtu.be") {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("could not find a video id in %q, use a '...watch?v=VIDEO_ID' URL", arg)
}
