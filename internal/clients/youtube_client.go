package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/vidlens/vidlens/internal/models"
)

const (
	YOUTUBE_COMMENT_THREADS_ENDPOINT = "https://www.googleapis.com/youtube/v3/commentThreads"
	YOUTUBE_PAGE_SIZE                = 100
)

// Retrieval failures the caller can branch on. ErrAuthFailure covers a bad
// or disabled API key, ErrQuotaExceeded a spent daily quota, and
// ErrVideoNotFound an unknown video id.
var (
	ErrAuthFailure   = errors.New("youtube: invalid or unauthorized API key")
	ErrQuotaExceeded = errors.New("youtube: API quota exceeded")
	ErrVideoNotFound = errors.New("youtube: video not found")
)

var (
	youtubeInstance *YouTubeClient
	youtubeOnce     sync.Once
)

type YouTubeClient struct {
	Client *http.Client
	APIKey string
}

func GetYouTubeClient() *YouTubeClient {
	youtubeOnce.Do(func() {
		youtubeInstance = &YouTubeClient{
			Client: &http.Client{Timeout: 30 * time.Second},
			APIKey: os.Getenv("YOUTUBE_API_KEY"),
		}
	})
	return youtubeInstance
}

// FetchComments retrieves every public comment and reply for a video,
// flattened in thread order: each top-level comment immediately followed
// by its replies. Pagination is handled internally.
func (y *YouTubeClient) FetchComments(videoID string) (models.CommentSet, error) {
	if y.APIKey == "" {
		slog.Error("[YouTubeClient] API key is missing")
		return nil, ErrAuthFailure
	}

	var comments models.CommentSet
	pageToken := ""

	for {
		page, err := y.fetchPage(videoID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			top := item.Snippet.TopLevelComment
			comments = append(comments, models.Comment{
				ID:        top.ID,
				VideoID:   videoID,
				Text:      top.Snippet.TextDisplay,
				Author:    top.Snippet.AuthorDisplayName,
				Timestamp: top.Snippet.PublishedAt,
			})
			if item.Replies == nil {
				continue
			}
			for _, reply := range item.Replies.Comments {
				comments = append(comments, models.Comment{
					ID:        reply.ID,
					VideoID:   videoID,
					Text:      reply.Snippet.TextDisplay,
					Author:    reply.Snippet.AuthorDisplayName,
					Timestamp: reply.Snippet.PublishedAt,
				})
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	slog.Info("[YouTubeClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))

	return comments, nil
}

func (y *YouTubeClient) fetchPage(videoID, pageToken string) (*models.YouTubeCommentThreadsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet,replies")
	params.Set("videoId", videoID)
	params.Set("maxResults", fmt.Sprintf("%d", YOUTUBE_PAGE_SIZE))
	params.Set("textFormat", "plainText")
	params.Set("key", y.APIKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	endpoint := YOUTUBE_COMMENT_THREADS_ENDPOINT + "?" + params.Encode()

	var lastErr error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", USER_AGENT)

		res, err := y.Client.Do(req)
		if err != nil {
			slog.Warn("[YouTubeClient] Request failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			lastErr = err
			time.Sleep(backoff)
			backoff = nextBackoff(backoff)
			continue
		}

		body, readErr := io.ReadAll(res.Body)
		res.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		switch res.StatusCode {
		case http.StatusOK:
			var response models.YouTubeCommentThreadsResponse
			if err := json.Unmarshal(body, &response); err != nil {
				return nil, fmt.Errorf("failed to parse comment threads response: %w", err)
			}
			return &response, nil
		case http.StatusForbidden:
			if apiErrorReason(body) == "quotaExceeded" {
				slog.Error("[YouTubeClient] Quota exceeded")
				return nil, ErrQuotaExceeded
			}
			slog.Error("[YouTubeClient] Forbidden: check API key and YouTube Data API access")
			return nil, ErrAuthFailure
		case http.StatusBadRequest, http.StatusUnauthorized:
			slog.Error("[YouTubeClient] Request rejected",
				slog.Int("status", res.StatusCode))
			return nil, ErrAuthFailure
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
		default:
			if res.StatusCode >= 500 {
				slog.Warn("[YouTubeClient] Server error, retrying",
					slog.Int("status", res.StatusCode),
					slog.Duration("backoff", backoff),
					slog.Int("attempt", attempt))
				lastErr = fmt.Errorf("youtube: server error %d", res.StatusCode)
				time.Sleep(backoff)
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, fmt.Errorf("youtube: unexpected status %d", res.StatusCode)
		}
	}

	slog.Error("[YouTubeClient] Failed after max retries")
	if lastErr == nil {
		lastErr = errors.New("youtube: failed after max retries")
	}
	return nil, lastErr
}

func apiErrorReason(body []byte) string {
	var apiErr models.YouTubeErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return ""
	}
	if len(apiErr.Error.Errors) == 0 {
		return ""
	}
	return apiErr.Error.Errors[0].Reason
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > MAX_BACKOFF {
		next = MAX_BACKOFF
	}
	return next
}
