package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/vidlens/vidlens/internal/clients"
	"github.com/vidlens/vidlens/internal/models"
)

const topicNamingPrompt = `You will receive a JSON array of discussion topics found in YouTube comments.
Each topic has an "id" and a "samples" array of member comments.
Write one short descriptive name (at most 6 words) per topic.

### STRICT OUTPUT FORMAT
You MUST return only valid JSON, formatted exactly as follows:
{
  "names": [
    {"id": 0, "name": "XXX"}
  ]
}

### REQUIREMENTS
- No Markdown formatting (no triple backticks, no explanations).
- No extra text before or after the JSON output.
- Return one entry per input topic, with the same "id".`

type topicNamingRequest struct {
	ID      int      `json:"id"`
	Samples []string `json:"samples"`
}

type topicNamingResponse struct {
	Names []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"names"`
}

// RenameTopicsWithLLM rewrites the heuristic topic labels with
// LLM-generated names. Ranking, sizes, and ids are untouched; on any
// failure (no client, API error, malformed response) the heuristic labels
// stay as they are.
func RenameTopicsWithLLM(ctx context.Context, topics []models.TopicSummary) []models.TopicSummary {
	if len(topics) == 0 {
		return topics
	}

	client := clients.GetOpenAIClient()
	if client == nil {
		return topics
	}

	request := make([]topicNamingRequest, len(topics))
	for i, t := range topics {
		request[i] = topicNamingRequest{ID: i, Samples: t.Samples}
	}
	payload, err := json.Marshal(request)
	if err != nil {
		slog.Error("[TopicNamer] JSON marshal failed", slog.String("error", err.Error()))
		return topics
	}

	var parsed topicNamingResponse
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		chatCompletion, err := client.Client.Chat.Completions.New(ctx,
			openai.ChatCompletionNewParams{
				Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(topicNamingPrompt),
					openai.UserMessage(string(payload)),
				}),
				Model:       openai.F(openai.ChatModelGPT3_5Turbo),
				Temperature: openai.Float(0.3),
			})
		if err != nil {
			slog.Warn("[TopicNamer] OpenAI API call failed, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			time.Sleep(2 * time.Second)
			continue
		}

		if len(chatCompletion.Choices) == 0 {
			slog.Warn("[TopicNamer] OpenAI returned empty response, retrying",
				slog.Int("attempt", attempt))
			time.Sleep(2 * time.Second)
			continue
		}

		raw := cleanLLMResponse(chatCompletion.Choices[0].Message.Content)
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			slog.Warn("[TopicNamer] Failed to parse OpenAI response, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}

	if len(parsed.Names) == 0 {
		slog.Warn("[TopicNamer] No usable names returned, keeping heuristic labels")
		return topics
	}

	renamed := append([]models.TopicSummary(nil), topics...)
	for _, n := range parsed.Names {
		name := strings.TrimSpace(n.Name)
		if n.ID >= 0 && n.ID < len(renamed) && name != "" {
			renamed[n.ID].Label = name
		}
	}

	slog.Info("[TopicNamer] Topic labels rewritten by LLM",
		slog.Int("topics", len(renamed)))
	return renamed
}

// cleanLLMResponse strips code fences models sometimes add despite the
// prompt.
func cleanLLMResponse(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
