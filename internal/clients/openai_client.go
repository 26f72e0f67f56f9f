package clients

import (
	"log/slog"
	"os"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	openAIInstance *OpenAIClient
	openAIOnce     sync.Once
)

type OpenAIClient struct {
	Client *openai.Client
}

// GetOpenAIClient returns the shared OpenAI client, or nil when no API key
// is configured. Callers must treat a nil client as "LLM naming disabled".
func GetOpenAIClient() *OpenAIClient {
	openAIOnce.Do(func() {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			slog.Warn("[OpenAIClient] OPENAI_API_KEY not set, LLM topic naming disabled")
			return
		}

		openAIInstance = &OpenAIClient{
			Client: openai.NewClient(option.WithAPIKey(apiKey)),
		}
		slog.Info("[OpenAIClient] OpenAI client initialized")
	})
	return openAIInstance
}
