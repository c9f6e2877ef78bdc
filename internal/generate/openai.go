package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// SystemPrompt frames every request.
const SystemPrompt = "You are a creative writer tasked with generating a short crime story based on the user's input. " +
	"Use the provided context to craft an engaging narrative. " +
	"Put the title on the first line in the form **Title: <title>**."

// OpenAIConfig configures the OpenAI client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	HTTPClient *http.Client
	Log        *zap.Logger
}

// OpenAI generates stories with the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAI creates a chat completions client from cfg.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		log:    cfg.Log.Named("openai"),
	}
}

// Generate asks the model for a story about prompt.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	log := o.log.With(zap.String("request", uuid.NewString()))
	log.Debug("Requesting completion", zap.String("model", o.model), zap.Int("prompt_len", len(prompt)))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		log.Debug("Completion failed", zap.Error(err))
		return "", classify(err)
	}
	if len(completion.Choices) == 0 {
		return "", failure(KindMalformed, fmt.Errorf("no choices: %w", ErrEmptyResponse))
	}

	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", failure(KindMalformed, ErrEmptyResponse)
	}

	log.Debug("Completion received",
		zap.String("id", completion.ID),
		zap.Int64("tokens", completion.Usage.TotalTokens),
		zap.Int("text_len", len(text)))
	return text, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return failure(KindAuth, err)
		}
		return failure(KindTransport, err)
	}
	return failure(KindTransport, err)
}
