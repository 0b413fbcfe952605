package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

// GenerationRequest is everything a text backend needs for one reply
type GenerationRequest struct {
	SystemPrompt string
	History      []models.ChatExchange
	Message      string
}

// Generator produces the reply text for a turn
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type OpenAIConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Temperature      float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger *zap.Logger
}

func NewOpenAIGenerator(cfg OpenAIConfig, logger *zap.Logger) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger,
	}
}

// Messages lays out the chat: system prompt, prior exchanges as alternating
// user/assistant turns, then the current message
func Messages(req GenerationRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2+2*len(req.History))
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemPrompt,
	})
	for _, ex := range req.History {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: ex.Message},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: ex.Response},
		)
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:            g.cfg.Model,
			Messages:         Messages(req),
			MaxTokens:        g.cfg.MaxTokens,
			Temperature:      float32(g.cfg.Temperature),
			PresencePenalty:  float32(g.cfg.PresencePenalty),
			FrequencyPenalty: float32(g.cfg.FrequencyPenalty),
		},
	)
	if err != nil {
		g.logger.Error("Failed to get completion", zap.String("model", g.cfg.Model), zap.Error(err))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	g.logger.Debug("Completion received",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))
	return resp.Choices[0].Message.Content, nil
}
