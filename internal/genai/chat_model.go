package genai

import (
	"context"
	"fmt"
	"net/http"

	"musespark-backend/internal/config"
	"musespark-backend/internal/utils"
	"musespark-backend/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
)

// NewChatModel builds the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (einoModel.BaseChatModel, error) {
	logger.WithFields(map[string]interface{}{
		"provider": cfg.Provider,
		"model":    cfg.Model,
		"api_key":  maskKey(cfg.APIKey),
	}).Info("Creating chat model")

	switch cfg.Provider {
	case "ark", "doubao":
		return createArkModel(ctx, cfg)
	case "openai", "":
		return newOpenAIChatModel(ctx, cfg)
	case "qwen":
		return createQwenModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

func maskKey(key string) string {
	if len(key) > 10 {
		return key[:10] + "..."
	}
	if key == "" {
		return "(empty)"
	}
	return "***"
}

// newHTTPClient returns an HTTP client wrapped in the debug transport.
func newHTTPClient(cfg config.LLMConfig) *http.Client {
	return utils.NewHTTPClient(utils.HTTPClientOptions{
		Timeout: cfg.Timeout,
		Wrap: func(rt http.RoundTripper) http.RoundTripper {
			return NewDebugTransport(rt, cfg.DebugRequest)
		},
	})
}

func createArkModel(ctx context.Context, cfg config.LLMConfig) (einoModel.BaseChatModel, error) {
	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: &cfg.Temperature,
		TopP:        &cfg.TopP,
		CustomHeader: map[string]string{
			"X-Ark-Thinking-Mode": "disable",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create ark model: %w", err)
	}
	return chatModel, nil
}

func createQwenModel(ctx context.Context, cfg config.LLMConfig) (einoModel.BaseChatModel, error) {
	chatModel, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: &cfg.Temperature,
		TopP:        &cfg.TopP,
		Timeout:     cfg.Timeout,
		HTTPClient:  newHTTPClient(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("create qwen model: %w", err)
	}

	if cfg.DebugRequest {
		logger.Info("Debug transport enabled for request body logging")
	}
	return chatModel, nil
}
