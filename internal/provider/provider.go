// Package provider constructs the external embedding and completion
// capabilities and normalizes their failures into domain error kinds.
package provider

import (
	"context"
	"fmt"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"

	"github.com/hanbat-ai/hanbatbot/internal/config"
)

// NewEmbedder creates an OpenAI-compatible embedding model
func NewEmbedder(ctx context.Context, cfg *config.LLMConfig) (embedding.Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.EmbeddingModel,
	})
}

// NewChatModel creates an OpenAI-compatible chat model
func NewChatModel(ctx context.Context, cfg *config.LLMConfig) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	temperature := cfg.Temperature
	return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.ChatModel,
		Temperature: &temperature,
	})
}
