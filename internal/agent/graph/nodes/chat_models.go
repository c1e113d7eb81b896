package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/contentiq/assistant/internal/agent/model"
	logx "github.com/contentiq/assistant/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey       string
	BaseURL      string
	RouterConfig *model.RouterModelConfig
	TopicConfig  *model.TopicModelConfig
	RespConfig   *model.ResponseModelConfig
}

// ChatModels holds the three pipeline chat models. They are exposed through
// the Eino BaseChatModel interface so tests can substitute stubs.
type ChatModels struct {
	Router            einomodel.BaseChatModel
	Topic             einomodel.BaseChatModel
	Response          einomodel.BaseChatModel
	RouterModelName   string
	TopicModelName    string
	ResponseModelName string
}

// NewChatModels creates the router, topic and response chat models with the
// given configuration.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModelRouter, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RouterConfig.Model,
		Temperature: &config.RouterConfig.Temperature,
		MaxTokens:   &config.RouterConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating router model")
		return nil, fmt.Errorf("error creating router model: %w", err)
	}

	chatModelTopic, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.TopicConfig.Model,
		Temperature: &config.TopicConfig.Temperature,
		MaxTokens:   &config.TopicConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating topic model")
		return nil, fmt.Errorf("error creating topic model: %w", err)
	}

	chatModelResponse, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RespConfig.Model,
		Temperature: &config.RespConfig.Temperature,
		MaxTokens:   &config.RespConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}

	return &ChatModels{
		Router:            chatModelRouter,
		Topic:             chatModelTopic,
		Response:          chatModelResponse,
		RouterModelName:   config.RouterConfig.Model,
		TopicModelName:    config.TopicConfig.Model,
		ResponseModelName: config.RespConfig.Model,
	}, nil
}
