package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/contentiq/assistant/internal/agent/graph"
	"github.com/contentiq/assistant/internal/agent/model"
	"github.com/contentiq/assistant/internal/agent/repo"
	logx "github.com/contentiq/assistant/pkg/logger"
	pkgredis "github.com/contentiq/assistant/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Pipeline configs
	Router       model.RouterModelConfig
	Topic        model.TopicModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.ChatPromptConfig
	Conversation model.ConversationConfig
	Search       model.SearchConfig
	Blob         model.BlobConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logx.Init()

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	runner, err := graph.BuildAssistantGraph(ctx, graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		RouterModel:      envCfg.Router,
		TopicModel:       envCfg.Topic,
		ResponseModel:    envCfg.Response,
		ChatPrompt:       envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		Search:           envCfg.Search,
		Blob:             envCfg.Blob,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
	})
	if err != nil {
		log.Fatalf("Failed to build assistant graph: %v", err)
	}

	conversationID := uuid.NewString()
	fmt.Printf("%s ready. Ask a question, or request a document search.\n", envCfg.Prompt.AssistantName)
	fmt.Println("Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "exit") || strings.EqualFold(query, "quit") {
			break
		}

		response, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          query,
		})
		if err != nil {
			logx.Error().Err(err).Msg("pipeline invocation failed")
			fmt.Println("Something went wrong, please try again.")
			continue
		}

		fmt.Println(response)
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed reading input: %v", err)
	}
	fmt.Println("Goodbye!")
}
