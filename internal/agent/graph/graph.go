package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/contentiq/assistant/internal/agent/graph/conversations"
	"github.com/contentiq/assistant/internal/agent/graph/nodes"
	"github.com/contentiq/assistant/internal/agent/graph/observers"
	"github.com/contentiq/assistant/internal/agent/links"
	"github.com/contentiq/assistant/internal/agent/model"
	"github.com/contentiq/assistant/internal/agent/ranking"
	"github.com/contentiq/assistant/internal/agent/search"
	logx "github.com/contentiq/assistant/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full assistant graph
// end-to-end. This is a convenience layer over GraphConfig that also
// constructs ChatModels, the search gateway and the link issuer.
type Config struct {
	APIKey           string
	BaseURL          string
	RouterModel      model.RouterModelConfig
	TopicModel       model.TopicModelConfig
	ResponseModel    model.ResponseModelConfig
	ChatPrompt       model.ChatPromptConfig
	Conversation     model.ConversationConfig
	Search           model.SearchConfig
	Blob             model.BlobConfig
	ConversationRepo model.ConversationRepository
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Gateway         search.Gateway
	LinkIssuer      links.Issuer
	Container       string
	ChatPrompt      model.ChatPromptConfig
	RouterModel     model.RouterModelConfig
	TopicModel      model.TopicModelConfig
	ResponseModel   model.ResponseModelConfig
	TopK            int
}

// GraphBuilder handles the construction of the assistant pipeline graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: in.ConversationID,
		Query:          in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()...))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

// BuildAssistantGraph composes ChatModels, MessagesManager, the search
// gateway and the link issuer, builds the graph, and returns a Runner.
func BuildAssistantGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	// Create chat models
	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		RouterConfig: &cfg.RouterModel,
		TopicConfig:  &cfg.TopicModel,
		RespConfig:   &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	// Create messages manager
	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	issuer, err := links.NewAzureBlobIssuer(cfg.Blob)
	if err != nil {
		return nil, err
	}

	// Build runnable graph
	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		Gateway:         search.NewClient(cfg.Search),
		LinkIssuer:      issuer,
		Container:       cfg.Blob.Container,
		ChatPrompt:      cfg.ChatPrompt,
		RouterModel:     cfg.RouterModel,
		TopicModel:      cfg.TopicModel,
		ResponseModel:   cfg.ResponseModel,
		TopK:            ranking.DefaultTopK,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Assistant graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled assistant pipeline graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Router == nil ||
		config.ChatModels.Topic == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Gateway == nil {
		return nil, fmt.Errorf("search gateway is nil")
	}
	if config.LinkIssuer == nil {
		return nil, fmt.Errorf("link issuer is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeRouter,
		nodes.NewRouterNode(b.config.MessagesManager, b.config.ChatModels, b.config.RouterModel.Timeout),
		compose.WithStatePreHandler(nodes.NewRouterPreHandler()),
		compose.WithStatePostHandler(nodes.NewRouterPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeChat,
		nodes.NewChatNode(b.config.MessagesManager, b.config.ChatModels, b.config.ChatPrompt, b.config.ResponseModel.Timeout),
	)

	b.graph.AddLambdaNode(nodes.NodeExtractTopic,
		nodes.NewExtractTopicNode(b.config.MessagesManager, b.config.ChatModels, b.config.TopicModel.Timeout),
		compose.WithStatePostHandler(nodes.NewTopicPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeSearch,
		nodes.NewSearchNode(b.config.Gateway),
		compose.WithStatePostHandler(nodes.NewSearchPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeFormat,
		nodes.NewFormatNode(b.config.MessagesManager, ranking.NewRanker(b.config.TopK), b.config.LinkIssuer, b.config.Container),
	)

	b.graph.AddLambdaNode(nodes.NodeFinal,
		nodes.NewFinalNode(),
		compose.WithStatePostHandler(nodes.NewFinalPostHandler()),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeRouter},
		{nodes.NodeExtractTopic, nodes.NodeSearch},
		{nodes.NodeSearch, nodes.NodeFormat},
		{nodes.NodeChat, nodes.NodeFinal},
		{nodes.NodeFormat, nodes.NodeFinal},
		{nodes.NodeFinal, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the intent routing branch, the pipeline's only
// conditional transition.
func (b *GraphBuilder) addBranches() error {
	intentBranch := compose.NewGraphBranch(
		nodes.NewIntentRouteCondition(),
		map[string]bool{
			nodes.NodeChat:         true,
			nodes.NodeExtractTopic: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeRouter, intentBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent branch")
		return fmt.Errorf("error adding intent branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// The pipeline is loop-free: router plus one branch, at most six nodes per run.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
