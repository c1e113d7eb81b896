package nodes

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/contentiq/assistant/internal/agent/graph/conversations"
	"github.com/contentiq/assistant/internal/agent/graph/parsers"
	"github.com/contentiq/assistant/internal/agent/graph/prompts"
	"github.com/contentiq/assistant/internal/agent/links"
	"github.com/contentiq/assistant/internal/agent/model"
	"github.com/contentiq/assistant/internal/agent/ranking"
	"github.com/contentiq/assistant/internal/agent/search"
	errx "github.com/contentiq/assistant/internal/core/error"
	logx "github.com/contentiq/assistant/pkg/logger"
)

// Graph node names.
const (
	NodeRouter       = "router"
	NodeChat         = "chat"
	NodeExtractTopic = "extract_topic"
	NodeSearch       = "search"
	NodeFormat       = "format"
	NodeFinal        = "final"
)

// SentinelTopic stands in when topic extraction is unavailable. The pipeline
// still reaches the search gateway with some topic and degrades to an
// empty-results outcome instead of aborting the request.
const SentinelTopic = "unknown"

// FallbackReply is returned when reply generation itself is unavailable.
const FallbackReply = "Sorry, I can't generate a response right now. Please try again in a moment."

// NewRouterPreHandler resets per-query state before classification.
func NewRouterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID
		s.Query = in.Query
		s.Intent = model.IntentChat
		s.Topic = ""
		s.Degraded = false
		s.HitCount = 0
		s.ResultCount = 0
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewRouterNode creates the intent classification node. Every query resolves
// to exactly one Intent: classification failures and unrecognized labels
// fail soft to the chat branch, flagged as degraded — never silently.
func NewRouterNode(
	mm *conversations.MessagesManager,
	cms *ChatModels,
	timeout time.Duration,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.Intent, error) {
		systemPrompt, err := prompts.RenderRouterSystem(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("router prompt unavailable; defaulting to chat")
			markDegraded(ctx)
			return model.IntentChat, nil
		}

		conversationCtx := mm.BuildRouterContext(ctx, input.ConversationID, input.Query)

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		out, err := cms.Router.Generate(callCtx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(conversationCtx),
		})
		if err != nil {
			logx.Warn().Err(errx.WrapClassification(err)).
				Str("conversation_id", input.ConversationID).
				Msg("intent classification unavailable; defaulting to chat")
			markDegraded(ctx)
			return model.IntentChat, nil
		}
		recordUsage(ctx, NodeRouter, cms.RouterModelName, out)

		intent, ok := parsers.ParseIntentLabel(out.Content)
		if !ok {
			logx.Warn().
				Str("conversation_id", input.ConversationID).
				Str("label", strings.TrimSpace(out.Content)).
				Msg("unrecognized intent label; defaulting to chat")
			markDegraded(ctx)
			return model.IntentChat, nil
		}

		logx.Debug().
			Str("conversation_id", input.ConversationID).
			Str("intent", intent.String()).
			Msg("intent classified")
		return intent, nil
	})
}

// NewRouterPostHandler stores the classified intent in graph state.
func NewRouterPostHandler() func(context.Context, model.Intent, *model.AppState) (model.Intent, error) {
	return func(ctx context.Context, out model.Intent, s *model.AppState) (model.Intent, error) {
		s.Intent = out
		return out, nil
	}
}

// NewIntentRouteCondition creates the branch condition from the router. This
// is the pipeline's only branch point.
func NewIntentRouteCondition() func(context.Context, model.Intent) (string, error) {
	return func(ctx context.Context, intent model.Intent) (string, error) {
		if intent == model.IntentDocSearch {
			return NodeExtractTopic, nil
		}
		return NodeChat, nil
	}
}

// NewChatNode creates the conversational reply node. The prompt carries the
// full history, every prior turn. Generation failure degrades to a fixed
// apologetic reply; the turn is recorded either way.
func NewChatNode(
	mm *conversations.MessagesManager,
	cms *ChatModels,
	promptConfig model.ChatPromptConfig,
	timeout time.Duration,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (*schema.Message, error) {
		conversationID, query := stateSnapshot(ctx)

		reply := FallbackReply
		systemPrompt, err := prompts.RenderChatSystem(ctx, promptConfig)
		if err != nil {
			logx.Warn().Err(err).Msg("chat prompt unavailable; using fallback reply")
			markDegraded(ctx)
		} else {
			messages := mm.BuildChatContext(ctx, conversationID, systemPrompt, query)

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			out, genErr := cms.Response.Generate(callCtx, messages)
			if genErr != nil {
				logx.Warn().Err(errx.WrapGeneration(genErr)).
					Str("conversation_id", conversationID).
					Msg("reply generation unavailable; using fallback reply")
				markDegraded(ctx)
			} else {
				recordUsage(ctx, NodeChat, cms.ResponseModelName, out)
				if content := strings.TrimSpace(out.Content); content != "" {
					reply = content
				}
			}
		}

		if err := mm.RecordTurn(ctx, conversationID, query, reply); err != nil {
			logx.Error().Err(err).
				Str("conversation_id", conversationID).
				Msg("failed to record chat turn")
		}

		return schema.AssistantMessage(reply, nil), nil
	})
}

// NewExtractTopicNode creates the topic extraction node. Context is windowed
// to the last few turns; extraction failure yields the sentinel topic so the
// search stage still runs.
func NewExtractTopicNode(
	mm *conversations.MessagesManager,
	cms *ChatModels,
	timeout time.Duration,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (string, error) {
		conversationID, query := stateSnapshot(ctx)

		systemPrompt, err := prompts.RenderTopicSystem(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("topic prompt unavailable; using sentinel topic")
			markDegraded(ctx)
			return SentinelTopic, nil
		}

		conversationCtx := mm.BuildTopicContext(ctx, conversationID, query)

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		out, err := cms.Topic.Generate(callCtx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(conversationCtx),
		})
		if err != nil {
			logx.Warn().Err(errx.WrapExtraction(err)).
				Str("conversation_id", conversationID).
				Msg("topic extraction unavailable; using sentinel topic")
			markDegraded(ctx)
			return SentinelTopic, nil
		}
		recordUsage(ctx, NodeExtractTopic, cms.TopicModelName, out)

		topic := strings.TrimSpace(out.Content)
		if topic == "" {
			markDegraded(ctx)
			return SentinelTopic, nil
		}

		logx.Debug().
			Str("conversation_id", conversationID).
			Str("topic", topic).
			Msg("topic extracted")
		return topic, nil
	})
}

// NewTopicPostHandler stores the extracted topic in graph state.
func NewTopicPostHandler() func(context.Context, string, *model.AppState) (string, error) {
	return func(ctx context.Context, out string, s *model.AppState) (string, error) {
		s.Topic = out
		return out, nil
	}
}

// NewSearchNode creates the search gateway node. The gateway already maps
// every failure to an empty hit list; zero hits is a valid terminal state.
func NewSearchNode(gateway search.Gateway) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, topic string) ([]model.SearchHit, error) {
		hits, err := gateway.Search(ctx, topic)
		if err != nil {
			logx.Warn().Err(err).Str("topic", topic).Msg("search degraded to empty hit list")
			markDegraded(ctx)
		}
		return hits, nil
	})
}

// NewSearchPostHandler stores the raw hit count in graph state.
func NewSearchPostHandler() func(context.Context, []model.SearchHit, *model.AppState) ([]model.SearchHit, error) {
	return func(ctx context.Context, out []model.SearchHit, s *model.AppState) ([]model.SearchHit, error) {
		s.HitCount = len(out)
		return out, nil
	}
}

// NewFormatNode creates the ranking/formatting node: dedup and rank the raw
// hits, attach a signed link per surviving document, render the reply. A
// signing failure omits that entry's link only.
func NewFormatNode(
	mm *conversations.MessagesManager,
	ranker *ranking.Ranker,
	issuer links.Issuer,
	container string,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, hits []model.SearchHit) (*schema.Message, error) {
		conversationID, query := stateSnapshot(ctx)

		results := ranker.Rank(hits)
		for i := range results {
			if results[i].SourceKey == "" {
				continue
			}
			url, err := issuer.IssueLink(container, results[i].SourceKey)
			if err != nil {
				logx.Warn().Err(err).
					Str("source_key", results[i].SourceKey).
					Msg("link signing failed; entry rendered without link")
				markDegraded(ctx)
				continue
			}
			results[i].RetrievalURL = url
		}

		_ = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			s.ResultCount = len(results)
			return nil
		})

		reply := FormatResults(results)

		if mm.RecordSearchTurns() {
			if err := mm.RecordTurn(ctx, conversationID, query, reply); err != nil {
				logx.Error().Err(err).
					Str("conversation_id", conversationID).
					Msg("failed to record search turn")
			}
		}

		return schema.AssistantMessage(reply, nil), nil
	})
}

// NewFinalNode packages the branch output as the pipeline response.
func NewFinalNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (*schema.Message, error) {
		return msg, nil
	})
}

// NewFinalPostHandler logs the run summary once the pipeline reaches Done.
func NewFinalPostHandler() func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.AppState) (*schema.Message, error) {
		logx.Info().
			Str("conversation_id", s.ConversationID).
			Str("intent", s.Intent.String()).
			Str("topic", s.Topic).
			Int("hit_count", s.HitCount).
			Int("result_count", s.ResultCount).
			Bool("degraded", s.Degraded).
			Float64("total_cost_usd", s.TotalCostUSD).
			Msg("pipeline run completed")
		return out, nil
	}
}
