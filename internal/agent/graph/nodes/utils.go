package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/contentiq/assistant/internal/agent/model"
	logx "github.com/contentiq/assistant/pkg/logger"
)

// ===== Small helpers to keep stage lambdas simple/readable =====

// markDegraded flags the current run as degraded. Failures are recovered at
// their own stage; this keeps the degradation observable instead of silent.
func markDegraded(ctx context.Context) {
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
		s.Degraded = true
		return nil
	})
}

// stateSnapshot reads the conversation ID and query captured by the router
// pre-handler.
func stateSnapshot(ctx context.Context) (conversationID, query string) {
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
		conversationID = s.ConversationID
		query = s.Query
		return nil
	})
	return conversationID, query
}

// recordUsage computes and logs USD cost for one model invocation and
// accumulates the total into graph state.
func recordUsage(ctx context.Context, node string, modelName string, out *schema.Message) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}

	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)

	var conversationID string
	var runningTotal float64
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
		s.TotalCostUSD += totalC
		conversationID = s.ConversationID
		runningTotal = s.TotalCostUSD
		return nil
	})

	logx.Debug().
		Str("conversation_id", conversationID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", runningTotal).
		Msg("LLM usage")
}
