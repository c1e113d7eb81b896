package conversations

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/contentiq/assistant/internal/agent/model"
	logx "github.com/contentiq/assistant/pkg/logger"
)

type MessagesManager struct {
	conversationRepo  model.ConversationRepository
	topicMaxTurns     int
	recordSearchTurns bool
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo:  conversationRepo,
		topicMaxTurns:     config.Topic.MaxTurns,
		recordSearchTurns: config.RecordSearchTurns,
	}
}

// RecordSearchTurns reports whether completed document searches are appended
// to history as turns.
func (cm *MessagesManager) RecordSearchTurns() bool {
	return cm.recordSearchTurns
}

// BuildRouterContext renders the conversation plus the current message for
// intent classification. History is background only; a failed load degrades
// to classifying the bare message instead of aborting.
func (cm *MessagesManager) BuildRouterContext(ctx context.Context, conversationID string, query string) string {
	messages := cm.loadSoft(ctx, conversationID)

	var fullContext strings.Builder
	fullContext.WriteString(renderContext(messages))
	fullContext.WriteString("\n<current_message_to_classify>\n")
	fullContext.WriteString("UserMessage(" + query + ")\n")
	fullContext.WriteString("</current_message_to_classify>")
	return fullContext.String()
}

// BuildTopicContext renders at most the last topicMaxTurns turns plus the
// current message for topic extraction. The window is read-only; history is
// never truncated in place.
func (cm *MessagesManager) BuildTopicContext(ctx context.Context, conversationID string, query string) string {
	messages := trimTurns(cm.loadSoft(ctx, conversationID), cm.topicMaxTurns)

	var fullContext strings.Builder
	fullContext.WriteString(renderContext(messages))
	fullContext.WriteString("\n<current_message_to_extract_from>\n")
	fullContext.WriteString("UserMessage(" + query + ")\n")
	fullContext.WriteString("</current_message_to_extract_from>")
	return fullContext.String()
}

// BuildChatContext assembles the generation prompt: system prompt, the full
// history (every prior turn, not windowed), then the current user message.
func (cm *MessagesManager) BuildChatContext(ctx context.Context, conversationID string, systemPrompt string, query string) []*schema.Message {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
	}
	messages = append(messages, cm.loadSoft(ctx, conversationID)...)
	messages = append(messages, schema.UserMessage(query))
	return messages
}

// RecordTurn appends one completed (user, assistant) exchange to history.
func (cm *MessagesManager) RecordTurn(ctx context.Context, conversationID string, userContent string, assistantContent string) error {
	if err := cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(userContent)); err != nil {
		return err
	}
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(assistantContent, nil))
}

// ====================== Helper function ======================

func (cm *MessagesManager) loadSoft(ctx context.Context, conversationID string) []*schema.Message {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to load history; continuing without context")
		return nil
	}
	return history.Messages
}

func renderContext(messages []*schema.Message) string {
	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// trimTurns returns a copy of the trailing window covering at most maxTurns
// (user, assistant) pairs. History is appended in pairs, so the window is
// the last 2*maxTurns messages.
func trimTurns(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 {
		return nil
	}
	maxMessages := maxTurns * 2
	if len(messages) <= maxMessages {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxMessages:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
