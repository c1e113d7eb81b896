package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/topic_prompt.txt
var topicSystemPrompt string

// RenderTopicSystem renders the topic-extraction system prompt and triggers
// prompt callbacks.
func RenderTopicSystem(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(topicSystemPrompt)},
	})
	if err != nil {
		return "", fmt.Errorf("topic prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("topic prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
