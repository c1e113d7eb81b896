package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL   string `envconfig:"CONVERSATION_TTL" default:"15m"`
	Topic struct {
		MaxTurns int `envconfig:"CONVERSATION_TOPIC_MAX_TURNS" default:"3"`
	}
	// RecordSearchTurns controls whether a completed document search is
	// appended to history as a turn. Off by default: search interactions
	// thread history through unchanged.
	RecordSearchTurns bool `envconfig:"CONVERSATION_RECORD_SEARCH_TURNS" default:"false"`
}

type RouterModelConfig struct {
	Model       string        `envconfig:"ROUTER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int           `envconfig:"ROUTER_MAX_TOKENS" default:"100"`
	Temperature float32       `envconfig:"ROUTER_TEMPERATURE" default:"0.0"`
	Timeout     time.Duration `envconfig:"ROUTER_TIMEOUT" default:"30s"`
}

type TopicModelConfig struct {
	Model       string        `envconfig:"TOPIC_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int           `envconfig:"TOPIC_MAX_TOKENS" default:"200"`
	Temperature float32       `envconfig:"TOPIC_TEMPERATURE" default:"0.0"`
	Timeout     time.Duration `envconfig:"TOPIC_TIMEOUT" default:"30s"`
}

type ResponseModelConfig struct {
	Model       string        `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int           `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32       `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
	Timeout     time.Duration `envconfig:"RESPONSE_TIMEOUT" default:"30s"`
}

type ChatPromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"ContentIQ"`
}

// SearchConfig describes the external full-text index. PageSize defaults to
// the service maximum; the gateway issues a single page, no follow-up.
type SearchConfig struct {
	Endpoint   string        `envconfig:"SEARCH_ENDPOINT" required:"true"`
	APIKey     string        `envconfig:"SEARCH_API_KEY" required:"true"`
	Index      string        `envconfig:"SEARCH_INDEX" default:"doc-index"`
	APIVersion string        `envconfig:"SEARCH_API_VERSION" default:"2023-07-01-preview"`
	PageSize   int           `envconfig:"SEARCH_PAGE_SIZE" default:"1000"`
	Timeout    time.Duration `envconfig:"SEARCH_TIMEOUT" default:"15s"`
}

// BlobConfig describes the storage account used to issue read-only,
// time-limited download links for ranked documents.
type BlobConfig struct {
	ConnectionString string `envconfig:"BLOB_CONNECTION_STRING" required:"true"`
	Container        string `envconfig:"BLOB_CONTAINER" default:"contentiq"`
	LinkTTLMinutes   int    `envconfig:"BLOB_LINK_TTL_MINUTES" default:"10"`
}
