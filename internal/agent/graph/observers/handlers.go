package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
)

// NewAllCallbacks aggregates the observer handlers (stage timing, prompt)
// attached to every graph invocation.
func NewAllCallbacks() []einocb.Handler {
	return []einocb.Handler{
		NewStageCallbacks(),
		NewPromptCallbacks(),
	}
}
