package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/contentiq/assistant/pkg/logger"
)

type stageTimeKey struct {
	name string
}

// NewStageCallbacks builds a handler that emits one structured event per
// stage run: stage name, component, outcome and latency. Failures inside a
// stage are converted to degraded results by the stage itself, so OnError
// here only fires for wiring-level faults.
func NewStageCallbacks() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, input einocb.CallbackInput) context.Context {
			if info == nil || info.Name == "" {
				return ctx
			}
			return context.WithValue(ctx, stageTimeKey{name: info.Name}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, output einocb.CallbackOutput) context.Context {
			if info == nil || info.Name == "" {
				return ctx
			}
			evt := logx.Debug().
				Str("stage", info.Name).
				Str("component", string(info.Component)).
				Str("outcome", "ok")
			if start, ok := ctx.Value(stageTimeKey{name: info.Name}).(time.Time); ok {
				evt = evt.Dur("latency", time.Since(start))
			}
			evt.Msg("stage completed")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			if info == nil || info.Name == "" {
				return ctx
			}
			evt := logx.Error().
				Err(err).
				Str("stage", info.Name).
				Str("component", string(info.Component)).
				Str("outcome", "error")
			if start, ok := ctx.Value(stageTimeKey{name: info.Name}).(time.Time); ok {
				evt = evt.Dur("latency", time.Since(start))
			}
			evt.Msg("stage failed")
			return ctx
		}).
		Build()
}
