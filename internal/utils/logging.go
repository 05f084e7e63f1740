package utils

import (
	"context"
	"log/slog"

	copilot "github.com/github/copilot-sdk/go"
)

// SessionToSlog logs a copilot session event at debug level.
func SessionToSlog(event copilot.SessionEvent) {
	logSessionEvent(event, nil)
}

// SessionLogger returns a session event handler that logs every event at
// debug level, tagged with attrs (for instance the evaluator and category).
func SessionLogger(attrs ...any) copilot.SessionEventHandler {
	return func(event copilot.SessionEvent) {
		logSessionEvent(event, attrs)
	}
}

func logSessionEvent(event copilot.SessionEvent, extra []any) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := append([]any{}, extra...)
	attrs = append(attrs, "type", event.Type)

	attrs = addIf(attrs, "content", event.Data.Content)
	attrs = addIf(attrs, "deltaContent", event.Data.DeltaContent)
	attrs = addIf(attrs, "toolName", event.Data.ToolName)
	attrs = addIf(attrs, "toolCallID", event.Data.ToolCallID)
	attrs = addIf(attrs, "reasoningText", event.Data.ReasoningText)

	slog.Debug("Judge session event", attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name)
		attrs = append(attrs, *v)
	}

	return attrs
}
