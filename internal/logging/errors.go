package logging

import (
	"context"

	"github.com/samber/oops"
)

// LogError logs err at error level along with args. oops errors contribute
// their code and context as separate attributes.
func LogError(ctx context.Context, logger Logger, msg string, err error, args ...any) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := append([]any{
			"error", oopsErr.Error(),
		}, args...)
		if code := oopsErr.Code(); present(code) {
			attrs = append(attrs, "code", code)
		}
		if octx := oopsErr.Context(); len(octx) > 0 {
			attrs = append(attrs, "context", octx)
		}
		logger.Error(ctx, msg, attrs...)
		return
	}
	logger.Error(ctx, msg, append([]any{"error", err}, args...)...)
}

func present(v any) bool {
	return v != nil && v != ""
}
