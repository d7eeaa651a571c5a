package advice

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider is a decorator that records every advice request
// through a structured logger.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		slog.String("model", l.inner.ModelID()),
		slog.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		attrs = append(attrs, slog.String("schema", req.Schema.Name))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.ErrorContext(ctx, "advice request failed", attrs...)
		return nil, err
	}

	attrs = append(attrs,
		slog.Int("input_tokens", resp.Usage.InputTokens),
		slog.Int("output_tokens", resp.Usage.OutputTokens),
		slog.String("stop_reason", resp.StopReason),
	)
	l.logger.InfoContext(ctx, "advice request completed", attrs...)

	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
