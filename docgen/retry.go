package docgen

import (
	"context"
	"time"

	"repopilot"
)

// defaultRetryDelays returns the backoff delays for generation retries:
// 1s, 2s, 4s.
func defaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retryable reports whether a generation error is transient.
func retryable(err error) bool {
	switch repopilot.ErrorCode(err) {
	case repopilot.EUNAVAILABLE, repopilot.ERATELIMIT:
		return true
	}
	return false
}

// generateWithRetry calls the LLM with exponential backoff on transient
// errors. Permanent errors return immediately.
func (g *Generator) generateWithRetry(ctx context.Context, prompt string, opts repopilot.GenerateOptions) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(g.retryDelays); attempt++ {
		out, err := g.llm.GenerateText(ctx, prompt, opts)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err) || attempt == len(g.retryDelays) {
			break
		}
		g.logger.Warn("generation retry", "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", repopilot.Errorf(repopilot.ETIMEOUT, "generation timed out: %v", ctx.Err())
		case <-time.After(g.retryDelays[attempt]):
		}
	}
	return "", lastErr
}
