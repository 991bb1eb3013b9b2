package mock

import "repopilot"

var _ repopilot.ClientLimiter = (*ClientLimiter)(nil)

// ClientLimiter is a mock implementation of repopilot.ClientLimiter.
type ClientLimiter struct {
	AllowFn func(clientIP string) error
}

func (l *ClientLimiter) Allow(clientIP string) error {
	return l.AllowFn(clientIP)
}
