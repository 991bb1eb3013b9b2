package repopilot

// ClientLimiter admits or rejects requests per client with a global cap.
type ClientLimiter interface {
	// Allow returns nil if a request from the client may proceed, or an
	// ERATELIMIT error describing which limit was hit.
	Allow(clientIP string) error
}
