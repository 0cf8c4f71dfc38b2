package ports

import "context"

// Deny reasons reported by a Protector.
const (
	ReasonRateLimit = "rate_limit"
	ReasonBot       = "bot"
)

// ProtectInput describes one inbound request to the protection layer.
// Identity is the requester's stable key (user id when authenticated,
// client IP otherwise).
type ProtectInput struct {
	Identity  string
	Role      string
	Path      string
	UserAgent string
}

// Decision is the outcome of a protection check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Protector is the request-protection boundary (rate limiting, bot
// detection). The decision engine behind it is replaceable; this codebase
// ships a redis-backed limiter.
type Protector interface {
	Protect(ctx context.Context, input ProtectInput) (Decision, error)
}
