package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

// LimiterConfig tunes the request limiter. Limits are requests per window,
// keyed by role; unknown roles fall back to the guest limit.
type LimiterConfig struct {
	Window     time.Duration
	AdminLimit int
	UserLimit  int
	GuestLimit int
	// BotAgents is a lowercase substring denylist matched against the
	// User-Agent header.
	BotAgents []string
}

// defaultBotAgents covers the obvious automated clients. Real bot detection
// belongs to an edge service; this is a first-line filter.
var defaultBotAgents = []string{"curl/", "wget/", "python-requests", "scrapy", "go-http-client"}

// RequestLimiter is a Protector backed by Redis. Counting uses one INCR'd
// key per identity and window (the key expires with the window), so a
// requester is bounded within each interval without any in-process state.
type RequestLimiter struct {
	client *redis.Client
	cfg    LimiterConfig
}

func NewRequestLimiter(client *redis.Client, cfg LimiterConfig) *RequestLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.AdminLimit <= 0 {
		cfg.AdminLimit = 20
	}
	if cfg.UserLimit <= 0 {
		cfg.UserLimit = 10
	}
	if cfg.GuestLimit <= 0 {
		cfg.GuestLimit = 5
	}
	if cfg.BotAgents == nil {
		cfg.BotAgents = defaultBotAgents
	}
	return &RequestLimiter{client: client, cfg: cfg}
}

// Protect decides whether one request may proceed.
func (l *RequestLimiter) Protect(ctx context.Context, input ports.ProtectInput) (ports.Decision, error) {
	ua := strings.ToLower(input.UserAgent)
	for _, bot := range l.cfg.BotAgents {
		if strings.Contains(ua, bot) {
			return ports.Decision{Allowed: false, Reason: ports.ReasonBot}, nil
		}
	}

	count, err := l.client.Incr(ctx, l.key(input)).Result()
	if err != nil {
		return ports.Decision{}, fmt.Errorf("request limiter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, l.key(input), l.cfg.Window).Err(); err != nil {
			return ports.Decision{}, fmt.Errorf("request limiter: %w", err)
		}
	}

	if count > int64(l.limitFor(input.Role)) {
		return ports.Decision{Allowed: false, Reason: ports.ReasonRateLimit}, nil
	}
	return ports.Decision{Allowed: true}, nil
}

func (l *RequestLimiter) limitFor(role string) int {
	switch role {
	case domain.RoleAdmin:
		return l.cfg.AdminLimit
	case domain.RoleUser:
		return l.cfg.UserLimit
	default:
		return l.cfg.GuestLimit
	}
}

func (l *RequestLimiter) key(input ports.ProtectInput) string {
	role := input.Role
	if role == "" {
		role = "guest"
	}
	return "ratelimit:" + role + ":" + input.Identity
}
