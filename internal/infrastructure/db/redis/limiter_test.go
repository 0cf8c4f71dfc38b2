package redis

import (
	"context"
	"testing"
	"time"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

func TestRequestLimiter_BotDenylist(t *testing.T) {
	// The bot check runs before any redis call, so no client is needed.
	limiter := NewRequestLimiter(nil, LimiterConfig{})

	for _, ua := range []string{"curl/8.5.0", "Wget/1.21", "python-requests/2.31", "Go-http-client/1.1"} {
		decision, err := limiter.Protect(context.Background(), ports.ProtectInput{
			Identity: "203.0.113.7", Role: "guest", UserAgent: ua,
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", ua, err)
		}
		if decision.Allowed || decision.Reason != ports.ReasonBot {
			t.Fatalf("%s: expected bot denial, got %+v", ua, decision)
		}
	}
}

func TestRequestLimiter_Defaults(t *testing.T) {
	limiter := NewRequestLimiter(nil, LimiterConfig{})

	if limiter.cfg.Window != time.Minute {
		t.Fatalf("expected 1m window, got %v", limiter.cfg.Window)
	}
	if got := limiter.limitFor(domain.RoleAdmin); got != 20 {
		t.Fatalf("admin limit: expected 20, got %d", got)
	}
	if got := limiter.limitFor(domain.RoleUser); got != 10 {
		t.Fatalf("user limit: expected 10, got %d", got)
	}
	if got := limiter.limitFor("guest"); got != 5 {
		t.Fatalf("guest limit: expected 5, got %d", got)
	}
	if got := limiter.limitFor("unknown"); got != 5 {
		t.Fatalf("unknown role must use the guest limit, got %d", got)
	}
}

func TestRequestLimiter_Keying(t *testing.T) {
	limiter := NewRequestLimiter(nil, LimiterConfig{})

	key := limiter.key(ports.ProtectInput{Identity: "42", Role: domain.RoleUser})
	if key != "ratelimit:user:42" {
		t.Fatalf("unexpected key: %s", key)
	}

	key = limiter.key(ports.ProtectInput{Identity: "203.0.113.7"})
	if key != "ratelimit:guest:203.0.113.7" {
		t.Fatalf("unexpected key: %s", key)
	}
}
