package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/platformid/identity-system/internal/api/metrics"
	"github.com/platformid/identity-system/internal/core/ports"
)

// Protect runs every request through the protection layer (rate limiting,
// bot filtering) before the handler. When chained after Auth, the
// requester's role and user id key the decision; otherwise the request
// counts against the guest bucket keyed by client IP. Protector backend
// failures propagate as terminal errors for the request.
func Protect(protector ports.Protector, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			input := ports.ProtectInput{
				Identity:  c.RealIP(),
				Role:      "guest",
				Path:      c.Path(),
				UserAgent: c.Request().UserAgent(),
			}
			if role, _ := c.Get("role").(string); role != "" {
				input.Role = role
				if id, _ := c.Get("user_id").(int64); id != 0 {
					input.Identity = strconv.FormatInt(id, 10)
				}
			}

			decision, err := protector.Protect(c.Request().Context(), input)
			if err != nil {
				return err
			}
			if decision.Allowed {
				return next(c)
			}

			metrics.RequestsBlockedTotal.WithLabelValues(decision.Reason).Inc()
			log.Warn().
				Str("identity", input.Identity).
				Str("role", input.Role).
				Str("path", input.Path).
				Str("reason", decision.Reason).
				Msg("request blocked")

			if decision.Reason == ports.ReasonBot {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "automated requests are not allowed"})
			}
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		}
	}
}
