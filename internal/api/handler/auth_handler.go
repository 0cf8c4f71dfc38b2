package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/platformid/identity-system/internal/api/metrics"
	"github.com/platformid/identity-system/internal/core/ports"
)

// AuthHandler handles signup, signin and signout. On success the session
// token travels in an HttpOnly cookie set by this handler.
type AuthHandler struct {
	authService   ports.AuthService
	cookieTTL     time.Duration
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration, secureCookies bool) *AuthHandler {
	if cookieTTL <= 0 {
		cookieTTL = 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL, secureCookies: secureCookies}
}

// SignUp creates a new user account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	setSessionCookie(c, token, h.cookieTTL, h.secureCookies)
	metrics.SignupsTotal.Inc()
	metrics.TokensIssuedTotal.Inc()

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered",
		User:    toUserResponse(user),
	})
}

// SignIn verifies credentials and starts a session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("failure").Inc()
		return err
	}

	setSessionCookie(c, token, h.cookieTTL, h.secureCookies)
	metrics.SigninsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()

	return c.JSON(http.StatusOK, authResponse{
		Message: "Signed in successfully",
		User:    toUserResponse(user),
	})
}

// SignOut clears the session cookie. Idempotent: succeeds whether or not a
// session existed, and the token itself stays cryptographically valid until
// expiry (no server-side revocation).
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	clearSessionCookie(c, h.secureCookies)
	return c.JSON(http.StatusOK, messageResponse{Message: "Signed out successfully"})
}
