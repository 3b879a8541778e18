package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultContextKey = "principal"
	defaultAuthScheme = "Bearer"
)

// GuardConfig configures the request guard.
type GuardConfig struct {
	// Signer verifies bearer tokens against the access configuration.
	Signer *Signer
	// Filter marks a request public; public requests pass through
	// untouched regardless of header presence.
	Filter func(*fiber.Ctx) bool
	// ErrorHandler renders the rejection. Defaults to a uniform 401
	// JSON body that does not distinguish expired from malformed.
	ErrorHandler fiber.ErrorHandler
	// ContextKey is the locals key the principal is stored under.
	ContextKey string
	// AuthScheme is the expected Authorization scheme.
	AuthScheme string
	Logger     Logger
}

// Guard returns middleware that runs before every route handler. A
// request is either authorized, with the principal attached for
// downstream handlers, or rejected; there is no retry within a request.
func Guard(config ...GuardConfig) fiber.Handler {
	cfg := guardDefaults(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := tokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Signer.VerifyAccess(raw)
		if err != nil {
			// Expired vs malformed matters for operators, never for
			// the caller.
			cfg.Logger.Debug("guard rejected token", "error", err, "path", c.Path())
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(WithPrincipal(c.UserContext(), claims))

		return c.Next()
	}
}

func guardDefaults(config ...GuardConfig) GuardConfig {
	var cfg GuardConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Signer == nil {
		panic("AUTH: guard configuration requires a Signer")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status_code": fiber.StatusUnauthorized,
				"message":     "Unauthorized",
			})
		}
	}

	return cfg
}

func tokenFromHeader(header, authScheme string) (string, error) {
	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), nil
	}
	return "", ErrMissingAuthHeader
}
