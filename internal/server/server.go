package server

import (
	"context"
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/remotebingo/backend/internal/auth"
	"github.com/remotebingo/backend/internal/config"
	"github.com/remotebingo/backend/internal/squeeze"
	"github.com/remotebingo/backend/internal/user"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options carries every collaborator the server needs. All of them are
// injected; the server builds nothing on its own.
type Options struct {
	Config  *config.Config
	Signer  *auth.Signer
	Auth    *auth.Controller
	Squeeze *squeeze.Controller
	Users   user.Store
	Logger  Logger
}

// Server owns the fiber app and the route table.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	users  user.Store
	logger Logger
}

// New assembles the fiber app: guard first, then public and protected
// routes under /api/v1.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	s := &Server{
		cfg:    opts.Config,
		users:  opts.Users,
		logger: logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "remotebingo",
		ErrorHandler: s.errorHandler,
	})

	s.app.Use(auth.Guard(auth.GuardConfig{
		Signer: opts.Signer,
		Filter: publicRoute,
		Logger: logger,
	}))

	s.app.Get("/health", s.Health)
	s.app.Get("/probe", s.Probe)

	api := s.app.Group("/api/v1")
	opts.Auth.RegisterRoutes(api)
	opts.Squeeze.RegisterRoutes(api)
	api.Get("/users/me", s.Me)

	return s
}

// publicRoute admits the endpoints that must work without a token.
func publicRoute(c *fiber.Ctx) bool {
	path := c.Path()

	switch path {
	case "/health", "/probe":
		return true
	}

	if c.Method() != fiber.MethodPost {
		return false
	}

	switch path {
	case "/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/api/v1/squeeze":
		return true
	}

	return false
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	addr := s.cfg.Addr()
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status_code": fiber.StatusOK,
		"message":     "ok",
	})
}

func (s *Server) Probe(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "I am the Remote Bingo API responding",
	})
}

// Me returns the profile of the authenticated principal. The guard has
// already run, so a missing principal here is a programming error on
// the route table and renders as a 401 rather than a panic.
func (s *Server) Me(c *fiber.Ctx) error {
	claims, ok := auth.PrincipalFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status_code": fiber.StatusUnauthorized,
			"message":     "Unauthorized",
		})
	}

	record, err := s.users.FindByIdentifier(c.UserContext(), claims.UserID(), user.IdentifierID)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status_code": fiber.StatusNotFound,
				"message":     "User not found",
			})
		}
		s.logger.Error("profile lookup failed", "error", err, "user_id", claims.UserID())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status_code": fiber.StatusInternalServerError,
			"message":     "An unexpected error occurred",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status_code": fiber.StatusOK,
		"message":     "User retrieved successfully",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":           record.ID,
				"first_name":   record.FirstName,
				"last_name":    record.LastName,
				"email":        record.Email,
				"phone_number": record.Phone,
				"created_at":   record.CreatedAt,
			},
		},
	})
}

// errorHandler is the fiber fallback for errors returned by handlers
// that did not render their own response.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code != 0 && richErr.Category != errors.CategoryInternal {
		return c.Status(richErr.Code).JSON(fiber.Map{
			"status_code": richErr.Code,
			"message":     richErr.Message,
		})
	}

	code := fiber.StatusInternalServerError
	message := fiber.ErrInternalServerError.Message

	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		s.logger.Error("unhandled request error", "error", err, "path", c.Path())
		message = fiber.ErrInternalServerError.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status_code": code,
		"message":     message,
	})
}
