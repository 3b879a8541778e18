package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// Controller exposes the authentication HTTP surface.
type Controller struct {
	svc    *Service
	logger Logger
}

func NewController(svc *Service) *Controller {
	return &Controller{
		svc:    svc,
		logger: defLogger{},
	}
}

func (ct *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		ct.logger = logger
	}
	return ct
}

// RegisterRoutes mounts the auth endpoints. All three are public; the
// guard's filter must admit them.
func (ct *Controller) RegisterRoutes(app fiber.Router) {
	grp := app.Group("/auth")
	grp.Post("/register", ct.Register)
	grp.Post("/login", ct.Login)
	grp.Post("/refresh", ct.Refresh)
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
	Password  string `json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (ct *Controller) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		ct.logger.Error("register parse payload", "error", err)
		return badRequest(c, "Error parsing body")
	}

	if richErr := errors.ValidateWithOzzo(payload.Validate, "Invalid registration payload"); richErr != nil {
		return validationFailed(c, richErr)
	}

	result, err := ct.svc.Register(c.UserContext(), RegisterInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
	})
	if err != nil {
		return ct.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status_code": fiber.StatusCreated,
		"message":     "User created successfully",
		"data": fiber.Map{
			"accessToken":   result.AccessToken,
			"refresh_token": result.RefreshToken,
			"user": fiber.Map{
				"first_name": result.User.FirstName,
				"last_name":  result.User.LastName,
				"email":      result.User.Email,
				"created_at": result.User.CreatedAt,
			},
		},
	})
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (ct *Controller) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		ct.logger.Error("login parse payload", "error", err)
		return badRequest(c, "Error parsing body")
	}

	if richErr := errors.ValidateWithOzzo(payload.Validate, "Invalid login payload"); richErr != nil {
		return validationFailed(c, richErr)
	}

	result, err := ct.svc.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return ct.renderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": result.AccessToken,
		"data": fiber.Map{
			"user": fiber.Map{
				"first_name": result.User.FirstName,
				"last_name":  result.User.LastName,
				"email":      result.User.Email,
				"id":         result.User.ID,
			},
		},
	})
}

// RefreshPayload is the token refresh request body.
type RefreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

func (ct *Controller) Refresh(c *fiber.Ctx) error {
	payload := new(RefreshPayload)

	if err := c.BodyParser(payload); err != nil {
		ct.logger.Error("refresh parse payload", "error", err)
		return badRequest(c, "Error parsing body")
	}

	result, err := ct.svc.RefreshAccessToken(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return ct.renderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status_code": fiber.StatusOK,
		"message":     "Access Token refreshed successfully",
		"data": fiber.Map{
			"access_token": result.AccessToken,
		},
	})
}

// renderError maps rich errors to the client envelope. Known
// conditions keep their stable message; anything else is logged with
// context and collapsed into a generic 500.
func (ct *Controller) renderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return ct.renderInternal(c, err)
	}

	// ErrCreationFailed is internal in category but has a stable
	// client-facing message; every other internal error stays opaque.
	if richErr.Category == errors.CategoryInternal && richErr.TextCode != ErrCreationFailed.TextCode {
		return ct.renderInternal(c, err)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"status_code": status,
		"message":     richErr.Message,
	})
}

func (ct *Controller) renderInternal(c *fiber.Ctx, err error) error {
	ct.logger.Error("unexpected auth error", "error", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status_code": fiber.StatusInternalServerError,
		"message":     "An unexpected error occurred",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status_code": fiber.StatusBadRequest,
		"message":     message,
	})
}

func validationFailed(c *fiber.Ctx, richErr *errors.Error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status_code": fiber.StatusBadRequest,
		"message":     richErr.Message,
		"errors":      richErr.ValidationMap(),
	})
}

// ValidatePhoneNumber accepts an empty value or a parseable, valid
// phone number. Numbers without a country prefix are interpreted as US.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return err
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("invalid phone number", errors.CategoryValidation)
	}

	return nil
}
