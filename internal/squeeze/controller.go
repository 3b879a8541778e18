package squeeze

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ErrDuplicateSqueeze is returned when the email was already captured.
var ErrDuplicateSqueeze = errors.New("Email has already been captured", errors.CategoryConflict).
	WithTextCode("SQUEEZE_EXISTS").
	WithCode(errors.CodeConflict)

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

// Controller exposes the public squeeze capture endpoint.
type Controller struct {
	store  Store
	logger Logger
}

func NewController(store Store) *Controller {
	return &Controller{
		store:  store,
		logger: noopLogger{},
	}
}

func (ct *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		ct.logger = logger
	}
	return ct
}

func (ct *Controller) RegisterRoutes(app fiber.Router) {
	app.Post("/squeeze", ct.Create)
}

// CreatePayload mirrors the capture form.
type CreatePayload struct {
	Email          string   `json:"email"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Phone          string   `json:"phone"`
	Location       string   `json:"location"`
	JobTitle       string   `json:"job_title"`
	Company        string   `json:"company"`
	Interest       []string `json:"interest"`
	ReferralSource string   `json:"referral_source"`
}

// Validate will run validation rules
func (r CreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Phone, validation.Required),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.JobTitle, validation.Required),
		validation.Field(&r.Company, validation.Required),
		validation.Field(&r.ReferralSource, validation.Required),
	)
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	payload := new(CreatePayload)

	if err := c.BodyParser(payload); err != nil {
		ct.logger.Error("squeeze parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status_code": fiber.StatusBadRequest,
			"message":     "Error parsing body",
		})
	}

	if richErr := errors.ValidateWithOzzo(payload.Validate, "Invalid squeeze payload"); richErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status_code": fiber.StatusBadRequest,
			"message":     richErr.Message,
			"errors":      richErr.ValidationMap(),
		})
	}

	if existing, err := ct.store.FindByEmail(c.UserContext(), payload.Email); err != nil && !errors.IsNotFound(err) {
		ct.logger.Error("squeeze duplicate lookup failed", "error", err)
		return internalError(c)
	} else if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status_code": fiber.StatusConflict,
			"message":     ErrDuplicateSqueeze.Message,
		})
	}

	record, err := ct.store.Create(c.UserContext(), &Squeeze{
		Email:          payload.Email,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Phone:          payload.Phone,
		Location:       payload.Location,
		JobTitle:       payload.JobTitle,
		Company:        payload.Company,
		Interest:       payload.Interest,
		ReferralSource: payload.ReferralSource,
	})
	if err != nil {
		ct.logger.Error("squeeze create failed", "error", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status_code": fiber.StatusCreated,
		"message":     "Squeeze recorded successfully",
		"data":        record,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status_code": fiber.StatusInternalServerError,
		"message":     "An unexpected error occurred",
	})
}
