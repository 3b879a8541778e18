package auth

import (
	"github.com/goliatone/go-errors"
)

// ErrDuplicateAccount is returned when a registration targets an email
// that already has a record.
var ErrDuplicateAccount = errors.New("Account with the specified email exists", errors.CategoryConflict).
	WithTextCode("ACCOUNT_EXISTS").
	WithCode(errors.CodeBadRequest)

// ErrCreationFailed signals that a created record could not be read
// back after registration.
var ErrCreationFailed = errors.New("Failed to create user", errors.CategoryInternal).
	WithTextCode("USER_CREATE_FAILED").
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials covers both an unknown email and a wrong
// password; the single message avoids confirming account existence.
var ErrInvalidCredentials = errors.New("Invalid password or email", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrMissingToken is returned when a refresh is attempted without a token.
var ErrMissingToken = errors.New("Refresh token is required", errors.CategoryBadInput).
	WithTextCode("REFRESH_TOKEN_REQUIRED").
	WithCode(errors.CodeBadRequest)

// ErrInvalidToken is returned when a refresh token fails verification.
var ErrInvalidToken = errors.New("Invalid refresh token", errors.CategoryAuth).
	WithTextCode("INVALID_REFRESH_TOKEN").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is the signer-level expiry outcome.
var ErrTokenExpired = errors.New("Authentication token expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, truncated tokens, and
// unexpected signing methods.
var ErrTokenMalformed = errors.New("Authentication token malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrMissingAuthHeader is the guard-level outcome for requests without
// a usable Authorization header.
var ErrMissingAuthHeader = errors.New("Missing or malformed authorization header", errors.CategoryAuth).
	WithTextCode("AUTH_HEADER_MISSING").
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the sentinel for a failed bcrypt compare.
var ErrMismatchedHashAndPassword = errors.New("password does not match stored hash", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)
