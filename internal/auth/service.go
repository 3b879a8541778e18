package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/remotebingo/backend/internal/user"
)

// Service orchestrates registration, credential verification, and
// token issuance. It owns no state beyond its collaborators; every
// request is handled independently.
type Service struct {
	store  user.Store
	signer *Signer
	logger Logger
}

// NewService wires the service to its user store and token signer.
func NewService(store user.Store, signer *Signer) *Service {
	return &Service{
		store:  store,
		signer: signer,
		logger: defLogger{},
	}
}

func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// RegisterInput carries the registration fields. The password is
// transient; only its hash is persisted.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// UserProjection is the public view of a user record. It never carries
// the password hash.
type UserProjection struct {
	ID        string     `json:"id,omitempty"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type RegisterResult struct {
	AccessToken  string
	RefreshToken string
	User         UserProjection
}

type LoginResult struct {
	AccessToken string
	User        UserProjection
}

type RefreshResult struct {
	AccessToken string
}

// Register creates the account, confirms persistence by re-reading the
// record, and mints both token classes.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	existing, err := s.store.FindByIdentifier(ctx, input.Email, user.IdentifierEmail)
	if err != nil && !errors.IsNotFound(err) {
		s.logger.Error("register duplicate lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check for existing account")
	}
	if existing != nil {
		return nil, ErrDuplicateAccount
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		s.logger.Error("register password hashing failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	if _, err = s.store.Create(ctx, &user.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
	}); err != nil {
		s.logger.Error("register create failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	// Re-read to confirm the record actually persisted; a silent write
	// failure surfaces here instead of at first login.
	record, err := s.store.FindByIdentifier(ctx, input.Email, user.IdentifierEmail)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrCreationFailed
		}
		s.logger.Error("register re-read failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read created user")
	}

	accessToken, err := s.signer.SignAccess(&AccessClaims{
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: record.ID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.IssueRefreshToken(record.ID.String())
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserProjection{
			ID:        record.ID.String(),
			FirstName: record.FirstName,
			LastName:  record.LastName,
			Email:     record.Email,
			CreatedAt: record.CreatedAt,
		},
	}, nil
}

// Login verifies the credentials and mints an access token. No refresh
// token is issued here; registration is the only flow that hands one
// out.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	record, err := s.store.FindByIdentifier(ctx, email, user.IdentifierEmail)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := ComparePasswordAndHash(password, record.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login password comparison failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	accessToken, err := s.IssueAccessToken(record.ID.String())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: accessToken,
		User: UserProjection{
			ID:        record.ID.String(),
			FirstName: record.FirstName,
			LastName:  record.LastName,
			Email:     record.Email,
		},
	}, nil
}

// IssueAccessToken signs an id-only claim set with the access secret.
func (s *Service) IssueAccessToken(userID string) (string, error) {
	return s.signer.SignAccess(&AccessClaims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	})
}

// IssueRefreshToken signs an id-only claim set with the refresh secret.
func (s *Service) IssueRefreshToken(userID string) (string, error) {
	return s.signer.SignRefresh(userID)
}

// VerifyRefreshToken checks signature and expiry against the refresh
// configuration. Failure is an expected outcome, not an error; the
// cause is logged for observability and collapsed for the caller.
func (s *Service) VerifyRefreshToken(token string) (*AccessClaims, bool) {
	claims, err := s.signer.VerifyRefresh(token)
	if err != nil {
		s.logger.Debug("refresh token verification failed", "error", err)
		return nil, false
	}
	return claims, true
}

// RefreshAccessToken mints a new access token for the subject of a
// valid refresh token. The refresh token itself is not rotated; it
// stays usable until natural expiry.
func (s *Service) RefreshAccessToken(ctx context.Context, token string) (*RefreshResult, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, ok := s.VerifyRefreshToken(token)
	if !ok {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.IssueAccessToken(claims.UserID())
	if err != nil {
		return nil, err
	}

	return &RefreshResult{AccessToken: accessToken}, nil
}
