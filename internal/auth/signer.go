package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenConfig pairs a signing secret with a validity window. One value
// exists per token class; both are built once at startup and never
// mutated.
type TokenConfig struct {
	Secret []byte
	Expiry time.Duration
}

// Signer signs and verifies the two bearer token classes with
// independent secrets and expiries.
type Signer struct {
	access  TokenConfig
	refresh TokenConfig
	issuer  string
	logger  Logger
}

// NewSigner creates a Signer from the access and refresh configurations.
func NewSigner(access, refresh TokenConfig) *Signer {
	return &Signer{
		access:  access,
		refresh: refresh,
		logger:  defLogger{},
	}
}

func (s *Signer) WithLogger(logger Logger) *Signer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Signer) WithIssuer(issuer string) *Signer {
	s.issuer = issuer
	return s
}

// SignAccess signs the given claims with the access secret. Issuer,
// issue time, and expiry are filled in when unset.
func (s *Signer) SignAccess(claims *AccessClaims) (string, error) {
	return s.sign(claims, s.access)
}

// SignRefresh mints a refresh token whose only claim is the user id.
func (s *Signer) SignRefresh(userID string) (string, error) {
	return s.sign(&AccessClaims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}, s.refresh)
}

// VerifyAccess validates a token against the access configuration.
func (s *Signer) VerifyAccess(token string) (*AccessClaims, error) {
	return s.verify(token, s.access)
}

// VerifyRefresh validates a token against the refresh configuration.
func (s *Signer) VerifyRefresh(token string) (*AccessClaims, error) {
	return s.verify(token, s.refresh)
}

// AccessExpiry exposes the configured access validity window.
func (s *Signer) AccessExpiry() time.Duration {
	return s.access.Expiry
}

func (s *Signer) sign(claims *AccessClaims, cfg TokenConfig) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	if claims.RegisteredClaims.Issuer == "" {
		claims.RegisteredClaims.Issuer = s.issuer
	}
	if claims.RegisteredClaims.IssuedAt == nil {
		claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.RegisteredClaims.ExpiresAt == nil {
		claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(cfg.Expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

func (s *Signer) verify(tokenString string, cfg TokenConfig) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Error("signer verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cfg.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}

	s.logger.Error("signer verify could not decode claims")
	return nil, ErrTokenMalformed
}
