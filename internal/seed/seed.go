package seed

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"

	"github.com/remotebingo/backend/internal/auth"
	"github.com/remotebingo/backend/internal/user"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// AdminEmail is the bootstrap account every fresh database gets.
const AdminEmail = "admin@remotebingo.dev"

// EnsureAdmin creates the bootstrap admin account if it is missing.
// The ID is derived from the email so repeated runs against the same
// database converge on the same record, and the password hash is
// random so the account is unusable until a reset.
func EnsureAdmin(ctx context.Context, store user.Store, logger Logger) error {
	existing, err := store.FindByIdentifier(ctx, AdminEmail, user.IdentifierEmail)
	if err != nil && !errors.IsNotFound(err) {
		return errors.Wrap(err, errors.CategoryInternal, "seed admin lookup failed")
	}

	if existing != nil {
		logger.Debug("seed admin present", "id", existing.ID)
		return nil
	}

	id, err := hashid.NewUUID(AdminEmail)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "seed admin id derivation failed")
	}

	record, err := store.Create(ctx, &user.User{
		ID:           id,
		FirstName:    "Remote",
		LastName:     "Bingo",
		Email:        AdminEmail,
		PasswordHash: auth.RandomPasswordHash(),
	})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "seed admin create failed")
	}

	logger.Info("seed admin created", "id", record.ID)
	return nil
}
