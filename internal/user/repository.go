package user

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Identifier names the column a lookup runs against.
type Identifier string

const (
	IdentifierEmail Identifier = "email"
	IdentifierID    Identifier = "id"
)

// Store is the narrow persistence surface consumed by the auth service.
// Lookup misses are record-not-found errors detectable through the
// repository helpers, not nil results.
type Store interface {
	FindByIdentifier(ctx context.Context, identifier string, by Identifier) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
}

type store struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Store = (*store)(nil)

// NewStore builds the bun-backed Store.
func NewStore(db *bun.DB) Store {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &store{
		Repository: repo,
		db:         db,
	}
}

func (s *store) FindByIdentifier(ctx context.Context, identifier string, by Identifier) (*User, error) {
	column := "email"
	if by == IdentifierID {
		column = "id"
	}

	record := &User{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", strings.TrimSpace(identifier)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"identifier": identifier,
					"by":         string(by),
				})
		}
		return nil, err
	}

	return record, nil
}

func (s *store) Create(ctx context.Context, record *User) (*User, error) {
	prepareDefaults(record)
	return s.Repository.Create(ctx, record)
}

func prepareDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
