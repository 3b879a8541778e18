package squeeze

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store persists squeeze captures.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Squeeze, error)
	Create(ctx context.Context, record *Squeeze) (*Squeeze, error)
}

type store struct {
	repository.Repository[*Squeeze]
	db *bun.DB
}

var _ Store = (*store)(nil)

func NewStore(db *bun.DB) Store {
	repo := repository.NewRepository[*Squeeze](db, repository.ModelHandlers[*Squeeze]{
		NewRecord: func() *Squeeze { return &Squeeze{} },
		GetID: func(s *Squeeze) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Squeeze, id uuid.UUID) {
			if s != nil {
				s.ID = id
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

func (s *store) FindByEmail(ctx context.Context, email string) (*Squeeze, error) {
	record := &Squeeze{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (s *store) Create(ctx context.Context, record *Squeeze) (*Squeeze, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return s.Repository.Create(ctx, record)
}
