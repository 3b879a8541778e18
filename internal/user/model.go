package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted account record. The password hash never leaves
// this package through JSON.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
