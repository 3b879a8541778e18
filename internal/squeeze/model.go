package squeeze

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Squeeze is a marketing-capture record collected from the public
// landing page.
type Squeeze struct {
	bun.BaseModel  `bun:"table:squeezes,alias:sqz"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name"`
	LastName       string     `bun:"last_name,notnull" json:"last_name"`
	Phone          string     `bun:"phone,notnull" json:"phone"`
	Location       string     `bun:"location,notnull" json:"location"`
	JobTitle       string     `bun:"job_title,notnull" json:"job_title"`
	Company        string     `bun:"company,notnull" json:"company"`
	Interest       []string   `bun:"interest" json:"interest"`
	ReferralSource string     `bun:"referral_source,notnull" json:"referral_source"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
