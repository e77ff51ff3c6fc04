package subject

import "time"

// Subject is a worker under occupational health surveillance. It maps to the
// subject table.
type Subject struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	ICNumber    string     `db:"ic_number" json:"ic_number"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender"`
	Phone       string     `db:"phone" json:"phone"`
	Email       string     `db:"email" json:"email"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
