package company

import (
	"strings"
	"time"
)

// Company is an employer. Its name is the key that occupational history
// entries are matched against.
type Company struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Street          string    `db:"street" json:"street"`
	District        string    `db:"district" json:"district"`
	State           string    `db:"state" json:"state"`
	Postcode        string    `db:"postcode" json:"postcode"`
	ChemicalHazards []string  `db:"chemical_hazards" json:"chemical_hazards"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// HasAddress reports whether any address component is filled in.
func (c *Company) HasAddress() bool {
	return strings.TrimSpace(c.Street+c.District+c.State+c.Postcode) != ""
}

// NormalizeName is the join key between a free-text employer name and
// Company.Name: lowercased with surrounding whitespace removed. Two names
// refer to the same company exactly when their keys are equal. The unique
// index uq_company_name_key enforces the same key in the database.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
