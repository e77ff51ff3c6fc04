package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalid marks input rejected before it reaches the store.
var ErrInvalid = errors.New("invalid company")

type Service struct {
	companies Repository
}

func NewService(companies Repository) *Service {
	return &Service{companies: companies}
}

func normalize(c *Company) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	c.Street = strings.TrimSpace(c.Street)
	c.District = strings.TrimSpace(c.District)
	c.State = strings.TrimSpace(c.State)
	c.Postcode = strings.TrimSpace(c.Postcode)
	c.ChemicalHazards = lo.Uniq(lo.Compact(lo.Map(c.ChemicalHazards, func(h string, _ int) string {
		return strings.TrimSpace(h)
	})))
	return nil
}

// CreateCompany stores a new company. A name whose NormalizeName key is
// already taken fails with db.ErrConflict.
func (s *Service) CreateCompany(ctx context.Context, c *Company) error {
	if err := normalize(c); err != nil {
		return err
	}
	return s.companies.Create(ctx, c)
}

func (s *Service) GetCompany(ctx context.Context, id int64) (*Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *Service) UpdateCompany(ctx context.Context, c *Company) error {
	if err := normalize(c); err != nil {
		return err
	}
	return s.companies.Update(ctx, c)
}

func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	return s.companies.Delete(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	return s.companies.List(ctx, limit, offset)
}
