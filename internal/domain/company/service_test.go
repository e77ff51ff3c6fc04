package company

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/ohs/ohs/internal/platform/db"
)

// -- Mock Company Repository --

type mockRepo struct {
	nextID    int64
	companies map[int64]*Company
}

func newMockRepo() *mockRepo {
	return &mockRepo{companies: make(map[int64]*Company)}
}

func (m *mockRepo) Create(_ context.Context, c *Company) error {
	for _, existing := range m.companies {
		if NormalizeName(existing.Name) == NormalizeName(c.Name) {
			return fmt.Errorf("company create: %w", db.ErrConflict)
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.companies[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Company, error) {
	for _, c := range m.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) GetByKey(_ context.Context, key string) (*Company, error) {
	for _, c := range m.companies {
		if NormalizeName(c.Name) == key {
			return c, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, c *Company) error {
	if _, ok := m.companies[c.ID]; !ok {
		return db.ErrNotFound
	}
	m.companies[c.ID] = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.companies[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.companies, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Company, int, error) {
	var all []*Company
	for _, c := range m.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Acme Corp", "acme corp"},
		{"  ACME corp ", "acme corp"},
		{"\tPetronas Chemicals\n", "petronas chemicals"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestService_CreateCompany_NormalizesHazards(t *testing.T) {
	svc := newTestService()
	c := &Company{
		Name:            " Acme Corp ",
		ChemicalHazards: []string{"Benzene", " Toluene ", "", "Benzene"},
	}
	if err := svc.CreateCompany(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Acme Corp" {
		t.Errorf("expected trimmed name, got %q", c.Name)
	}
	want := []string{"Benzene", "Toluene"}
	if fmt.Sprint(c.ChemicalHazards) != fmt.Sprint(want) {
		t.Errorf("expected hazards %v, got %v", want, c.ChemicalHazards)
	}
}

func TestService_CreateCompany_Validation(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateCompany(context.Background(), &Company{Name: "  "}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestService_CreateCompany_DuplicateKey(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if err := svc.CreateCompany(ctx, &Company{Name: "Acme Corp"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.CreateCompany(ctx, &Company{Name: "ACME CORP"}); !errors.Is(err, db.ErrConflict) {
		t.Errorf("expected ErrConflict for same normalized name, got %v", err)
	}
}

func TestCompany_HasAddress(t *testing.T) {
	if (&Company{Name: "X"}).HasAddress() {
		t.Error("expected no address")
	}
	if !(&Company{Postcode: "43000"}).HasAddress() {
		t.Error("expected address when postcode set")
	}
}
