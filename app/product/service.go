package product

import (
	"context"
	"fmt"
	"strings"
)

// Service holds the catalogue use cases.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.FindAll(ctx)
}

// Get returns the product or an error wrapping persistence.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

// Search returns the products whose name contains name, ignoring case.
func (s *Service) Search(ctx context.Context, name string) ([]Product, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	out := []Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, f Form) (Product, error) {
	return s.repo.Save(ctx, f.product())
}

// Update replaces every field of an existing product.
func (s *Service) Update(ctx context.Context, id int64, f Form) (Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, f.product())
}

// Patch changes only the fields named in patch.
func (s *Service) Patch(ctx context.Context, id int64, patch map[string]any) (Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	patched, err := Apply(current, patch)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, patched)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("product %d: %w", id, err)
	}
	return nil
}
