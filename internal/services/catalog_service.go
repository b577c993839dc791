package services

import (
	"database/sql"
	"errors"
	"strings"

	"jadimart/internal/domain"
	"jadimart/internal/repos"

	"github.com/google/uuid"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) ListProducts(page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 24
	}
	offset := (page - 1) * pageSize
	return s.Prods.List(pageSize, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

// AddProduct creates a catalog entry (admin surface).
func (s *CatalogService) AddProduct(name, description, image string, price float64) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Product{}, invalid("missing product name")
	}
	if image == "" {
		return domain.Product{}, invalid("missing product image")
	}
	if price <= 0 {
		return domain.Product{}, invalid("price must be positive")
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       price,
		Image:       image,
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
