package repos

import (
	"time"

	"jadimart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns the catalog newest-first.
func (r *ProductRepo) List(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id, name, COALESCE(description,'') AS description, price, image,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, name, COALESCE(description,'') AS description, price, image,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, description, price, image, created_at)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Price, p.Image, time.Now().UTC().Format(time.RFC3339))
	return err
}
