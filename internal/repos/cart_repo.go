package repos

import (
	"time"

	"jadimart/internal/domain"

	"github.com/jmoiron/sqlx"
)

// CartRepo is the server-side cart backing for authenticated users. One cart
// row per user, one cart_items row per distinct product.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Ensure returns the user's cart id, creating the cart lazily on first use.
func (r *CartRepo) Ensure(userID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id = ?`, userID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,user_id,updated_at) VALUES(?,?,?)`,
		userID, userID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *CartRepo) Lines(cartID string) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	err := r.db.Select(&lines, `
	  SELECT product_id, qty FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY product_id
	`, cartID)
	return lines, err
}

// ReplaceLines swaps the cart's full line set in one transaction. Callers do
// their read-modify-write in memory via the reconciler and hand the result
// here, so both cart backings share one merge implementation.
func (r *CartRepo) ReplaceLines(cartID string, lines []domain.CartLine) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := tx.Exec(`
			INSERT INTO cart_items(cart_id, product_id, qty, created_at, updated_at)
			VALUES(?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`, cartID, l.ProductID, l.Qty); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
