package repos

import (
	"database/sql"
	"errors"

	"jadimart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ErrNotDelivered guards order deletion: only terminal orders may be removed.
var ErrNotDelivered = errors.New("order is not delivered")

// ---------- Admin / history list summary ----------
type OrderSummary struct {
	ID         string  `db:"id"`
	UserEmail  string  `db:"user_email"` // resolved account email, or guest_email
	Guest      bool    `db:"guest"`
	ShipName   string  `db:"ship_name"`
	Total      float64 `db:"total"`
	Status     string  `db:"status"`
	CreatedAt  string  `db:"created_at"`
	ItemsCount int     `db:"items_count"`
}

// ---------- Order detail (used by /order/:id and emails) ----------
type OrderItemRow struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Image     string  `db:"image"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Subtotal  float64 `db:"subtotal"`
}

// Create inserts the order header and its line snapshot in one transaction —
// a failed placement leaves no partial order behind.
func (r *OrderRepo) Create(o domain.Order, items []domain.CartLine) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID any
	if o.UserID != "" {
		userID = o.UserID
	}
	var guestEmail any
	if o.GuestEmail != "" {
		guestEmail = o.GuestEmail
	}

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, guest_email, ship_name, ship_email, ship_phone, ship_address, total, status, created_at)
	  VALUES
	    (?,  ?,       ?,           ?,         ?,          ?,          ?,            ?,     'pending', CURRENT_TIMESTAMP)
	`, o.ID, userID, guestEmail, o.ShipName, o.ShipEmail, o.ShipPhone, o.ShipAddr, o.Total); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, qty) VALUES(?, ?, ?)
		`, o.ID, it.ProductID, it.Qty); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, COALESCE(user_id,'') AS user_id, COALESCE(guest_email,'') AS guest_email,
		       ship_name, ship_email, ship_phone, ship_address, total, status, created_at
		FROM orders
		WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	// Line items expand against the current catalog: quantities are a
	// placement-time snapshot, names and prices are live.
	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT oi.product_id, p.name, p.image, oi.qty, p.price, (oi.qty * p.price) AS subtotal
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

// Items returns the raw line snapshot without catalog expansion.
func (r *OrderRepo) Items(orderID string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := r.db.Select(&out, `SELECT product_id, qty FROM order_items WHERE order_id = ?`, orderID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id,
		       COALESCE(u.email, o.guest_email, '') AS user_email,
		       (o.user_id IS NULL) AS guest,
		       o.ship_name, o.total, o.status, o.created_at,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS items_count
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY datetime(o.created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListForEmail returns both account-owned and guest orders for an address,
// newest first.
func (r *OrderRepo) ListForEmail(email string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id,
		       COALESCE(u.email, o.guest_email, '') AS user_email,
		       (o.user_id IS NULL) AS guest,
		       o.ship_name, o.total, o.status, o.created_at,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS items_count
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE LOWER(u.email) = LOWER(?) OR LOWER(o.guest_email) = LOWER(?)
		ORDER BY datetime(o.created_at) DESC
	`, email, email)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an order, but only once it has reached the delivered state.
func (r *OrderRepo) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	if err := tx.Get(&status, `SELECT status FROM orders WHERE id = ?`, id); err != nil {
		return err
	}
	if status != domain.StatusDelivered {
		return ErrNotDelivered
	}
	if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM orders WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
