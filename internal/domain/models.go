package domain

type Product struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Image       string  `db:"image"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
}

// CartLine is one (product, quantity) pair. The same shape backs the guest
// cookie cart, the server-persisted cart and order line snapshots.
type CartLine struct {
	ProductID string `db:"product_id" json:"productId"`
	Qty       int    `db:"qty" json:"qty"`
}

type Shipping struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Order statuses. Membership is enforced; transition ordering is not.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`     // empty for guest orders
	GuestEmail string  `db:"guest_email"` // set only when UserID is empty
	ShipName   string  `db:"ship_name"`
	ShipEmail  string  `db:"ship_email"`
	ShipPhone  string  `db:"ship_phone"`
	ShipAddr   string  `db:"ship_address"`
	Total      float64 `db:"total"`
	Status     string  `db:"status"`
	CreatedAt  string  `db:"created_at"`
}

func (o Order) IsGuest() bool { return o.UserID == "" }
