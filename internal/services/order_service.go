package services

import (
	"database/sql"
	"errors"
	"strings"

	"jadimart/internal/domain"
	applog "jadimart/internal/log"
	"jadimart/internal/notify"
	"jadimart/internal/repos"

	"github.com/google/uuid"
)

// Notifier is the detached notification hook. Implementations must return
// immediately and keep every failure to themselves.
type Notifier interface {
	OrderPlaced(notify.OrderEmail)
}

type OrderService struct {
	Orders *repos.OrderRepo
	Users  *repos.UserRepo
	Prods  *repos.ProductRepo
	Notify Notifier
}

func NewOrderService(orders *repos.OrderRepo, users *repos.UserRepo, prods *repos.ProductRepo, notifier Notifier) *OrderService {
	return &OrderService{Orders: orders, Users: users, Prods: prods, Notify: notifier}
}

type PlaceInput struct {
	Email    string
	Items    []domain.CartLine
	Total    float64 // client-declared; stored as submitted
	Shipping domain.Shipping
	IsGuest  bool
}

// Place turns a checkout submission into a durable order. The database write
// is the source of truth: Place returns as soon as it commits, and the
// notification emails go out as a detached task whose outcome nobody waits
// for.
func (s *OrderService) Place(in PlaceInput) (domain.Order, error) {
	if err := validatePlace(in); err != nil {
		return domain.Order{}, err
	}

	var userID string
	if !in.IsGuest {
		u, err := s.Users.ByEmail(in.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Order{}, ErrNotFound
			}
			return domain.Order{}, err
		}
		userID = u.ID
	}

	// Resolve line details once: the server-side total goes to the audit
	// log, the names and prices feed the notification emails. The stored
	// total stays client-declared.
	details := make([]notify.LineDetail, 0, len(in.Items))
	serverTotal := 0.0
	for _, it := range in.Items {
		d := notify.LineDetail{Name: "Unknown Product", Qty: it.Qty}
		if p, err := s.Prods.Get(it.ProductID); err == nil {
			d.Name = p.Name
			d.Price = p.Price
			d.Total = p.Price * float64(it.Qty)
		}
		serverTotal += d.Total
		details = append(details, d)
	}

	o := domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		ShipName:  in.Shipping.Name,
		ShipEmail: in.Shipping.Email,
		ShipPhone: in.Shipping.Phone,
		ShipAddr:  in.Shipping.Address,
		Total:     in.Total,
		Status:    domain.StatusPending,
	}
	if in.IsGuest {
		o.GuestEmail = in.Email
	}
	if o.ShipEmail == "" {
		o.ShipEmail = in.Email
	}

	if err := s.Orders.Create(o, in.Items); err != nil {
		return domain.Order{}, err
	}

	applog.Audit(nil, "order.place", map[string]any{
		"order_id":     o.ID,
		"guest":        in.IsGuest,
		"server_total": serverTotal,
		"client_total": in.Total,
		"mismatch":     serverTotal != in.Total,
	})

	s.Notify.OrderPlaced(notify.OrderEmail{
		OrderID:       o.ID,
		CustomerName:  in.Shipping.Name,
		CustomerEmail: in.Email,
		Phone:         in.Shipping.Phone,
		Address:       in.Shipping.Address,
		Guest:         in.IsGuest,
		Total:         in.Total,
		Items:         details,
	})

	return o, nil
}

func validatePlace(in PlaceInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return invalid("missing email")
	}
	if len(in.Items) == 0 {
		return invalid("cart is empty")
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Qty < 1 {
			return invalid("invalid line item")
		}
	}
	if in.Total <= 0 {
		return invalid("total must be positive")
	}
	if strings.TrimSpace(in.Shipping.Name) == "" {
		return invalid("missing shipping name")
	}
	if strings.TrimSpace(in.Shipping.Phone) == "" {
		return invalid("missing shipping phone")
	}
	if strings.TrimSpace(in.Shipping.Address) == "" {
		return invalid("missing shipping address")
	}
	return nil
}

// SetStatus moves an order to any member of the status enum; ordering between
// the states is deliberately not enforced.
func (s *OrderService) SetStatus(orderID, status string) error {
	if !domain.ValidStatus(status) {
		return invalid("invalid status")
	}
	err := s.Orders.UpdateStatus(orderID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes an order; only delivered orders qualify.
func (s *OrderService) Delete(orderID string) error {
	err := s.Orders.Delete(orderID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, repos.ErrNotDelivered):
		return invalid("only delivered orders can be deleted")
	}
	return err
}
