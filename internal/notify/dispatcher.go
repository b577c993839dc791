// Package notify composes and sends order confirmation email. Dispatch is a
// detached task: it runs outside the request path, swallows every failure,
// and can never roll back or delay an order that has already been persisted.
package notify

import (
	"fmt"

	applog "jadimart/internal/log"
)

// LineDetail is a line item resolved against the catalog at placement time,
// carried only for email content.
type LineDetail struct {
	Name  string
	Price float64
	Qty   int
	Total float64
}

// OrderEmail is everything the two notification messages need.
type OrderEmail struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
	Guest         bool
	Total         float64
	Items         []LineDetail
}

type Dispatcher struct {
	Mail          Mailer
	StoreName     string
	OperatorEmail string
}

func NewDispatcher(m Mailer, storeName, operatorEmail string) *Dispatcher {
	return &Dispatcher{Mail: m, StoreName: storeName, OperatorEmail: operatorEmail}
}

// OrderPlaced dispatches the operator alert and the buyer confirmation in the
// background. It returns immediately; failures are logged and go nowhere else.
func (d *Dispatcher) OrderPlaced(m OrderEmail) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				applog.Error(nil, "notify.panic", fmt.Errorf("%v", r), map[string]any{"order_id": m.OrderID})
			}
		}()
		d.dispatch(m)
	}()
}

func (d *Dispatcher) dispatch(m OrderEmail) {
	if err := d.Mail.Send(d.OperatorEmail, fmt.Sprintf("New Order Placed - %s", d.StoreName), operatorBody(d.StoreName, m)); err != nil {
		applog.Error(nil, "notify.operator.fail", err, map[string]any{"order_id": m.OrderID})
	}
	if err := d.Mail.Send(m.CustomerEmail, fmt.Sprintf("Order Confirmation - Thank You for Shopping with %s!", d.StoreName), buyerBody(d.StoreName, d.OperatorEmail, m)); err != nil {
		applog.Error(nil, "notify.buyer.fail", err, map[string]any{"order_id": m.OrderID})
		return
	}
	applog.Info(nil, "notify.sent", map[string]any{"order_id": m.OrderID, "to": m.CustomerEmail})
}
