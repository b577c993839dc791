package handlers

import (
	"errors"

	"jadimart/internal/domain"
	applog "jadimart/internal/log"
	"jadimart/internal/repos"
	"jadimart/internal/services"
	"jadimart/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

func (h *OrderHandler) cartStore(c *fiber.Ctx) services.CartStore {
	if u := currentUser(c); u != nil {
		return h.Cart.StoreFor(u.ID)
	}
	return cookieCartStore{c: c}
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(h.cartStore(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

// Place reads the current cart, validates the shipping form and hands both to
// the order service. The declared total comes from the form (the checkout
// page fills it from the rendered cart), matching what the client saw.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)
	store := h.cartStore(c)

	cv, err := h.Cart.View(store)
	if err != nil {
		applog.Error(c, "order.cart.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Server error, try again")
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("name must be 1-60 characters")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid phone")
	}
	address, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid address")
	}
	total, _ := validate.Price(c.FormValue("total"))

	email := ""
	isGuest := u == nil
	if isGuest {
		email, ok = validate.Email(c.FormValue("email"))
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "email"})
			return c.Status(fiber.StatusBadRequest).SendString("invalid email")
		}
	} else {
		email = u.Email
	}

	o, err := h.Order.Place(services.PlaceInput{
		Email: email,
		Items: cv.Lines(),
		Total: total,
		Shipping: domain.Shipping{
			Name:    name,
			Email:   email,
			Phone:   phone,
			Address: address,
		},
		IsGuest: isGuest,
	})
	if err != nil {
		switch {
		case services.IsValidation(err):
			applog.Security(c, "order.place.reject", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).SendString("no account matches this email")
		default:
			applog.Error(c, "order.place.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).SendString("Server error, try again")
		}
	}

	// The order is durable; emptying the cart afterwards is best-effort.
	if err := h.Cart.Clear(store); err != nil {
		applog.Error(c, "order.cart.clear", err, map[string]any{"order_id": o.ID})
	}

	if isGuest {
		return c.Redirect("/thankyou?order=" + o.ID)
	}
	return c.Redirect("/order/" + o.ID)
}

func (h *OrderHandler) ThankYou(c *fiber.Ctx) error {
	return render(c, "thankyou", fiber.Map{"OrderID": c.Query("order")})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	// Ownership check: the owning user or an admin. Guest orders have no
	// server identity to check against and are served via /thankyou only.
	u := currentUser(c)
	owner := u != nil && o.UserID == u.ID
	if !owner && !u.IsAdmin() {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user: account orders plus
// guest orders placed earlier under the same email.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Repo.ListForEmail(u.Email)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
