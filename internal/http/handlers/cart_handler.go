package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"jadimart/internal/domain"
	applog "jadimart/internal/log"
	"jadimart/internal/services"
	"jadimart/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const guestCartCookie = "cart"

// cookieCartStore is the guest backing: the line set rides in a cookie as
// base64-wrapped JSON, the serverless twin of a localStorage cart. No guest
// state is ever persisted server-side.
type cookieCartStore struct{ c *fiber.Ctx }

func (st cookieCartStore) Load() ([]domain.CartLine, error) {
	raw := st.c.Cookies(guestCartCookie)
	if raw == "" {
		return nil, nil
	}
	buf, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		// A mangled cookie is treated as an empty cart, not an error.
		return nil, nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(buf, &lines); err != nil {
		return nil, nil
	}
	return lines, nil
}

func (st cookieCartStore) Save(lines []domain.CartLine) error {
	if len(lines) == 0 {
		clearGuestCart(st.c)
		return nil
	}
	buf, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	st.c.Cookie(&fiber.Cookie{
		Name:     guestCartCookie,
		Value:    base64.RawURLEncoding.EncodeToString(buf),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func clearGuestCart(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     guestCartCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

type CartHandler struct {
	Cart *services.CartService
}

// storeFor picks the backing by identity kind: server cart for a logged-in
// user, cookie cart for a guest.
func (h *CartHandler) storeFor(c *fiber.Ctx) services.CartStore {
	if u := currentUser(c); u != nil {
		return h.Cart.StoreFor(u.ID)
	}
	return cookieCartStore{c: c}
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(h.storeFor(c))
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(h.storeFor(c), productID, qty); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	delta, ok := validate.Delta(c.FormValue("delta"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid delta")
	}

	if err := h.Cart.Adjust(h.storeFor(c), productID, delta); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Remove(h.storeFor(c), productID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}
