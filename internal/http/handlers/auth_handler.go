package handlers

import (
	"errors"
	"time"

	"jadimart/internal/domain"
	applog "jadimart/internal/log"
	"jadimart/internal/services"
	"jadimart/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
	Cart *services.CartService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // set true behind TLS
		})
	}
	return sid
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}
	if !validate.Password(pass) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	u, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password", "CSRFToken": c.Cookies("csrf_")})
	}

	h.mergeGuestCart(c, u.ID)

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

// mergeGuestCart folds the cookie cart into the user's server cart right
// after authentication, then drops the cookie. A merge failure is logged and
// the cookie kept, so nothing is lost.
func (h *AuthHandler) mergeGuestCart(c *fiber.Ctx, userID string) {
	guest, _ := cookieCartStore{c: c}.Load()
	if len(guest) == 0 {
		return
	}
	if err := h.Cart.MergeIntoUser(userID, guest); err != nil {
		applog.Error(c, "cart.merge.fail", err, map[string]any{"user_id": userID})
		return
	}
	clearGuestCart(c)
	applog.Info(c, "cart.merge", map[string]any{"user_id": userID, "lines": len(guest)})
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sid := ensureSID(c)
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).Render("signup", fiber.Map{"Err": "Enter your name", "CSRFToken": c.Cookies("csrf_")})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).Render("signup", fiber.Map{"Err": "Enter a valid email", "CSRFToken": c.Cookies("csrf_")})
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return c.Status(fiber.StatusBadRequest).Render("signup", fiber.Map{"Err": "Password must be 8-20 characters with upper, lower, digit and symbol", "CSRFToken": c.Cookies("csrf_")})
	}

	u, err := h.Auth.Signup(sid, name, email, pass)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			applog.Security(c, "auth.signup.duplicate", map[string]any{"email": email})
			return c.Status(fiber.StatusBadRequest).Render("signup", fiber.Map{"Err": "An account with this email already exists", "CSRFToken": c.Cookies("csrf_")})
		}
		applog.Error(c, "auth.signup.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("signup", fiber.Map{"Err": "Could not create your account", "CSRFToken": c.Cookies("csrf_")})
	}

	h.mergeGuestCart(c, u.ID)

	applog.Audit(c, "auth.signup.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
