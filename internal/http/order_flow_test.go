package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"jadimart/internal/config"
	"jadimart/internal/http/handlers"
	"jadimart/internal/repos"
	"jadimart/internal/services"
)

// Storefront app with the full order path wired, mail mocked to the log.
func newStoreApp(t *testing.T) (*fiber.App, *sqlx.DB, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	cfg := config.Config{StoreName: "Jadimart", StoreEmail: "orders@jadimart.test"}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, authSvc)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/thankyou", deps.OrderHandler.ThankYou)
	app.Get("/order/:id", deps.OrderHandler.View)
	app.Get("/login", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	return app, db, userRepo
}

func csrfFor(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookieAuth(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

// A guest walks the whole path: add to cart, place the order, land on the
// thank-you page.
func TestGuestOrderFlow(t *testing.T) {
	app, db, _ := newStoreApp(t)
	csrfTok := csrfFor(t, app)

	// add to cart; the cart comes back as a cookie
	respCart, err := postForm(app, "/cart", csrfTok, "productId=chamomile-tea&qty=2")
	if err != nil {
		t.Fatal(err)
	}
	if respCart.StatusCode != http.StatusFound {
		t.Fatalf("cart add expected redirect, got %d", respCart.StatusCode)
	}
	cartVal := extractCookieAuth(respCart, "cart")
	if cartVal == "" {
		t.Fatal("guest cart cookie not set")
	}

	// the cart page shows the line
	reqView := httptest.NewRequest("GET", "/cart", nil)
	reqView.AddCookie(&http.Cookie{Name: "cart", Value: cartVal})
	respView, err := app.Test(reqView)
	if err != nil {
		t.Fatal(err)
	}
	if respView.StatusCode != http.StatusOK {
		t.Fatalf("cart view expected 200, got %d", respView.StatusCode)
	}

	// place the order
	respOrder, err := postForm(app, "/orders", csrfTok,
		"name=Gita+Guest&phone=%2B977-9800000000&address=12+Herb+Lane%2C+Kathmandu&email=gita@example.com&total=598",
		&http.Cookie{Name: "cart", Value: cartVal})
	if err != nil {
		t.Fatal(err)
	}
	if respOrder.StatusCode != http.StatusFound {
		t.Fatalf("order place expected redirect, got %d", respOrder.StatusCode)
	}
	loc := respOrder.Header.Get("Location")
	if !strings.HasPrefix(loc, "/thankyou?order=") {
		t.Fatalf("guest should land on thank-you page, got %q", loc)
	}
	orderID := strings.TrimPrefix(loc, "/thankyou?order=")

	var guestEmail, status string
	if err := db.QueryRow(`SELECT COALESCE(guest_email,''), status FROM orders WHERE id=?`, orderID).
		Scan(&guestEmail, &status); err != nil {
		t.Fatalf("order row missing: %v", err)
	}
	if guestEmail != "gita@example.com" {
		t.Fatalf("guest email not recorded, got %q", guestEmail)
	}
	if status != "pending" {
		t.Fatalf("new order should be pending, got %q", status)
	}

	var qty int
	if err := db.QueryRow(`SELECT qty FROM order_items WHERE order_id=? AND product_id='chamomile-tea'`, orderID).
		Scan(&qty); err != nil {
		t.Fatalf("order items missing: %v", err)
	}
	if qty != 2 {
		t.Fatalf("snapshot qty = %d, want 2", qty)
	}

	// cart cookie cleared after placement
	for _, c := range respOrder.Cookies() {
		if c.Name == "cart" && c.Value != "" {
			t.Fatal("cart cookie survived order placement")
		}
	}

	// thank-you page renders
	respThanks, err := app.Test(httptest.NewRequest("GET", loc, nil))
	if err != nil {
		t.Fatal(err)
	}
	if respThanks.StatusCode != http.StatusOK {
		t.Fatalf("thankyou expected 200, got %d", respThanks.StatusCode)
	}
}

// Placing with nothing in the cart is rejected and writes no order.
func TestPlaceWithEmptyCartRejected(t *testing.T) {
	app, db, _ := newStoreApp(t)
	csrfTok := csrfFor(t, app)

	resp, err := postForm(app, "/orders", csrfTok,
		"name=Gita+Guest&phone=%2B977-9800000000&address=12+Herb+Lane&email=gita@example.com&total=598")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart expected 400, got %d", resp.StatusCode)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("empty-cart placement wrote %d orders", n)
	}
}

// A signed-in user's order lands in their history and only they (or an
// admin) can open it.
func TestUserOrderOwnership(t *testing.T) {
	app, _, userRepo := newStoreApp(t)
	csrfTok := csrfFor(t, app)

	_ = userRepo.BindSession("sid-asha", "u-asha")
	_ = userRepo.BindSession("sid-bikram", "u-bikram")
	_ = userRepo.BindSession("sid-admin", "u-admin")
	ashaSid := &http.Cookie{Name: "sid", Value: "sid-asha"}

	respCart, err := postForm(app, "/cart", csrfTok, "productId=lavender-oil&qty=1", ashaSid)
	if err != nil {
		t.Fatal(err)
	}
	if respCart.StatusCode != http.StatusFound {
		t.Fatalf("cart add expected redirect, got %d", respCart.StatusCode)
	}

	respOrder, err := postForm(app, "/orders", csrfTok,
		"name=Asha&phone=%2B977-9800000001&address=34+Tea+Road&total=599", ashaSid)
	if err != nil {
		t.Fatal(err)
	}
	if respOrder.StatusCode != http.StatusFound {
		t.Fatalf("order place expected redirect, got %d", respOrder.StatusCode)
	}
	loc := respOrder.Header.Get("Location")
	if !strings.HasPrefix(loc, "/order/") {
		t.Fatalf("user should land on the order page, got %q", loc)
	}

	// owner sees it
	reqOwner := httptest.NewRequest("GET", loc, nil)
	reqOwner.AddCookie(ashaSid)
	respOwner, err := app.Test(reqOwner)
	if err != nil {
		t.Fatal(err)
	}
	if respOwner.StatusCode != http.StatusOK {
		t.Fatalf("owner expected 200, got %d", respOwner.StatusCode)
	}

	// another user gets a 404, not a denial that leaks existence
	reqOther := httptest.NewRequest("GET", loc, nil)
	reqOther.AddCookie(&http.Cookie{Name: "sid", Value: "sid-bikram"})
	respOther, err := app.Test(reqOther)
	if err != nil {
		t.Fatal(err)
	}
	if respOther.StatusCode != http.StatusNotFound {
		t.Fatalf("non-owner expected 404, got %d", respOther.StatusCode)
	}

	// admin may inspect any order
	reqAdmin := httptest.NewRequest("GET", loc, nil)
	reqAdmin.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
	respAdmin, err := app.Test(reqAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if respAdmin.StatusCode != http.StatusOK {
		t.Fatalf("admin expected 200, got %d", respAdmin.StatusCode)
	}
}
