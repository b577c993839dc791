package handlers

import (
	"errors"
	"strings"

	applog "jadimart/internal/log"
	"jadimart/internal/repos"
	"jadimart/internal/services"
	"jadimart/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog   *services.CatalogService
	Order     *services.OrderService
	OrderRepo *repos.OrderRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "admin_dashboard", fiber.Map{})
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(1, 100)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{"Products": products})
}

// POST /admin/products
func (h *AdminHandler) AddProduct(c *fiber.Ctx) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	image := strings.TrimSpace(c.FormValue("image"))
	price, _ := validate.Price(c.FormValue("price"))

	p, err := h.Catalog.AddProduct(name, description, image, price)
	if err != nil {
		if services.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		applog.Error(c, "admin.products.add.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).SendString("could not add product")
	}
	applog.Audit(c, "admin.products.add", map[string]any{"product": p.ID, "name": p.Name})
	return c.Redirect("/admin/products")
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	status := c.FormValue("status")

	if err := h.Order.SetStatus(id, status); err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).SendString("order not found")
		default:
			applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
			return c.Status(fiber.StatusInternalServerError).SendString("could not update status")
		}
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// POST /admin/orders/:id/delete
func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing id")
	}
	if err := h.Order.Delete(id); err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).SendString("order not found")
		default:
			applog.Error(c, "admin.orders.delete.fail", err, map[string]any{"order_id": id})
			return c.Status(fiber.StatusInternalServerError).SendString("could not delete order")
		}
	}
	applog.Audit(c, "admin.orders.delete", map[string]any{"order_id": id})
	return c.Redirect("/admin/orders")
}
