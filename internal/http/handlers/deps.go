package handlers

import (
	"jadimart/internal/config"
	"jadimart/internal/notify"
	"jadimart/internal/repos"
	"jadimart/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPAddr != "" {
		mailer = &notify.SMTPMailer{
			Addr:     cfg.SMTPAddr,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.StoreEmail,
		}
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.StoreName, cfg.StoreEmail)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo, userRepo, prodRepo, dispatcher)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Order: orderSvc, OrderRepo: orderRepo},
	}
}
