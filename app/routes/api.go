// Package routes mounts every HTTP endpoint. Public routes carry a rate
// limit on writes; everything under /api/admin requires an admin JWT.
package routes

import (
	"net/http"
	"time"

	"github.com/agrovia/agrovia/app/controllers"
	"github.com/agrovia/agrovia/pkg/metrics"
	"github.com/agrovia/agrovia/pkg/middleware"
	"github.com/agrovia/agrovia/pkg/reqid"
	"github.com/agrovia/agrovia/pkg/response"
	"github.com/agrovia/agrovia/pkg/router"
)

// Controllers bundles everything Register mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Quote        *controllers.QuoteController
	Product      *controllers.ProductController
	Message      *controllers.MessageController
	Market       *controllers.MarketController
	Subscription *controllers.SubscriptionController
	Setting      *controllers.SettingController
}

// Register builds the full route table.
func Register(r *router.Router, c Controllers) {
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		metrics.Middleware(),
	)

	r.Get("/healthz", "healthz", healthz)
	r.Get("/metrics", "metrics", metrics.Handler())

	// Public writes get a per-IP rate limit so a bot cannot flood the
	// inbox or the quote queue.
	submitLimit := middleware.RateLimit(10, time.Minute)

	api := r.Group("/api")
	api.Post("/auth/login", "auth.login", c.Auth.Login, middleware.RateLimit(5, time.Minute))

	api.Get("/products", "products.index", c.Product.Index)
	api.Get("/products/{slug}", "products.show", c.Product.Show)

	api.Post("/quotes", "quotes.store", c.Quote.Store, submitLimit)
	api.Post("/messages", "messages.store", c.Message.Store, submitLimit)

	api.Post("/subscriptions", "subscriptions.store", c.Subscription.Store, submitLimit)
	api.Delete("/subscriptions/{token}", "subscriptions.destroy", c.Subscription.Destroy)

	api.Get("/news", "news.index", c.Market.News)
	api.Get("/market/{resource}", "market.show", c.Market.Commodity)

	admin := api.Group("/admin", middleware.Admin)

	admin.Get("/quotes", "admin.quotes.index", c.Quote.Index)
	admin.Get("/quotes/{id}", "admin.quotes.show", c.Quote.Show)
	admin.Put("/quotes/{id}", "admin.quotes.update", c.Quote.Update)
	admin.Patch("/quotes/{id}/status", "admin.quotes.status", c.Quote.UpdateStatus)
	admin.Delete("/quotes/{id}", "admin.quotes.destroy", c.Quote.Destroy)

	admin.Get("/products/{id}", "admin.products.show", c.Product.AdminShow)
	admin.Post("/products", "admin.products.store", c.Product.Store)
	admin.Put("/products/{id}", "admin.products.update", c.Product.Update)
	admin.Delete("/products/{id}", "admin.products.destroy", c.Product.Destroy)
	admin.Post("/products/bulk-delete", "admin.products.bulk", c.Product.BulkDelete)

	admin.Get("/messages", "admin.messages.index", c.Message.Index)
	admin.Get("/messages/{id}", "admin.messages.show", c.Message.Show)
	admin.Post("/messages/{id}/reply", "admin.messages.reply", c.Message.Reply)
	admin.Delete("/messages/{id}", "admin.messages.destroy", c.Message.Destroy)

	admin.Get("/subscriptions", "admin.subscriptions.index", c.Subscription.Index)

	admin.Get("/settings", "admin.settings.index", c.Setting.Index)
	admin.Put("/settings", "admin.settings.update", c.Setting.Update)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}
