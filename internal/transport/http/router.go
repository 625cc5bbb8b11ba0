package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services collects everything the router exposes.
type Services struct {
	Fulfillment OrderFulfiller
	Orders      OrderManager
	Inventory   InventoryManager
	Sales       SalesManager
	Stats       StatsProvider
	Catalog     CatalogReader
}

// NewRouter wires all routes and middleware.
func NewRouter(s Services, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", HealthHandler)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", HandlePlaceOrder(s.Orders))
		r.Get("/", HandleListOrders(s.Orders))
		r.Get("/{id}", HandleGetOrder(s.Orders))
		r.Post("/{id}/pay", HandleOrderTransition(s.Orders.MarkPaid))
		r.Post("/{id}/cancel", HandleOrderTransition(s.Orders.Cancel))
		r.Post("/{id}/reject", HandleOrderTransition(s.Orders.Reject))
		r.Post("/{id}/fulfill", HandleFulfillOrder(s.Fulfillment))
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Post("/", HandleAddUnits(s.Inventory))
		r.Get("/", HandleListInventory(s.Inventory))
		r.Post("/{id}/archive", HandleUnitTransition(s.Inventory.Archive))
		r.Post("/{id}/restore", HandleUnitTransition(s.Inventory.Restore))
		r.Delete("/{id}", HandleDeleteUnit(s.Inventory))
	})

	r.Route("/sales", func(r chi.Router) {
		r.Post("/", HandleRecordManualSale(s.Sales))
		r.Get("/", HandleListSales(s.Sales))
		r.Get("/revenue", HandleTotalRevenue(s.Sales))
		r.Patch("/{id}", HandleAmendSale(s.Sales))
	})

	r.Get("/stats", HandleStats(s.Stats))
	r.Get("/products", HandleListProducts(s.Catalog))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})

	return r
}
