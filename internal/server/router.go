package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	invcontroller "orthanc/internal/inventory/controller"
	ordercontroller "orthanc/internal/order/controller"
	shipcontroller "orthanc/internal/shipment/controller"
)

func NewRouter(
	orderCtrl *ordercontroller.OrderController,
	stockCtrl *invcontroller.StockController,
	shipmentCtrl *shipcontroller.ShipmentController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderCtrl.Create)
			r.Get("/{orderId}", orderCtrl.Get)
			r.Post("/{orderId}/cancel", orderCtrl.Cancel)
			r.Post("/{orderId}/ship", orderCtrl.Ship)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Post("/receipts", stockCtrl.Receive)
			r.Post("/adjustments", stockCtrl.Adjust)
			r.Get("/{productId}", stockCtrl.GetLevels)
			r.Get("/{productId}/movements", stockCtrl.GetMovements)
		})

		r.Route("/shipments", func(r chi.Router) {
			r.Post("/", shipmentCtrl.Create)
			r.Post("/{shipmentId}/ship", shipmentCtrl.MarkShipped)
			r.Post("/{shipmentId}/deliver", shipmentCtrl.MarkDelivered)
		})
	})

	logger.Info("router initialized")
	return r
}
