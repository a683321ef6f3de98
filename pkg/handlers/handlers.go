// Package handlers mounts the HTTP API on a chi router.
package handlers

import (
	"net/http"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/handlers/bills"
	"github.com/chris/digital-wallet/pkg/handlers/dashboard"
	"github.com/chris/digital-wallet/pkg/handlers/gateways"
	"github.com/chris/digital-wallet/pkg/handlers/instruments"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/handlers/schedules"
	"github.com/chris/digital-wallet/pkg/handlers/transactions"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/chris/digital-wallet/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// ApiHandler groups the per-resource handlers served by the API.
type ApiHandler struct {
	Transactions *transactions.TransactionsHandler
	Instruments  *instruments.InstrumentsHandler
	Bills        *bills.BillsHandler
	Schedules    *schedules.SchedulesHandler
	Gateways     *gateways.GatewaysHandler
	Dashboard    *dashboard.DashboardHandler
	// Websocket serves /ws. Nil disables the route.
	Websocket http.Handler
	// Registry serves /metrics. Nil disables the route.
	Registry *prometheus.Registry
	Logger   *logging.Logger
}

// NewRouter builds the chi router for h.
func NewRouter(h *ApiHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewStructuredLogger(h.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, http.StatusOK, "ok")
	})
	if h.Registry != nil {
		r.Handle("/metrics", metrics.Handler(h.Registry))
	}

	// Providers call back without the auth proxy's identity headers.
	r.HandleFunc("/payment-callback/{provider}", func(w http.ResponseWriter, r *http.Request) {
		h.Transactions.HandlePaymentCallback(w, r, chi.URLParam(r, "provider"), "")
	})
	r.HandleFunc("/payment-callback/{provider}/{outcome}", func(w http.ResponseWriter, r *http.Request) {
		h.Transactions.HandlePaymentCallback(w, r, chi.URLParam(r, "provider"), chi.URLParam(r, "outcome"))
	})

	r.Get("/payment-gateways", h.Gateways.ListPaymentGateways)
	r.Get("/payment-gateways/{code}", withParam("code", h.Gateways.GetPaymentGateway))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.Transactions.ListTransactions)
			r.Post("/", h.Transactions.CreateTransaction)
			r.Get("/{id}", withID(h.Transactions.GetTransactionById))
			r.Get("/{id}/status", withID(h.Transactions.GetTransactionStatus))
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", h.Instruments.ListPaymentMethods)
			r.Post("/", h.Instruments.CreatePaymentMethod)
			r.Get("/{id}", withID(h.Instruments.GetPaymentMethod))
			r.Delete("/{id}", withID(h.Instruments.DeletePaymentMethod))
			r.Post("/{id}/set-default", withID(h.Instruments.SetDefaultPaymentMethod))
		})

		r.Route("/bank-accounts", func(r chi.Router) {
			r.Get("/", h.Instruments.ListBankAccounts)
			r.Post("/", h.Instruments.CreateBankAccount)
			r.Get("/{id}", withID(h.Instruments.GetBankAccount))
			r.Put("/{id}", withID(h.Instruments.UpdateBankAccount))
			r.Delete("/{id}", withID(h.Instruments.DeleteBankAccount))
			r.Post("/{id}/set-primary", withID(h.Instruments.SetPrimaryBankAccount))
			r.Post("/{id}/verify", withID(h.Instruments.VerifyBankAccount))
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", h.Bills.ListBills)
			r.Post("/", h.Bills.CreateBill)
			r.Get("/due-soon", h.Bills.DueSoon)
			r.Get("/{id}", withID(h.Bills.GetBill))
			r.Put("/{id}", withID(h.Bills.UpdateBill))
			r.Delete("/{id}", withID(h.Bills.DeleteBill))
			r.Post("/{id}/pay", withID(h.Bills.PayBill))
			r.Post("/{id}/toggle-auto-pay", withID(h.Bills.ToggleAutoPay))
		})

		r.Route("/scheduled-payments", func(r chi.Router) {
			r.Get("/", h.Schedules.ListScheduledPayments)
			r.Post("/", h.Schedules.CreateScheduledPayment)
			r.Get("/{id}", withID(h.Schedules.GetScheduledPayment))
			r.Put("/{id}", withID(h.Schedules.UpdateScheduledPayment))
			r.Delete("/{id}", withID(h.Schedules.DeleteScheduledPayment))
			r.Post("/{id}/cancel", withID(h.Schedules.CancelScheduledPayment))
			r.Post("/{id}/pause", withID(h.Schedules.PauseScheduledPayment))
			r.Post("/{id}/resume", withID(h.Schedules.ResumeScheduledPayment))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.Dashboard.Index)
			r.Get("/transactions-summary", h.Dashboard.TransactionsSummary)
			r.Get("/upcoming-bills", h.Dashboard.UpcomingBills)
			r.Get("/recent-transactions", h.Dashboard.RecentTransactions)
		})

		if h.Websocket != nil {
			r.Handle("/ws", h.Websocket)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusNotFound, api.Envelope{Success: false, Message: "Not found."})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, api.Envelope{Success: false, Message: "Method not allowed."})
	})

	return r
}

func withID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return withParam("id", fn)
}

func withParam(name string, fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, name))
	}
}
