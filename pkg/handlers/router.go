package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the API on a chi router.
func NewRouter(h *Handler, mw ...func(http.Handler) http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(mw...)

	router.Get("/healthz", h.Health)

	router.Post("/transfers", h.CreateTransfer)
	router.Get("/transactions/{transactionId}", func(w http.ResponseWriter, r *http.Request) {
		h.GetTransactionById(w, r, chi.URLParam(r, "transactionId"))
	})

	router.Post("/accounts", h.CreateAccount)
	router.Get("/accounts/{accountId}", func(w http.ResponseWriter, r *http.Request) {
		h.GetAccountById(w, r, chi.URLParam(r, "accountId"))
	})
	router.Get("/accounts/{accountId}/balance", func(w http.ResponseWriter, r *http.Request) {
		h.GetAccountBalance(w, r, chi.URLParam(r, "accountId"))
	})
	router.Get("/accounts/{accountId}/entries", func(w http.ResponseWriter, r *http.Request) {
		h.ListAccountEntries(w, r, chi.URLParam(r, "accountId"))
	})

	return router
}
