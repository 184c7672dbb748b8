package handlers

import (
	"net/http"

	"github.com/chris/household-ledger/pkg/handlers/accounts"
	"github.com/chris/household-ledger/pkg/handlers/checks"
	"github.com/chris/household-ledger/pkg/handlers/debts"
	"github.com/chris/household-ledger/pkg/handlers/goals"
	"github.com/chris/household-ledger/pkg/handlers/loans"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	ledgermw "github.com/chris/household-ledger/pkg/middleware"
	"github.com/chris/household-ledger/pkg/observability"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires every resource handler onto a chi router.
func NewRouter(p *processor.Processor, logger *zap.Logger, metrics *observability.Metrics) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(ledgermw.NewStructuredLogger(logger))
	router.Use(respond.RequireMember)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	accounts.NewAccountsHandler(p).Routes(router)
	goals.NewGoalsHandler(p).Routes(router)
	checks.NewChecksHandler(p).Routes(router)
	loans.NewLoansHandler(p).Routes(router)
	debts.NewDebtsHandler(p).Routes(router)

	return router
}
