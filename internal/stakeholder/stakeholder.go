// Package stakeholder wires the stakeholder domain: models, version store,
// service, metrics, and HTTP handler.
package stakeholder

import (
	"database/sql"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mloh16/food-oasis/internal/reviewlog"
	"github.com/Mloh16/food-oasis/internal/stakeholder/handler"
	"github.com/Mloh16/food-oasis/internal/stakeholder/metrics"
	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	"github.com/Mloh16/food-oasis/internal/stakeholder/service"
	"github.com/Mloh16/food-oasis/internal/stakeholder/store"
)

// Re-exported domain types for callers outside the package tree.
type (
	Service            = service.Service
	Handler            = handler.Handler
	StakeholderVersion = models.StakeholderVersion
	SearchFilter       = models.SearchFilter
)

// NewPostgres assembles the production stakeholder stack over db and
// registers its collectors with reg.
func NewPostgres(db *sql.DB, logger *slog.Logger, reg prometheus.Registerer) (*Handler, *Service) {
	svc := service.New(store.NewPostgres(db),
		service.WithLogger(logger),
		service.WithMetrics(metrics.New(reg)),
		service.WithReviewLog(reviewlog.NewPostgres(db), logger),
	)
	return handler.New(svc, logger), svc
}

// NewMemory assembles an in-memory stakeholder stack for tests and local
// development.
func NewMemory(logger *slog.Logger) (*Handler, *Service, *store.Memory) {
	mem := store.NewMemory()
	svc := service.New(mem,
		service.WithLogger(logger),
		service.WithReviewLog(reviewlog.NewMemory(), logger),
	)
	return handler.New(svc, logger), svc, mem
}
