package app

import (
	"context"
	"fmt"
	"io"

	"github.com/gaqzi/review-ledger/internal/ledger"
	"github.com/gaqzi/review-ledger/internal/ledger/storage"
	"github.com/gaqzi/review-ledger/internal/platform/database"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenLedger opens the configured storage and wires the ledger service to it.
// The returned closer releases the storage and has to be called at shutdown.
func OpenLedger(ctx context.Context, cfg database.Config) (*ledger.Service, io.Closer, error) {
	if cfg.Driver == DriverMemory {
		customers := storage.NewCustomerMemoryStore()
		restaurants := storage.NewRestaurantMemoryStore()

		return ledger.NewService(
			customers,
			restaurants,
			storage.NewReviewMemoryStore(customers, restaurants),
		), nopCloser{}, nil
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger storage: %w", err)
	}

	return ledger.NewService(
		storage.NewCustomerSQLStore(db),
		storage.NewRestaurantSQLStore(db),
		storage.NewReviewSQLStore(db),
	), db, nil
}
