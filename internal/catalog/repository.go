package catalog

import (
	"context"

	"github.com/shukli/price-ingest/internal/model"
)

// BatchResult summarizes a best-effort batch upsert.
type BatchResult struct {
	Persisted int
	Failed    int
}

type Repository interface {
	// UpsertStore inserts or updates a store row by primary key.
	UpsertStore(ctx context.Context, store *model.Store) error

	// UpsertPrices upserts price records in fixed-size batches with conflict
	// resolution on (store_id, product_code). A failing record is logged and
	// skipped; the rest of its batch and subsequent batches proceed.
	UpsertPrices(ctx context.Context, prices []model.Price) (BatchResult, error)
}
