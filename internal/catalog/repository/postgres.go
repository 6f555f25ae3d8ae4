package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/internal/catalog"
	"github.com/shukli/price-ingest/internal/model"
)

const defaultBatchSize = 1000

const upsertStoreQuery = `
    INSERT INTO stores (id, name, branch_name)
    VALUES (:id, :name, :branch_name)
    ON CONFLICT (id) DO UPDATE SET
        name = EXCLUDED.name,
        branch_name = EXCLUDED.branch_name
`

const upsertPriceQuery = `
    INSERT INTO prices (
        store_id, product_code, product_name, manufacturer,
        manufacturer_description, price, unit_of_measure, update_date,
        is_promo, promo_price, promo_start_date, promo_end_date
    )
    VALUES (
        :store_id, :product_code, :product_name, :manufacturer,
        :manufacturer_description, :price, :unit_of_measure, :update_date,
        :is_promo, :promo_price, :promo_start_date, :promo_end_date
    )
    ON CONFLICT (store_id, product_code) DO UPDATE SET
        product_name = EXCLUDED.product_name,
        manufacturer = EXCLUDED.manufacturer,
        manufacturer_description = EXCLUDED.manufacturer_description,
        price = EXCLUDED.price,
        unit_of_measure = EXCLUDED.unit_of_measure,
        update_date = EXCLUDED.update_date,
        is_promo = EXCLUDED.is_promo,
        promo_price = EXCLUDED.promo_price,
        promo_start_date = EXCLUDED.promo_start_date,
        promo_end_date = EXCLUDED.promo_end_date
`

type PGRepository struct {
	DB        *sqlx.DB
	batchSize int
	logger    *zap.Logger
}

func NewPGRepository(db *sqlx.DB, batchSize int, logger *zap.Logger) *PGRepository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &PGRepository{DB: db, batchSize: batchSize, logger: logger}
}

func (r *PGRepository) UpsertStore(ctx context.Context, store *model.Store) error {
	_, err := r.DB.NamedExecContext(ctx, upsertStoreQuery, store)
	return err
}

func (r *PGRepository) UpsertPrices(ctx context.Context, prices []model.Price) (catalog.BatchResult, error) {
	var result catalog.BatchResult
	if len(prices) == 0 {
		return result, nil
	}

	for _, batch := range chunk(prices, r.batchSize) {
		if _, err := r.DB.NamedExecContext(ctx, upsertPriceQuery, batch); err == nil {
			result.Persisted += len(batch)
			continue
		} else if ctx.Err() != nil {
			return result, ctx.Err()
		}

		// The multi-row statement failed; retry record by record so a single
		// bad row does not take down the rest of the batch.
		for i := range batch {
			if _, err := r.DB.NamedExecContext(ctx, upsertPriceQuery, &batch[i]); err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				r.logger.Warn("skipping price record",
					zap.String("store_id", batch[i].StoreID),
					zap.String("product_code", batch[i].ProductCode),
					zap.Error(err),
				)
				result.Failed++
				continue
			}
			result.Persisted++
		}
	}

	return result, nil
}

// chunk splits records into slices of at most size elements.
func chunk(prices []model.Price, size int) [][]model.Price {
	var batches [][]model.Price
	for start := 0; start < len(prices); start += size {
		end := start + size
		if end > len(prices) {
			end = len(prices)
		}
		batches = append(batches, prices[start:end])
	}
	return batches
}
