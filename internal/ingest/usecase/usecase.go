package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/internal/catalog"
	"github.com/shukli/price-ingest/internal/feed"
	"github.com/shukli/price-ingest/internal/ingest"
	"github.com/shukli/price-ingest/internal/ingest/dto"
	"github.com/shukli/price-ingest/internal/model"
)

type ingestUseCase struct {
	source ingest.FileSource
	stores ingest.StoreResolver
	repo   catalog.Repository
	logger *zap.Logger

	// mu is the run-overlap guard: at most one run is active at a time.
	mu sync.Mutex
}

func NewIngestUseCase(source ingest.FileSource, stores ingest.StoreResolver, repo catalog.Repository, logger *zap.Logger) ingest.UseCase {
	return &ingestUseCase{
		source: source,
		stores: stores,
		repo:   repo,
		logger: logger,
	}
}

func (uc *ingestUseCase) RunOnce(ctx context.Context) (*dto.RunReport, error) {
	if !uc.mu.TryLock() {
		return nil, ingest.ErrRunInProgress
	}
	defer uc.mu.Unlock()

	report := &dto.RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	uc.logger.Info("ingest run started", zap.String("run_id", report.RunID))

	// Stores are processed sequentially; per-store file counts are single
	// digits, so intra-run fan-out is not worth the coordination.
	for _, storeID := range uc.stores.StoreIDs() {
		report.Stores = append(report.Stores, uc.runStore(ctx, storeID))
		if ctx.Err() != nil {
			break
		}
	}

	report.FinishedAt = time.Now()
	return report, ctx.Err()
}

func (uc *ingestUseCase) runStore(ctx context.Context, storeID string) dto.StoreReport {
	sr := dto.StoreReport{StoreID: storeID, Resolved: true}

	store, err := uc.stores.Resolve(ctx, storeID)
	if err != nil {
		uc.logger.Warn("store resolution failed, continuing with placeholder",
			zap.String("store_id", storeID),
			zap.Error(err),
		)
		store = uc.stores.Placeholder(storeID)
		sr.Resolved = false
	}
	sr.StoreName = store.Name

	files, err := uc.source.ListFiles(ctx, storeID)
	if err != nil {
		uc.logger.Error("listing export files failed",
			zap.String("store_id", storeID),
			zap.Error(err),
		)
		sr.Err = err.Error()
		return sr
	}
	if len(files) == 0 {
		uc.logger.Info("no export files for store this run", zap.String("store_id", storeID))
		return sr
	}

	if err := uc.repo.UpsertStore(ctx, &store); err != nil {
		uc.logger.Error("upserting store failed",
			zap.String("store_id", storeID),
			zap.Error(err),
		)
		sr.Err = err.Error()
		return sr
	}

	// Price exports must be processed before promotion exports so that
	// promotions are enriched from the catalog of the same run.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Kind == model.FileKindPrice && files[j].Kind != model.FileKindPrice
	})

	runCatalog := feed.Catalog{}
	for _, file := range files {
		sr.Files = append(sr.Files, uc.processFile(ctx, file, store, runCatalog))
		if ctx.Err() != nil {
			break
		}
	}
	return sr
}

// processFile runs one export file through fetch, decode, parse and persist.
// Any failure skips just this file; the rest of the run continues.
func (uc *ingestUseCase) processFile(ctx context.Context, file model.RawFile, store model.Store, runCatalog feed.Catalog) dto.FileReport {
	fr := dto.FileReport{Name: file.Name, Kind: string(file.Kind)}

	data, err := uc.source.FetchFile(ctx, file.Name)
	if err != nil {
		uc.logger.Warn("skipping file, fetch failed after retries",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		fr.Err = err.Error()
		return fr
	}
	file.RetrievedAt = time.Now()

	xmlText, err := feed.Decode(data)
	if err != nil {
		uc.logger.Warn("skipping file, container decode failed",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		fr.Err = err.Error()
		return fr
	}

	var records []model.Price
	switch file.Kind {
	case model.FileKindPrice:
		records, err = feed.ParsePrices(xmlText)
		if err == nil {
			runCatalog.Merge(records)
		}
	case model.FileKindPromo:
		records, err = feed.ParsePromotions(xmlText, runCatalog)
	}
	if err != nil {
		uc.logger.Warn("skipping file, parse failed",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		fr.Err = err.Error()
		return fr
	}
	fr.Parsed = len(records)

	for i := range records {
		records[i].StoreID = store.ID
	}

	result, err := uc.repo.UpsertPrices(ctx, records)
	fr.Persisted = result.Persisted
	fr.Failed = result.Failed
	if err != nil {
		fr.Err = err.Error()
		return fr
	}

	uc.logger.Info("export file processed",
		zap.String("store_id", store.ID),
		zap.String("file", file.Name),
		zap.String("kind", fr.Kind),
		zap.Int("parsed", fr.Parsed),
		zap.Int("persisted", fr.Persisted),
		zap.Int("failed", fr.Failed),
	)
	return fr
}
