package ingest

import (
	"context"
	"errors"

	"github.com/shukli/price-ingest/internal/ingest/dto"
	"github.com/shukli/price-ingest/internal/model"
)

// ErrRunInProgress is returned when a run is triggered while the previous one
// is still active. At most one ingestion run is active at a time.
var ErrRunInProgress = errors.New("ingest run already in progress")

type UseCase interface {
	// RunOnce executes the full discovery, fetch, decode, parse and persist
	// sequence for every configured store and returns the per-run report.
	RunOnce(ctx context.Context) (*dto.RunReport, error)
}

// FileSource lists and retrieves export files from the supplier host.
type FileSource interface {
	ListFiles(ctx context.Context, storeID string) ([]model.RawFile, error)
	FetchFile(ctx context.Context, name string) ([]byte, error)
}

// StoreResolver resolves store ids to display metadata.
type StoreResolver interface {
	StoreIDs() []string
	Resolve(ctx context.Context, storeID string) (model.Store, error)
	Placeholder(storeID string) model.Store
}
