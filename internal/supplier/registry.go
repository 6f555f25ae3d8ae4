package supplier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/shukli/price-ingest/internal/model"
)

var branchTokenRe = regexp.MustCompile(`Store\s+\d+\s*-\s*([^<\n]+)`)

// Registry resolves store ids to display metadata. Branch names come from
// static configuration; stores configured without one are resolved best-effort
// by scraping the supplier's directory listing.
type Registry struct {
	client    *Client
	chainName string
	ids       []string
	branches  map[string]string
	logger    *zap.Logger
}

// NewRegistry parses "id=branch" pairs. An empty branch marks the store as
// unresolved.
func NewRegistry(client *Client, chainName string, stores []string, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		client:    client,
		chainName: chainName,
		branches:  make(map[string]string, len(stores)),
		logger:    logger,
	}
	for _, pair := range stores {
		id, branch, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid store configuration %q, want \"id=branch\"", pair)
		}
		r.ids = append(r.ids, id)
		r.branches[id] = strings.TrimSpace(branch)
	}
	return r, nil
}

// StoreIDs returns the configured store ids in configuration order.
func (r *Registry) StoreIDs() []string {
	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}

// Resolve returns the store metadata for a configured store id, scraping the
// directory listing when no branch name is configured. On failure the caller
// logs and continues with Placeholder values; the run is not aborted.
func (r *Registry) Resolve(ctx context.Context, storeID string) (model.Store, error) {
	branch, ok := r.branches[storeID]
	if !ok {
		return model.Store{}, &ResolutionError{StoreID: storeID}
	}
	if branch != "" {
		return r.store(storeID, branch), nil
	}

	listing, err := r.client.Listing(ctx)
	if err != nil {
		return model.Store{}, &ResolutionError{StoreID: storeID, Err: err}
	}
	branch, err = r.branchFromListing(listing, storeID)
	if err != nil {
		return model.Store{}, err
	}

	r.logger.Info("resolved store branch from directory listing",
		zap.String("store_id", storeID),
		zap.String("branch", branch),
	)
	return r.store(storeID, branch), nil
}

// Placeholder returns usable store metadata for a store that could not be
// resolved this run.
func (r *Registry) Placeholder(storeID string) model.Store {
	return model.Store{ID: storeID, Name: r.chainName, BranchName: ""}
}

func (r *Registry) store(id, branch string) model.Store {
	return model.Store{
		ID:         id,
		Name:       r.chainName + " - " + branch,
		BranchName: branch,
	}
}

// branchFromListing locates a price filename embedding the store id and
// extracts the trailing location token from the listing lines just before it.
func (r *Registry) branchFromListing(listing, storeID string) (string, error) {
	fileRe := regexp.MustCompile(fmt.Sprintf(
		`Price.*?%s-%s-\d{12}\.gz`,
		regexp.QuoteMeta(r.client.chainID), regexp.QuoteMeta(storeID),
	))
	loc := fileRe.FindStringIndex(listing)
	if loc == nil {
		return "", &ResolutionError{StoreID: storeID}
	}

	lines := strings.Split(listing[:loc[0]], "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	m := branchTokenRe.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return "", &ResolutionError{StoreID: storeID}
	}
	return strings.TrimSpace(m[1]), nil
}
