package supplier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shukli/price-ingest/internal/model"
)

// ListFiles scrapes the directory listing for export files belonging to one
// store. An empty result means "nothing to import this run", not a failure.
func (c *Client) ListFiles(ctx context.Context, storeID string) ([]model.RawFile, error) {
	listing, err := c.Listing(ctx)
	if err != nil {
		return nil, err
	}
	return c.filesFromListing(listing, storeID), nil
}

func (c *Client) filesFromListing(listing, storeID string) []model.RawFile {
	re := regexp.MustCompile(fmt.Sprintf(
		`(?:Price|Promo)(?:Full)?%s-%s-\d{12}\.gz`,
		regexp.QuoteMeta(c.chainID), regexp.QuoteMeta(storeID),
	))

	// A filename usually appears twice in the listing (href and anchor text).
	seen := make(map[string]struct{})
	var files []model.RawFile
	for _, name := range re.FindAllString(listing, -1) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		kind, full, ok := classify(name)
		if !ok {
			continue
		}
		files = append(files, model.RawFile{
			Name:    name,
			StoreID: storeID,
			Kind:    kind,
			Full:    full,
		})
	}
	return files
}

// classify derives the export kind and the full/differential flag from a
// filename. The supplier's naming convention is isolated here so a convention
// change never touches downstream logic.
func classify(name string) (model.FileKind, bool, bool) {
	switch {
	case strings.HasPrefix(name, "PriceFull"):
		return model.FileKindPrice, true, true
	case strings.HasPrefix(name, "Price"):
		return model.FileKindPrice, false, true
	case strings.HasPrefix(name, "PromoFull"):
		return model.FileKindPromo, true, true
	case strings.HasPrefix(name, "Promo"):
		return model.FileKindPromo, false, true
	}
	return "", false, false
}
