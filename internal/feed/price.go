package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shukli/price-ingest/internal/model"
)

// ParseError reports a malformed export document.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing export: %s: %v", e.Reason, e.Err)
	}
	return "parsing export: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// priceItem mirrors the supplier's Item element.
type priceItem struct {
	ItemCode                    string `xml:"ItemCode"`
	ItemNm                      string `xml:"ItemNm"`
	ManufacturerName            string `xml:"ManufacturerName"`
	ManufacturerItemDescription string `xml:"ManufacturerItemDescription"`
	ItemPrice                   string `xml:"ItemPrice"`
	UnitQty                     string `xml:"UnitQty"`
	PriceUpdateDate             string `xml:"PriceUpdateDate"`
}

// ParsePrices extracts normalized price records from a price-export document.
// Every Item element is visited regardless of nesting. Duplicate product codes
// are deduplicated with the last occurrence in document order winning, and
// records with an empty code or a non-positive price are dropped.
func ParsePrices(xmlText string) ([]model.Price, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))

	var records []model.Price
	index := make(map[string]int)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "malformed XML", Err: err}
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Item" {
			continue
		}

		var item priceItem
		if err := dec.DecodeElement(&item, &se); err != nil {
			return nil, &ParseError{Reason: "decoding Item element", Err: err}
		}

		code := strings.TrimSpace(item.ItemCode)
		price := parsePrice(item.ItemPrice)
		if code == "" || !price.IsPositive() {
			continue
		}

		record := model.Price{
			ProductCode:             code,
			ProductName:             strings.TrimSpace(item.ItemNm),
			Manufacturer:            strings.TrimSpace(item.ManufacturerName),
			ManufacturerDescription: strings.TrimSpace(item.ManufacturerItemDescription),
			Price:                   price,
			UnitOfMeasure:           strings.TrimSpace(item.UnitQty),
			UpdateDate:              parseSourceTime(item.PriceUpdateDate),
		}

		if i, ok := index[code]; ok {
			records[i] = record
		} else {
			index[code] = len(records)
			records = append(records, record)
		}
	}

	return records, nil
}

// parsePrice parses a price field as a non-negative decimal. Invalid, missing
// or negative values parse as zero, which excludes the record downstream.
func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

var sourceTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// parseSourceTime parses a source document timestamp, falling back to the
// ingestion time when the field is absent or unreadable.
func parseSourceTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range sourceTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

// parseOptionalTime is parseSourceTime without the fallback, for fields that
// may legitimately be absent.
func parseOptionalTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range sourceTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Catalog indexes price records by product code for promotion enrichment.
type Catalog map[string]model.Price

// NewCatalog builds a catalog from parsed price records.
func NewCatalog(prices []model.Price) Catalog {
	c := make(Catalog, len(prices))
	c.Merge(prices)
	return c
}

// Merge folds records into the catalog, keeping the newest record per product
// code by update date.
func (c Catalog) Merge(prices []model.Price) {
	for _, p := range prices {
		if existing, ok := c[p.ProductCode]; !ok || p.UpdateDate.After(existing.UpdateDate) {
			c[p.ProductCode] = p
		}
	}
}

// Lookup returns the catalog record for a product code.
func (c Catalog) Lookup(code string) (model.Price, bool) {
	p, ok := c[code]
	return p, ok
}
