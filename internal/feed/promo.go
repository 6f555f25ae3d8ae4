package feed

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shukli/price-ingest/internal/model"
)

// promotionElement mirrors one Promotion element of a promotion export.
type promotionElement struct {
	PromotionUpdateDate string      `xml:"PromotionUpdateDate"`
	PromotionStartDate  string      `xml:"PromotionStartDate"`
	PromotionEndDate    string      `xml:"PromotionEndDate"`
	Items               []promoItem `xml:"PromotionItems>Item"`
}

type promoItem struct {
	ItemCode   string `xml:"ItemCode"`
	PromoPrice string `xml:"PromoPrice"`
}

// ParsePromotions extracts promotional price records from a promotion export,
// backfilling descriptive fields from the price catalog parsed earlier in the
// same run. Promotion exports reference items by code only, so the catalog is
// threaded in rather than re-fetched.
//
// A record is retained when its product code is present and either the base
// price or the promo price is positive. An item missing from the catalog keeps
// blank descriptive fields but is still retained when its promo price is
// usable.
func ParsePromotions(xmlText string, catalog Catalog) ([]model.Price, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))

	var records []model.Price
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "malformed XML", Err: err}
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Promotion" {
			continue
		}

		var promo promotionElement
		if err := dec.DecodeElement(&promo, &se); err != nil {
			return nil, &ParseError{Reason: "decoding Promotion element", Err: err}
		}

		startDate := parseOptionalTime(promo.PromotionStartDate)
		endDate := parseOptionalTime(promo.PromotionEndDate)
		updateDate := parseSourceTime(promo.PromotionUpdateDate)

		for _, item := range promo.Items {
			code := strings.TrimSpace(item.ItemCode)
			if code == "" {
				continue
			}
			promoPrice := parsePrice(item.PromoPrice)

			record := model.Price{
				ProductCode:    code,
				UpdateDate:     updateDate,
				IsPromo:        true,
				PromoPrice:     decimal.NullDecimal{Decimal: promoPrice, Valid: true},
				PromoStartDate: startDate,
				PromoEndDate:   endDate,
			}
			if base, ok := catalog.Lookup(code); ok {
				record.ProductName = base.ProductName
				record.Manufacturer = base.Manufacturer
				record.ManufacturerDescription = base.ManufacturerDescription
				record.UnitOfMeasure = base.UnitOfMeasure
				record.Price = base.Price
			}

			if !record.Price.IsPositive() && !promoPrice.IsPositive() {
				continue
			}
			records = append(records, record)
		}
	}

	return records, nil
}
