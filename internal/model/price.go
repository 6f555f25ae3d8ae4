package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is the current price of one product in one store. The natural key is
// (store_id, product_code); each ingest run overwrites the previous snapshot.
type Price struct {
	StoreID                 string              `db:"store_id"`
	ProductCode             string              `db:"product_code"`
	ProductName             string              `db:"product_name"`
	Manufacturer            string              `db:"manufacturer"`
	ManufacturerDescription string              `db:"manufacturer_description"`
	Price                   decimal.Decimal     `db:"price"`
	UnitOfMeasure           string              `db:"unit_of_measure"`
	UpdateDate              time.Time           `db:"update_date"`
	IsPromo                 bool                `db:"is_promo"`
	PromoPrice              decimal.NullDecimal `db:"promo_price"`
	PromoStartDate          *time.Time          `db:"promo_start_date"`
	PromoEndDate            *time.Time          `db:"promo_end_date"`
}
