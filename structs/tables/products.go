package tables

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID           int64            `bun:"id,pk,autoincrement" json:"id"`
	Name         string           `bun:"name,notnull" json:"name"`
	Description  *string          `bun:"description" json:"description"`
	Price        Money            `bun:"price,type:decimal(10,2),notnull" json:"price"`
	Stock        int              `bun:"stock,notnull" json:"stock"`
	SKU          *string          `bun:"sku,unique" json:"sku"` // unique when present
	FeatureImage *string          `bun:"feature_image" json:"feature_image"`
	IsActive     bool             `bun:"is_active,notnull" json:"is_active"`
	CreatedAt    time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time        `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	Galleries    []ProductGallery `bun:"rel:has-many,join:id=product_id" json:"galleries"`
}

// ProductGallery is one image of a product's ordered gallery
type ProductGallery struct {
	bun.BaseModel `bun:"table:product_galleries,alias:g"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID int64     `bun:"product_id,notnull" json:"product_id"`
	ImagePath string    `bun:"image_path,notnull" json:"image_path"`
	ImageName *string   `bun:"image_name" json:"image_name"` // original client filename, display only
	SortOrder int       `bun:"sort_order,notnull" json:"sort_order"`
	IsPrimary bool      `bun:"is_primary,notnull" json:"is_primary"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// PrimaryImage returns the gallery row flagged as primary, or nil
func (p *Product) PrimaryImage() *ProductGallery {
	for i := range p.Galleries {
		if p.Galleries[i].IsPrimary {
			return &p.Galleries[i]
		}
	}
	return nil
}

// Money is a decimal amount that always renders with two fractional digits
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// MustMoney parses s and panics on malformed input; meant for fixtures
func MustMoney(s string) Money {
	return NewMoney(decimal.RequireFromString(s))
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(2))), nil
}
