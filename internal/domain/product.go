package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// Product represents a part in the catalog
type Product struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Article      string          `json:"article" db:"article"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Discount     decimal.Decimal `json:"discount" db:"discount"`
	ImageURL     string          `json:"image_url" db:"image_url"`
	CategoryID   *int64          `json:"category_id" db:"category_id"`
	Stock        int             `json:"stock" db:"stock"`
	CategoryName string          `json:"category_name,omitempty" db:"category_name"`
	CreatedAt    time.Time       `json:"-" db:"created_at"`
}

// EffectivePrice returns the unit price after the discount percentage is applied.
func (p Product) EffectivePrice() decimal.Decimal {
	if !p.Discount.IsPositive() {
		return p.Price
	}
	return p.Price.Mul(hundred.Sub(p.Discount)).Div(hundred)
}

// HasDiscount reports whether a discount applies to the product
func (p Product) HasDiscount() bool {
	return p.Discount.IsPositive()
}

// Category represents a product category.
//
// ProductCount is the counter stored on the category row, ActualCount is the
// number of products that reference it. The two are not kept in sync.
type Category struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Slug         string `json:"slug" db:"slug"`
	IconName     string `json:"icon_name" db:"icon_name"`
	ProductCount int    `json:"product_count" db:"product_count"`
	ActualCount  int    `json:"actual_count" db:"actual_count"`
}

// Drift returns how far the stored counter is from the real product count
func (c Category) Drift() int {
	return c.ProductCount - c.ActualCount
}

// ProductPatch carries a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Article     *string          `json:"article,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	CategoryID  OptionalID       `json:"category_id,omitzero"`
	Stock       *int             `json:"stock,omitempty"`
}

// OptionalID is a nullable id that remembers whether it was present.
// A present null clears the value; an absent field leaves it alone.
type OptionalID struct {
	Set   bool
	Value *int64
}

// SetID returns a present OptionalID holding id, which may be nil
func SetID(id *int64) OptionalID {
	if id == nil {
		return OptionalID{Set: true}
	}
	v := *id
	return OptionalID{Set: true, Value: &v}
}

// IsZero reports an absent value, so omitzero drops it from JSON
func (o OptionalID) IsZero() bool {
	return !o.Set
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Article == nil && p.Description == nil &&
		p.Price == nil && p.Discount == nil && p.ImageURL == nil &&
		!p.CategoryID.Set && p.Stock == nil
}

// Apply copies the set fields of the patch onto the product
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Article != nil {
		product.Article = *p.Article
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Discount != nil {
		product.Discount = *p.Discount
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.CategoryID.Set {
		product.CategoryID = SetID(p.CategoryID.Value).Value
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
}
