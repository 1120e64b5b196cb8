package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Properties is the free-form JSONB bag on a component (technical data,
// measurements, anything the UI wants to show but the core never interprets).
type Properties map[string]any

func (p Properties) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *Properties) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("properties: unsupported scan type %T", src)
	}
}

type Component struct {
	BaseModel
	SupplierID    *string    `db:"supplier_id" json:"supplier_id"` // Nullable
	ProductNumber string     `db:"product_number" json:"product_number"`
	Name          string     `db:"name" json:"name"`
	Description   *string    `db:"description" json:"description"`
	Properties    Properties `db:"properties" json:"properties"`
	Variants      []Variant  `db:"-" json:"variants"` // Not in DB table directly
	Pictures      []Picture  `db:"-" json:"pictures"` // Component-level only
	Supplier      *Supplier  `db:"-" json:"supplier"` // Joined data
}

type Supplier struct {
	BaseModel
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"` // short prefix used in file names
}

type Variant struct {
	BaseModel
	ComponentID string    `db:"component_id" json:"component_id"`
	Color       string    `db:"color" json:"color"` // unique per component
	SKU         string    `db:"sku" json:"sku"`
	Pictures    []Picture `db:"-" json:"pictures"`
}
