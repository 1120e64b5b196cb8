package model

import "time"

// Picture is one row of the picture ledger. It belongs either to a component
// directly (VariantID nil) or to one variant. BaseName is always exactly what
// the naming function produced from the owner's naming inputs at the time of
// the last successful rename; the file store object is BaseName+Extension.
type Picture struct {
	ID          string    `db:"id" json:"id"`
	ComponentID string    `db:"component_id" json:"component_id"`
	VariantID   *string   `db:"variant_id" json:"variant_id"` // Nullable
	BaseName    string    `db:"base_name" json:"base_name"`
	Extension   string    `db:"extension" json:"extension"` // ".jpg", dot included
	Position    int       `db:"position" json:"position"`   // unique per owning scope
	URL         string    `db:"url" json:"url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FileName is the full object name in the file store.
func (p *Picture) FileName() string {
	return p.BaseName + p.Extension
}

// ScopeKey identifies the owning scope for order uniqueness: the component
// itself for component-level pictures, otherwise the variant.
func (p *Picture) ScopeKey() string {
	if p.VariantID != nil {
		return "variant:" + *p.VariantID
	}
	return "component:" + p.ComponentID
}
