package dto

import (
	"io"

	"github.com/arnvold/parts-catalog-service/internal/assoc"
	"github.com/arnvold/parts-catalog-service/internal/model"
)

type CreateComponentInput struct {
	SupplierID    string // optional
	ProductNumber string
	Name          string
	Description   string
	Properties    model.Properties
	Associations  map[assoc.Kind][]string // nil: leave untouched
}

type UpdateComponentInput struct {
	ID            string
	SupplierID    string // "" clears the supplier
	ProductNumber string
	Name          string
	Description   string
	Properties    model.Properties
	Associations  map[assoc.Kind][]string
}

type ComponentFilters struct {
	SupplierID    string
	ProductNumber string
	Page          int
	PageSize      int
}

type AddVariantInput struct {
	ComponentID string
	Color       string
}

// RecolorVariantsInput changes variant colors in one atomic pass. Colors maps
// variant ID to its new color; swapping two colors is a two-entry map.
type RecolorVariantsInput struct {
	ComponentID string
	Colors      map[string]string
}

type UploadPictureInput struct {
	ComponentID string
	VariantID   string // "" for a component-level picture
	Position    int    // 0: append after the current highest position
	Extension   string // ".jpg" etc., dot optional
	Data        io.Reader
}

type PicturePosition struct {
	PictureID string
	Position  int
}

type ReorderPicturesInput struct {
	ComponentID string
	VariantID   string // "" targets the component-level scope
	Positions   []PicturePosition
}
