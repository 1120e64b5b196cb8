// Package picture holds the picture ledger: the authoritative, ordered record
// of which pictures exist for a component and under which names.
package picture

import (
	"sort"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/model"
)

// Group is one owning scope: the component itself (VariantID nil) or a single
// variant. Pictures are ordered by position and positions are unique within
// the group.
type Group struct {
	VariantID *string
	Color     string // "" for the component-level group
	Pictures  []model.Picture
}

// Ledger is the full picture set of one component, partitioned by scope.
// The component-level group is always present, possibly empty; variant groups
// appear in variant creation order.
type Ledger struct {
	ComponentID string
	Groups      []Group
}

// Build partitions pictures into their owning scopes and enforces the ledger
// invariants: every picture belongs to the component (directly or through one
// of its variants) and no two pictures share (scope, position).
func Build(componentID string, variants []model.Variant, pictures []model.Picture) (*Ledger, error) {
	led := &Ledger{
		ComponentID: componentID,
		Groups:      []Group{{VariantID: nil, Color: ""}},
	}

	groupIdx := map[string]int{"": 0}
	for _, v := range variants {
		id := v.ID
		groupIdx[id] = len(led.Groups)
		led.Groups = append(led.Groups, Group{VariantID: &id, Color: v.Color})
	}

	for _, p := range pictures {
		if p.ComponentID != componentID {
			return nil, apperr.Newf(apperr.CodeValidation, "picture %s belongs to component %s", p.ID, p.ComponentID)
		}
		key := ""
		if p.VariantID != nil {
			key = *p.VariantID
		}
		idx, ok := groupIdx[key]
		if !ok {
			return nil, apperr.Newf(apperr.CodeValidation, "picture %s references unknown variant %s", p.ID, key)
		}
		led.Groups[idx].Pictures = append(led.Groups[idx].Pictures, p)
	}

	for gi := range led.Groups {
		g := &led.Groups[gi]
		sort.Slice(g.Pictures, func(i, j int) bool {
			return g.Pictures[i].Position < g.Pictures[j].Position
		})
		seen := map[int]string{}
		for _, p := range g.Pictures {
			if other, dup := seen[p.Position]; dup {
				return nil, apperr.Newf(apperr.CodeOrderConflict,
					"pictures %s and %s share position %d", other, p.ID, p.Position)
			}
			seen[p.Position] = p.ID
		}
	}

	return led, nil
}

// All returns every picture, component-level group first, ordered within each
// group.
func (l *Ledger) All() []model.Picture {
	var out []model.Picture
	for _, g := range l.Groups {
		out = append(out, g.Pictures...)
	}
	return out
}

// Group returns the group owning the given scope, or nil.
func (l *Ledger) Group(variantID *string) *Group {
	for i := range l.Groups {
		g := &l.Groups[i]
		if variantID == nil && g.VariantID == nil {
			return g
		}
		if variantID != nil && g.VariantID != nil && *g.VariantID == *variantID {
			return g
		}
	}
	return nil
}

// ColorOf returns the color segment feeding the naming function for a
// picture: the owning variant's color, or "" at component level.
func (l *Ledger) ColorOf(p *model.Picture) string {
	if p.VariantID == nil {
		return ""
	}
	if g := l.Group(p.VariantID); g != nil {
		return g.Color
	}
	return ""
}
