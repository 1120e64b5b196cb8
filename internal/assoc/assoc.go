// Package assoc is the association collaborator: brands, categories and
// keywords are attached to components purely as identifier sets. The core
// never looks inside them; it only composes set replacement into the same
// transaction as the component write.
package assoc

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Kind string

const (
	KindBrand    Kind = "brand"
	KindCategory Kind = "category"
	KindKeyword  Kind = "keyword"
)

type Repository interface {
	// Replace swaps the full identifier set of one kind for a component.
	Replace(ctx context.Context, q sqlx.ExtContext, componentID string, kind Kind, ids []string) error
	// DeleteByComponent drops every association, all kinds. Deletion cascade.
	DeleteByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) error
	// ListByComponent returns the identifier sets keyed by kind.
	ListByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) (map[Kind][]string, error)
}
