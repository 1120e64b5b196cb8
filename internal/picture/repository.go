package picture

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/model"
)

// Scope addresses one owning context for order uniqueness.
type Scope struct {
	ComponentID string
	VariantID   *string // nil: the component's own pictures
}

// Repository is the row-level CRUD surface of the ledger. Every method takes
// the executor explicitly so the orchestrator can point a whole mutation at
// one open transaction.
type Repository interface {
	ListByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) ([]model.Picture, error)
	Insert(ctx context.Context, q sqlx.ExtContext, p *model.Picture) error
	UpdateNameURL(ctx context.Context, q sqlx.ExtContext, id, baseName, url string) error
	SetPosition(ctx context.Context, q sqlx.ExtContext, id string, position int) error

	// ParkPositions moves the given pictures to out-of-range positions so a
	// batch reorder never trips the (scope, position) uniqueness mid-flight.
	ParkPositions(ctx context.Context, q sqlx.ExtContext, ids []string) error

	DeleteByID(ctx context.Context, q sqlx.ExtContext, id string) error
	DeleteByVariant(ctx context.Context, q sqlx.ExtContext, variantID string) error
	DeleteByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) error

	MaxPosition(ctx context.Context, q sqlx.ExtContext, scope Scope) (int, error)
	PositionTaken(ctx context.Context, q sqlx.ExtContext, scope Scope, position int, excludeID string) (bool, error)
	FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Picture, error)
}
