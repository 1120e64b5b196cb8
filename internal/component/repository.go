package component

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/model"
)

// TxManager opens the transaction scope an orchestrator run lives in.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx sqlx.ExtContext) error) error
}

// Repository covers component and variant rows. Methods accept the executor
// explicitly; passing nil targets the pool directly.
type Repository interface {
	Create(ctx context.Context, q sqlx.ExtContext, c *model.Component) error
	FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Component, error)
	FindAll(ctx context.Context, q sqlx.ExtContext, filters *dto.ComponentFilters) ([]model.Component, int, error)
	Update(ctx context.Context, q sqlx.ExtContext, c *model.Component) error
	Delete(ctx context.Context, q sqlx.ExtContext, id string) error

	// IsProductNumberUnique checks the (supplier, product number) claim,
	// excluding the component being edited.
	IsProductNumberUnique(ctx context.Context, q sqlx.ExtContext, supplierID *string, productNumber, excludeID string) (bool, error)

	InsertVariant(ctx context.Context, q sqlx.ExtContext, v *model.Variant) error
	UpdateVariant(ctx context.Context, q sqlx.ExtContext, v *model.Variant) error
	FindVariantByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Variant, error)
	ListVariants(ctx context.Context, q sqlx.ExtContext, componentID string) ([]model.Variant, error)
	DeleteVariant(ctx context.Context, q sqlx.ExtContext, id string) error
	IsColorUnique(ctx context.Context, q sqlx.ExtContext, componentID, color, excludeID string) (bool, error)
}
