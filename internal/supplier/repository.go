package supplier

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, q sqlx.ExtContext, s *model.Supplier) error
	FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Supplier, error)
	FindAll(ctx context.Context, q sqlx.ExtContext) ([]model.Supplier, error)
	Update(ctx context.Context, q sqlx.ExtContext, s *model.Supplier) error
	Delete(ctx context.Context, q sqlx.ExtContext, id string) error

	IsCodeUnique(ctx context.Context, q sqlx.ExtContext, code, excludeID string) (bool, error)
	ComponentCount(ctx context.Context, q sqlx.ExtContext, supplierID string) (int, error)
}
