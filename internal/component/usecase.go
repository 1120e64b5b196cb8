package component

import (
	"context"

	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/model"
)

// UseCase is the atomic update orchestrator: the single entry point for every
// mutation that can change the inputs of a picture's file name. Mutations
// against one component are serialized; different components run in parallel.
type UseCase interface {
	CreateComponent(ctx context.Context, input *dto.CreateComponentInput) (*model.Component, error)
	GetComponent(ctx context.Context, id string) (*model.Component, error)
	ListComponents(ctx context.Context, filters *dto.ComponentFilters) ([]model.Component, int, error)
	UpdateComponent(ctx context.Context, input *dto.UpdateComponentInput) (*model.Component, error)
	DeleteComponent(ctx context.Context, id string) error

	AddVariant(ctx context.Context, input *dto.AddVariantInput) (*model.Variant, error)
	RecolorVariants(ctx context.Context, input *dto.RecolorVariantsInput) error
	RemoveVariant(ctx context.Context, variantID string) error

	UploadPicture(ctx context.Context, input *dto.UploadPictureInput) (*model.Picture, error)
	DeletePicture(ctx context.Context, pictureID string) error
	ReorderPictures(ctx context.Context, input *dto.ReorderPicturesInput) error
}
