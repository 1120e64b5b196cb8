package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/internal/naming"
	"github.com/arnvold/parts-catalog-service/internal/supplier"
	"github.com/arnvold/parts-catalog-service/internal/supplier/dto"
	"github.com/arnvold/parts-catalog-service/pkg/logger"
)

type supplierUseCase struct {
	repo   supplier.Repository
	logger logger.ZapLogger
}

func NewSupplierUseCase(repo supplier.Repository, log logger.ZapLogger) supplier.UseCase {
	return &supplierUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *supplierUseCase) CreateSupplier(ctx context.Context, input *dto.CreateSupplierInput) (*model.Supplier, error) {
	code := naming.Normalize(input.Code)
	if code == "" {
		return nil, apperr.Validation("code", "supplier code is required")
	}

	unique, err := uc.repo.IsCodeUnique(ctx, nil, code, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperr.Newf(apperr.CodeDuplicate, "supplier code %q already exists", code)
	}

	now := time.Now()
	s := &model.Supplier{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		Code:      code,
	}

	if err := uc.repo.Create(ctx, nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *supplierUseCase) GetSupplier(ctx context.Context, id string) (*model.Supplier, error) {
	return uc.repo.FindByID(ctx, nil, id)
}

func (uc *supplierUseCase) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return uc.repo.FindAll(ctx, nil)
}

func (uc *supplierUseCase) UpdateSupplier(ctx context.Context, input *dto.UpdateSupplierInput) (*model.Supplier, error) {
	s, err := uc.repo.FindByID(ctx, nil, input.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "supplier %s not found", input.ID)
	}

	code := naming.Normalize(input.Code)
	if code != s.Code {
		// The code is baked into every file name of every component under
		// this supplier. A batch rename across components is deliberately not
		// supported; move the components first.
		count, err := uc.repo.ComponentCount(ctx, nil, s.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperr.Validation("code",
				"cannot change supplier code while components reference it")
		}
		unique, err := uc.repo.IsCodeUnique(ctx, nil, code, s.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperr.Newf(apperr.CodeDuplicate, "supplier code %q already exists", code)
		}
		s.Code = code
	}

	s.Name = input.Name
	s.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *supplierUseCase) DeleteSupplier(ctx context.Context, id string) error {
	s, err := uc.repo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if s == nil {
		return nil // Already deleted
	}

	count, err := uc.repo.ComponentCount(ctx, nil, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("id", "cannot delete supplier with components")
	}

	if err := uc.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	uc.logger.Info("supplier deleted", zap.String("supplier_id", id))
	return nil
}
