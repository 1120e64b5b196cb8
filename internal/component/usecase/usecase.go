package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/assoc"
	"github.com/arnvold/parts-catalog-service/internal/component"
	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/events"
	"github.com/arnvold/parts-catalog-service/internal/filestore"
	"github.com/arnvold/parts-catalog-service/internal/locks"
	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/internal/naming"
	"github.com/arnvold/parts-catalog-service/internal/picture"
	"github.com/arnvold/parts-catalog-service/internal/rename"
	"github.com/arnvold/parts-catalog-service/internal/supplier"
	"github.com/arnvold/parts-catalog-service/pkg/cache"
	"github.com/arnvold/parts-catalog-service/pkg/logger"
)

// Orchestrator run states. Logged on every transition; Staging and
// Committing are the phases that touch the file store.
type state string

const (
	stateValidating      state = "validating"
	stateRelationalWrite state = "relational_write"
	stateStaging         state = "staging"
	stateCommitting      state = "committing"
	stateRollingBack     state = "rolling_back"
	stateDone            state = "done"
)

const componentCacheTTL = 5 * time.Minute

type componentUseCase struct {
	repo      component.Repository
	pictures  picture.Repository
	suppliers supplier.Repository
	assocs    assoc.Repository
	store     filestore.Store
	tx        component.TxManager
	cache     *cache.RedisClient
	events    *events.Publisher
	locks     *locks.Keyed
	logger    logger.ZapLogger

	// cacheEpochs records the last invalidation instant per component, so a
	// read that started before an invalidation cannot re-populate the cache
	// with rows it loaded before the mutation landed.
	cacheEpochs sync.Map // componentID -> time.Time
}

func NewComponentUseCase(
	repo component.Repository,
	pictures picture.Repository,
	suppliers supplier.Repository,
	assocs assoc.Repository,
	store filestore.Store,
	tx component.TxManager,
	redis *cache.RedisClient,
	publisher *events.Publisher,
	log logger.ZapLogger,
) component.UseCase {
	return &componentUseCase{
		repo:      repo,
		pictures:  pictures,
		suppliers: suppliers,
		assocs:    assocs,
		store:     store,
		tx:        tx,
		cache:     redis,
		events:    publisher,
		locks:     locks.NewKeyed(),
		logger:    log,
	}
}

func (uc *componentUseCase) step(componentID string, st state) {
	uc.logger.Debug("orchestrator state",
		zap.String("component_id", componentID), zap.String("state", string(st)))
}

// resolveSupplier loads the supplier a component points at, or nil.
func (uc *componentUseCase) resolveSupplier(ctx context.Context, q sqlx.ExtContext, supplierID *string) (*model.Supplier, error) {
	if supplierID == nil || *supplierID == "" {
		return nil, nil
	}
	s, err := uc.suppliers.FindByID(ctx, q, *supplierID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.Validation("supplier_id", "unknown supplier")
	}
	return s, nil
}

func (uc *componentUseCase) loadLedger(ctx context.Context, q sqlx.ExtContext, componentID string) (*picture.Ledger, error) {
	variants, err := uc.repo.ListVariants(ctx, q, componentID)
	if err != nil {
		return nil, err
	}
	pics, err := uc.pictures.ListByComponent(ctx, q, componentID)
	if err != nil {
		return nil, err
	}
	return picture.Build(componentID, variants, pics)
}

// applySequence drives the two-phase plan against the file store, recording
// every applied move in the journal.
func (uc *componentUseCase) applySequence(ctx context.Context, componentID string, jrnl *journal, seq rename.Sequence) error {
	uc.step(componentID, stateStaging)
	for _, mv := range seq.Stage {
		if _, err := uc.store.Move(ctx, mv.From, mv.To); err != nil {
			return err
		}
		jrnl.recordMove(mv.From, mv.To)
	}
	uc.step(componentID, stateCommitting)
	for _, mv := range seq.Commit {
		if _, err := uc.store.Move(ctx, mv.From, mv.To); err != nil {
			return err
		}
		jrnl.recordMove(mv.From, mv.To)
	}
	return nil
}

// rollback reverses applied file operations. It runs detached from the
// request context: a timed-out request must still finish rolling back before
// the per-component lock is released.
func (uc *componentUseCase) rollback(ctx context.Context, componentID string, jrnl *journal, cause error) error {
	uc.step(componentID, stateRollingBack)
	if err := jrnl.revert(context.WithoutCancel(ctx)); err != nil {
		uc.logger.Error("rollback failed, manual reconciliation required",
			zap.String("component_id", componentID),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return err
	}
	return cause
}

func (uc *componentUseCase) invalidateCache(ctx context.Context, componentID string) {
	uc.cacheEpochs.Store(componentID, time.Now())
	if uc.cache == nil {
		return
	}
	// Synchronous on purpose: a reader racing the mutation must not see rows
	// carrying pre-rename names.
	ctx = context.WithoutCancel(ctx)
	uc.cache.Client.Del(ctx, "component:"+componentID)
	uc.cache.DeletePattern(ctx, "components:list:*")
}

func (uc *componentUseCase) publish(ctx context.Context, typ events.Type, componentID string) {
	if uc.events == nil {
		return
	}
	evt := events.Event{Type: typ, ComponentID: componentID, At: time.Now()}
	if err := uc.events.Publish(context.WithoutCancel(ctx), evt); err != nil {
		uc.logger.Warn("failed to publish catalog event",
			zap.String("type", string(typ)), zap.Error(err))
	}
}

func (uc *componentUseCase) CreateComponent(ctx context.Context, input *dto.CreateComponentInput) (*model.Component, error) {
	if strings.TrimSpace(input.ProductNumber) == "" {
		return nil, apperr.Validation("product_number", "product number is required")
	}

	var supplierID *string
	if input.SupplierID != "" {
		id := input.SupplierID
		supplierID = &id
	}
	if _, err := uc.resolveSupplier(ctx, nil, supplierID); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsProductNumberUnique(ctx, nil, supplierID, input.ProductNumber, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperr.Newf(apperr.CodeDuplicate,
			"product number %q already exists for this supplier", input.ProductNumber)
	}

	now := time.Now()
	c := &model.Component{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SupplierID:    supplierID,
		ProductNumber: input.ProductNumber,
		Name:          input.Name,
		Description:   &input.Description,
		Properties:    input.Properties,
	}

	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		if err := uc.repo.Create(ctx, tx, c); err != nil {
			return err
		}
		for kind, ids := range input.Associations {
			if err := uc.assocs.Replace(ctx, tx, c.ID, kind, ids); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, c.ID)
	uc.publish(ctx, events.ComponentCreated, c.ID)
	return c, nil
}

func (uc *componentUseCase) GetComponent(ctx context.Context, id string) (*model.Component, error) {
	if uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, "component:"+id).Result()
		if err == nil {
			var c model.Component
			if err := json.Unmarshal([]byte(val), &c); err == nil {
				return &c, nil
			}
		}
	}

	readStart := time.Now()
	c, err := uc.repo.FindByID(ctx, nil, id)
	if err != nil || c == nil {
		return c, err
	}

	c.Supplier, err = uc.resolveSupplier(ctx, nil, c.SupplierID)
	if err != nil {
		return nil, err
	}
	led, err := uc.loadLedger(ctx, nil, c.ID)
	if err != nil {
		return nil, err
	}
	variants, err := uc.repo.ListVariants(ctx, nil, c.ID)
	if err != nil {
		return nil, err
	}
	c.Pictures = led.Group(nil).Pictures
	for i := range variants {
		if g := led.Group(&variants[i].ID); g != nil {
			variants[i].Pictures = g.Pictures
		}
	}
	c.Variants = variants

	if uc.cache != nil && uc.freshSince(id, readStart) {
		if data, err := json.Marshal(c); err == nil {
			uc.cache.Client.Set(ctx, "component:"+id, data, componentCacheTTL)
		}
	}
	return c, nil
}

// freshSince reports whether no invalidation for the component has happened
// since readStart. Rows loaded before an invalidation must not go back into
// the cache, where they would linger for the full TTL.
func (uc *componentUseCase) freshSince(componentID string, readStart time.Time) bool {
	epoch, ok := uc.cacheEpochs.Load(componentID)
	if !ok {
		return true
	}
	return readStart.After(epoch.(time.Time))
}

func (uc *componentUseCase) ListComponents(ctx context.Context, filters *dto.ComponentFilters) ([]model.Component, int, error) {
	return uc.repo.FindAll(ctx, nil, filters)
}

// UpdateComponent is the rename-cascade path: a product number or supplier
// change forces every picture of the component onto a new file name, applied
// through stage/commit with full rollback on any failure.
func (uc *componentUseCase) UpdateComponent(ctx context.Context, input *dto.UpdateComponentInput) (*model.Component, error) {
	unlock := uc.locks.Lock(input.ID)
	defer unlock()

	uc.step(input.ID, stateValidating)
	if strings.TrimSpace(input.ProductNumber) == "" {
		return nil, apperr.Validation("product_number", "product number is required")
	}

	c, err := uc.repo.FindByID(ctx, nil, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "component %s not found", input.ID)
	}

	oldSupplier, err := uc.resolveSupplier(ctx, nil, c.SupplierID)
	if err != nil {
		return nil, err
	}

	var newSupplierID *string
	if input.SupplierID != "" {
		id := input.SupplierID
		newSupplierID = &id
	}
	newSupplier, err := uc.resolveSupplier(ctx, nil, newSupplierID)
	if err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsProductNumberUnique(ctx, nil, newSupplierID, input.ProductNumber, c.ID)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperr.Newf(apperr.CodeDuplicate,
			"product number %q already exists for this supplier", input.ProductNumber)
	}

	oldInputs := rename.InputsOf(c, oldSupplier)
	newInputs := rename.Inputs{ProductNumber: input.ProductNumber}
	if newSupplier != nil {
		newInputs.SupplierCode = newSupplier.Code
	}

	jrnl := newJournal(uc.store)
	var plan []rename.Op

	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		uc.step(c.ID, stateRelationalWrite)
		c.SupplierID = newSupplierID
		c.ProductNumber = input.ProductNumber
		c.Name = input.Name
		c.Description = &input.Description
		if input.Properties != nil {
			c.Properties = input.Properties
		}
		c.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, tx, c); err != nil {
			return err
		}
		for kind, ids := range input.Associations {
			if err := uc.assocs.Replace(ctx, tx, c.ID, kind, ids); err != nil {
				return err
			}
		}

		led, err := uc.loadLedger(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		plan = rename.Plan(led, oldInputs, newInputs)
		if len(plan) == 0 {
			return nil
		}

		if err := uc.applySequence(ctx, c.ID, jrnl, rename.Sequenced(plan)); err != nil {
			return err
		}

		for _, op := range plan {
			if err := uc.pictures.UpdateNameURL(ctx, tx, op.PictureID, op.NewBase, uc.store.URL(op.NewName)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, uc.rollback(ctx, c.ID, jrnl, err)
	}

	uc.step(c.ID, stateDone)
	uc.invalidateCache(ctx, c.ID)
	uc.publish(ctx, events.ComponentUpdated, c.ID)
	if len(plan) > 0 {
		uc.logger.Info("picture files renamed",
			zap.String("component_id", c.ID), zap.Int("renames", len(plan)))
	}
	return c, nil
}

// DeleteComponent removes the relational rows first (pictures, then
// variants, then the component), commits, and only then deletes files. A
// crash mid-cascade can leave an orphaned file, never a row pointing at a
// deleted one. Missing files are logged, not fatal.
func (uc *componentUseCase) DeleteComponent(ctx context.Context, id string) error {
	unlock := uc.locks.Lock(id)
	defer unlock()

	uc.step(id, stateValidating)
	c, err := uc.repo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil // Already deleted
	}

	var led *picture.Ledger
	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		uc.step(id, stateRelationalWrite)
		led, err = uc.loadLedger(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := uc.pictures.DeleteByComponent(ctx, tx, id); err != nil {
			return err
		}
		for _, g := range led.Groups {
			if g.VariantID == nil {
				continue
			}
			if err := uc.repo.DeleteVariant(ctx, tx, *g.VariantID); err != nil {
				return err
			}
		}
		if err := uc.assocs.DeleteByComponent(ctx, tx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	// Variant pictures first, component-level last, mirroring the row
	// cascade. Runs detached so a request timeout cannot truncate it.
	fctx := context.WithoutCancel(ctx)
	var storageErr error
	deleteFile := func(name string) {
		if err := uc.store.Delete(fctx, name); err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				uc.logger.Warn("file already absent during component deletion",
					zap.String("component_id", id), zap.String("name", name))
				return
			}
			uc.logger.Error("file deletion failed, orphaned file left in store",
				zap.String("component_id", id), zap.String("name", name), zap.Error(err))
			if storageErr == nil {
				storageErr = err
			}
		}
	}
	for _, g := range led.Groups {
		if g.VariantID == nil {
			continue
		}
		for _, p := range g.Pictures {
			deleteFile(p.FileName())
		}
	}
	for _, p := range led.Group(nil).Pictures {
		deleteFile(p.FileName())
	}

	uc.step(id, stateDone)
	uc.invalidateCache(ctx, id)
	uc.publish(ctx, events.ComponentDeleted, id)
	return storageErr
}

func (uc *componentUseCase) AddVariant(ctx context.Context, input *dto.AddVariantInput) (*model.Variant, error) {
	unlock := uc.locks.Lock(input.ComponentID)
	defer unlock()

	uc.step(input.ComponentID, stateValidating)
	if strings.TrimSpace(input.Color) == "" {
		return nil, apperr.Validation("color", "color is required")
	}

	c, err := uc.repo.FindByID(ctx, nil, input.ComponentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "component %s not found", input.ComponentID)
	}

	unique, err := uc.repo.IsColorUnique(ctx, nil, c.ID, input.Color, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperr.Newf(apperr.CodeDuplicate,
			"variant color %q already exists on this component", input.Color)
	}

	s, err := uc.resolveSupplier(ctx, nil, c.SupplierID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	v := &model.Variant{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ComponentID: c.ID,
		Color:       input.Color,
		SKU:         deriveSKU(s, c, input.Color),
	}

	if err := uc.repo.InsertVariant(ctx, nil, v); err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx, c.ID)
	uc.publish(ctx, events.VariantAdded, c.ID)
	return v, nil
}

// RecolorVariants changes variant colors in one atomic pass. A color is a
// naming input, so every picture of an affected variant is renamed through
// stage/commit; a two-entry map swaps two colors without a transient
// collision even though both target names start out occupied.
func (uc *componentUseCase) RecolorVariants(ctx context.Context, input *dto.RecolorVariantsInput) error {
	unlock := uc.locks.Lock(input.ComponentID)
	defer unlock()

	uc.step(input.ComponentID, stateValidating)
	for id, color := range input.Colors {
		if strings.TrimSpace(color) == "" {
			return apperr.Validation("color", "color is required for variant "+id)
		}
	}

	c, err := uc.repo.FindByID(ctx, nil, input.ComponentID)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.Newf(apperr.CodeNotFound, "component %s not found", input.ComponentID)
	}
	s, err := uc.resolveSupplier(ctx, nil, c.SupplierID)
	if err != nil {
		return err
	}

	jrnl := newJournal(uc.store)
	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		variants, err := uc.repo.ListVariants(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		byID := map[string]*model.Variant{}
		for i := range variants {
			byID[variants[i].ID] = &variants[i]
		}

		// Uniqueness is judged against the final arrangement, so a swap is
		// legal even though each single step would collide.
		finalColors := map[string]string{}
		for _, v := range variants {
			finalColors[v.ID] = naming.Normalize(v.Color)
		}
		for id, color := range input.Colors {
			if _, ok := byID[id]; !ok {
				return apperr.Validation("variant_id", "unknown variant "+id)
			}
			finalColors[id] = naming.Normalize(color)
		}
		held := map[string]string{}
		for id, color := range finalColors {
			if other, dup := held[color]; dup {
				return apperr.Newf(apperr.CodeDuplicate,
					"variants %s and %s would share color %q", other, id, color)
			}
			held[color] = id
		}

		led, err := uc.loadLedger(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		plan := rename.PlanRecolor(led, rename.InputsOf(c, s), input.Colors)

		uc.step(c.ID, stateRelationalWrite)
		for id, color := range input.Colors {
			v := byID[id]
			v.Color = color
			v.SKU = deriveSKU(s, c, color)
			v.UpdatedAt = time.Now()
			if err := uc.repo.UpdateVariant(ctx, tx, v); err != nil {
				return err
			}
		}

		if len(plan) == 0 {
			return nil
		}
		if err := uc.applySequence(ctx, c.ID, jrnl, rename.Sequenced(plan)); err != nil {
			return err
		}
		for _, op := range plan {
			if err := uc.pictures.UpdateNameURL(ctx, tx, op.PictureID, op.NewBase, uc.store.URL(op.NewName)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uc.rollback(ctx, c.ID, jrnl, err)
	}

	uc.step(c.ID, stateDone)
	uc.invalidateCache(ctx, c.ID)
	uc.publish(ctx, events.ComponentUpdated, c.ID)
	return nil
}

// RemoveVariant deletes the variant row together with its picture rows, then
// its files. Pure deletion, no renames: remaining scopes keep their names.
func (uc *componentUseCase) RemoveVariant(ctx context.Context, variantID string) error {
	v, err := uc.repo.FindVariantByID(ctx, nil, variantID)
	if err != nil {
		return err
	}
	if v == nil {
		return nil // Already deleted
	}

	unlock := uc.locks.Lock(v.ComponentID)
	defer unlock()

	var doomed []model.Picture
	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		uc.step(v.ComponentID, stateRelationalWrite)
		led, err := uc.loadLedger(ctx, tx, v.ComponentID)
		if err != nil {
			return err
		}
		if g := led.Group(&variantID); g != nil {
			doomed = g.Pictures
		}
		if err := uc.pictures.DeleteByVariant(ctx, tx, variantID); err != nil {
			return err
		}
		return uc.repo.DeleteVariant(ctx, tx, variantID)
	})
	if err != nil {
		return err
	}

	fctx := context.WithoutCancel(ctx)
	for _, p := range doomed {
		if err := uc.store.Delete(fctx, p.FileName()); err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				uc.logger.Warn("file already absent during variant removal",
					zap.String("variant_id", variantID), zap.String("name", p.FileName()))
				continue
			}
			uc.logger.Error("file deletion failed, orphaned file left in store",
				zap.String("variant_id", variantID), zap.String("name", p.FileName()), zap.Error(err))
		}
	}

	uc.step(v.ComponentID, stateDone)
	uc.invalidateCache(ctx, v.ComponentID)
	uc.publish(ctx, events.VariantRemoved, v.ComponentID)
	return nil
}

func (uc *componentUseCase) UploadPicture(ctx context.Context, input *dto.UploadPictureInput) (*model.Picture, error) {
	unlock := uc.locks.Lock(input.ComponentID)
	defer unlock()

	uc.step(input.ComponentID, stateValidating)
	if input.Data == nil {
		return nil, apperr.Validation("file", "image payload is required")
	}
	ext := normalizeExtension(input.Extension)
	if ext == "" {
		return nil, apperr.Validation("extension", "file extension is required")
	}
	if input.Position < 0 {
		return nil, apperr.Validation("order", "order must be positive")
	}

	c, err := uc.repo.FindByID(ctx, nil, input.ComponentID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "component %s not found", input.ComponentID)
	}
	s, err := uc.resolveSupplier(ctx, nil, c.SupplierID)
	if err != nil {
		return nil, err
	}

	var variantID *string
	color := ""
	if input.VariantID != "" {
		v, err := uc.repo.FindVariantByID(ctx, nil, input.VariantID)
		if err != nil {
			return nil, err
		}
		if v == nil || v.ComponentID != c.ID {
			return nil, apperr.Validation("variant_id", "unknown variant for this component")
		}
		variantID = &v.ID
		color = v.Color
	}

	scope := picture.Scope{ComponentID: c.ID, VariantID: variantID}
	position := input.Position
	if position == 0 {
		max, err := uc.pictures.MaxPosition(ctx, nil, scope)
		if err != nil {
			return nil, err
		}
		position = max + 1
	} else {
		taken, err := uc.pictures.PositionTaken(ctx, nil, scope, position, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Newf(apperr.CodeOrderConflict,
				"order %d is already taken in this scope", position)
		}
	}

	in := rename.InputsOf(c, s)
	base := naming.FileBase(in.SupplierCode, in.ProductNumber, color, position)
	now := time.Now()
	p := &model.Picture{
		ID:          uuid.New().String(),
		ComponentID: c.ID,
		VariantID:   variantID,
		BaseName:    base,
		Extension:   ext,
		Position:    position,
		URL:         uc.store.URL(base + ext),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	jrnl := newJournal(uc.store)
	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		uc.step(c.ID, stateRelationalWrite)
		if err := uc.pictures.Insert(ctx, tx, p); err != nil {
			return err
		}
		uc.step(c.ID, stateStaging)
		url, err := uc.store.Upload(ctx, p.FileName(), input.Data)
		if err != nil {
			return err
		}
		jrnl.recordUpload(p.FileName())
		p.URL = url
		return nil
	})
	if err != nil {
		return nil, uc.rollback(ctx, c.ID, jrnl, err)
	}

	uc.step(c.ID, stateDone)
	uc.invalidateCache(ctx, c.ID)
	uc.publish(ctx, events.PictureUploaded, c.ID)
	return p, nil
}

func (uc *componentUseCase) DeletePicture(ctx context.Context, pictureID string) error {
	p, err := uc.pictures.FindByID(ctx, nil, pictureID)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	unlock := uc.locks.Lock(p.ComponentID)
	defer unlock()

	// The first read ran without the component lock, so a concurrent rename
	// may have changed the file name in between. Re-read under the lock.
	p, err = uc.pictures.FindByID(ctx, nil, pictureID)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		uc.step(p.ComponentID, stateRelationalWrite)
		return uc.pictures.DeleteByID(ctx, tx, pictureID)
	})
	if err != nil {
		return err
	}

	if err := uc.store.Delete(context.WithoutCancel(ctx), p.FileName()); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			uc.logger.Warn("file already absent during picture deletion",
				zap.String("picture_id", pictureID), zap.String("name", p.FileName()))
		} else {
			uc.logger.Error("file deletion failed, orphaned file left in store",
				zap.String("picture_id", pictureID), zap.String("name", p.FileName()), zap.Error(err))
		}
	}

	uc.invalidateCache(ctx, p.ComponentID)
	uc.publish(ctx, events.PictureDeleted, p.ComponentID)
	return nil
}

// ReorderPictures applies a batch of position changes within one scope. Row
// positions are parked out of range first so the batch cannot trip the
// uniqueness constraint mid-flight; file renames go through the same
// stage/commit machinery as a product-number change.
func (uc *componentUseCase) ReorderPictures(ctx context.Context, input *dto.ReorderPicturesInput) error {
	unlock := uc.locks.Lock(input.ComponentID)
	defer unlock()

	uc.step(input.ComponentID, stateValidating)
	c, err := uc.repo.FindByID(ctx, nil, input.ComponentID)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.Newf(apperr.CodeNotFound, "component %s not found", input.ComponentID)
	}
	s, err := uc.resolveSupplier(ctx, nil, c.SupplierID)
	if err != nil {
		return err
	}

	var variantID *string
	if input.VariantID != "" {
		id := input.VariantID
		variantID = &id
	}

	jrnl := newJournal(uc.store)
	err = uc.tx.RunInTx(ctx, func(tx sqlx.ExtContext) error {
		led, err := uc.loadLedger(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		g := led.Group(variantID)
		if g == nil {
			return apperr.Validation("variant_id", "unknown variant for this component")
		}

		inGroup := map[string]int{}
		for _, p := range g.Pictures {
			inGroup[p.ID] = p.Position
		}

		final := map[string]int{}
		for id, pos := range inGroup {
			final[id] = pos
		}
		requested := map[string]int{}
		for _, pp := range input.Positions {
			if _, ok := inGroup[pp.PictureID]; !ok {
				return apperr.Validation("picture_id", "picture does not belong to this scope")
			}
			if pp.Position < 1 {
				return apperr.Validation("order", "order must be positive")
			}
			requested[pp.PictureID] = pp.Position
			final[pp.PictureID] = pp.Position
		}
		held := map[int]string{}
		for id, pos := range final {
			if other, dup := held[pos]; dup {
				return apperr.Newf(apperr.CodeOrderConflict,
					"pictures %s and %s would share order %d", other, id, pos)
			}
			held[pos] = id
		}

		uc.step(c.ID, stateRelationalWrite)
		var changed []string
		for id, pos := range requested {
			if inGroup[id] != pos {
				changed = append(changed, id)
			}
		}
		if len(changed) == 0 {
			return nil
		}
		if err := uc.pictures.ParkPositions(ctx, tx, changed); err != nil {
			return err
		}
		for _, id := range changed {
			if err := uc.pictures.SetPosition(ctx, tx, id, requested[id]); err != nil {
				return err
			}
		}

		plan := rename.PlanReorder(g, rename.InputsOf(c, s), requested)
		if len(plan) == 0 {
			return nil
		}
		if err := uc.applySequence(ctx, c.ID, jrnl, rename.Sequenced(plan)); err != nil {
			return err
		}
		for _, op := range plan {
			if err := uc.pictures.UpdateNameURL(ctx, tx, op.PictureID, op.NewBase, uc.store.URL(op.NewName)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uc.rollback(ctx, c.ID, jrnl, err)
	}

	uc.step(c.ID, stateDone)
	uc.invalidateCache(ctx, c.ID)
	uc.publish(ctx, events.PicturesReordered, c.ID)
	return nil
}

// deriveSKU builds the variant SKU the way the legacy schema trigger did:
// supplier code, product number and color uppercased and joined with dashes.
func deriveSKU(s *model.Supplier, c *model.Component, color string) string {
	segments := []string{}
	if s != nil {
		segments = append(segments, naming.Normalize(s.Code))
	}
	segments = append(segments, naming.Normalize(c.ProductNumber), naming.Normalize(color))
	return strings.ToUpper(strings.Join(segments, "-"))
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
