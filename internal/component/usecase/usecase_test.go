package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/component"
	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/filestore"
	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/pkg/logger"
)

type harness struct {
	t     *testing.T
	db    *fakeDB
	tx    *fakeTx
	store *filestore.Memory
	uc    component.UseCase

	seq int // monotonic creation clock for deterministic variant order
}

func newHarness(t *testing.T) *harness {
	db := newFakeDB()
	tx := &fakeTx{db: db}
	store := filestore.NewMemory()
	uc := NewComponentUseCase(
		&fakeComponents{db}, &fakePictures{db}, &fakeSuppliers{db}, &fakeAssocs{db},
		store, tx, nil, nil, logger.NewNop(),
	)
	return &harness{t: t, db: db, tx: tx, store: store, uc: uc}
}

func (h *harness) tick() time.Time {
	h.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(h.seq) * time.Second)
}

func (h *harness) seedSupplier(code string) string {
	id := uuid.New().String()
	now := h.tick()
	h.db.suppliers[id] = model.Supplier{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:      strings.ToUpper(code),
		Code:      code,
	}
	return id
}

func (h *harness) seedComponent(supplierID *string, productNumber string) string {
	id := uuid.New().String()
	now := h.tick()
	h.db.components[id] = model.Component{
		BaseModel:     model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		SupplierID:    supplierID,
		ProductNumber: productNumber,
		Name:          "part " + productNumber,
	}
	return id
}

func (h *harness) seedVariant(componentID, color string) string {
	id := uuid.New().String()
	now := h.tick()
	h.db.variants[id] = model.Variant{
		BaseModel:   model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		ComponentID: componentID,
		Color:       color,
	}
	return id
}

// seedPicture creates the row and the matching store object.
func (h *harness) seedPicture(componentID string, variantID *string, position int, baseName string) string {
	id := uuid.New().String()
	now := h.tick()
	h.db.pictures[id] = model.Picture{
		ID:          id,
		ComponentID: componentID,
		VariantID:   variantID,
		BaseName:    baseName,
		Extension:   ".jpg",
		Position:    position,
		URL:         h.store.URL(baseName + ".jpg"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	h.store.Put(baseName+".jpg", []byte(baseName))
	return id
}

func (h *harness) updateInput(componentID string) *dto.UpdateComponentInput {
	c := h.db.components[componentID]
	in := &dto.UpdateComponentInput{
		ID:            componentID,
		ProductNumber: c.ProductNumber,
		Name:          c.Name,
	}
	if c.SupplierID != nil {
		in.SupplierID = *c.SupplierID
	}
	return in
}

func TestUpdateComponentRenamesPictureFiles(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	picID := h.seedPicture(compID, nil, 1, "sup_abc-1_1")

	in := h.updateInput(compID)
	in.ProductNumber = "abc-2"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"sup_abc-2_1.jpg"}, h.store.Names())
	p := h.db.pictures[picID]
	assert.Equal(t, "sup_abc-2_1", p.BaseName)
	assert.Equal(t, "mem://sup_abc-2_1.jpg", p.URL)
	assert.Equal(t, "abc-2", h.db.components[compID].ProductNumber)
}

func TestUpdateComponentRenameCascadesAcrossVariants(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	varID := h.seedVariant(compID, "Blue")
	h.seedPicture(compID, nil, 1, "sup_abc-1_1")
	h.seedPicture(compID, &varID, 1, "sup_abc-1_blue_1")
	h.seedPicture(compID, &varID, 2, "sup_abc-1_blue_2")

	in := h.updateInput(compID)
	in.ProductNumber = "abc-2"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"sup_abc-2_1.jpg", "sup_abc-2_blue_1.jpg", "sup_abc-2_blue_2.jpg"},
		h.store.Names())
	for _, p := range h.db.pictures {
		assert.Contains(t, p.BaseName, "abc-2")
	}
}

func TestUpdateComponentSupplierChangeRenames(t *testing.T) {
	h := newHarness(t)
	oldSup := h.seedSupplier("sup")
	newSup := h.seedSupplier("acme")
	compID := h.seedComponent(&oldSup, "abc-1")
	h.seedPicture(compID, nil, 1, "sup_abc-1_1")

	in := h.updateInput(compID)
	in.SupplierID = newSup
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"acme_abc-1_1.jpg"}, h.store.Names())
}

func TestUpdateComponentUnchangedInputsTouchNoFiles(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	h.seedPicture(compID, nil, 1, "sup_abc-1_1")

	h.store.Hook = func(op filestore.Op, name string) error {
		if op == filestore.OpMove {
			t.Fatalf("unexpected move of %s", name)
		}
		return nil
	}

	in := h.updateInput(compID)
	in.Name = "renamed in the catalog only"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"sup_abc-1_1.jpg"}, h.store.Names())
	assert.Equal(t, "renamed in the catalog only", h.db.components[compID].Name)
}

func TestUpdateComponentRollsBackOnCommitMoveFailure(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	varID := h.seedVariant(compID, "Blue")
	picID := h.seedPicture(compID, nil, 1, "sup_abc-1_1")
	h.seedPicture(compID, &varID, 1, "sup_abc-1_blue_1")

	// Fail the first move out of a staging name, then allow the journal to
	// revert.
	failed := false
	h.store.Hook = func(op filestore.Op, name string) error {
		if op == filestore.OpMove && strings.HasPrefix(name, "staging-") && !failed {
			failed = true
			return apperr.New(apperr.CodeStorageUnavailable, "injected outage")
		}
		return nil
	}

	in := h.updateInput(compID)
	in.ProductNumber = "abc-2"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeStorageUnavailable))

	assert.Equal(t, []string{"sup_abc-1_1.jpg", "sup_abc-1_blue_1.jpg"}, h.store.Names())
	assert.Equal(t, "abc-1", h.db.components[compID].ProductNumber)
	assert.Equal(t, "sup_abc-1_1", h.db.pictures[picID].BaseName)
}

func TestUpdateComponentSurfacesRollbackFailure(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	h.seedPicture(compID, nil, 1, "sup_abc-1_1")

	// Every move touching a staging name fails: the commit phase fails and
	// the reverting move fails too.
	h.store.Hook = func(op filestore.Op, name string) error {
		if op == filestore.OpMove && strings.HasPrefix(name, "staging-") {
			return apperr.New(apperr.CodeStorageUnavailable, "injected outage")
		}
		return nil
	}

	in := h.updateInput(compID)
	in.ProductNumber = "abc-2"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeRollbackFailure))

	// Rows are rolled back by the transaction even though the store is stuck.
	assert.Equal(t, "abc-1", h.db.components[compID].ProductNumber)
}

func TestUpdateComponentDuplicateProductNumberRejected(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	h.seedComponent(&supID, "abc-1")
	otherID := h.seedComponent(&supID, "abc-2")

	in := h.updateInput(otherID)
	in.ProductNumber = "abc-1"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeDuplicate))
	assert.Equal(t, "abc-2", h.db.components[otherID].ProductNumber)
}

func TestUpdateComponentUnknownIDRejected(t *testing.T) {
	h := newHarness(t)
	in := &dto.UpdateComponentInput{ID: uuid.New().String(), ProductNumber: "x"}
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestRecolorVariantsSwapsColors(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "100")
	redID := h.seedVariant(compID, "Red")
	blueID := h.seedVariant(compID, "Blue")
	redPic := h.seedPicture(compID, &redID, 1, "100_red_1")
	bluePic := h.seedPicture(compID, &blueID, 1, "100_blue_1")

	err := h.uc.RecolorVariants(context.Background(), &dto.RecolorVariantsInput{
		ComponentID: compID,
		Colors:      map[string]string{redID: "Blue", blueID: "Red"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Blue", h.db.variants[redID].Color)
	assert.Equal(t, "Red", h.db.variants[blueID].Color)
	assert.Equal(t, "100_blue_1", h.db.pictures[redPic].BaseName)
	assert.Equal(t, "100_red_1", h.db.pictures[bluePic].BaseName)
	assert.Equal(t, []string{"100_blue_1.jpg", "100_red_1.jpg"}, h.store.Names())
}

func TestRecolorVariantsDuplicateFinalColorRejected(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "100")
	redID := h.seedVariant(compID, "Red")
	h.seedVariant(compID, "Blue")

	err := h.uc.RecolorVariants(context.Background(), &dto.RecolorVariantsInput{
		ComponentID: compID,
		Colors:      map[string]string{redID: "Blue"},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeDuplicate))
	assert.Equal(t, "Red", h.db.variants[redID].Color)
}

func TestDeleteComponentCascades(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("acme")
	compID := h.seedComponent(&supID, "x9")
	redID := h.seedVariant(compID, "Red")
	blueID := h.seedVariant(compID, "Blue")
	for i := 1; i <= 3; i++ {
		h.seedPicture(compID, nil, i, "acme_x9_"+string(rune('0'+i)))
	}
	h.seedPicture(compID, &redID, 1, "acme_x9_red_1")
	h.seedPicture(compID, &redID, 2, "acme_x9_red_2")
	h.seedPicture(compID, &blueID, 1, "acme_x9_blue_1")
	h.seedPicture(compID, &blueID, 2, "acme_x9_blue_2")

	require.NoError(t, h.uc.DeleteComponent(context.Background(), compID))

	assert.Empty(t, h.store.Names())
	assert.Empty(t, h.db.pictures)
	assert.Empty(t, h.db.variants)
	assert.Empty(t, h.db.components)
}

func TestDeleteComponentToleratesMissingFile(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "x9")
	h.seedPicture(compID, nil, 1, "x9_1")
	picID := h.seedPicture(compID, nil, 2, "x9_2")

	// The second file vanished out from under the ledger.
	gone := h.db.pictures[picID]
	require.NoError(t, h.store.Delete(context.Background(), gone.FileName()))

	require.NoError(t, h.uc.DeleteComponent(context.Background(), compID))
	assert.Empty(t, h.store.Names())
	assert.Empty(t, h.db.components)
}

func TestDeleteComponentAlreadyGoneIsNoop(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.uc.DeleteComponent(context.Background(), uuid.New().String()))
}

func TestAddVariantDerivesSKU(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")

	v, err := h.uc.AddVariant(context.Background(), &dto.AddVariantInput{
		ComponentID: compID, Color: "Racing Green",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP-ABC-1-RACING_GREEN", v.SKU)
	assert.Equal(t, "Racing Green", h.db.variants[v.ID].Color)
}

func TestAddVariantDuplicateColorRejected(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "abc-1")
	h.seedVariant(compID, "Red")

	_, err := h.uc.AddVariant(context.Background(), &dto.AddVariantInput{
		ComponentID: compID, Color: "Red",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeDuplicate))
}

func TestRemoveVariantDeletesItsPictures(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "abc-1")
	redID := h.seedVariant(compID, "Red")
	h.seedVariant(compID, "Blue")
	h.seedPicture(compID, nil, 1, "abc-1_1")
	h.seedPicture(compID, &redID, 1, "abc-1_red_1")

	require.NoError(t, h.uc.RemoveVariant(context.Background(), redID))

	assert.Equal(t, []string{"abc-1_1.jpg"}, h.store.Names())
	assert.NotContains(t, h.db.variants, redID)
	for _, p := range h.db.pictures {
		assert.Nil(t, p.VariantID)
	}
}

func TestUploadPictureAppendsAfterHighestOrder(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	h.seedPicture(compID, nil, 1, "sup_abc-1_1")

	p, err := h.uc.UploadPicture(context.Background(), &dto.UploadPictureInput{
		ComponentID: compID,
		Extension:   "jpg",
		Data:        strings.NewReader("payload"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Position)
	assert.Equal(t, "sup_abc-1_2", p.BaseName)
	assert.Equal(t, "mem://sup_abc-1_2.jpg", p.URL)
	assert.Equal(t, []string{"sup_abc-1_1.jpg", "sup_abc-1_2.jpg"}, h.store.Names())
}

func TestUploadPictureTakenOrderRejected(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "abc-1")
	h.seedPicture(compID, nil, 1, "abc-1_1")

	_, err := h.uc.UploadPicture(context.Background(), &dto.UploadPictureInput{
		ComponentID: compID,
		Position:    1,
		Extension:   ".jpg",
		Data:        strings.NewReader("payload"),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeOrderConflict))
	assert.Len(t, h.db.pictures, 1)
}

func TestUploadPictureRollsBackRowOnStoreFailure(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "abc-1")

	h.store.Hook = func(op filestore.Op, name string) error {
		if op == filestore.OpUpload {
			return apperr.New(apperr.CodeStorageUnavailable, "injected outage")
		}
		return nil
	}

	_, err := h.uc.UploadPicture(context.Background(), &dto.UploadPictureInput{
		ComponentID: compID,
		Extension:   ".jpg",
		Data:        strings.NewReader("payload"),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeStorageUnavailable))
	assert.Empty(t, h.db.pictures)
	assert.Empty(t, h.store.Names())
}

func TestUploadPictureDeletesFileWhenCommitFails(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "abc-1")
	h.tx.commitErr = errors.New("injected commit failure")

	_, err := h.uc.UploadPicture(context.Background(), &dto.UploadPictureInput{
		ComponentID: compID,
		Extension:   ".jpg",
		Data:        strings.NewReader("payload"),
	})
	require.Error(t, err)
	assert.Empty(t, h.db.pictures)
	assert.Empty(t, h.store.Names())
}

func TestDeletePictureToleratesMissingFile(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "abc-1")
	picID := h.seedPicture(compID, nil, 1, "abc-1_1")
	require.NoError(t, h.store.Delete(context.Background(), "abc-1_1.jpg"))

	require.NoError(t, h.uc.DeletePicture(context.Background(), picID))
	assert.Empty(t, h.db.pictures)
}

// slowReadPictures returns a stale row from its first FindByID: it reads the
// value, then lets hook mutate the database before handing the copy back. This
// models another request sneaking in between the read and the component lock.
type slowReadPictures struct {
	*fakePictures
	hook func()
}

func (r *slowReadPictures) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Picture, error) {
	p, err := r.fakePictures.FindByID(ctx, q, id)
	if r.hook != nil {
		fire := r.hook
		r.hook = nil
		fire()
	}
	return p, err
}

func TestDeletePictureAfterConcurrentRename(t *testing.T) {
	db := newFakeDB()
	tx := &fakeTx{db: db}
	store := filestore.NewMemory()
	pics := &slowReadPictures{fakePictures: &fakePictures{db}}
	uc := NewComponentUseCase(
		&fakeComponents{db}, pics, &fakeSuppliers{db}, &fakeAssocs{db},
		store, tx, nil, nil, logger.NewNop(),
	)
	h := &harness{t: t, db: db, tx: tx, store: store, uc: uc}

	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	picID := h.seedPicture(compID, nil, 1, "sup_abc-1_1")

	// A product-number change lands between the row read and the lock, so the
	// name the first read saw no longer exists in the store.
	pics.hook = func() {
		in := h.updateInput(compID)
		in.ProductNumber = "abc-2"
		_, err := h.uc.UpdateComponent(context.Background(), in)
		require.NoError(t, err)
	}

	require.NoError(t, h.uc.DeletePicture(context.Background(), picID))

	assert.Empty(t, h.store.Names())
	assert.NotContains(t, h.db.pictures, picID)
}

func TestReorderPicturesSwapsNamesAndRows(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "m1")
	p1 := h.seedPicture(compID, nil, 1, "m1_1")
	p2 := h.seedPicture(compID, nil, 2, "m1_2")
	h.seedPicture(compID, nil, 3, "m1_3")

	err := h.uc.ReorderPictures(context.Background(), &dto.ReorderPicturesInput{
		ComponentID: compID,
		Positions: []dto.PicturePosition{
			{PictureID: p1, Position: 2},
			{PictureID: p2, Position: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, h.db.pictures[p1].Position)
	assert.Equal(t, "m1_2", h.db.pictures[p1].BaseName)
	assert.Equal(t, 1, h.db.pictures[p2].Position)
	assert.Equal(t, "m1_1", h.db.pictures[p2].BaseName)
	assert.Equal(t, []string{"m1_1.jpg", "m1_2.jpg", "m1_3.jpg"}, h.store.Names())
}

func TestReorderPicturesFinalOrderConflictRejected(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "m1")
	p1 := h.seedPicture(compID, nil, 1, "m1_1")
	h.seedPicture(compID, nil, 3, "m1_3")

	err := h.uc.ReorderPictures(context.Background(), &dto.ReorderPicturesInput{
		ComponentID: compID,
		Positions:   []dto.PicturePosition{{PictureID: p1, Position: 3}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeOrderConflict))
	assert.Equal(t, 1, h.db.pictures[p1].Position)
}

func TestReorderPicturesForeignPictureRejected(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "m1")
	otherID := h.seedComponent(nil, "m2")
	foreign := h.seedPicture(otherID, nil, 1, "m2_1")

	err := h.uc.ReorderPictures(context.Background(), &dto.ReorderPicturesInput{
		ComponentID: compID,
		Positions:   []dto.PicturePosition{{PictureID: foreign, Position: 2}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestCreateComponentDuplicateProductNumberRejected(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	h.seedComponent(&supID, "abc-1")

	_, err := h.uc.CreateComponent(context.Background(), &dto.CreateComponentInput{
		SupplierID:    supID,
		ProductNumber: "abc-1",
		Name:          "duplicate",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeDuplicate))
}

func TestCreateComponentSameNumberDifferentSupplierAllowed(t *testing.T) {
	h := newHarness(t)
	supA := h.seedSupplier("sup")
	supB := h.seedSupplier("acme")
	h.seedComponent(&supA, "abc-1")

	c, err := h.uc.CreateComponent(context.Background(), &dto.CreateComponentInput{
		SupplierID:    supB,
		ProductNumber: "abc-1",
		Name:          "same number, other supplier",
	})
	require.NoError(t, err)
	assert.Contains(t, h.db.components, c.ID)
}

func TestGetComponentAssemblesGroups(t *testing.T) {
	h := newHarness(t)
	supID := h.seedSupplier("sup")
	compID := h.seedComponent(&supID, "abc-1")
	varID := h.seedVariant(compID, "Blue")
	h.seedPicture(compID, nil, 1, "sup_abc-1_1")
	h.seedPicture(compID, &varID, 1, "sup_abc-1_blue_1")

	c, err := h.uc.GetComponent(context.Background(), compID)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, c.Supplier)
	assert.Equal(t, "sup", c.Supplier.Code)
	require.Len(t, c.Pictures, 1)
	assert.Equal(t, "sup_abc-1_1", c.Pictures[0].BaseName)
	require.Len(t, c.Variants, 1)
	require.Len(t, c.Variants[0].Pictures, 1)
	assert.Equal(t, "sup_abc-1_blue_1", c.Variants[0].Pictures[0].BaseName)
}

func TestInvalidationBlocksStaleCacheWrite(t *testing.T) {
	h := newHarness(t)
	compID := h.seedComponent(nil, "x9")
	impl := h.uc.(*componentUseCase)

	readStart := time.Now().Add(-time.Second)
	assert.True(t, impl.freshSince(compID, readStart), "no invalidation recorded yet")

	// A mutation stamps the epoch even with no cache wired, so a read that
	// began before the rename cannot push pre-rename rows back in.
	in := h.updateInput(compID)
	in.ProductNumber = "x10"
	_, err := h.uc.UpdateComponent(context.Background(), in)
	require.NoError(t, err)

	assert.False(t, impl.freshSince(compID, readStart))
	assert.True(t, impl.freshSince(compID, time.Now().Add(time.Second)))
}
