package usecase

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/assoc"
	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/internal/picture"
)

// fakeDB backs the in-memory repositories. fakeTx snapshots it on entry and
// restores it on failure, giving the tests real rollback semantics without a
// database.
type fakeDB struct {
	components map[string]model.Component
	variants   map[string]model.Variant
	pictures   map[string]model.Picture
	suppliers  map[string]model.Supplier
	assocs     map[string]map[assoc.Kind][]string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		components: map[string]model.Component{},
		variants:   map[string]model.Variant{},
		pictures:   map[string]model.Picture{},
		suppliers:  map[string]model.Supplier{},
		assocs:     map[string]map[assoc.Kind][]string{},
	}
}

func (d *fakeDB) clone() *fakeDB {
	c := newFakeDB()
	for k, v := range d.components {
		c.components[k] = v
	}
	for k, v := range d.variants {
		c.variants[k] = v
	}
	for k, v := range d.pictures {
		c.pictures[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.assocs {
		kinds := map[assoc.Kind][]string{}
		for kind, ids := range v {
			kinds[kind] = append([]string(nil), ids...)
		}
		c.assocs[k] = kinds
	}
	return c
}

func (d *fakeDB) restore(snap *fakeDB) {
	d.components = snap.components
	d.variants = snap.variants
	d.pictures = snap.pictures
	d.suppliers = snap.suppliers
	d.assocs = snap.assocs
}

// fakeTx mimics begin/commit/rollback. commitErr, if set, fails the next
// commit after the function has succeeded.
type fakeTx struct {
	db        *fakeDB
	commitErr error
}

func (t *fakeTx) RunInTx(ctx context.Context, fn func(tx sqlx.ExtContext) error) error {
	snap := t.db.clone()
	if err := fn(nil); err != nil {
		t.db.restore(snap)
		return err
	}
	if t.commitErr != nil {
		err := t.commitErr
		t.commitErr = nil
		t.db.restore(snap)
		return err
	}
	return nil
}

type fakeComponents struct{ db *fakeDB }

func (r *fakeComponents) Create(ctx context.Context, q sqlx.ExtContext, c *model.Component) error {
	r.db.components[c.ID] = *c
	return nil
}

func (r *fakeComponents) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Component, error) {
	c, ok := r.db.components[id]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (r *fakeComponents) FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.ComponentFilters) ([]model.Component, int, error) {
	var out []model.Component
	for _, c := range r.db.components {
		if f.SupplierID != "" && (c.SupplierID == nil || *c.SupplierID != f.SupplierID) {
			continue
		}
		if f.ProductNumber != "" && c.ProductNumber != f.ProductNumber {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *fakeComponents) Update(ctx context.Context, q sqlx.ExtContext, c *model.Component) error {
	r.db.components[c.ID] = *c
	return nil
}

func (r *fakeComponents) Delete(ctx context.Context, q sqlx.ExtContext, id string) error {
	delete(r.db.components, id)
	return nil
}

func (r *fakeComponents) IsProductNumberUnique(ctx context.Context, q sqlx.ExtContext, supplierID *string, productNumber, excludeID string) (bool, error) {
	for _, c := range r.db.components {
		if c.ID == excludeID || c.ProductNumber != productNumber {
			continue
		}
		switch {
		case supplierID == nil && c.SupplierID == nil:
			return false, nil
		case supplierID != nil && c.SupplierID != nil && *supplierID == *c.SupplierID:
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeComponents) InsertVariant(ctx context.Context, q sqlx.ExtContext, v *model.Variant) error {
	r.db.variants[v.ID] = *v
	return nil
}

func (r *fakeComponents) UpdateVariant(ctx context.Context, q sqlx.ExtContext, v *model.Variant) error {
	r.db.variants[v.ID] = *v
	return nil
}

func (r *fakeComponents) FindVariantByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Variant, error) {
	v, ok := r.db.variants[id]
	if !ok {
		return nil, nil
	}
	out := v
	return &out, nil
}

func (r *fakeComponents) ListVariants(ctx context.Context, q sqlx.ExtContext, componentID string) ([]model.Variant, error) {
	var out []model.Variant
	for _, v := range r.db.variants {
		if v.ComponentID == componentID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeComponents) DeleteVariant(ctx context.Context, q sqlx.ExtContext, id string) error {
	delete(r.db.variants, id)
	return nil
}

func (r *fakeComponents) IsColorUnique(ctx context.Context, q sqlx.ExtContext, componentID, color, excludeID string) (bool, error) {
	for _, v := range r.db.variants {
		if v.ComponentID == componentID && v.ID != excludeID && v.Color == color {
			return false, nil
		}
	}
	return true, nil
}

type fakePictures struct{ db *fakeDB }

func (r *fakePictures) ListByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) ([]model.Picture, error) {
	var out []model.Picture
	for _, p := range r.db.pictures {
		if p.ComponentID == componentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePictures) Insert(ctx context.Context, q sqlx.ExtContext, p *model.Picture) error {
	r.db.pictures[p.ID] = *p
	return nil
}

func (r *fakePictures) UpdateNameURL(ctx context.Context, q sqlx.ExtContext, id, baseName, url string) error {
	p := r.db.pictures[id]
	p.BaseName = baseName
	p.URL = url
	r.db.pictures[id] = p
	return nil
}

func (r *fakePictures) SetPosition(ctx context.Context, q sqlx.ExtContext, id string, position int) error {
	p := r.db.pictures[id]
	p.Position = position
	r.db.pictures[id] = p
	return nil
}

func (r *fakePictures) ParkPositions(ctx context.Context, q sqlx.ExtContext, ids []string) error {
	for _, id := range ids {
		p := r.db.pictures[id]
		p.Position = -p.Position - 1
		r.db.pictures[id] = p
	}
	return nil
}

func (r *fakePictures) DeleteByID(ctx context.Context, q sqlx.ExtContext, id string) error {
	delete(r.db.pictures, id)
	return nil
}

func (r *fakePictures) DeleteByVariant(ctx context.Context, q sqlx.ExtContext, variantID string) error {
	for id, p := range r.db.pictures {
		if p.VariantID != nil && *p.VariantID == variantID {
			delete(r.db.pictures, id)
		}
	}
	return nil
}

func (r *fakePictures) DeleteByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) error {
	for id, p := range r.db.pictures {
		if p.ComponentID == componentID {
			delete(r.db.pictures, id)
		}
	}
	return nil
}

func (r *fakePictures) MaxPosition(ctx context.Context, q sqlx.ExtContext, scope picture.Scope) (int, error) {
	max := 0
	for _, p := range r.db.pictures {
		if !inScope(&p, scope) {
			continue
		}
		if p.Position > max {
			max = p.Position
		}
	}
	return max, nil
}

func (r *fakePictures) PositionTaken(ctx context.Context, q sqlx.ExtContext, scope picture.Scope, position int, excludeID string) (bool, error) {
	for _, p := range r.db.pictures {
		if p.ID != excludeID && inScope(&p, scope) && p.Position == position {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePictures) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Picture, error) {
	p, ok := r.db.pictures[id]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

func inScope(p *model.Picture, scope picture.Scope) bool {
	if p.ComponentID != scope.ComponentID {
		return false
	}
	if scope.VariantID == nil {
		return p.VariantID == nil
	}
	return p.VariantID != nil && *p.VariantID == *scope.VariantID
}

type fakeSuppliers struct{ db *fakeDB }

func (r *fakeSuppliers) Create(ctx context.Context, q sqlx.ExtContext, s *model.Supplier) error {
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r *fakeSuppliers) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Supplier, error) {
	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, nil
	}
	out := s
	return &out, nil
}

func (r *fakeSuppliers) FindAll(ctx context.Context, q sqlx.ExtContext) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.db.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSuppliers) Update(ctx context.Context, q sqlx.ExtContext, s *model.Supplier) error {
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r *fakeSuppliers) Delete(ctx context.Context, q sqlx.ExtContext, id string) error {
	delete(r.db.suppliers, id)
	return nil
}

func (r *fakeSuppliers) IsCodeUnique(ctx context.Context, q sqlx.ExtContext, code, excludeID string) (bool, error) {
	for _, s := range r.db.suppliers {
		if s.ID != excludeID && s.Code == code {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeSuppliers) ComponentCount(ctx context.Context, q sqlx.ExtContext, supplierID string) (int, error) {
	count := 0
	for _, c := range r.db.components {
		if c.SupplierID != nil && *c.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

type fakeAssocs struct{ db *fakeDB }

func (r *fakeAssocs) Replace(ctx context.Context, q sqlx.ExtContext, componentID string, kind assoc.Kind, ids []string) error {
	kinds, ok := r.db.assocs[componentID]
	if !ok {
		kinds = map[assoc.Kind][]string{}
		r.db.assocs[componentID] = kinds
	}
	kinds[kind] = append([]string(nil), ids...)
	return nil
}

func (r *fakeAssocs) DeleteByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) error {
	delete(r.db.assocs, componentID)
	return nil
}

func (r *fakeAssocs) ListByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) (map[assoc.Kind][]string, error) {
	return r.db.assocs[componentID], nil
}
