package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ext(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.DB
}

func (r *PGRepository) Create(ctx context.Context, q sqlx.ExtContext, c *model.Component) error {
	query := `
        INSERT INTO components (
            id, supplier_id, product_number, name, description, properties,
            created_at, updated_at
        )
        VALUES (
            :id, :supplier_id, :product_number, :name, :description, :properties,
            :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Component, error) {
	var c model.Component
	err := sqlx.GetContext(ctx, r.ext(q), &c, `SELECT * FROM components WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, q sqlx.ExtContext, f *dto.ComponentFilters) ([]model.Component, int, error) {
	var components []model.Component
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.ProductNumber != "" {
		conditions = append(conditions, "product_number = :product_number")
		args["product_number"] = f.ProductNumber
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM components" + whereClause
	rows, err := sqlx.NamedQueryContext(ctx, r.ext(q), countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM components" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listRows, err := sqlx.NamedQueryContext(ctx, r.ext(q), query, args)
	if err != nil {
		return nil, 0, err
	}
	defer listRows.Close()
	for listRows.Next() {
		var c model.Component
		if err := listRows.StructScan(&c); err != nil {
			return nil, 0, err
		}
		components = append(components, c)
	}

	return components, count, listRows.Err()
}

func (r *PGRepository) Update(ctx context.Context, q sqlx.ExtContext, c *model.Component) error {
	query := `
        UPDATE components
        SET supplier_id = :supplier_id,
            product_number = :product_number,
            name = :name,
            description = :description,
            properties = :properties,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, q sqlx.ExtContext, id string) error {
	_, err := r.ext(q).ExecContext(ctx, `DELETE FROM components WHERE id = $1`, id)
	return err
}

func (r *PGRepository) IsProductNumberUnique(ctx context.Context, q sqlx.ExtContext, supplierID *string, productNumber, excludeID string) (bool, error) {
	var count int
	var err error
	if supplierID == nil {
		query := `SELECT count(*) FROM components WHERE supplier_id IS NULL AND product_number = $1 AND id != $2`
		err = sqlx.GetContext(ctx, r.ext(q), &count, query, productNumber, excludeID)
	} else {
		query := `SELECT count(*) FROM components WHERE supplier_id = $1 AND product_number = $2 AND id != $3`
		err = sqlx.GetContext(ctx, r.ext(q), &count, query, *supplierID, productNumber, excludeID)
	}
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) InsertVariant(ctx context.Context, q sqlx.ExtContext, v *model.Variant) error {
	query := `
        INSERT INTO variants (id, component_id, color, sku, created_at, updated_at)
        VALUES (:id, :component_id, :color, :sku, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, v)
	return err
}

func (r *PGRepository) UpdateVariant(ctx context.Context, q sqlx.ExtContext, v *model.Variant) error {
	query := `
        UPDATE variants
        SET color = :color, sku = :sku, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, v)
	return err
}

func (r *PGRepository) FindVariantByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Variant, error) {
	var v model.Variant
	err := sqlx.GetContext(ctx, r.ext(q), &v, `SELECT * FROM variants WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListVariants(ctx context.Context, q sqlx.ExtContext, componentID string) ([]model.Variant, error) {
	var variants []model.Variant
	query := `SELECT * FROM variants WHERE component_id = $1 ORDER BY created_at`
	err := sqlx.SelectContext(ctx, r.ext(q), &variants, query, componentID)
	if err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *PGRepository) DeleteVariant(ctx context.Context, q sqlx.ExtContext, id string) error {
	_, err := r.ext(q).ExecContext(ctx, `DELETE FROM variants WHERE id = $1`, id)
	return err
}

func (r *PGRepository) IsColorUnique(ctx context.Context, q sqlx.ExtContext, componentID, color, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM variants WHERE component_id = $1 AND lower(color) = lower($2) AND id != $3`
	err := sqlx.GetContext(ctx, r.ext(q), &count, query, componentID, color, excludeID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
