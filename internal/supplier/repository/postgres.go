package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

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

func (r *PGRepository) Create(ctx context.Context, q sqlx.ExtContext, s *model.Supplier) error {
	query := `
        INSERT INTO suppliers (id, name, code, created_at, updated_at)
        VALUES (:id, :name, :code, :created_at, :updated_at)
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Supplier, error) {
	var s model.Supplier
	err := sqlx.GetContext(ctx, r.ext(q), &s, `SELECT * FROM suppliers WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, q sqlx.ExtContext) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := sqlx.SelectContext(ctx, r.ext(q), &suppliers, `SELECT * FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *PGRepository) Update(ctx context.Context, q sqlx.ExtContext, s *model.Supplier) error {
	query := `
        UPDATE suppliers
        SET name = :name, code = :code, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, s)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, q sqlx.ExtContext, id string) error {
	_, err := r.ext(q).ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, q sqlx.ExtContext, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM suppliers WHERE code = $1`
	args := []interface{}{code}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	err := sqlx.GetContext(ctx, r.ext(q), &count, query, args...)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) ComponentCount(ctx context.Context, q sqlx.ExtContext, supplierID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.ext(q), &count,
		`SELECT count(*) FROM components WHERE supplier_id = $1`, supplierID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
