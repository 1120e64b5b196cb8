package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/internal/picture"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// ext returns the executor to use: the supplied transaction, or the pool.
func (r *PGRepository) ext(q sqlx.ExtContext) sqlx.ExtContext {
	if q != nil {
		return q
	}
	return r.DB
}

func (r *PGRepository) ListByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) ([]model.Picture, error) {
	var pictures []model.Picture
	query := `
        SELECT * FROM pictures
        WHERE component_id = $1
        ORDER BY variant_id NULLS FIRST, position
    `
	err := sqlx.SelectContext(ctx, r.ext(q), &pictures, query, componentID)
	if err != nil {
		return nil, err
	}
	return pictures, nil
}

func (r *PGRepository) Insert(ctx context.Context, q sqlx.ExtContext, p *model.Picture) error {
	query := `
        INSERT INTO pictures (
            id, component_id, variant_id, base_name, extension, position, url,
            created_at, updated_at
        )
        VALUES (
            :id, :component_id, :variant_id, :base_name, :extension, :position, :url,
            :created_at, :updated_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, r.ext(q), query, p)
	return err
}

func (r *PGRepository) UpdateNameURL(ctx context.Context, q sqlx.ExtContext, id, baseName, url string) error {
	query := `UPDATE pictures SET base_name = $1, url = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.ext(q).ExecContext(ctx, query, baseName, url, id)
	return err
}

func (r *PGRepository) SetPosition(ctx context.Context, q sqlx.ExtContext, id string, position int) error {
	query := `UPDATE pictures SET position = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.ext(q).ExecContext(ctx, query, position, id)
	return err
}

func (r *PGRepository) ParkPositions(ctx context.Context, q sqlx.ExtContext, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	// Negative positions are never assigned for real, so parking there cannot
	// collide with any live row.
	query, args, err := sqlx.In(`UPDATE pictures SET position = -position - 1 WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	ext := r.ext(q)
	_, err = ext.ExecContext(ctx, ext.Rebind(query), args...)
	return err
}

func (r *PGRepository) DeleteByID(ctx context.Context, q sqlx.ExtContext, id string) error {
	_, err := r.ext(q).ExecContext(ctx, `DELETE FROM pictures WHERE id = $1`, id)
	return err
}

func (r *PGRepository) DeleteByVariant(ctx context.Context, q sqlx.ExtContext, variantID string) error {
	_, err := r.ext(q).ExecContext(ctx, `DELETE FROM pictures WHERE variant_id = $1`, variantID)
	return err
}

func (r *PGRepository) DeleteByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) error {
	_, err := r.ext(q).ExecContext(ctx, `DELETE FROM pictures WHERE component_id = $1`, componentID)
	return err
}

func (r *PGRepository) MaxPosition(ctx context.Context, q sqlx.ExtContext, scope picture.Scope) (int, error) {
	var max sql.NullInt64
	var err error
	if scope.VariantID == nil {
		query := `SELECT MAX(position) FROM pictures WHERE component_id = $1 AND variant_id IS NULL`
		err = sqlx.GetContext(ctx, r.ext(q), &max, query, scope.ComponentID)
	} else {
		query := `SELECT MAX(position) FROM pictures WHERE variant_id = $1`
		err = sqlx.GetContext(ctx, r.ext(q), &max, query, *scope.VariantID)
	}
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

func (r *PGRepository) PositionTaken(ctx context.Context, q sqlx.ExtContext, scope picture.Scope, position int, excludeID string) (bool, error) {
	var count int
	var err error
	if scope.VariantID == nil {
		query := `
            SELECT count(*) FROM pictures
            WHERE component_id = $1 AND variant_id IS NULL AND position = $2 AND id != $3
        `
		err = sqlx.GetContext(ctx, r.ext(q), &count, query, scope.ComponentID, position, excludeID)
	} else {
		query := `SELECT count(*) FROM pictures WHERE variant_id = $1 AND position = $2 AND id != $3`
		err = sqlx.GetContext(ctx, r.ext(q), &count, query, *scope.VariantID, position, excludeID)
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Picture, error) {
	var p model.Picture
	err := sqlx.GetContext(ctx, r.ext(q), &p, `SELECT * FROM pictures WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
