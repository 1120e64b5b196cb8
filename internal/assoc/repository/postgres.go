package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/arnvold/parts-catalog-service/internal/assoc"
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

func (r *PGRepository) Replace(ctx context.Context, q sqlx.ExtContext, componentID string, kind assoc.Kind, ids []string) error {
	ext := r.ext(q)

	_, err := ext.ExecContext(ctx,
		`DELETE FROM component_associations WHERE component_id = $1 AND kind = $2`,
		componentID, string(kind))
	if err != nil {
		return err
	}

	for _, id := range ids {
		_, err := ext.ExecContext(ctx,
			`INSERT INTO component_associations (component_id, kind, ref_id) VALUES ($1, $2, $3)`,
			componentID, string(kind), id)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) DeleteByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) error {
	_, err := r.ext(q).ExecContext(ctx,
		`DELETE FROM component_associations WHERE component_id = $1`, componentID)
	return err
}

func (r *PGRepository) ListByComponent(ctx context.Context, q sqlx.ExtContext, componentID string) (map[assoc.Kind][]string, error) {
	rows, err := r.ext(q).QueryxContext(ctx,
		`SELECT kind, ref_id FROM component_associations WHERE component_id = $1 ORDER BY kind, ref_id`,
		componentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[assoc.Kind][]string{}
	for rows.Next() {
		var kind, refID string
		if err := rows.Scan(&kind, &refID); err != nil {
			return nil, err
		}
		out[assoc.Kind(kind)] = append(out[assoc.Kind(kind)], refID)
	}
	return out, rows.Err()
}
