package repos

import (
	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) ListActive() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
		SELECT id, name, is_active
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) Create(name string, active bool) (int64, error) {
	var id int64
	err := r.db.Get(&id, r.db.Rebind(`INSERT INTO categories(name,is_active) VALUES(?,?) RETURNING id`), name, active)
	return id, err
}

func (r *CategoryRepo) Exists(id int64) (bool, error) {
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM categories WHERE id = ?`), id)
	return n > 0, err
}
