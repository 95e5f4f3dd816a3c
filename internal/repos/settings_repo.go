package repos

import (
	"fmt"
	"sort"

	"shopdash/internal/domain"

	"github.com/jmoiron/sqlx"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// List returns all settings, or those of one category when category != "".
func (r *SettingsRepo) List(category string) ([]domain.Setting, error) {
	query := `SELECT category, settings_key, settings_value, updated_at FROM system_settings`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY category, settings_key`
	out := []domain.Setting{}
	err := r.db.Select(&out, r.db.Rebind(query), args...)
	return out, err
}

// Upsert writes every key of values under category in one transaction.
// Either all keys are stored or none is.
func (r *SettingsRepo) Upsert(category string, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt := tx.Rebind(`
		INSERT INTO system_settings(category, settings_key, settings_value)
		VALUES(?, ?, ?)
		ON CONFLICT(category, settings_key) DO UPDATE SET
		  settings_value = excluded.settings_value,
		  updated_at = CURRENT_TIMESTAMP
	`)
	for _, k := range keys {
		if _, err := tx.Exec(stmt, category, k, values[k]); err != nil {
			return fmt.Errorf("upsert %s.%s: %w", category, k, err)
		}
	}
	return tx.Commit()
}
