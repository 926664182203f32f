package database

import (
	"database/sql"
	"fmt"
	"time"
)

type categoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// UpsertCategory syncs one category's configuration into the database without
// disturbing its fetch-state timestamps.
func (r *categoryRepository) UpsertCategory(name string, enabled bool, refreshInterval int) error {
	_, err := r.db.Exec(`
		INSERT INTO categories (name, enabled, refresh_interval)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			refresh_interval = EXCLUDED.refresh_interval,
			updated_at = NOW()
	`, name, enabled, refreshInterval)

	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetCategory(name string) (*CategoryState, error) {
	var state CategoryState

	err := r.db.QueryRow(`
		SELECT name, enabled, refresh_interval, last_fetched_at, next_fetch_at,
		       created_at, updated_at
		FROM categories
		WHERE name = $1
	`, name).Scan(
		&state.Name, &state.Enabled, &state.RefreshInterval,
		&state.LastFetchedAt, &state.NextFetchAt,
		&state.CreatedAt, &state.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &state, nil
}

func (r *categoryRepository) GetCategoryCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get category count: %w", err)
	}
	return count, nil
}

func (r *categoryRepository) UpdateFetchState(name string, lastFetched, nextFetch time.Time) error {
	_, err := r.db.Exec(`
		UPDATE categories
		SET last_fetched_at = $2, next_fetch_at = $3, updated_at = NOW()
		WHERE name = $1
	`, name, lastFetched, nextFetch)

	if err != nil {
		return fmt.Errorf("failed to update category fetch state: %w", err)
	}

	return nil
}
