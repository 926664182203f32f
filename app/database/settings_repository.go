package database

import (
	"fmt"

	"github.com/lib/pq"
)

type settingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetAutoDraftSettings reads the persisted auto-draft configuration document.
// It is re-read at the start of every scheduled invocation, never cached.
func (r *settingsRepository) GetAutoDraftSettings() (*AutoDraftSettings, error) {
	var settings AutoDraftSettings

	err := r.db.QueryRow(`
		SELECT enabled, engagement_threshold, categories, updated_by
		FROM settings
		WHERE key = 'autodraft'
	`).Scan(&settings.Enabled, &settings.EngagementThreshold,
		pq.Array(&settings.Categories), &settings.UpdatedBy)

	if err != nil {
		return nil, fmt.Errorf("failed to get auto-draft settings: %w", err)
	}

	return &settings, nil
}

func (r *settingsRepository) UpdateAutoDraftSettings(settings AutoDraftSettings, actor string) error {
	_, err := r.db.Exec(`
		UPDATE settings SET
			enabled = $1,
			engagement_threshold = $2,
			categories = $3,
			updated_by = $4,
			updated_at = NOW()
		WHERE key = 'autodraft'
	`, settings.Enabled, settings.EngagementThreshold,
		pq.Array(settings.Categories), actor)

	if err != nil {
		return fmt.Errorf("failed to update auto-draft settings: %w", err)
	}

	return nil
}
