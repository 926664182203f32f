package database

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

type auditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) AuditRepository {
	return &auditRepository{db: db}
}

// Append writes one audit entry. Audit failures are logged and swallowed;
// the pipeline never fails because the audit sink does.
func (r *auditRepository) Append(action, actor, targetID string, metadata map[string]any) {
	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			slog.Warn("Failed to encode audit metadata", "action", action, "error", err)
			metadataJSON = nil
		}
	}

	_, err := r.db.Exec(`
		INSERT INTO audit_log (id, action, actor, target_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), action, actor, targetID, metadataJSON)

	if err != nil {
		slog.Warn("Failed to append audit entry", "action", action, "target_id", targetID, "error", err)
	}
}
