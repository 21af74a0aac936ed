package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "kyccore/pkg/domain"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/pgerr"
	txcontext "kyccore/pkg/platform/tx"
)

// Store implements audit.Store on the append-only kyc_audit_log table.
// When a transaction is present in ctx the insert joins it, so the entry
// commits or rolls back together with the state change it describes.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts an audit event. The table has no UPDATE or DELETE path.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := event.ID
	if eventID == uuid.Nil {
		eventID = uuid.New()
	}
	category := event.Category
	if category == "" {
		category = event.Action.Category()
	}

	query := `
		INSERT INTO kyc_audit_log (id, category, user_id, action, details, request_id, device, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		eventID,
		string(category),
		uuid.UUID(event.UserID),
		string(event.Action),
		event.Details,
		event.RequestID,
		event.Device,
		event.Timestamp,
	)
	if err != nil {
		return pgerr.Classify("insert audit event", err)
	}
	return nil
}

// ListByUser returns the user's events, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	query := `
		SELECT id, category, user_id, action, details, request_id, device, created_at
		FROM kyc_audit_log
		WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, pgerr.Classify("query audit events", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			action   string
			uid      uuid.UUID
		)
		if err := rows.Scan(&e.ID, &category, &uid, &action, &e.Details, &e.RequestID, &e.Device, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Action = audit.Action(action)
		e.UserID = id.UserID(uid)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
