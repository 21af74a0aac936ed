package amlcheck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/pgerr"
	"kyccore/pkg/platform/sentinel"
	txcontext "kyccore/pkg/platform/tx"
)

// PostgresStore persists checks in kyc_aml_checks, one row per user.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed AML check store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, check *models.AMLCheck) error {
	query := `
		INSERT INTO kyc_aml_checks (user_id, risk_level, reason, last_check_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			risk_level = EXCLUDED.risk_level,
			reason = EXCLUDED.reason,
			last_check_date = EXCLUDED.last_check_date
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(check.UserID),
		string(check.RiskLevel),
		check.Reason,
		check.LastCheckDate,
	)
	return pgerr.Classify("upsert aml check", err)
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*models.AMLCheck, error) {
	var (
		check models.AMLCheck
		level string
	)
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT risk_level, reason, last_check_date FROM kyc_aml_checks WHERE user_id = $1`,
		uuid.UUID(userID),
	).Scan(&level, &check.Reason, &check.LastCheckDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, pgerr.Classify("get aml check", err)
	}
	check.RiskLevel, err = models.ParseRiskLevel(level)
	if err != nil {
		return nil, fmt.Errorf("get aml check: %w", err)
	}
	check.UserID = userID
	check.LastCheckDate = check.LastCheckDate.UTC()
	return &check, nil
}
