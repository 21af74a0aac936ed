package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"kyccore/internal/kyc/models"
	id "kyccore/pkg/domain"
	"kyccore/pkg/platform/pgerr"
	"kyccore/pkg/platform/sentinel"
	txcontext "kyccore/pkg/platform/tx"
)

// PostgresStore persists verification records in kyc_verifications.
// Writes join the transaction carried in ctx, or open their own.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectColumns = `
	id, user_id, document_type, document_front_ref, document_back_ref, status,
	risk_score, verification_date, expiry_date, rejection_reason, risk_factors,
	first_name, last_name, nationality, document_number, document_expiry,
	created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*models.VerificationRecord, error) {
	return s.get(ctx, txcontext.Exec(ctx, s.db), userID, false)
}

func (s *PostgresStore) get(ctx context.Context, exec txcontext.Executor, userID id.UserID, forUpdate bool) (*models.VerificationRecord, error) {
	query := `SELECT` + selectColumns + ` FROM kyc_verifications WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	r, err := scanRecord(exec.QueryRowContext(ctx, query, uuid.UUID(userID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, pgerr.Classify("get verification", err)
	}
	return r, nil
}

// BeginPending opens a new cycle under a row lock. A first submission
// inserts with ON CONFLICT DO NOTHING so a concurrent first submission loses
// with sentinel.ErrConflict; a resubmission only updates a non-PENDING row,
// or a PENDING row last written before staleBefore.
func (s *PostgresStore) BeginPending(ctx context.Context, userID id.UserID, staleBefore time.Time, begin BeginFunc) (*models.VerificationRecord, error) {
	var next *models.VerificationRecord
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.get(ctx, tx, userID, true)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		if current != nil && current.Status == models.StatusPending && !current.Abandoned(staleBefore) {
			return fmt.Errorf("begin verification: %w", sentinel.ErrConflict)
		}
		next, err = begin(current)
		if err != nil {
			return err
		}
		if next.UserID != userID || next.Status != models.StatusPending {
			return fmt.Errorf("begin verification: %w", sentinel.ErrInvalidState)
		}
		switch {
		case current == nil:
			return s.insert(ctx, tx, next)
		case current.Status == models.StatusPending:
			return s.update(ctx, tx, next, `AND status = 'PENDING'`)
		default:
			return s.update(ctx, tx, next, `AND status NOT IN ('PENDING', 'BLOCKED')`)
		}
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Execute validates and mutates the record while holding its row lock.
func (s *PostgresStore) Execute(ctx context.Context, userID id.UserID, validate ValidateFunc, mutate MutateFunc) (*models.VerificationRecord, error) {
	var updated *models.VerificationRecord
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.get(ctx, tx, userID, true)
		if err != nil {
			return err
		}
		if err := validate(current.Clone()); err != nil {
			return err
		}
		mutate(current)
		if err := s.update(ctx, tx, current, ""); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Restore puts prev back (or deletes the row when prev is nil) if the row
// still belongs to cycle.
func (s *PostgresStore) Restore(ctx context.Context, userID id.UserID, cycle id.VerificationID, prev *models.VerificationRecord) error {
	exec := txcontext.Exec(ctx, s.db)
	if prev == nil {
		_, err := exec.ExecContext(ctx,
			`DELETE FROM kyc_verifications WHERE user_id = $1 AND id = $2`,
			uuid.UUID(userID), uuid.UUID(cycle))
		return pgerr.Classify("restore verification", err)
	}

	args := recordArgs(prev)
	args = append(args, uuid.UUID(cycle))
	_, err := exec.ExecContext(ctx, `
		UPDATE kyc_verifications SET
			id = $1, document_type = $3, document_front_ref = $4, document_back_ref = $5,
			status = $6, risk_score = $7, verification_date = $8, expiry_date = $9,
			rejection_reason = $10, risk_factors = $11, first_name = $12, last_name = $13,
			nationality = $14, document_number = $15, document_expiry = $16,
			created_at = $17, updated_at = $18
		WHERE user_id = $2 AND id = $19`, args...)
	return pgerr.Classify("restore verification", err)
}

func (s *PostgresStore) insert(ctx context.Context, tx *sql.Tx, r *models.VerificationRecord) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO kyc_verifications (
			id, user_id, document_type, document_front_ref, document_back_ref, status,
			risk_score, verification_date, expiry_date, rejection_reason, risk_factors,
			first_name, last_name, nationality, document_number, document_expiry,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (user_id) DO NOTHING`, recordArgs(r)...)
	if err != nil {
		return pgerr.Classify("insert verification", err)
	}
	return expectOne(res, "insert verification")
}

func (s *PostgresStore) update(ctx context.Context, tx *sql.Tx, r *models.VerificationRecord, guard string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE kyc_verifications SET
			id = $1, document_type = $3, document_front_ref = $4, document_back_ref = $5,
			status = $6, risk_score = $7, verification_date = $8, expiry_date = $9,
			rejection_reason = $10, risk_factors = $11, first_name = $12, last_name = $13,
			nationality = $14, document_number = $15, document_expiry = $16,
			created_at = $17, updated_at = $18
		WHERE user_id = $2 `+guard, recordArgs(r)...)
	if err != nil {
		return pgerr.Classify("update verification", err)
	}
	return expectOne(res, "update verification")
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return nil
}

// inTx runs fn in the transaction from ctx, or in a new one.
func (s *PostgresStore) inTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	if tx, ok := txcontext.From(ctx); ok {
		return fn(ctx, tx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pgerr.Classify("begin tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(txcontext.WithTx(ctx, tx), tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return pgerr.Classify("commit tx", err)
	}
	return nil
}

func recordArgs(r *models.VerificationRecord) []any {
	factors := r.RiskFactors
	if factors == nil {
		factors = []string{}
	}
	return []any{
		uuid.UUID(r.ID),
		uuid.UUID(r.UserID),
		string(r.DocumentType),
		r.DocumentFrontRef,
		nullString(r.DocumentBackRef),
		string(r.Status),
		r.RiskScore,
		nullTime(r.VerificationDate),
		nullTime(r.ExpiryDate),
		nullString(r.RejectionReason),
		pq.Array(factors),
		nullString(r.FirstName),
		nullString(r.LastName),
		nullString(r.Nationality),
		nullString(r.DocumentNumber),
		nullTime(r.DocumentExpiry),
		r.CreatedAt,
		r.UpdatedAt,
	}
}

func scanRecord(row *sql.Row) (*models.VerificationRecord, error) {
	var (
		r                                            models.VerificationRecord
		verificationID, userID                       uuid.UUID
		documentType, status                         string
		backRef, reason                              sql.NullString
		firstName, lastName, nationality, docNum     sql.NullString
		verificationDate, expiryDate, documentExpiry sql.NullTime
		factors                                      []string
	)
	err := row.Scan(
		&verificationID, &userID, &documentType, &r.DocumentFrontRef, &backRef, &status,
		&r.RiskScore, &verificationDate, &expiryDate, &reason, pq.Array(&factors),
		&firstName, &lastName, &nationality, &docNum, &documentExpiry,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedStatus, err := models.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("scan verification: %w", err)
	}
	r.ID = id.VerificationID(verificationID)
	r.UserID = id.UserID(userID)
	r.DocumentType = id.DocumentType(documentType)
	r.DocumentBackRef = backRef.String
	r.Status = parsedStatus
	r.VerificationDate = timePtr(verificationDate)
	r.ExpiryDate = timePtr(expiryDate)
	r.RejectionReason = reason.String
	if len(factors) > 0 {
		r.RiskFactors = factors
	}
	r.FirstName = firstName.String
	r.LastName = lastName.String
	r.Nationality = nationality.String
	r.DocumentNumber = docNum.String
	r.DocumentExpiry = timePtr(documentExpiry)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
