package pgerr

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"kyccore/pkg/platform/sentinel"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, sentinel.ErrConflict},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, sentinel.ErrUnavailable},
		{"connection exception class", &pgconn.PgError{Code: "08006"}, sentinel.ErrUnavailable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, sentinel.ErrUnavailable},
		{"bad connection", driver.ErrBadConn, sentinel.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("save verification", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "save verification")
		})
	}

	t.Run("syntax errors are permanent", func(t *testing.T) {
		err := Classify("op", &pgconn.PgError{Code: "42601"})
		assert.NotErrorIs(t, err, sentinel.ErrUnavailable)
		assert.NotErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("context errors pass through", func(t *testing.T) {
		err := Classify("op", context.DeadlineExceeded)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Classify("op", nil))
	})

	t.Run("plain errors are not transient", func(t *testing.T) {
		assert.False(t, IsTransient(errors.New("boom")))
	})
}
