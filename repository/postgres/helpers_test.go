package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/fastygo/taskboard/domain"
)

func TestStorageErrorClassifiesIntegrityViolations(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code domain.ErrorCode
	}{
		{"not null", &pgconn.PgError{Code: "23502", Message: `null value in column "deadline"`}, domain.ErrCodeInvalid},
		{"foreign key", &pgconn.PgError{Code: "23503", Message: "performer does not exist"}, domain.ErrCodeInvalid},
		{"unique", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, domain.ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storageError("create task", tt.err)
			assert.True(t, domain.IsDomainError(err, tt.code), "%v", err)
			var pgErr *pgconn.PgError
			assert.True(t, errors.As(err, &pgErr))
		})
	}
}

func TestStorageErrorKeepsTransientFailuresPlain(t *testing.T) {
	for _, cause := range []error{
		&pgconn.PgError{Code: "57P01", Message: "terminating connection"},
		errors.New("dial tcp: connection refused"),
	} {
		err := storageError("create task", cause)
		var dErr *domain.Error
		assert.False(t, errors.As(err, &dErr), "%v", err)
		assert.ErrorIs(t, err, cause)
	}
}
