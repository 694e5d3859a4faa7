package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

func dateArg(d domain.Date) interface{} {
	if d.IsZero() {
		return nil
	}
	return d.Time()
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func toDate(t *time.Time) domain.Date {
	if t == nil {
		return domain.Date{}
	}
	return domain.DateOf(t.UTC())
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > repository.MaxTaskBatch {
		return repository.MaxTaskBatch
	}
	return limit
}

// storageError wraps err with op. Integrity violations (SQLSTATE class 23)
// become domain errors so callers do not retry or buffer them.
func storageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || !strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%s: %w", op, err)
	}
	code := domain.ErrCodeInvalid
	if pgErr.Code == "23505" {
		code = domain.ErrCodeConflict
	}
	return domain.WrapError(code, op+": "+pgErr.Message, err)
}
