package pgx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func errNoCodec(eventType string) error {
	return fmt.Errorf("escore-pgx: no codec registered for event type %q", eventType)
}
