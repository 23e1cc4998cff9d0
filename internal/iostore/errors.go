package iostore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tunedb/tunedb/pkg/catalog"
)

// PostgreSQL error codes for integrity constraint violations.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// mapPgError translates a PostgreSQL constraint failure into the
// catalog error taxonomy so callers match on catalog sentinels instead
// of driver types. Non-constraint errors pass through unchanged.
func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w (%s)",
			op, catalog.ErrConstraint, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%s: %w (%s)",
			op, catalog.ErrForeignKey, pgErr.ConstraintName)
	case pgCheckViolation:
		// chk_ratings_value guards the [1,5] range; the songs check
		// guards the album/single exclusivity rule.
		if pgErr.ConstraintName == "chk_ratings_value" {
			return fmt.Errorf("%s: %w (%s)",
				op, catalog.ErrRange, pgErr.ConstraintName)
		}
		return fmt.Errorf("%s: %w (%s)",
			op, catalog.ErrIntegrity, pgErr.ConstraintName)
	}

	return fmt.Errorf("%s: %w", op, err)
}
