package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors classify every write failure the store can produce.
// Callers match them with errors.Is; the wrapping text carries the
// entity and natural key involved.
var (
	// ErrConstraint reports a uniqueness violation or malformed input,
	// such as an empty name or a second rating for the same song by the
	// same listener.
	ErrConstraint = errors.New("constraint violation")

	// ErrForeignKey reports a reference to a row that does not exist,
	// or a delete rejected because dependent rows still exist.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrRange reports a value outside its permitted range, such as a
	// rating outside [1,5] or an unparseable date.
	ErrRange = errors.New("range violation")

	// ErrIntegrity reports a broken mutually-exclusive-field rule: a
	// song must have exactly one of an album or its own release date.
	ErrIntegrity = errors.New("integrity violation")
)

// ConstraintError wraps ErrConstraint with the entity and key involved.
func ConstraintError(entity, key string) error {
	return fmt.Errorf("%w: %s %q", ErrConstraint, entity, key)
}

// ForeignKeyError wraps ErrForeignKey with the dangling reference.
func ForeignKeyError(entity string, id uint) error {
	return fmt.Errorf("%w: %s id %d", ErrForeignKey, entity, id)
}

// NotFoundError wraps ErrForeignKey for an id that addresses no row,
// such as a delete of an entity that does not exist.
func NotFoundError(entity string, id uint) error {
	return fmt.Errorf("%w: %s id %d does not exist", ErrForeignKey, entity, id)
}

// RangeError wraps ErrRange for a rating value outside [1,5].
func RangeError(value int) error {
	return fmt.Errorf("%w: rating value %d not in [1,5]", ErrRange, value)
}

// DateError wraps ErrRange for an unusable calendar date.
func DateError(date time.Time) error {
	return fmt.Errorf("%w: invalid date %s", ErrRange, date.Format(time.DateOnly))
}

// IntegrityError wraps ErrIntegrity for a song whose album reference
// and single release date do not obey the exactly-one rule.
func IntegrityError(title string) error {
	return fmt.Errorf(
		"%w: song %q needs exactly one of album or single release date",
		ErrIntegrity, title,
	)
}
