package db

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a job record does not exist.
var ErrNotFound = errors.New("record not found")

func wrapQueryError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
