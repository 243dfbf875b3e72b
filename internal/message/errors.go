package message

import (
	"errors"
	"fmt"
)

var (
	ErrMissingText  = errors.New("message text is required")
	ErrMissingImage = errors.New("no image attached")
)

// TextTooLongError rejects text whose length reaches the kind's limit.
type TextTooLongError struct {
	Count int
	Limit int
}

func (e TextTooLongError) Error() string {
	return fmt.Sprintf("text is too long: %d characters (must be under %d)", e.Count, e.Limit)
}

// IsValidationError reports whether err is a draft rejection.
func IsValidationError(err error) bool {
	var tooLong TextTooLongError
	return errors.Is(err, ErrMissingText) ||
		errors.Is(err, ErrMissingImage) ||
		errors.As(err, &tooLong)
}
