package shrink

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeConstraintUnmet is matched by every *SizeError.
	ErrSizeConstraintUnmet = errors.New("size constraint unmet")

	ErrInvalidBudget  = errors.New("budget must be a positive byte count")
	ErrInvalidOptions = errors.New("invalid options")
)

// SizeError reports that neither the quality search nor the resize fallback
// produced an encoding within the budget.
type SizeError struct {
	Budget   int
	Smallest int // smallest encoded length seen during the call
	Last     int // length of the final attempt
	Attempts int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("unable to compress image below %d bytes, final size %d bytes (smallest %d, %d attempts)",
		e.Budget, e.Last, e.Smallest, e.Attempts)
}

func (e *SizeError) Is(target error) bool {
	return target == ErrSizeConstraintUnmet
}
