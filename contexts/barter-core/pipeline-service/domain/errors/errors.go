package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoardInput = errors.New("invalid board input")
	ErrUnknownStage      = errors.New("unknown pipeline stage")
	ErrGestureRejected   = errors.New("drop target has no backing operation")
)

// GestureError explains why a board drop could not be mapped to a real
// operation. The board is a projection; most stages move on their own.
type GestureError struct {
	Target      string
	Explanation string
}

func (e *GestureError) Error() string {
	return fmt.Sprintf("%s: %s", ErrGestureRejected.Error(), e.Explanation)
}

func (e *GestureError) Unwrap() error {
	return ErrGestureRejected
}

func NewGestureError(target, explanation string) error {
	return &GestureError{Target: target, Explanation: explanation}
}

// ExplanationFrom extracts the gesture explanation when err wraps a
// GestureError.
func ExplanationFrom(err error) (string, bool) {
	var e *GestureError
	if errors.As(err, &e) {
		return e.Explanation, true
	}
	return "", false
}
