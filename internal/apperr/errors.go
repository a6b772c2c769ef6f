// Package apperr holds the error taxonomy shared by the scheduling and
// booking services. Callers match with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrStore            = errors.New("store error")
	ErrDelivery         = errors.New("delivery error")
)

// Missing reports that the named input field was absent.
func Missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, field)
}

func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParameter, field, reason)
}

// Store wraps a persistence failure. The driver error stays in the chain.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func Delivery(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}
