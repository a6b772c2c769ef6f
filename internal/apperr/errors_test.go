package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingNamesField(t *testing.T) {
	err := Missing("doctor_id")
	assert.True(t, errors.Is(err, ErrMissingParameter))
	assert.EqualError(t, err, "missing required parameter: doctor_id")
}

func TestStoreKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("insert slots", cause)

	assert.True(t, errors.Is(err, ErrStore))
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, Store("noop", nil))
}

func TestDeliveryKeepsCause(t *testing.T) {
	cause := errors.New("smtp down")
	err := Delivery(cause)

	assert.True(t, errors.Is(err, ErrDelivery))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrStore))
	assert.Nil(t, Delivery(nil))
}
