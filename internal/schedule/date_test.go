package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-booking-scheduler/internal/apperr"
)

func TestParseDate(t *testing.T) {
	midnight := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name string
		raw  string
		want Date
	}{
		{"empty", "", 0},
		{"opaque numeric", "20240101", 20240101},
		{"epoch millis", "1704067200000", Date(midnight)},
		{"float millis", "1704067200000.0", Date(midnight)},
		{"calendar date", "2024-01-01", Date(midnight)},
		{"rfc3339 truncated to day", "2024-01-01T15:04:05Z", Date(midnight)},
		{"padded", "  20240101 ", 20240101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"words", "next tuesday"},
		{"float above int64", "1e300"},
		{"float below int64", "-1e300"},
		{"infinity", "Inf"},
		{"not a number", "NaN"},
		{"negative integer", "-1704067200000"},
		{"negative float", "-1704067200000.0"},
		{"epoch zero", "0"},
		{"epoch zero calendar", "1970-01-01"},
		{"before epoch", "1969-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))
			assert.True(t, got.IsZero())
		})
	}
}

func TestDateUnmarshalRejectsEpochZero(t *testing.T) {
	var body struct {
		Date Date `json:"date"`
	}
	err := json.Unmarshal([]byte(`{"date":0}`), &body)
	assert.ErrorIs(t, err, apperr.ErrInvalidParameter)
}

func TestDateStringAndNumberFormsAreEqual(t *testing.T) {
	var fromString, fromNumber struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"1704067200000"}`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"date":1704067200000}`), &fromNumber))

	assert.Equal(t, fromString.Date, fromNumber.Date)
	assert.Equal(t, "1704067200000", fromString.Date.String())
}

func TestDateUnmarshalNull(t *testing.T) {
	d := Date(5)
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}
