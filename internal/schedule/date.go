package schedule

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hackgods/clinic-booking-scheduler/internal/apperr"
)

// Date is the normalized calendar date of a slot. Clients historically send
// epoch milliseconds as a string, so every accepted representation is reduced
// to a single int64 before two dates are compared.
type Date int64

// ParseDate normalizes a decimal integer, a YYYY-MM-DD date or an RFC3339
// timestamp. Calendar forms become epoch millis of UTC midnight. An empty
// string yields the zero Date, which marks an absent date, so an input that
// normalizes to zero (1970-01-01) or below is rejected.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := parseDate(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, apperr.Invalid("date", "must be after 1970-01-01, got "+strconv.Quote(raw))
	}
	return d, nil
}

func parseDate(raw string) (Date, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Date(n), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) {
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, apperr.Invalid("date", "out of range "+strconv.Quote(raw))
		}
		return Date(int64(f)), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return DateFromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateFromTime(t), nil
	}
	return 0, apperr.Invalid("date", "unrecognized format "+strconv.Quote(raw))
}

func DateFromTime(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli())
}

func (d Date) IsZero() bool { return d == 0 }

func (d Date) String() string { return strconv.FormatInt(int64(d), 10) }

// UnmarshalJSON accepts both a JSON number and a JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
