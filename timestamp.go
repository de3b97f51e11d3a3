package pluralkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Wire layouts for timestamps. The API emits fractional seconds; parsing
// tolerates their absence.
const (
	timestampLayout = "2006-01-02T15:04:05.000000Z"
	birthdayLayout  = "2006-01-02"
)

// Timestamp is a UTC instant with microsecond precision, the resolution the
// API works at. The zero value is unset.
type Timestamp struct {
	t time.Time
}

// NewTimestamp converts a time.Time. The instant is normalized to UTC and
// truncated to microseconds; a naive (zero-offset, unnamed zone) time is
// taken as already UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC().Truncate(time.Microsecond)}
}

// Date builds a Timestamp from components, interpreted as UTC.
func Date(year int, month time.Month, day, hour, minute, second, microsecond int) Timestamp {
	return Timestamp{t: time.Date(year, month, day, hour, minute, second, microsecond*1000, time.UTC)}
}

// ParseTimestamp parses the API's ISO-8601 form. Fractional seconds are
// optional and accepted at any precision beyond microseconds.
func ParseTimestamp(s string) (Timestamp, error) {
	if !strings.HasSuffix(s, "Z") {
		return Timestamp{}, errors.Wrapf(ErrValidation, "malformed timestamp %q", s)
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, errors.Wrapf(ErrValidation, "malformed timestamp %q", s)
	}

	return NewTimestamp(t), nil
}

// Time returns the wrapped instant.
func (ts Timestamp) Time() time.Time { return ts.t }

// IsZero reports whether the timestamp is unset.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }

// After reports whether ts is strictly later than other.
func (ts Timestamp) After(other Timestamp) bool { return ts.t.After(other.t) }

// Equal reports value equality at microsecond precision.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.t.Equal(other.t) }

// Component accessors, all in UTC.

func (ts Timestamp) Year() int         { return ts.t.Year() }
func (ts Timestamp) Month() time.Month { return ts.t.Month() }
func (ts Timestamp) Day() int          { return ts.t.Day() }
func (ts Timestamp) Hour() int         { return ts.t.Hour() }
func (ts Timestamp) Minute() int       { return ts.t.Minute() }
func (ts Timestamp) Second() int       { return ts.t.Second() }
func (ts Timestamp) Microsecond() int  { return ts.t.Nanosecond() / 1000 }

// WithYear returns a copy with the year replaced.
func (ts Timestamp) WithYear(year int) Timestamp {
	t := ts.t

	return Timestamp{t: time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

func (ts Timestamp) String() string {
	return ts.t.Format("2006-01-02 15:04:05") + " UTC"
}

// wire is the ISO-8601 form sent to the API.
func (ts Timestamp) wire() string { return ts.t.Format(timestampLayout) }

// MarshalJSON always emits the full fractional form, so a timestamp
// round-trips through the same template.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.t.Format(timestampLayout)) //nolint:wrapcheck // Plain string marshal cannot fail
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "timestamp must be a string")
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}

	*ts = parsed

	return nil
}

// Birthday is a Timestamp whose wire form is a bare date. The API represents
// a hidden birth year with the sentinel years 0001 and 0004.
type Birthday struct {
	Timestamp
}

// hiddenYearSentinel is what the API stores when the year is hidden.
const hiddenYearSentinel = 1

// NewBirthday builds a birthday from date components.
func NewBirthday(year int, month time.Month, day int) Birthday {
	return Birthday{Timestamp: Date(year, month, day, 0, 0, 0, 0)}
}

// ParseBirthday parses the API's YYYY-MM-DD form.
func ParseBirthday(s string) (Birthday, error) {
	t, err := time.Parse(birthdayLayout, s)
	if err != nil {
		return Birthday{}, errors.Wrapf(ErrValidation, "malformed birthday %q", s)
	}

	return Birthday{Timestamp: NewTimestamp(t)}, nil
}

// HiddenYear reports whether the birth year is the hidden-year sentinel.
func (b Birthday) HiddenYear() bool {
	return b.Year() == 1 || b.Year() == 4
}

// Hide returns a copy with the year pinned to the hidden-year sentinel.
func (b Birthday) Hide() Birthday {
	return Birthday{Timestamp: b.WithYear(hiddenYearSentinel)}
}

// Unhide returns a copy with the real birth year restored. The original year
// is unrecoverable from a hidden birthday, so the caller must supply it.
func (b Birthday) Unhide(year int) (Birthday, error) {
	if year == 1 || year == 4 {
		return Birthday{}, errors.Wrapf(ErrValidation, "year %d is reserved for hidden birthdays", year)
	}

	if year <= 0 {
		return Birthday{}, errors.Wrapf(ErrValidation, "malformed birth year %d", year)
	}

	return Birthday{Timestamp: b.WithYear(year)}, nil
}

// String renders "Jan 02" when the year is hidden, else "Jan 02, 2006".
func (b Birthday) String() string {
	if b.HiddenYear() {
		return b.t.Format("Jan 02")
	}

	return fmt.Sprintf("%s, %04d", b.t.Format("Jan 02"), b.Year())
}

// wire is the YYYY-MM-DD form the API stores.
func (b Birthday) wire() string { return b.t.Format(birthdayLayout) }

func (b Birthday) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.t.Format(birthdayLayout)) //nolint:wrapcheck // Plain string marshal cannot fail
}

func (b *Birthday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "birthday must be a string")
	}

	parsed, err := ParseBirthday(s)
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}
