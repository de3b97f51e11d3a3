package pluralkit

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// Timezone wraps a tzdb zone. The zero value and an empty wire string both
// mean UTC, the API's default.
type Timezone struct {
	loc *time.Location
}

// ParseTimezone resolves a tzdb identifier such as "America/Chicago".
func ParseTimezone(name string) (Timezone, error) {
	if name == "" {
		return Timezone{loc: time.UTC}, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return Timezone{}, errors.Wrapf(ErrValidation, "unknown timezone %q", name)
	}

	return Timezone{loc: loc}, nil
}

// Location returns the wrapped *time.Location, defaulting to UTC.
func (tz Timezone) Location() *time.Location {
	if tz.loc == nil {
		return time.UTC
	}

	return tz.loc
}

// String returns the canonical zone name.
func (tz Timezone) String() string { return tz.Location().String() }

// IsZero reports whether the zone was never set.
func (tz Timezone) IsZero() bool { return tz.loc == nil }

func (tz Timezone) MarshalJSON() ([]byte, error) {
	return json.Marshal(tz.String()) //nolint:wrapcheck // Plain string marshal cannot fail
}

func (tz *Timezone) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*tz = Timezone{loc: time.UTC}

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "timezone must be a string")
	}

	parsed, err := ParseTimezone(s)
	if err != nil {
		return err
	}

	*tz = parsed

	return nil
}
