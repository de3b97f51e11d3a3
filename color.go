package pluralkit

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var bareHex = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Color is a normalized RGB color. The API's wire form is six lowercase hex
// digits with no "#"; parsing additionally accepts a "#"-prefixed string or
// an SVG 1.1 color name.
type Color struct {
	hex string // always six lowercase hex digits
}

// ParseColor normalizes any accepted input form.
func ParseColor(s string) (Color, error) {
	if s == "" {
		return Color{}, errors.Wrap(ErrValidation, "color must not be empty")
	}

	if bareHex.MatchString(s) {
		s = "#" + s
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, errors.Wrapf(ErrValidation, "malformed color %q", s)
		}

		return Color{hex: c.Hex()[1:]}, nil
	}

	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Color{hex: fmt.Sprintf("%02x%02x%02x", named.R, named.G, named.B)}, nil
	}

	return Color{}, errors.Wrapf(ErrValidation, "malformed color %q", s)
}

// String returns the wire form: six lowercase hex digits.
func (c Color) String() string { return c.hex }

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool { return c.hex == "" }

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.hex) //nolint:wrapcheck // Plain string marshal cannot fail
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "color must be a string")
	}

	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
