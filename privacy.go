package pluralkit

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Privacy is a per-field visibility setting. It is deliberately three-valued:
// PrivacyUnset means the server did not report the field (the caller lacks
// permission to see it), which is distinct from an explicit public value. In
// patches, sending an unset/null privacy resets the field to public.
type Privacy int

const (
	PrivacyUnset Privacy = iota
	PrivacyPublic
	PrivacyPrivate
)

// ParsePrivacy converts the wire value. An empty string maps to
// PrivacyUnset.
func ParsePrivacy(s string) (Privacy, error) {
	switch s {
	case "":
		return PrivacyUnset, nil
	case "public":
		return PrivacyPublic, nil
	case "private":
		return PrivacyPrivate, nil
	default:
		return PrivacyUnset, errors.Wrapf(ErrValidation, "malformed privacy value %q", s)
	}
}

func (p Privacy) String() string {
	switch p {
	case PrivacyPublic:
		return "public"
	case PrivacyPrivate:
		return "private"
	default:
		return "unset"
	}
}

// IsZero reports whether the value is unknown.
func (p Privacy) IsZero() bool { return p == PrivacyUnset }

// MarshalJSON emits "public"/"private", or null for the unset state.
func (p Privacy) MarshalJSON() ([]byte, error) {
	if p == PrivacyUnset {
		return []byte("null"), nil
	}

	return json.Marshal(p.String()) //nolint:wrapcheck // Plain string marshal cannot fail
}

func (p *Privacy) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PrivacyUnset

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "privacy must be a string")
	}

	parsed, err := ParsePrivacy(s)
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// AutoproxyMode selects how messages are automatically attributed.
type AutoproxyMode string

const (
	AutoproxyOff    AutoproxyMode = "off"
	AutoproxyFront  AutoproxyMode = "front"
	AutoproxyLatch  AutoproxyMode = "latch"
	AutoproxyMember AutoproxyMode = "member"
)

// ParseAutoproxyMode validates the wire value.
func ParseAutoproxyMode(s string) (AutoproxyMode, error) {
	switch m := AutoproxyMode(s); m {
	case AutoproxyOff, AutoproxyFront, AutoproxyLatch, AutoproxyMember:
		return m, nil
	default:
		return "", errors.Wrapf(ErrValidation, "malformed autoproxy mode %q", s)
	}
}

func (m AutoproxyMode) String() string { return string(m) }
