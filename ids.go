package pluralkit

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Reference IDs identify systems, members, groups, and switches either by a
// short human-readable code or by UUID. Short codes are five lowercase
// letters, or the newer six-letter form which is normalized to "abc-def".
// Switches have no short code and are addressed by UUID only.

// Five-letter codes are lowercase only; the newer six-letter form is
// accepted case-insensitively.
var (
	fiveLetterCode = regexp.MustCompile(`^[a-z]{5}$`)
	sixLetterCode  = regexp.MustCompile(`(?i)^[a-z]{3}-?[a-z]{3}$`)
)

// refID is the shared representation: at least one of code or uuid is set.
type refID struct {
	code string
	uuid string
}

func isShortCode(s string) bool {
	return fiveLetterCode.MatchString(s) || sixLetterCode.MatchString(s)
}

func normalizeShortCode(s string) string {
	s = strings.ToLower(s)
	if len(s) >= 6 {
		s = strings.ReplaceAll(s, "-", "")
		s = s[:3] + "-" + s[3:]
	}

	return s
}

func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}

	_, err := uuid.Parse(s)

	return err == nil
}

// newRefID auto-detects the shape of each argument, accepting a short code
// passed as uuid and vice versa. Exactly mirrors what construction allows:
// at least one argument, each matching one of the two shapes.
func newRefID(entity, code, id string) (refID, error) {
	if code == "" && id == "" {
		return refID{}, errors.Wrapf(ErrValidation, "%s reference needs at least one of code or uuid", entity)
	}

	var ref refID

	if code != "" {
		switch {
		case isShortCode(code):
			ref.code = normalizeShortCode(code)
		case isCanonicalUUID(code):
			ref.uuid = code
		default:
			return refID{}, errors.Wrapf(ErrValidation, "malformed %s id %q", entity, code)
		}
	}

	if id != "" {
		switch {
		case isCanonicalUUID(id):
			ref.uuid = id
		case isShortCode(id):
			ref.code = normalizeShortCode(id)
		default:
			return refID{}, errors.Wrapf(ErrValidation, "malformed %s uuid %q", entity, id)
		}
	}

	return ref, nil
}

// String returns the UUID when known, else the short code.
func (r refID) String() string {
	if r.uuid != "" {
		return r.uuid
	}

	return r.code
}

// wire is the form sent to the API: the UUID when known, else the short code
// with the six-letter dash stripped.
func (r refID) wire() string {
	if r.uuid != "" {
		return r.uuid
	}

	return strings.ReplaceAll(r.code, "-", "")
}

func (r refID) isZero() bool { return r.code == "" && r.uuid == "" }

// SystemID references a system by short code and/or UUID.
type SystemID struct{ refID }

// MemberID references a member by short code and/or UUID.
type MemberID struct{ refID }

// GroupID references a group by short code and/or UUID.
type GroupID struct{ refID }

// ParseSystemID builds a SystemID from a short code or UUID, auto-detecting
// which was given.
func ParseSystemID(s string) (SystemID, error) {
	ref, err := newRefID("system", s, "")
	if err != nil {
		return SystemID{}, err
	}

	return SystemID{ref}, nil
}

// NewSystemID builds a SystemID from a short code and/or UUID. Either
// argument may be empty, but not both.
func NewSystemID(code, uuid string) (SystemID, error) {
	ref, err := newRefID("system", code, uuid)
	if err != nil {
		return SystemID{}, err
	}

	return SystemID{ref}, nil
}

// ParseMemberID builds a MemberID from a short code or UUID.
func ParseMemberID(s string) (MemberID, error) {
	ref, err := newRefID("member", s, "")
	if err != nil {
		return MemberID{}, err
	}

	return MemberID{ref}, nil
}

// NewMemberID builds a MemberID from a short code and/or UUID.
func NewMemberID(code, uuid string) (MemberID, error) {
	ref, err := newRefID("member", code, uuid)
	if err != nil {
		return MemberID{}, err
	}

	return MemberID{ref}, nil
}

// ParseGroupID builds a GroupID from a short code or UUID.
func ParseGroupID(s string) (GroupID, error) {
	ref, err := newRefID("group", s, "")
	if err != nil {
		return GroupID{}, err
	}

	return GroupID{ref}, nil
}

// NewGroupID builds a GroupID from a short code and/or UUID.
func NewGroupID(code, uuid string) (GroupID, error) {
	ref, err := newRefID("group", code, uuid)
	if err != nil {
		return GroupID{}, err
	}

	return GroupID{ref}, nil
}

// Code returns the short code, if known.
func (s SystemID) Code() string { return s.code }

// UUID returns the UUID, if known.
func (s SystemID) UUID() string { return s.uuid }

// IsZero reports whether the reference is empty.
func (s SystemID) IsZero() bool { return s.isZero() }

func (s SystemID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire()) //nolint:wrapcheck // Plain string marshal cannot fail
}

// Code returns the short code, if known.
func (m MemberID) Code() string { return m.code }

// UUID returns the UUID, if known.
func (m MemberID) UUID() string { return m.uuid }

// IsZero reports whether the reference is empty.
func (m MemberID) IsZero() bool { return m.isZero() }

func (m MemberID) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire()) //nolint:wrapcheck // Plain string marshal cannot fail
}

// Code returns the short code, if known.
func (g GroupID) Code() string { return g.code }

// UUID returns the UUID, if known.
func (g GroupID) UUID() string { return g.uuid }

// IsZero reports whether the reference is empty.
func (g GroupID) IsZero() bool { return g.isZero() }

func (g GroupID) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.wire()) //nolint:wrapcheck // Plain string marshal cannot fail
}

// SwitchID references a switch. Switches are only addressable by UUID.
type SwitchID struct {
	id string
}

// ParseSwitchID builds a SwitchID from a canonical UUID string.
func ParseSwitchID(s string) (SwitchID, error) {
	if s == "" {
		return SwitchID{}, errors.Wrap(ErrValidation, "switch reference needs a uuid")
	}

	if !isCanonicalUUID(s) {
		return SwitchID{}, errors.Wrapf(ErrValidation, "malformed switch uuid %q", s)
	}

	return SwitchID{id: s}, nil
}

// UUID returns the switch UUID.
func (s SwitchID) UUID() string { return s.id }

// IsZero reports whether the reference is empty.
func (s SwitchID) IsZero() bool { return s.id == "" }

func (s SwitchID) String() string { return s.id }

func (s SwitchID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.id) //nolint:wrapcheck // Plain string marshal cannot fail
}
