package pluralkit

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// SwitchMember is one entry of a switch's member list. Batch listing
// endpoints return bare member IDs to save payload size, while single-switch
// endpoints return full member objects; this type forces callers to handle
// both shapes.
type SwitchMember struct {
	id     MemberID
	member *Member
}

// SwitchMemberID wraps a bare reference.
func SwitchMemberID(id MemberID) SwitchMember {
	return SwitchMember{id: id}
}

// SwitchMemberFull wraps a full member object.
func SwitchMemberFull(member *Member) SwitchMember {
	return SwitchMember{id: member.ID, member: member}
}

// ID returns the member reference, available in both shapes.
func (sm SwitchMember) ID() MemberID { return sm.id }

// Member returns the full member object when this entry carries one.
func (sm SwitchMember) Member() (*Member, bool) {
	return sm.member, sm.member != nil
}

// Switch records a front change: who switched in, and when.
type Switch struct {
	ID        SwitchID
	Timestamp Timestamp
	Members   []SwitchMember

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type switchWire struct {
	ID        *string         `json:"id"`
	Timestamp *Timestamp      `json:"timestamp"`
	Members   json.RawMessage `json:"members"`
}

var switchKnownKeys = wireKeys(switchWire{})

// ParseSwitch builds a Switch from a wire JSON object, accepting both the
// bare-ID and full-member list shapes.
func ParseSwitch(data []byte) (*Switch, error) {
	var w switchWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "switch: %v", err)
	}

	if w.ID == nil {
		return nil, errors.Wrap(ErrParse, "switch object is missing id")
	}

	id, err := ParseSwitchID(*w.ID)
	if err != nil {
		return nil, errors.WithMessage(err, "switch")
	}

	sw := &Switch{
		ID:    id,
		Extra: extraKeys(data, switchKnownKeys),
	}

	if w.Timestamp != nil {
		sw.Timestamp = *w.Timestamp
	}

	if len(w.Members) > 0 {
		members, err := parseSwitchMembers(w.Members)
		if err != nil {
			return nil, err
		}

		sw.Members = members
	}

	return sw, nil
}

func parseSwitchMembers(data json.RawMessage) ([]SwitchMember, error) {
	// The bare-ID shape is a list of strings.
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		members := make([]SwitchMember, 0, len(ids))

		for _, raw := range ids {
			id, err := ParseMemberID(raw)
			if err != nil {
				return nil, errors.WithMessage(err, "switch members")
			}

			members = append(members, SwitchMemberID(id))
		}

		return members, nil
	}

	var objects []json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, errors.Wrapf(ErrParse, "switch members: %v", err)
	}

	members := make([]SwitchMember, 0, len(objects))

	for _, raw := range objects {
		member, err := ParseMember(raw)
		if err != nil {
			return nil, errors.WithMessage(err, "switch members")
		}

		members = append(members, SwitchMemberFull(member))
	}

	return members, nil
}

// MarshalJSON re-serializes the switch in the same shape it was parsed from.
func (sw *Switch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if !sw.ID.IsZero() {
		out["id"] = sw.ID
	}

	if !sw.Timestamp.IsZero() {
		out["timestamp"] = sw.Timestamp
	}

	if sw.Members != nil {
		full := make([]*Member, 0, len(sw.Members))
		bare := make([]MemberID, 0, len(sw.Members))

		for _, sm := range sw.Members {
			if m, ok := sm.Member(); ok {
				full = append(full, m)
			} else {
				bare = append(bare, sm.ID())
			}
		}

		if len(full) > 0 {
			out["members"] = full
		} else {
			out["members"] = bare
		}
	}

	return json.Marshal(out) //nolint:wrapcheck // Map marshal of json-safe values cannot fail
}
