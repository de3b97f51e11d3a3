package pluralkit

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// System is a PluralKit system record.
type System struct {
	ID SystemID

	Name        *string
	Description *string
	Tag         *string
	Pronouns    *string
	AvatarURL   *string
	Banner      *string
	Color       *Color
	Created     Timestamp
	Timezone    Timezone

	DescriptionPrivacy  Privacy
	PronounPrivacy      Privacy
	MemberListPrivacy   Privacy
	GroupListPrivacy    Privacy
	FrontPrivacy        Privacy
	FrontHistoryPrivacy Privacy

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type systemWire struct {
	ID          *string            `json:"id"`
	UUID        *string            `json:"uuid"`
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Tag         *string            `json:"tag"`
	Pronouns    *string            `json:"pronouns"`
	AvatarURL   *string            `json:"avatar_url"`
	Banner      *string            `json:"banner"`
	Color       *Color             `json:"color"`
	Created     *Timestamp         `json:"created"`
	Timezone    *Timezone          `json:"tz"`
	Privacy     map[string]Privacy `json:"privacy"`

	// Only present on one's own system; bot bookkeeping, not exposed.
	WebhookURL json.RawMessage `json:"webhook_url"`
}

var systemKnownKeys = wireKeys(systemWire{})

// ParseSystem builds a System from a wire JSON object.
func ParseSystem(data []byte) (*System, error) {
	var w systemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "system: %v", err)
	}

	if w.ID == nil && w.UUID == nil {
		return nil, errors.Wrap(ErrParse, "system object is missing id and uuid")
	}

	id, err := NewSystemID(deref(w.ID), deref(w.UUID))
	if err != nil {
		return nil, errors.WithMessage(err, "system")
	}

	s := &System{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		Tag:         w.Tag,
		Pronouns:    w.Pronouns,
		AvatarURL:   w.AvatarURL,
		Banner:      w.Banner,
		Color:       w.Color,

		DescriptionPrivacy:  w.Privacy["description_privacy"],
		PronounPrivacy:      w.Privacy["pronoun_privacy"],
		MemberListPrivacy:   w.Privacy["member_list_privacy"],
		GroupListPrivacy:    w.Privacy["group_list_privacy"],
		FrontPrivacy:        w.Privacy["front_privacy"],
		FrontHistoryPrivacy: w.Privacy["front_history_privacy"],

		Extra: extraKeys(data, systemKnownKeys),
	}

	if w.Created != nil {
		s.Created = *w.Created
	}

	if w.Timezone != nil {
		s.Timezone = *w.Timezone
	}

	return s, nil
}

// String returns the system's reference ID.
func (s *System) String() string { return s.ID.String() }

// MarshalJSON re-serializes the system, omitting unset fields.
func (s *System) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if s.ID.Code() != "" {
		out["id"] = s.ID.Code()
	}

	if s.ID.UUID() != "" {
		out["uuid"] = s.ID.UUID()
	}

	putString(out, "name", s.Name)
	putString(out, "description", s.Description)
	putString(out, "tag", s.Tag)
	putString(out, "pronouns", s.Pronouns)
	putString(out, "avatar_url", s.AvatarURL)
	putString(out, "banner", s.Banner)

	if s.Color != nil {
		out["color"] = s.Color
	}

	if !s.Created.IsZero() {
		out["created"] = s.Created
	}

	if !s.Timezone.IsZero() {
		out["tz"] = s.Timezone
	}

	privacy := make(map[string]any)
	putPrivacy(privacy, "description_privacy", s.DescriptionPrivacy)
	putPrivacy(privacy, "pronoun_privacy", s.PronounPrivacy)
	putPrivacy(privacy, "member_list_privacy", s.MemberListPrivacy)
	putPrivacy(privacy, "group_list_privacy", s.GroupListPrivacy)
	putPrivacy(privacy, "front_privacy", s.FrontPrivacy)
	putPrivacy(privacy, "front_history_privacy", s.FrontHistoryPrivacy)

	if len(privacy) > 0 {
		out["privacy"] = privacy
	}

	return json.Marshal(out) //nolint:wrapcheck // Map marshal of json-safe values cannot fail
}
