package pluralkit

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Member is a system member as returned by the API. Pointer fields are nil
// when the server omitted them; privacy fields are PrivacyUnset when the
// caller is not allowed to see them.
type Member struct {
	ID     MemberID
	System SystemID
	Name   string

	DisplayName          *string
	Description          *string
	Pronouns             *string
	Color                *Color
	Birthday             *Birthday
	AvatarURL            *string
	WebhookAvatarURL     *string
	Banner               *string
	Created              Timestamp
	ProxyTags            ProxyTags
	KeepProxy            *bool
	AutoproxyEnabled     *bool
	MessageCount         *int
	LastMessageTimestamp *Timestamp
	TTS                  *bool

	NamePrivacy        Privacy
	DescriptionPrivacy Privacy
	BirthdayPrivacy    Privacy
	PronounPrivacy     Privacy
	AvatarPrivacy      Privacy
	MetadataPrivacy    Privacy
	ProxyPrivacy       Privacy
	Visibility         Privacy

	// Extra holds response keys outside the known schema, kept raw so
	// server-side schema additions stay observable.
	Extra map[string]json.RawMessage
}

type memberWire struct {
	ID                   *string            `json:"id"`
	UUID                 *string            `json:"uuid"`
	System               *string            `json:"system"`
	Name                 *string            `json:"name"`
	DisplayName          *string            `json:"display_name"`
	Description          *string            `json:"description"`
	Pronouns             *string            `json:"pronouns"`
	Color                *Color             `json:"color"`
	Birthday             *Birthday          `json:"birthday"`
	AvatarURL            *string            `json:"avatar_url"`
	WebhookAvatarURL     *string            `json:"webhook_avatar_url"`
	Banner               *string            `json:"banner"`
	Created              *Timestamp         `json:"created"`
	ProxyTags            ProxyTags          `json:"proxy_tags"`
	KeepProxy            *bool              `json:"keep_proxy"`
	AutoproxyEnabled     *bool              `json:"autoproxy_enabled"`
	MessageCount         *int               `json:"message_count"`
	LastMessageTimestamp *Timestamp         `json:"last_message_timestamp"`
	TTS                  *bool              `json:"tts"`
	Privacy              map[string]Privacy `json:"privacy"`
}

var memberKnownKeys = wireKeys(memberWire{})

// ParseMember builds a Member from a wire JSON object. Only the reference ID
// is structurally required.
func ParseMember(data []byte) (*Member, error) {
	var w memberWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "member: %v", err)
	}

	if w.ID == nil && w.UUID == nil {
		return nil, errors.Wrap(ErrParse, "member object is missing id and uuid")
	}

	id, err := NewMemberID(deref(w.ID), deref(w.UUID))
	if err != nil {
		return nil, errors.WithMessage(err, "member")
	}

	m := &Member{
		ID:                   id,
		Name:                 deref(w.Name),
		DisplayName:          w.DisplayName,
		Description:          w.Description,
		Pronouns:             w.Pronouns,
		Color:                w.Color,
		Birthday:             w.Birthday,
		AvatarURL:            w.AvatarURL,
		WebhookAvatarURL:     w.WebhookAvatarURL,
		Banner:               w.Banner,
		ProxyTags:            w.ProxyTags,
		KeepProxy:            w.KeepProxy,
		AutoproxyEnabled:     w.AutoproxyEnabled,
		MessageCount:         w.MessageCount,
		LastMessageTimestamp: w.LastMessageTimestamp,
		TTS:                  w.TTS,

		NamePrivacy:        w.Privacy["name_privacy"],
		DescriptionPrivacy: w.Privacy["description_privacy"],
		BirthdayPrivacy:    w.Privacy["birthday_privacy"],
		PronounPrivacy:     w.Privacy["pronoun_privacy"],
		AvatarPrivacy:      w.Privacy["avatar_privacy"],
		MetadataPrivacy:    w.Privacy["metadata_privacy"],
		ProxyPrivacy:       w.Privacy["proxy_privacy"],
		Visibility:         w.Privacy["visibility"],

		Extra: extraKeys(data, memberKnownKeys),
	}

	if w.Created != nil {
		m.Created = *w.Created
	}

	if w.System != nil {
		system, err := ParseSystemID(*w.System)
		if err != nil {
			return nil, errors.WithMessage(err, "member system")
		}

		m.System = system
	}

	return m, nil
}

// String returns the member's reference ID.
func (m *Member) String() string { return m.ID.String() }

// MarshalJSON re-serializes the member, omitting unset fields and internal
// bookkeeping.
func (m *Member) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if m.ID.Code() != "" {
		out["id"] = m.ID.Code()
	}

	if m.ID.UUID() != "" {
		out["uuid"] = m.ID.UUID()
	}

	if !m.System.IsZero() {
		out["system"] = m.System
	}

	if m.Name != "" {
		out["name"] = m.Name
	}

	putString(out, "display_name", m.DisplayName)
	putString(out, "description", m.Description)
	putString(out, "pronouns", m.Pronouns)
	putString(out, "avatar_url", m.AvatarURL)
	putString(out, "webhook_avatar_url", m.WebhookAvatarURL)
	putString(out, "banner", m.Banner)
	putBool(out, "keep_proxy", m.KeepProxy)
	putBool(out, "autoproxy_enabled", m.AutoproxyEnabled)
	putBool(out, "tts", m.TTS)
	putInt(out, "message_count", m.MessageCount)

	if m.Color != nil {
		out["color"] = m.Color
	}

	if m.Birthday != nil {
		out["birthday"] = m.Birthday
	}

	if !m.Created.IsZero() {
		out["created"] = m.Created
	}

	if m.LastMessageTimestamp != nil {
		out["last_message_timestamp"] = m.LastMessageTimestamp
	}

	if len(m.ProxyTags) > 0 {
		out["proxy_tags"] = m.ProxyTags
	}

	privacy := make(map[string]any)
	putPrivacy(privacy, "name_privacy", m.NamePrivacy)
	putPrivacy(privacy, "description_privacy", m.DescriptionPrivacy)
	putPrivacy(privacy, "birthday_privacy", m.BirthdayPrivacy)
	putPrivacy(privacy, "pronoun_privacy", m.PronounPrivacy)
	putPrivacy(privacy, "avatar_privacy", m.AvatarPrivacy)
	putPrivacy(privacy, "metadata_privacy", m.MetadataPrivacy)
	putPrivacy(privacy, "proxy_privacy", m.ProxyPrivacy)
	putPrivacy(privacy, "visibility", m.Visibility)

	if len(privacy) > 0 {
		out["privacy"] = privacy
	}

	return json.Marshal(out) //nolint:wrapcheck // Map marshal of json-safe values cannot fail
}
