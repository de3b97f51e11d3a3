package pluralkit

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// SystemSettings is the bot-level configuration of one's own system.
type SystemSettings struct {
	Timezone             Timezone
	PingsEnabled         bool
	LatchTimeout         *int
	MemberDefaultPrivate bool
	GroupDefaultPrivate  bool
	ShowPrivateInfo      bool
	MemberLimit          int
	GroupLimit           int

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type systemSettingsWire struct {
	Timezone             *Timezone `json:"timezone"`
	PingsEnabled         *bool     `json:"pings_enabled"`
	LatchTimeout         *int      `json:"latch_timeout"`
	MemberDefaultPrivate *bool     `json:"member_default_private"`
	GroupDefaultPrivate  *bool     `json:"group_default_private"`
	ShowPrivateInfo      *bool     `json:"show_private_info"`
	MemberLimit          *int      `json:"member_limit"`
	GroupLimit           *int      `json:"group_limit"`

	// Bot-internal, not exposed.
	DescriptionTemplates json.RawMessage `json:"description_templates"`
}

var systemSettingsKnownKeys = wireKeys(systemSettingsWire{})

// ParseSystemSettings builds SystemSettings from a wire JSON object.
func ParseSystemSettings(data []byte) (*SystemSettings, error) {
	var w systemSettingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "system settings: %v", err)
	}

	s := &SystemSettings{
		LatchTimeout: w.LatchTimeout,
		Extra:        extraKeys(data, systemSettingsKnownKeys),
	}

	if w.Timezone != nil {
		s.Timezone = *w.Timezone
	}

	if w.PingsEnabled != nil {
		s.PingsEnabled = *w.PingsEnabled
	}

	if w.MemberDefaultPrivate != nil {
		s.MemberDefaultPrivate = *w.MemberDefaultPrivate
	}

	if w.GroupDefaultPrivate != nil {
		s.GroupDefaultPrivate = *w.GroupDefaultPrivate
	}

	if w.ShowPrivateInfo != nil {
		s.ShowPrivateInfo = *w.ShowPrivateInfo
	}

	if w.MemberLimit != nil {
		s.MemberLimit = *w.MemberLimit
	}

	if w.GroupLimit != nil {
		s.GroupLimit = *w.GroupLimit
	}

	return s, nil
}

// AutoproxySettings is a system's per-guild autoproxy configuration.
type AutoproxySettings struct {
	Mode AutoproxyMode

	// Member is the current autoproxy target; nil when the mode is front.
	Member *MemberID

	// LastLatchTimestamp is the time of the last proxied message; nil
	// unless the mode is latch.
	LastLatchTimestamp *Timestamp

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type autoproxySettingsWire struct {
	Mode               *string    `json:"autoproxy_mode"`
	Member             *string    `json:"autoproxy_member"`
	LastLatchTimestamp *Timestamp `json:"last_latch_timestamp"`
}

var autoproxySettingsKnownKeys = wireKeys(autoproxySettingsWire{})

// ParseAutoproxySettings builds AutoproxySettings from a wire JSON object.
func ParseAutoproxySettings(data []byte) (*AutoproxySettings, error) {
	var w autoproxySettingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "autoproxy settings: %v", err)
	}

	s := &AutoproxySettings{
		LastLatchTimestamp: w.LastLatchTimestamp,
		Extra:              extraKeys(data, autoproxySettingsKnownKeys),
	}

	if w.Mode != nil {
		mode, err := ParseAutoproxyMode(*w.Mode)
		if err != nil {
			return nil, errors.WithMessage(err, "autoproxy settings")
		}

		s.Mode = mode
	}

	if w.Member != nil {
		member, err := ParseMemberID(*w.Member)
		if err != nil {
			return nil, errors.WithMessage(err, "autoproxy settings member")
		}

		s.Member = &member
	}

	return s, nil
}

// SystemGuildSettings is a system's configuration for one guild.
type SystemGuildSettings struct {
	GuildID         string
	ProxyingEnabled bool
	Tag             *string
	TagEnabled      bool

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type systemGuildSettingsWire struct {
	GuildID         *snowflake `json:"guild_id"`
	ProxyingEnabled *bool      `json:"proxying_enabled"`
	Tag             *string    `json:"tag"`
	TagEnabled      *bool      `json:"tag_enabled"`
}

var systemGuildSettingsKnownKeys = wireKeys(systemGuildSettingsWire{})

// ParseSystemGuildSettings builds SystemGuildSettings from a wire JSON
// object.
func ParseSystemGuildSettings(data []byte) (*SystemGuildSettings, error) {
	var w systemGuildSettingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "system guild settings: %v", err)
	}

	s := &SystemGuildSettings{
		Tag:   w.Tag,
		Extra: extraKeys(data, systemGuildSettingsKnownKeys),
	}

	if w.GuildID != nil && *w.GuildID != 0 {
		s.GuildID = w.GuildID.String()
	}

	if w.ProxyingEnabled != nil {
		s.ProxyingEnabled = *w.ProxyingEnabled
	}

	if w.TagEnabled != nil {
		s.TagEnabled = *w.TagEnabled
	}

	return s, nil
}

// MemberGuildSettings is a member's configuration for one guild.
type MemberGuildSettings struct {
	GuildID     string
	DisplayName *string
	AvatarURL   *string

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type memberGuildSettingsWire struct {
	GuildID     *snowflake `json:"guild_id"`
	DisplayName *string    `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url"`
}

var memberGuildSettingsKnownKeys = wireKeys(memberGuildSettingsWire{})

// ParseMemberGuildSettings builds MemberGuildSettings from a wire JSON
// object.
func ParseMemberGuildSettings(data []byte) (*MemberGuildSettings, error) {
	var w memberGuildSettingsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "member guild settings: %v", err)
	}

	s := &MemberGuildSettings{
		DisplayName: w.DisplayName,
		AvatarURL:   w.AvatarURL,
		Extra:       extraKeys(data, memberGuildSettingsKnownKeys),
	}

	if w.GuildID != nil && *w.GuildID != 0 {
		s.GuildID = w.GuildID.String()
	}

	return s, nil
}
