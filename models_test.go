package pluralkit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memberFixture = `{
  "id": "gaznd",
  "uuid": "0c7e8f45-92a5-434a-8f2f-27bb6308e4b9",
  "name": "Aster",
  "system": "abcde",
  "display_name": "✨ Aster",
  "color": "a1b2c3",
  "birthday": "0004-07-09",
  "pronouns": "they/them",
  "avatar_url": null,
  "banner": null,
  "description": "A description.",
  "created": "2020-01-12T02:00:53.945407Z",
  "proxy_tags": [{"prefix": "A:", "suffix": null}],
  "keep_proxy": false,
  "privacy": {
    "visibility": "public",
    "name_privacy": "public",
    "description_privacy": "private"
  }
}`

func TestParseMember(t *testing.T) {
	t.Parallel()

	m, err := ParseMember([]byte(memberFixture))
	require.NoError(t, err)

	assert.Equal(t, "gaznd", m.ID.Code())
	assert.Equal(t, "0c7e8f45-92a5-434a-8f2f-27bb6308e4b9", m.ID.UUID())

	// Once the UUID is known it is the preferred reference.
	assert.Equal(t, "0c7e8f45-92a5-434a-8f2f-27bb6308e4b9", m.String())

	assert.Equal(t, "Aster", m.Name)
	assert.Equal(t, "abcde", m.System.Code())

	require.NotNil(t, m.DisplayName)
	assert.Equal(t, "✨ Aster", *m.DisplayName)

	require.NotNil(t, m.Color)
	assert.Equal(t, "a1b2c3", m.Color.String())

	require.NotNil(t, m.Birthday)
	assert.True(t, m.Birthday.HiddenYear())

	assert.Nil(t, m.AvatarURL)
	assert.Nil(t, m.Banner)

	require.Len(t, m.ProxyTags, 1)
	assert.True(t, m.ProxyTags.Match("A: hi"))

	require.NotNil(t, m.KeepProxy)
	assert.False(t, *m.KeepProxy)

	assert.Equal(t, 2020, m.Created.Year())

	// Reported privacy flattens to typed fields; absent keys stay unset.
	assert.Equal(t, PrivacyPublic, m.Visibility)
	assert.Equal(t, PrivacyPublic, m.NamePrivacy)
	assert.Equal(t, PrivacyPrivate, m.DescriptionPrivacy)
	assert.Equal(t, PrivacyUnset, m.BirthdayPrivacy)
	assert.Equal(t, PrivacyUnset, m.MetadataPrivacy)

	assert.Empty(t, m.Extra)
}

func TestParseMemberRequiresReference(t *testing.T) {
	t.Parallel()

	_, err := ParseMember([]byte(`{"name": "Aster"}`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseMemberRetainsUnknownKeys(t *testing.T) {
	t.Parallel()

	m, err := ParseMember([]byte(`{"id": "gaznd", "name": "Aster", "sparkliness": 11}`))
	require.NoError(t, err)
	require.Contains(t, m.Extra, "sparkliness")
	assert.JSONEq(t, `11`, string(m.Extra["sparkliness"]))
}

func TestMemberMarshalOmitsUnset(t *testing.T) {
	t.Parallel()

	m, err := ParseMember([]byte(`{"id": "gaznd", "name": "Aster"}`))
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"gaznd","name":"Aster"}`, string(data))
}

func TestParseSystem(t *testing.T) {
	t.Parallel()

	fixture := `{
	  "id": "abcde",
	  "uuid": "c36e894f-3fa2-4b83-98db-26f75cfd42a2",
	  "name": "Chorus",
	  "tag": "| Ch",
	  "created": "2019-01-01T14:30:00.987654Z",
	  "tz": "America/Chicago",
	  "privacy": {"description_privacy": "public", "front_privacy": "private"}
	}`

	s, err := ParseSystem([]byte(fixture))
	require.NoError(t, err)

	assert.Equal(t, "abcde", s.ID.Code())
	require.NotNil(t, s.Name)
	assert.Equal(t, "Chorus", *s.Name)
	assert.Equal(t, "America/Chicago", s.Timezone.String())
	assert.Equal(t, PrivacyPublic, s.DescriptionPrivacy)
	assert.Equal(t, PrivacyPrivate, s.FrontPrivacy)
	assert.Equal(t, PrivacyUnset, s.MemberListPrivacy)
	assert.Empty(t, s.Extra)
}

func TestParseSwitchShapes(t *testing.T) {
	t.Parallel()

	t.Run("bare member references", func(t *testing.T) {
		t.Parallel()

		sw, err := ParseSwitch([]byte(`{
		  "id": "9b7f8b5a-7e8d-4a52-bd5b-79a6a2ebf87b",
		  "timestamp": "2021-09-30T01:02:03.420000Z",
		  "members": ["gaznd", "fghijk"]
		}`))
		require.NoError(t, err)

		assert.Equal(t, "9b7f8b5a-7e8d-4a52-bd5b-79a6a2ebf87b", sw.ID.UUID())
		require.Len(t, sw.Members, 2)

		assert.Equal(t, "gaznd", sw.Members[0].ID().Code())
		_, ok := sw.Members[0].Member()
		assert.False(t, ok)

		// Six-letter references normalize like any other short code.
		assert.Equal(t, "fgh-ijk", sw.Members[1].ID().Code())
	})

	t.Run("full member objects", func(t *testing.T) {
		t.Parallel()

		sw, err := ParseSwitch([]byte(`{
		  "id": "9b7f8b5a-7e8d-4a52-bd5b-79a6a2ebf87b",
		  "timestamp": "2021-09-30T01:02:03.420000Z",
		  "members": [{"id": "gaznd", "name": "Aster"}]
		}`))
		require.NoError(t, err)

		require.Len(t, sw.Members, 1)
		member, ok := sw.Members[0].Member()
		require.True(t, ok)
		assert.Equal(t, "Aster", member.Name)
		assert.Equal(t, "gaznd", sw.Members[0].ID().Code())
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSwitch([]byte(`{"timestamp": "2021-09-30T01:02:03Z"}`))
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestParseMessage(t *testing.T) {
	t.Parallel()

	fixture := `{
	  "timestamp": "2021-09-30T01:02:03.420000Z",
	  "id": "880485315061377086",
	  "original": "880485314344159292",
	  "sender": "466378653216014359",
	  "channel": "468588023021314048",
	  "guild": "466707357099884544",
	  "system": {"id": "abcde", "name": "Chorus"},
	  "member": {"id": "gaznd", "name": "Aster"}
	}`

	msg, err := ParseMessage([]byte(fixture))
	require.NoError(t, err)

	assert.Equal(t, uint64(880485315061377086), msg.ID)
	assert.Equal(t, uint64(880485314344159292), msg.Original)
	assert.Equal(t, uint64(466378653216014359), msg.Sender)
	assert.Equal(t, 2021, msg.Timestamp.Year())

	require.NotNil(t, msg.System)
	require.NotNil(t, msg.System.Name)
	assert.Equal(t, "Chorus", *msg.System.Name)

	require.NotNil(t, msg.Member)
	assert.Equal(t, "Aster", msg.Member.Name)
}

func TestParseMessageDeletedEntities(t *testing.T) {
	t.Parallel()

	msg, err := ParseMessage([]byte(`{
	  "id": "880485315061377086",
	  "timestamp": "2021-09-30T01:02:03Z",
	  "system": null,
	  "member": null
	}`))
	require.NoError(t, err)

	assert.Nil(t, msg.System)
	assert.Nil(t, msg.Member)
}

func TestParseSystemSettings(t *testing.T) {
	t.Parallel()

	s, err := ParseSystemSettings([]byte(`{
	  "timezone": "Europe/Berlin",
	  "pings_enabled": true,
	  "latch_timeout": null,
	  "member_default_private": true,
	  "group_default_private": false,
	  "show_private_info": true,
	  "member_limit": 1000,
	  "group_limit": 250,
	  "description_templates": []
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", s.Timezone.String())
	assert.True(t, s.PingsEnabled)
	assert.Nil(t, s.LatchTimeout)
	assert.True(t, s.MemberDefaultPrivate)
	assert.False(t, s.GroupDefaultPrivate)
	assert.Equal(t, 1000, s.MemberLimit)
	assert.Equal(t, 250, s.GroupLimit)
	assert.Empty(t, s.Extra)
}

func TestParseAutoproxySettings(t *testing.T) {
	t.Parallel()

	s, err := ParseAutoproxySettings([]byte(`{
	  "autoproxy_mode": "latch",
	  "autoproxy_member": "gaznd",
	  "last_latch_timestamp": "2021-09-30T01:02:03.420000Z"
	}`))
	require.NoError(t, err)

	assert.Equal(t, AutoproxyLatch, s.Mode)
	require.NotNil(t, s.Member)
	assert.Equal(t, "gaznd", s.Member.Code())
	require.NotNil(t, s.LastLatchTimestamp)
	assert.Equal(t, time.September, s.LastLatchTimestamp.Month())
}

func TestParseGuildSettings(t *testing.T) {
	t.Parallel()

	t.Run("system", func(t *testing.T) {
		t.Parallel()

		s, err := ParseSystemGuildSettings([]byte(`{
		  "guild_id": "466707357099884544",
		  "proxying_enabled": true,
		  "tag": "| Ch",
		  "tag_enabled": true
		}`))
		require.NoError(t, err)

		assert.Equal(t, "466707357099884544", s.GuildID)
		assert.True(t, s.ProxyingEnabled)
		require.NotNil(t, s.Tag)
		assert.Equal(t, "| Ch", *s.Tag)
	})

	t.Run("member", func(t *testing.T) {
		t.Parallel()

		s, err := ParseMemberGuildSettings([]byte(`{
		  "guild_id": "466707357099884544",
		  "display_name": "Aster!",
		  "avatar_url": null
		}`))
		require.NoError(t, err)

		assert.Equal(t, "466707357099884544", s.GuildID)
		require.NotNil(t, s.DisplayName)
		assert.Equal(t, "Aster!", *s.DisplayName)
		assert.Nil(t, s.AvatarURL)
	})
}
