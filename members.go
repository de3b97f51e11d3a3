package pluralkit

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
)

// GetMembers lists a system's members. Private members are included only
// when the token owns the system.
func (c *Client) GetMembers(ctx context.Context, system SystemID) ([]*Member, error) {
	return c.getMembers(ctx, &system)
}

// GetOwnMembers lists the caller's own members. Requires a token.
func (c *Client) GetOwnMembers(ctx context.Context) ([]*Member, error) {
	return c.getMembers(ctx, nil)
}

func (c *Client) getMembers(ctx context.Context, system *SystemID) ([]*Member, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/members",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	members, err := do(ctx, c, ep, callArgs{system: system}, func(data []byte) ([]*Member, error) {
		return parseList(data, ParseMember)
	})
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		c.warnUnknown("member", m.Extra)
	}

	return members, nil
}

// GetMember fetches a member by reference.
func (c *Client) GetMember(ctx context.Context, member MemberID) (*Member, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/members/{member}",
		success:      http.StatusOK,
		statusErrors: memberStatusErrors,
	}

	m, err := do(ctx, c, ep, callArgs{member: &member}, ParseMember)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("member", m.Extra)

	return m, nil
}

// CreateMember creates a member in the caller's own system. The name is
// required; any other patchable member field may be supplied. Requires a
// token.
func (c *Client) CreateMember(ctx context.Context, name string, patch Patch) (*Member, error) {
	merged := make(Patch, len(patch)+1)
	for key, value := range patch {
		merged[key] = value
	}

	merged["name"] = name

	body, err := buildPatchPayload(merged, memberPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPost,
		path:         "/members",
		success:      http.StatusOK,
		statusErrors: memberStatusErrors,
	}

	m, err := do(ctx, c, ep, callArgs{body: body}, ParseMember)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("member", m.Extra)

	return m, nil
}

// UpdateMember patches a member of the caller's own system. Requires a
// token.
func (c *Client) UpdateMember(ctx context.Context, member MemberID, patch Patch) (*Member, error) {
	body, err := buildPatchPayload(patch, memberPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/members/{member}",
		success:      http.StatusOK,
		statusErrors: memberStatusErrors,
	}

	m, err := do(ctx, c, ep, callArgs{member: &member, body: body}, ParseMember)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("member", m.Extra)

	return m, nil
}

// DeleteMember deletes a member of the caller's own system. Requires a
// token.
func (c *Client) DeleteMember(ctx context.Context, member MemberID) error {
	ep := endpoint{
		method:       http.MethodDelete,
		path:         "/members/{member}",
		success:      http.StatusNoContent,
		statusErrors: memberStatusErrors,
	}

	return c.exec(ctx, ep, callArgs{member: &member})
}

// GetMemberGroups lists the groups a member belongs to.
func (c *Client) GetMemberGroups(ctx context.Context, member MemberID) ([]*Group, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/members/{member}/groups",
		success:      http.StatusOK,
		statusErrors: memberStatusErrors,
	}

	groups, err := do(ctx, c, ep, callArgs{member: &member}, func(data []byte) ([]*Group, error) {
		return parseList(data, ParseGroup)
	})
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		c.warnUnknown("group", g.Extra)
	}

	return groups, nil
}

// AddMemberToGroups adds a member to the given groups. Requires a token.
func (c *Client) AddMemberToGroups(ctx context.Context, member MemberID, groups []GroupID) error {
	return c.mutateMemberGroups(ctx, member, groups, "add")
}

// RemoveMemberFromGroups removes a member from the given groups. Requires a
// token.
func (c *Client) RemoveMemberFromGroups(ctx context.Context, member MemberID, groups []GroupID) error {
	return c.mutateMemberGroups(ctx, member, groups, "remove")
}

// OverwriteMemberGroups replaces a member's group list. An empty list clears
// it. Requires a token.
func (c *Client) OverwriteMemberGroups(ctx context.Context, member MemberID, groups []GroupID) error {
	return c.mutateMemberGroups(ctx, member, groups, "overwrite")
}

func (c *Client) mutateMemberGroups(ctx context.Context, member MemberID, groups []GroupID, action string) error {
	refs := make([]string, 0, len(groups))
	for _, g := range groups {
		refs = append(refs, g.wire())
	}

	body, err := json.Marshal(refs)
	if err != nil {
		return errors.Wrap(err, "encode group references")
	}

	ep := endpoint{
		method:       http.MethodPost,
		path:         "/members/{member}/groups/" + action,
		success:      http.StatusNoContent,
		statusErrors: memberStatusErrors,
	}

	return c.exec(ctx, ep, callArgs{member: &member, body: body})
}

// GetMemberGuildSettings fetches a member's settings for one guild. Requires
// a token.
func (c *Client) GetMemberGuildSettings(ctx context.Context, member MemberID, guildID string) (*MemberGuildSettings, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/members/{member}/guilds/{guild}",
		success:      http.StatusOK,
		statusErrors: guildStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{member: &member, guild: guildID}, ParseMemberGuildSettings)
	if err != nil {
		return nil, err
	}

	if s.GuildID == "" {
		s.GuildID = guildID
	}

	c.warnUnknown("member guild settings", s.Extra)

	return s, nil
}

// UpdateMemberGuildSettings patches a member's settings for one guild.
// Requires a token.
func (c *Client) UpdateMemberGuildSettings(ctx context.Context, member MemberID, guildID string, patch Patch) (*MemberGuildSettings, error) {
	body, err := buildPatchPayload(patch, memberGuildSettingsPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/members/{member}/guilds/{guild}",
		success:      http.StatusOK,
		statusErrors: guildStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{member: &member, guild: guildID, body: body}, ParseMemberGuildSettings)
	if err != nil {
		return nil, err
	}

	if s.GuildID == "" {
		s.GuildID = guildID
	}

	c.warnUnknown("member guild settings", s.Extra)

	return s, nil
}
