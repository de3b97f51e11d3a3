package pluralkit

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
)

// GetGroups lists a system's groups. Private groups are included only when
// the token owns the system.
func (c *Client) GetGroups(ctx context.Context, system SystemID) ([]*Group, error) {
	return c.getGroups(ctx, &system)
}

// GetOwnGroups lists the caller's own groups. Requires a token.
func (c *Client) GetOwnGroups(ctx context.Context) ([]*Group, error) {
	return c.getGroups(ctx, nil)
}

func (c *Client) getGroups(ctx context.Context, system *SystemID) ([]*Group, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/groups",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	groups, err := do(ctx, c, ep, callArgs{system: system}, func(data []byte) ([]*Group, error) {
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

// GetGroup fetches a group by reference.
func (c *Client) GetGroup(ctx context.Context, group GroupID) (*Group, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/groups/{group}",
		success:      http.StatusOK,
		statusErrors: groupStatusErrors,
	}

	g, err := do(ctx, c, ep, callArgs{group: &group}, ParseGroup)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("group", g.Extra)

	return g, nil
}

// CreateGroup creates a group in the caller's own system. The name is
// required; any other patchable group field may be supplied. Requires a
// token.
func (c *Client) CreateGroup(ctx context.Context, name string, patch Patch) (*Group, error) {
	merged := make(Patch, len(patch)+1)
	for key, value := range patch {
		merged[key] = value
	}

	merged["name"] = name

	body, err := buildPatchPayload(merged, groupPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPost,
		path:         "/groups",
		success:      http.StatusOK,
		statusErrors: groupStatusErrors,
	}

	g, err := do(ctx, c, ep, callArgs{body: body}, ParseGroup)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("group", g.Extra)

	return g, nil
}

// UpdateGroup patches a group of the caller's own system. Requires a token.
func (c *Client) UpdateGroup(ctx context.Context, group GroupID, patch Patch) (*Group, error) {
	body, err := buildPatchPayload(patch, groupPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/groups/{group}",
		success:      http.StatusOK,
		statusErrors: groupStatusErrors,
	}

	g, err := do(ctx, c, ep, callArgs{group: &group, body: body}, ParseGroup)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("group", g.Extra)

	return g, nil
}

// DeleteGroup deletes a group of the caller's own system. Requires a token.
func (c *Client) DeleteGroup(ctx context.Context, group GroupID) error {
	ep := endpoint{
		method:       http.MethodDelete,
		path:         "/groups/{group}",
		success:      http.StatusNoContent,
		statusErrors: groupStatusErrors,
	}

	return c.exec(ctx, ep, callArgs{group: &group})
}

// GetGroupMembers lists a group's members.
func (c *Client) GetGroupMembers(ctx context.Context, group GroupID) ([]*Member, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/groups/{group}/members",
		success:      http.StatusOK,
		statusErrors: groupStatusErrors,
	}

	members, err := do(ctx, c, ep, callArgs{group: &group}, func(data []byte) ([]*Member, error) {
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

// AddGroupMembers adds the given members to a group. Requires a token.
func (c *Client) AddGroupMembers(ctx context.Context, group GroupID, members []MemberID) error {
	return c.mutateGroupMembers(ctx, group, members, "add")
}

// RemoveGroupMembers removes the given members from a group. Requires a
// token.
func (c *Client) RemoveGroupMembers(ctx context.Context, group GroupID, members []MemberID) error {
	return c.mutateGroupMembers(ctx, group, members, "remove")
}

// OverwriteGroupMembers replaces a group's member list. An empty list clears
// it. Requires a token.
func (c *Client) OverwriteGroupMembers(ctx context.Context, group GroupID, members []MemberID) error {
	return c.mutateGroupMembers(ctx, group, members, "overwrite")
}

func (c *Client) mutateGroupMembers(ctx context.Context, group GroupID, members []MemberID, action string) error {
	refs := make([]string, 0, len(members))
	for _, m := range members {
		refs = append(refs, m.wire())
	}

	body, err := json.Marshal(refs)
	if err != nil {
		return errors.Wrap(err, "encode member references")
	}

	ep := endpoint{
		method:       http.MethodPost,
		path:         "/groups/{group}/members/" + action,
		success:      http.StatusNoContent,
		statusErrors: groupStatusErrors,
	}

	return c.exec(ctx, ep, callArgs{group: &group, body: body})
}
