package pluralkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// SwitchesQuery narrows a switch-history listing. The zero value fetches
// the most recent page at the API's default size.
type SwitchesQuery struct {
	// Before restricts results to switches strictly older than this
	// instant.
	Before *Timestamp

	// Limit caps the number of switches returned (the API maximum is
	// 100).
	Limit int
}

func (q SwitchesQuery) values() url.Values {
	query := url.Values{}

	if q.Before != nil {
		query.Set("before", q.Before.wire())
	}

	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	return query
}

// GetSwitches lists a system's switch history, most recent first. Member
// lists come back as bare references.
func (c *Client) GetSwitches(ctx context.Context, system SystemID, q SwitchesQuery) ([]*Switch, error) {
	return c.getSwitches(ctx, &system, q)
}

// GetOwnSwitches lists the caller's own switch history. Requires a token.
func (c *Client) GetOwnSwitches(ctx context.Context, q SwitchesQuery) ([]*Switch, error) {
	return c.getSwitches(ctx, nil, q)
}

func (c *Client) getSwitches(ctx context.Context, system *SystemID, q SwitchesQuery) ([]*Switch, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/switches",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	switches, err := do(ctx, c, ep, callArgs{system: system, query: q.values()},
		func(data []byte) ([]*Switch, error) {
			return parseList(data, ParseSwitch)
		})
	if err != nil {
		return nil, err
	}

	for _, sw := range switches {
		c.warnUnknown("switch", sw.Extra)
	}

	return switches, nil
}

// GetFronters fetches a system's current switch with full member objects.
func (c *Client) GetFronters(ctx context.Context, system SystemID) (*Switch, error) {
	return c.getFronters(ctx, &system)
}

// GetOwnFronters fetches the caller's current switch. Requires a token.
func (c *Client) GetOwnFronters(ctx context.Context) (*Switch, error) {
	return c.getFronters(ctx, nil)
}

func (c *Client) getFronters(ctx context.Context, system *SystemID) (*Switch, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/fronters",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	sw, err := do(ctx, c, ep, callArgs{system: system}, ParseSwitch)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("switch", sw.Extra)

	return sw, nil
}

// GetSwitch fetches one switch by ID, with full member objects.
func (c *Client) GetSwitch(ctx context.Context, system SystemID, sw SwitchID) (*Switch, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/switches/{switch}",
		success:      http.StatusOK,
		statusErrors: switchStatusErrors,
	}

	result, err := do(ctx, c, ep, callArgs{system: &system, swtch: &sw}, ParseSwitch)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("switch", result.Extra)

	return result, nil
}

// CreateSwitch logs a new switch for the caller's own system. An empty
// member list logs a switch-out; a nil timestamp means now. Requires a
// token.
func (c *Client) CreateSwitch(ctx context.Context, members []MemberID, at *Timestamp) (*Switch, error) {
	refs := make([]string, 0, len(members))
	for _, m := range members {
		refs = append(refs, m.wire())
	}

	payload := map[string]any{"members": refs}
	if at != nil {
		payload["timestamp"] = at.wire()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode switch")
	}

	ep := endpoint{
		method:       http.MethodPost,
		path:         "/systems/{system}/switches",
		success:      http.StatusOK,
		statusErrors: switchStatusErrors,
	}

	sw, err := do(ctx, c, ep, callArgs{body: body}, ParseSwitch)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("switch", sw.Extra)

	return sw, nil
}

// UpdateSwitch patches a switch of the caller's own system; patchable
// fields are "timestamp" and "members". Requires a token.
func (c *Client) UpdateSwitch(ctx context.Context, sw SwitchID, patch Patch) (*Switch, error) {
	body, err := buildPatchPayload(patch, switchPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/systems/{system}/switches/{switch}",
		success:      http.StatusOK,
		statusErrors: switchStatusErrors,
	}

	result, err := do(ctx, c, ep, callArgs{swtch: &sw, body: body}, ParseSwitch)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("switch", result.Extra)

	return result, nil
}

// UpdateSwitchMembers replaces the member list of a switch of the caller's
// own system. Requires a token.
func (c *Client) UpdateSwitchMembers(ctx context.Context, sw SwitchID, members []MemberID) (*Switch, error) {
	refs := make([]string, 0, len(members))
	for _, m := range members {
		refs = append(refs, m.wire())
	}

	body, err := json.Marshal(refs)
	if err != nil {
		return nil, errors.Wrap(err, "encode member references")
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/systems/{system}/switches/{switch}/members",
		success:      http.StatusOK,
		statusErrors: switchStatusErrors,
	}

	result, err := do(ctx, c, ep, callArgs{swtch: &sw, body: body}, ParseSwitch)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("switch", result.Extra)

	return result, nil
}

// DeleteSwitch deletes a switch of the caller's own system. Requires a
// token.
func (c *Client) DeleteSwitch(ctx context.Context, sw SwitchID) error {
	ep := endpoint{
		method:       http.MethodDelete,
		path:         "/systems/{system}/switches/{switch}",
		success:      http.StatusNoContent,
		statusErrors: switchStatusErrors,
	}

	return c.exec(ctx, ep, callArgs{swtch: &sw})
}
