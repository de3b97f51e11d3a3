package pluralkit

import (
	"context"
	"net/http"
	"net/url"
)

// GetSystem fetches a system by reference.
func (c *Client) GetSystem(ctx context.Context, system SystemID) (*System, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{system: &system}, ParseSystem)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("system", s.Extra)

	return s, nil
}

// GetOwnSystem fetches the authenticated caller's system and caches its ID
// for later Client.ID calls.
func (c *Client) GetOwnSystem(ctx context.Context) (*System, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{}, ParseSystem)
	if err != nil {
		return nil, err
	}

	c.cacheID(s.ID)
	c.warnUnknown("system", s.Extra)

	return s, nil
}

// UpdateSystem patches the caller's own system. Requires a token.
func (c *Client) UpdateSystem(ctx context.Context, patch Patch) (*System, error) {
	body, err := buildPatchPayload(patch, systemPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/systems/{system}",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{body: body}, ParseSystem)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("system", s.Extra)

	return s, nil
}

// GetSystemSettings fetches the caller's own system settings. Requires a
// token.
func (c *Client) GetSystemSettings(ctx context.Context) (*SystemSettings, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/settings",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{}, ParseSystemSettings)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("system settings", s.Extra)

	return s, nil
}

// UpdateSystemSettings patches the caller's own system settings. Requires a
// token.
func (c *Client) UpdateSystemSettings(ctx context.Context, patch Patch) (*SystemSettings, error) {
	body, err := buildPatchPayload(patch, systemSettingsPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/systems/{system}/settings",
		success:      http.StatusOK,
		statusErrors: systemStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{body: body}, ParseSystemSettings)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("system settings", s.Extra)

	return s, nil
}

// GetSystemGuildSettings fetches the caller's system settings for one guild.
// Requires a token.
func (c *Client) GetSystemGuildSettings(ctx context.Context, guildID string) (*SystemGuildSettings, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/guilds/{guild}",
		success:      http.StatusOK,
		statusErrors: guildStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{guild: guildID}, ParseSystemGuildSettings)
	if err != nil {
		return nil, err
	}

	if s.GuildID == "" {
		s.GuildID = guildID
	}

	c.warnUnknown("system guild settings", s.Extra)

	return s, nil
}

// UpdateSystemGuildSettings patches the caller's system settings for one
// guild. Requires a token.
func (c *Client) UpdateSystemGuildSettings(ctx context.Context, guildID string, patch Patch) (*SystemGuildSettings, error) {
	body, err := buildPatchPayload(patch, systemGuildSettingsPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/systems/{system}/guilds/{guild}",
		success:      http.StatusOK,
		statusErrors: guildStatusErrors,
	}

	s, err := do(ctx, c, ep, callArgs{guild: guildID, body: body}, ParseSystemGuildSettings)
	if err != nil {
		return nil, err
	}

	if s.GuildID == "" {
		s.GuildID = guildID
	}

	c.warnUnknown("system guild settings", s.Extra)

	return s, nil
}

// GetAutoproxySettings fetches the caller's autoproxy settings for one
// guild. Requires a token.
func (c *Client) GetAutoproxySettings(ctx context.Context, guildID string) (*AutoproxySettings, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/systems/{system}/autoproxy",
		success:      http.StatusOK,
		statusErrors: guildStatusErrors,
	}

	query := url.Values{"guild_id": {guildID}}

	s, err := do(ctx, c, ep, callArgs{query: query}, ParseAutoproxySettings)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("autoproxy settings", s.Extra)

	return s, nil
}

// UpdateAutoproxySettings patches the caller's autoproxy settings for one
// guild. Requires a token.
func (c *Client) UpdateAutoproxySettings(ctx context.Context, guildID string, patch Patch) (*AutoproxySettings, error) {
	body, err := buildPatchPayload(patch, autoproxySettingsPatchChecks)
	if err != nil {
		return nil, err
	}

	ep := endpoint{
		method:       http.MethodPatch,
		path:         "/systems/{system}/autoproxy",
		success:      http.StatusOK,
		statusErrors: guildStatusErrors,
	}

	query := url.Values{"guild_id": {guildID}}

	s, err := do(ctx, c, ep, callArgs{query: query, body: body}, ParseAutoproxySettings)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("autoproxy settings", s.Extra)

	return s, nil
}
