package pluralkit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/solweaver/go-pluralkit/observability"
)

// endpoint describes one API operation: method, path template with
// placeholder segments, the status code that signals success, and the
// status-to-error lookup used for everything else.
type endpoint struct {
	method       string
	path         string
	success      int
	statusErrors map[int]error
}

// callArgs carries the per-call inputs an endpoint's path and query need.
// A nil system means "the caller's own system" and resolves to the @me
// sentinel, which requires a token.
type callArgs struct {
	system  *SystemID
	member  *MemberID
	group   *GroupID
	swtch   *SwitchID
	message string
	guild   string
	query   url.Values
	body    []byte
}

// resolveURL substitutes the endpoint's placeholders from the call args and
// appends the query string. Referencing one's own system without a token
// fails before any network traffic.
func (c *Client) resolveURL(ep endpoint, a callArgs) (string, error) {
	path := ep.path

	if strings.Contains(path, "{system}") {
		ref := "@me"

		if a.system != nil {
			ref = a.system.wire()
		} else if !c.Authenticated() {
			return "", errors.Wrap(ErrUnauthorized,
				"cannot reference own system without a token")
		}

		path = strings.ReplaceAll(path, "{system}", ref)
	}

	if a.member != nil {
		path = strings.ReplaceAll(path, "{member}", a.member.wire())
	}

	if a.group != nil {
		path = strings.ReplaceAll(path, "{group}", a.group.wire())
	}

	if a.swtch != nil {
		path = strings.ReplaceAll(path, "{switch}", a.swtch.UUID())
	}

	if a.message != "" {
		path = strings.ReplaceAll(path, "{message}", a.message)
	}

	if a.guild != "" {
		path = strings.ReplaceAll(path, "{guild}", a.guild)
	}

	u := c.baseURL + path
	if len(a.query) > 0 {
		u += "?" + a.query.Encode()
	}

	return u, nil
}

// call executes one request and returns the response body. Any status code
// other than the endpoint's success status maps through its error lookup.
func (c *Client) call(ctx context.Context, ep endpoint, a callArgs) ([]byte, error) {
	u, err := c.resolveURL(ep, a)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if a.body != nil {
		body = bytes.NewReader(a.body)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method, u, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", ep.method, ep.path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", ep.method, ep.path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s response", ep.method, ep.path)
	}

	if resp.StatusCode != ep.success {
		return nil, newAPIError(resp.StatusCode, data, ep.statusErrors)
	}

	return data, nil
}

// do runs an endpoint and decodes its body with the given parse function.
func do[T any](ctx context.Context, c *Client, ep endpoint, a callArgs, parse func([]byte) (T, error)) (T, error) {
	var zero T

	data, err := c.call(ctx, ep, a)
	if err != nil {
		return zero, err
	}

	out, err := parse(data)
	if err != nil {
		return zero, err
	}

	return out, nil
}

// exec runs an endpoint whose success response has no body.
func (c *Client) exec(ctx context.Context, ep endpoint, a callArgs) error {
	_, err := c.call(ctx, ep, a)

	return err
}

// parseList decodes a JSON array element-by-element through a model parser.
func parseList[T any](data []byte, parse func([]byte) (T, error)) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(ErrParse, "expected a JSON array: %v", err)
	}

	out := make([]T, 0, len(raw))

	for _, element := range raw {
		item, err := parse(element)
		if err != nil {
			return nil, err
		}

		out = append(out, item)
	}

	return out, nil
}

// warnUnknown logs response keys outside the known schema, one warning per
// entity, so schema drift is visible without breaking decoding.
func (c *Client) warnUnknown(entity string, extra map[string]json.RawMessage) {
	if len(extra) == 0 {
		return
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}

	c.logger.Warn("response carries unknown fields",
		observability.Field{Key: "entity", Value: entity},
		observability.Field{Key: "keys", Value: strings.Join(keys, ",")},
	)
}
