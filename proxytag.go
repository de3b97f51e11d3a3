package pluralkit

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ProxyTag is a prefix/suffix pattern identifying which messages a member's
// persona should claim. At least one of the two must be non-empty.
type ProxyTag struct {
	Prefix string
	Suffix string
}

// NewProxyTag validates that the pattern is non-empty.
func NewProxyTag(prefix, suffix string) (ProxyTag, error) {
	if prefix == "" && suffix == "" {
		return ProxyTag{}, errors.Wrap(ErrValidation, "a proxy tag needs at least one of prefix or suffix")
	}

	return ProxyTag{Prefix: prefix, Suffix: suffix}, nil
}

// Match reports whether the message, trimmed of surrounding whitespace,
// starts with the prefix and ends with the suffix. An empty prefix or suffix
// matches anything.
func (pt ProxyTag) Match(message string) bool {
	message = strings.TrimSpace(message)

	return strings.HasPrefix(message, pt.Prefix) && strings.HasSuffix(message, pt.Suffix)
}

func (pt ProxyTag) String() string {
	return pt.Prefix + "text" + pt.Suffix
}

// proxyTagWire carries nullable prefix/suffix, matching the API shape.
type proxyTagWire struct {
	Prefix *string `json:"prefix"`
	Suffix *string `json:"suffix"`
}

func (pt ProxyTag) MarshalJSON() ([]byte, error) {
	wire := proxyTagWire{}

	if pt.Prefix != "" {
		wire.Prefix = &pt.Prefix
	}

	if pt.Suffix != "" {
		wire.Suffix = &pt.Suffix
	}

	return json.Marshal(wire) //nolint:wrapcheck // Struct marshal cannot fail
}

func (pt *ProxyTag) UnmarshalJSON(data []byte) error {
	var wire proxyTagWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "malformed proxy tag")
	}

	var prefix, suffix string

	if wire.Prefix != nil {
		prefix = *wire.Prefix
	}

	if wire.Suffix != nil {
		suffix = *wire.Suffix
	}

	parsed, err := NewProxyTag(prefix, suffix)
	if err != nil {
		return err
	}

	*pt = parsed

	return nil
}

// ProxyTags is an ordered collection of proxy tags.
type ProxyTags []ProxyTag

// Match reports whether any tag matches the message. An empty set never
// matches.
func (pts ProxyTags) Match(message string) bool {
	for _, pt := range pts {
		if pt.Match(message) {
			return true
		}
	}

	return false
}
