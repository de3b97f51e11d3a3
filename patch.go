package pluralkit

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Patch is a partial update for one entity. Keys are the wire field names;
// values are either Go types from this package or plain strings, bools and
// ints that coerce to them. Every update operation validates its patch
// locally and rejects unknown keys before anything touches the network.
type Patch map[string]any

// fieldCheck validates one patch value and returns its wire form.
type fieldCheck func(value any) (any, error)

// privacyAssociatedKeys are patch keys that the API expects nested under a
// "privacy" object rather than at the top level.
var privacyAssociatedKeys = map[string]struct{}{
	"visibility":            {},
	"name_privacy":          {},
	"description_privacy":   {},
	"birthday_privacy":      {},
	"pronoun_privacy":       {},
	"avatar_privacy":        {},
	"proxy_privacy":         {},
	"metadata_privacy":      {},
	"member_list_privacy":   {},
	"group_list_privacy":    {},
	"front_privacy":         {},
	"front_history_privacy": {},
	"icon_privacy":          {},
	"list_privacy":          {},
}

// buildPatchPayload validates a patch against an entity's field table and
// returns the JSON request body. Privacy keys are collected into a nested
// "privacy" object.
func buildPatchPayload(patch Patch, checks map[string]fieldCheck) ([]byte, error) {
	if len(patch) == 0 {
		return nil, errors.Wrap(ErrValidation, "patch is empty")
	}

	body := make(map[string]any, len(patch))
	privacy := make(map[string]any)

	for key, value := range patch {
		check, ok := checks[key]
		if !ok {
			return nil, errors.Wrapf(ErrValidation, "%q is not a patchable field", key)
		}

		wire, err := check(value)
		if err != nil {
			return nil, errors.WithMessagef(err, "field %q", key)
		}

		if _, nested := privacyAssociatedKeys[key]; nested {
			privacy[key] = wire
		} else {
			body[key] = wire
		}
	}

	if len(privacy) > 0 {
		body["privacy"] = privacy
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(ErrValidation, "encode patch: %v", err)
	}

	return data, nil
}

// maxString checks that a value is a string no longer than max runes.
// Unless nullAllowed, nil is rejected too.
func maxString(field string, max int, nullAllowed bool) fieldCheck {
	return func(value any) (any, error) {
		if value == nil {
			if nullAllowed {
				return nil, nil
			}

			return nil, errors.Wrapf(ErrValidation, "%s cannot be null", field)
		}

		s, ok := value.(string)
		if !ok {
			if p, isPtr := value.(*string); isPtr {
				if p == nil {
					if nullAllowed {
						return nil, nil
					}

					return nil, errors.Wrapf(ErrValidation, "%s cannot be null", field)
				}

				s = *p
				ok = true
			}
		}

		if !ok {
			return nil, errors.Wrapf(ErrValidation, "%s must be a string, got %T", field, value)
		}

		if n := utf8.RuneCountInString(s); n > max {
			return nil, errors.Wrapf(ErrValidation,
				"%s must be at most %d characters, got %d", field, max, n)
		}

		return s, nil
	}
}

func checkBool(value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, errors.Wrapf(ErrValidation, "expected a bool, got %T", value)
	}

	return b, nil
}

func checkColor(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Color:
		return v.String(), nil
	case *Color:
		if v == nil {
			return nil, nil
		}

		return v.String(), nil
	case string:
		c, err := ParseColor(v)
		if err != nil {
			return nil, err
		}

		return c.String(), nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected a Color or string, got %T", value)
	}
}

func checkPrivacy(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Privacy:
		if v == PrivacyUnset {
			return nil, nil
		}

		return v.String(), nil
	case string:
		p, err := ParsePrivacy(v)
		if err != nil {
			return nil, err
		}

		if p == PrivacyUnset {
			return nil, nil
		}

		return p.String(), nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected a Privacy or string, got %T", value)
	}
}

func checkTimestamp(value any) (any, error) {
	switch v := value.(type) {
	case Timestamp:
		return v.wire(), nil
	case *Timestamp:
		if v == nil {
			return nil, errors.Wrap(ErrValidation, "timestamp cannot be null")
		}

		return v.wire(), nil
	case string:
		ts, err := ParseTimestamp(v)
		if err != nil {
			return nil, err
		}

		return ts.wire(), nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected a Timestamp or string, got %T", value)
	}
}

func checkBirthday(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Birthday:
		return v.wire(), nil
	case *Birthday:
		if v == nil {
			return nil, nil
		}

		return v.wire(), nil
	case string:
		b, err := ParseBirthday(v)
		if err != nil {
			return nil, err
		}

		return b.wire(), nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected a Birthday or string, got %T", value)
	}
}

// checkTimezone treats null as a reset back to UTC, matching the API's
// default.
func checkTimezone(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return "UTC", nil
	case Timezone:
		return v.String(), nil
	case *Timezone:
		if v == nil {
			return "UTC", nil
		}

		return v.String(), nil
	case string:
		tz, err := ParseTimezone(v)
		if err != nil {
			return nil, err
		}

		return tz.String(), nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected a Timezone or string, got %T", value)
	}
}

func checkProxyTags(value any) (any, error) {
	switch v := value.(type) {
	case ProxyTags:
		return v, nil
	case []ProxyTag:
		return ProxyTags(v), nil
	case ProxyTag:
		return ProxyTags{v}, nil
	case *ProxyTag:
		if v == nil {
			return nil, errors.Wrap(ErrValidation, "proxy tag cannot be null")
		}

		return ProxyTags{*v}, nil
	default:
		return nil, errors.Wrapf(ErrValidation,
			"expected ProxyTags, a ProxyTag or a slice of them, got %T", value)
	}
}

// checkMembers coerces a member, a member ID, a string reference, or a slice
// of any of those into a list of wire references.
func checkMembers(value any) (any, error) {
	switch v := value.(type) {
	case MemberID:
		return []string{v.wire()}, nil
	case *Member:
		if v == nil {
			return nil, errors.Wrap(ErrValidation, "member cannot be null")
		}

		return []string{v.ID.wire()}, nil
	case string:
		id, err := ParseMemberID(v)
		if err != nil {
			return nil, err
		}

		return []string{id.wire()}, nil
	case []MemberID:
		refs := make([]string, 0, len(v))
		for _, id := range v {
			refs = append(refs, id.wire())
		}

		return refs, nil
	case []*Member:
		refs := make([]string, 0, len(v))

		for _, m := range v {
			if m == nil {
				return nil, errors.Wrap(ErrValidation, "member list contains null")
			}

			refs = append(refs, m.ID.wire())
		}

		return refs, nil
	case []string:
		refs := make([]string, 0, len(v))

		for _, raw := range v {
			id, err := ParseMemberID(raw)
			if err != nil {
				return nil, err
			}

			refs = append(refs, id.wire())
		}

		return refs, nil
	default:
		return nil, errors.Wrapf(ErrValidation,
			"expected members as IDs, objects or strings, got %T", value)
	}
}

// checkOptionalMember accepts a single member reference or null.
func checkOptionalMember(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case MemberID:
		return v.wire(), nil
	case *Member:
		if v == nil {
			return nil, nil
		}

		return v.ID.wire(), nil
	case string:
		id, err := ParseMemberID(v)
		if err != nil {
			return nil, err
		}

		return id.wire(), nil
	default:
		return nil, errors.Wrapf(ErrValidation,
			"expected a member ID, object or string, got %T", value)
	}
}

func checkLatchTimeout(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return v, nil
	case *int:
		if v == nil {
			return nil, nil
		}

		return *v, nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected an int, got %T", value)
	}
}

var systemPatchChecks = map[string]fieldCheck{
	"name":                  maxString("name", 100, false),
	"description":           maxString("description", 1000, true),
	"tag":                   maxString("tag", 79, true),
	"pronouns":              maxString("pronouns", 100, true),
	"avatar_url":            maxString("avatar_url", 256, true),
	"banner":                maxString("banner", 256, true),
	"color":                 checkColor,
	"description_privacy":   checkPrivacy,
	"pronoun_privacy":       checkPrivacy,
	"member_list_privacy":   checkPrivacy,
	"group_list_privacy":    checkPrivacy,
	"front_privacy":         checkPrivacy,
	"front_history_privacy": checkPrivacy,
}

var memberPatchChecks = map[string]fieldCheck{
	"name":                maxString("name", 100, false),
	"display_name":        maxString("display_name", 100, true),
	"color":               checkColor,
	"birthday":            checkBirthday,
	"pronouns":            maxString("pronouns", 100, true),
	"avatar_url":          maxString("avatar_url", 256, true),
	"webhook_avatar_url":  maxString("webhook_avatar_url", 256, true),
	"banner":              maxString("banner", 256, true),
	"description":         maxString("description", 1000, true),
	"proxy_tags":          checkProxyTags,
	"keep_proxy":          checkBool,
	"tts":                 checkBool,
	"visibility":          checkPrivacy,
	"name_privacy":        checkPrivacy,
	"description_privacy": checkPrivacy,
	"birthday_privacy":    checkPrivacy,
	"pronoun_privacy":     checkPrivacy,
	"avatar_privacy":      checkPrivacy,
	"proxy_privacy":       checkPrivacy,
	"metadata_privacy":    checkPrivacy,
}

var groupPatchChecks = map[string]fieldCheck{
	"name":                maxString("name", 100, false),
	"display_name":        maxString("display_name", 100, true),
	"description":         maxString("description", 1000, true),
	"icon":                maxString("icon", 256, true),
	"banner":              maxString("banner", 256, true),
	"color":               checkColor,
	"name_privacy":        checkPrivacy,
	"description_privacy": checkPrivacy,
	"icon_privacy":        checkPrivacy,
	"list_privacy":        checkPrivacy,
	"metadata_privacy":    checkPrivacy,
	"visibility":          checkPrivacy,
}

var switchPatchChecks = map[string]fieldCheck{
	"members":   checkMembers,
	"timestamp": checkTimestamp,
}

var autoproxySettingsPatchChecks = map[string]fieldCheck{
	"autoproxy_mode":   checkAutoproxyMode,
	"autoproxy_member": checkOptionalMember,
}

func checkAutoproxyMode(value any) (any, error) {
	switch v := value.(type) {
	case AutoproxyMode:
		if _, err := ParseAutoproxyMode(string(v)); err != nil {
			return nil, err
		}

		return string(v), nil
	case string:
		mode, err := ParseAutoproxyMode(v)
		if err != nil {
			return nil, err
		}

		return string(mode), nil
	default:
		return nil, errors.Wrapf(ErrValidation, "expected an AutoproxyMode or string, got %T", value)
	}
}

var systemSettingsPatchChecks = map[string]fieldCheck{
	"timezone":               checkTimezone,
	"pings_enabled":          checkBool,
	"latch_timeout":          checkLatchTimeout,
	"member_default_private": checkBool,
	"group_default_private":  checkBool,
	"show_private_info":      checkBool,
}

var systemGuildSettingsPatchChecks = map[string]fieldCheck{
	"proxying_enabled": checkBool,
	"tag":              maxString("tag", 79, true),
	"tag_enabled":      checkBool,
}

var memberGuildSettingsPatchChecks = map[string]fieldCheck{
	"display_name": maxString("display_name", 100, true),
	"avatar_url":   maxString("avatar_url", 256, true),
}
