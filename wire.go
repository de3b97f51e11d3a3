package pluralkit

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Helpers shared by the entity models' wire decoding and encoding.

// wireKeys collects the json tag names of a wire struct, used to tell
// expected response keys from schema drift.
func wireKeys(v any) map[string]struct{} {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	keys := make(map[string]struct{}, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		keys[name] = struct{}{}
	}

	return keys
}

// extraKeys returns the keys of the object that are not part of the known
// schema, preserved raw. Schema additions on the server side land here
// instead of failing the decode.
func extraKeys(data []byte, known map[string]struct{}) map[string]json.RawMessage {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var extra map[string]json.RawMessage

	for key, value := range raw {
		if _, ok := known[key]; ok {
			continue
		}

		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}

		extra[key] = value
	}

	return extra
}

// snowflake is a Discord ID that may arrive as a JSON number or a string.
type snowflake uint64

func (s *snowflake) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	if text == "null" {
		*s = 0

		return nil
	}

	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return errors.Wrapf(ErrParse, "malformed snowflake %s", string(data))
	}

	*s = snowflake(n)

	return nil
}

func (s snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// Marshal helpers: entity models omit unset fields from their wire form.

func putString(out map[string]any, key string, value *string) {
	if value != nil {
		out[key] = *value
	}
}

func putBool(out map[string]any, key string, value *bool) {
	if value != nil {
		out[key] = *value
	}
}

func putInt(out map[string]any, key string, value *int) {
	if value != nil {
		out[key] = *value
	}
}

func putPrivacy(out map[string]any, key string, value Privacy) {
	if !value.IsZero() {
		out[key] = value
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
