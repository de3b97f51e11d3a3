package pluralkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyTagMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prefix  string
		suffix  string
		message string
		want    bool
	}{
		{name: "prefix only", prefix: "A:", message: "A: hello", want: true},
		{name: "prefix missing", prefix: "A:", message: "hello", want: false},
		{name: "suffix only", suffix: "--a", message: "hello --a", want: true},
		{name: "suffix missing", suffix: "--a", message: "hello", want: false},
		{name: "both sides", prefix: "[", suffix: "]", message: "[hello]", want: true},
		{name: "only one side present", prefix: "[", suffix: "]", message: "[hello", want: false},
		{name: "surrounding whitespace trimmed", prefix: "A:", message: "   A: hello   ", want: true},
		{name: "prefix alone matches itself", prefix: "A:", message: "A:", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag, err := NewProxyTag(tt.prefix, tt.suffix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag.Match(tt.message))
		})
	}
}

func TestNewProxyTagRequiresPattern(t *testing.T) {
	t.Parallel()

	_, err := NewProxyTag("", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProxyTagsMatch(t *testing.T) {
	t.Parallel()

	tags := ProxyTags{
		{Prefix: "A:"},
		{Prefix: "[", Suffix: "]"},
	}

	assert.True(t, tags.Match("A: hi"))
	assert.True(t, tags.Match("[hi]"))
	assert.False(t, tags.Match("hi"))

	// An empty collection matches nothing, not everything.
	assert.False(t, ProxyTags{}.Match("anything"))
}

func TestProxyTagJSON(t *testing.T) {
	t.Parallel()

	tag, err := NewProxyTag("A:", "")
	require.NoError(t, err)

	data, err := json.Marshal(tag)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prefix":"A:","suffix":null}`, string(data))

	var back ProxyTag
	require.NoError(t, json.Unmarshal([]byte(`{"prefix":null,"suffix":"-q"}`), &back))
	assert.Equal(t, ProxyTag{Suffix: "-q"}, back)
}
