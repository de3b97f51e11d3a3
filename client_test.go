package pluralkit

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solweaver/go-pluralkit/internal/testutil"
)

const memberNotFoundBody = `{"code": 20001, "message": "Member not found."}`

func TestNewWithConfigDefaults(t *testing.T) {
	t.Parallel()

	client := New("")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.False(t, client.Authenticated())

	client = New("token")
	assert.True(t, client.Authenticated())
}

func TestGetMember(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mockStatusCode int
		mockResponse   string
		wantErr        error
		checkErr       func(t *testing.T, err error)
		checkMember    func(t *testing.T, m *Member)
	}{
		{
			name:           "success",
			mockStatusCode: http.StatusOK,
			mockResponse:   memberFixture,
			checkMember: func(t *testing.T, m *Member) {
				assert.Equal(t, "gaznd", m.ID.Code())
				assert.Equal(t, "0c7e8f45-92a5-434a-8f2f-27bb6308e4b9", m.ID.UUID())
				assert.Equal(t, "Aster", m.Name)
			},
		},
		{
			name:           "not found",
			mockStatusCode: http.StatusNotFound,
			mockResponse:   memberNotFoundBody,
			wantErr:        ErrMemberNotFound,
			checkErr: func(t *testing.T, err error) {
				// The server's code and message survive into the error text.
				assert.Contains(t, err.Error(), "20001")
				assert.Contains(t, err.Error(), "Member not found.")

				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
				assert.Equal(t, "20001", apiErr.Code)

				// Entity sentinels chain into their family sentinel.
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name:           "forbidden",
			mockStatusCode: http.StatusForbidden,
			mockResponse:   `{"message": "no"}`,
			wantErr:        ErrNotOwnMember,
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:           "unauthorized",
			mockStatusCode: http.StatusUnauthorized,
			mockResponse:   `{"message": "401: Unauthorized"}`,
			wantErr:        ErrUnauthorized,
		},
		{
			name:           "server error falls back to generic kind",
			mockStatusCode: http.StatusInternalServerError,
			mockResponse:   "",
			wantErr:        ErrHTTP,
			checkErr: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "HTTP 500")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := testutil.NewMockServer(t, http.MethodGet, "/members/gaznd", "test-token",
				tt.mockStatusCode, tt.mockResponse)
			defer server.Close()

			client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

			member, err := ParseMemberID("gaznd")
			require.NoError(t, err)

			m, err := client.GetMember(context.Background(), member)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				if tt.checkErr != nil {
					tt.checkErr(t, err)
				}

				return
			}

			require.NoError(t, err)

			if tt.checkMember != nil {
				tt.checkMember(t, m)
			}
		})
	}
}

func TestOwnSystemRequiresToken(t *testing.T) {
	t.Parallel()

	counter := &testutil.RoundTripCounter{}
	client := NewWithConfig(ClientConfig{
		HTTPClient: &http.Client{Transport: counter},
	})

	_, err := client.GetOwnSystem(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, counter.Calls(), "the @me resolution must fail before any network call")

	_, err = client.GetSystemSettings(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, counter.Calls())
}

func TestGetSystemDoesNotNeedToken(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, http.MethodGet, "/systems/abcde", "",
		http.StatusOK, `{"id": "abcde", "name": "Chorus"}`)
	defer server.Close()

	client := NewWithConfig(ClientConfig{BaseURL: server.URL})

	system, err := ParseSystemID("abcde")
	require.NoError(t, err)

	s, err := client.GetSystem(context.Background(), system)
	require.NoError(t, err)
	require.NotNil(t, s.Name)
	assert.Equal(t, "Chorus", *s.Name)
}

func TestClientIDCachesOwnSystem(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	server := testutil.NewMockServerWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/systems/@me", r.URL.Path)
		testutil.WriteJSON(t, w, http.StatusOK, `{"id": "abcde", "uuid": "c36e894f-3fa2-4b83-98db-26f75cfd42a2"}`)
	})
	defer server.Close()

	client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

	id, err := client.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abcde", id.Code())

	// Cached: subsequent lookups stay local.
	id, err = client.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abcde", id.Code())
	assert.Equal(t, int64(1), hits.Load())
}

func TestUpdateMemberSendsPatchBody(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServerWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/members/gaznd", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"display_name":"Aster","privacy":{"visibility":"private"}}`, string(body))

		testutil.WriteJSON(t, w, http.StatusOK, memberFixture)
	})
	defer server.Close()

	client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

	member, err := ParseMemberID("gaznd")
	require.NoError(t, err)

	m, err := client.UpdateMember(context.Background(), member, Patch{
		"display_name": "Aster",
		"visibility":   PrivacyPrivate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Aster", m.Name)
}

func TestDeleteMember(t *testing.T) {
	t.Parallel()

	t.Run("204 succeeds", func(t *testing.T) {
		t.Parallel()

		server := testutil.NewMockServer(t, http.MethodDelete, "/members/gaznd", "test-token",
			http.StatusNoContent, "")
		defer server.Close()

		client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

		member, err := ParseMemberID("gaznd")
		require.NoError(t, err)

		assert.NoError(t, client.DeleteMember(context.Background(), member))
	})

	t.Run("non-204 maps through the lookup", func(t *testing.T) {
		t.Parallel()

		server := testutil.NewMockServer(t, http.MethodDelete, "/members/gaznd", "test-token",
			http.StatusForbidden, `{"message": "no"}`)
		defer server.Close()

		client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

		member, err := ParseMemberID("gaznd")
		require.NoError(t, err)

		err = client.DeleteMember(context.Background(), member)
		assert.ErrorIs(t, err, ErrNotOwnMember)
	})
}

func TestGetMembersList(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, http.MethodGet, "/systems/abcde/members", "",
		http.StatusOK, `[{"id": "gaznd", "name": "Aster"}, {"id": "fghijk", "name": "Brook"}]`)
	defer server.Close()

	client := NewWithConfig(ClientConfig{BaseURL: server.URL})

	system, err := ParseSystemID("abcde")
	require.NoError(t, err)

	members, err := client.GetMembers(context.Background(), system)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Aster", members[0].Name)
	assert.Equal(t, "fgh-ijk", members[1].ID.Code())
}

func TestGetSwitchesQueryParams(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServerWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/systems/abcde/switches", r.URL.Path)
		assert.Equal(t, "2021-09-30T01:02:03.420000Z", r.URL.Query().Get("before"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		testutil.WriteJSON(t, w, http.StatusOK,
			`[{"id": "9b7f8b5a-7e8d-4a52-bd5b-79a6a2ebf87b", "timestamp": "2021-09-29T00:00:00Z", "members": ["gaznd"]}]`)
	})
	defer server.Close()

	client := NewWithConfig(ClientConfig{BaseURL: server.URL})

	system, err := ParseSystemID("abcde")
	require.NoError(t, err)

	before, err := ParseTimestamp("2021-09-30T01:02:03.420000Z")
	require.NoError(t, err)

	switches, err := client.GetSwitches(context.Background(), system, SwitchesQuery{Before: &before, Limit: 50})
	require.NoError(t, err)
	require.Len(t, switches, 1)
	assert.Equal(t, "gaznd", switches[0].Members[0].ID().Code())
}

func TestCreateSwitch(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServerWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/systems/@me/switches", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"members":["gaznd"]}`, string(body))

		testutil.WriteJSON(t, w, http.StatusOK,
			`{"id": "9b7f8b5a-7e8d-4a52-bd5b-79a6a2ebf87b", "timestamp": "2021-09-30T01:02:03Z", "members": [{"id": "gaznd", "name": "Aster"}]}`)
	})
	defer server.Close()

	client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

	member, err := ParseMemberID("gaznd")
	require.NoError(t, err)

	sw, err := client.CreateSwitch(context.Background(), []MemberID{member}, nil)
	require.NoError(t, err)
	require.Len(t, sw.Members, 1)

	full, ok := sw.Members[0].Member()
	require.True(t, ok)
	assert.Equal(t, "Aster", full.Name)
}

func TestGetMessage(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, http.MethodGet, "/messages/880485315061377086", "",
		http.StatusOK, `{"id": "880485315061377086", "timestamp": "2021-09-30T01:02:03Z", "system": null, "member": null}`)
	defer server.Close()

	client := NewWithConfig(ClientConfig{BaseURL: server.URL})

	msg, err := client.GetMessage(context.Background(), 880485315061377086)
	require.NoError(t, err)
	assert.Equal(t, uint64(880485315061377086), msg.ID)
}

func TestAddGroupMembersSendsReferences(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServerWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/groups/qwert/members/add", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `["gaznd","fghijk"]`, string(body))

		testutil.WriteJSON(t, w, http.StatusNoContent, "")
	})
	defer server.Close()

	client := NewWithConfig(ClientConfig{Token: "test-token", BaseURL: server.URL})

	group, err := ParseGroupID("qwert")
	require.NoError(t, err)

	alice, err := ParseMemberID("gaznd")
	require.NoError(t, err)

	bob, err := ParseMemberID("fgh-ijk")
	require.NoError(t, err)

	require.NoError(t, client.AddGroupMembers(context.Background(), group, []MemberID{alice, bob}))
}

func TestRetryAfterAbsorbedOnce(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64

	server := testutil.NewMockServerWithHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}

		testutil.WriteJSON(t, w, http.StatusOK, `{"id": "abcde"}`)
	})
	defer server.Close()

	client := NewWithConfig(ClientConfig{BaseURL: server.URL})

	system, err := ParseSystemID("abcde")
	require.NoError(t, err)

	s, err := client.GetSystem(context.Background(), system)
	require.NoError(t, err)
	assert.Equal(t, "abcde", s.ID.Code())
	assert.Equal(t, int64(2), hits.Load())
}

func TestUnknownStatusIsAnAPIError(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockServer(t, http.MethodGet, "/systems/abcde", "",
		http.StatusTeapot, `{"message": "short and stout"}`)
	defer server.Close()

	client := NewWithConfig(ClientConfig{BaseURL: server.URL})

	system, err := ParseSystemID("abcde")
	require.NoError(t, err)

	_, err = client.GetSystem(context.Background(), system)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTP)
	assert.False(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTeapot, apiErr.StatusCode)
	assert.Equal(t, "short and stout", apiErr.Message)
}
