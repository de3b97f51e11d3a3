package pluralkit

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors forming the client's error taxonomy. Entity-specific
// sentinels are marked with their family sentinel, so
// errors.Is(err, ErrNotFound) matches ErrMemberNotFound and friends.
var (
	// ErrValidation is returned for client-side failures that never reach
	// the network: malformed IDs, colors, timestamps, oversized or
	// unrecognized patch fields, and empty patches.
	ErrValidation = errors.New("validation failed")

	// ErrParse is returned when a response body cannot be decoded into
	// its model, or lacks a structurally required field.
	ErrParse = errors.New("malformed response object")

	// ErrHTTP is the kind for unexpected status codes with no specific
	// mapping (e.g. 500).
	ErrHTTP = errors.New("unexpected http status")

	// ErrBadRequest is returned when the server rejects the request as
	// malformed (400).
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned for a missing or invalid token (401),
	// or a 403 with no entity-specific mapping.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is the family sentinel for 404 responses.
	ErrNotFound = errors.New("not found")

	ErrSystemNotFound  = errors.Mark(errors.New("system not found"), ErrNotFound)
	ErrMemberNotFound  = errors.Mark(errors.New("member not found"), ErrNotFound)
	ErrGroupNotFound   = errors.Mark(errors.New("group not found"), ErrNotFound)
	ErrSwitchNotFound  = errors.Mark(errors.New("switch not found"), ErrNotFound)
	ErrMessageNotFound = errors.Mark(errors.New("message not found"), ErrNotFound)
	ErrGuildNotFound   = errors.Mark(errors.New("guild settings not found"), ErrNotFound)

	ErrNotOwnSystem = errors.Mark(errors.New("not your own system"), ErrUnauthorized)
	ErrNotOwnMember = errors.Mark(errors.New("not your own member"), ErrUnauthorized)
	ErrNotOwnGroup  = errors.Mark(errors.New("not your own group"), ErrUnauthorized)
)

// APIError is returned when a response's status code does not match the
// endpoint's expected status. It unwraps into the sentinel taxonomy above,
// so callers can test with errors.Is:
//
//	_, err := client.GetMember(ctx, ref)
//	if errors.Is(err, pluralkit.ErrMemberNotFound) { ... }
type APIError struct {
	// StatusCode is the raw HTTP status the server answered with.
	StatusCode int

	// Code is the machine-readable error code from the response body, if
	// the server supplied one.
	Code string

	// Message is the server's human-readable error message, if present.
	Message string

	kind error
}

func (e *APIError) Error() string {
	msg := e.kind.Error()

	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Code)
	}

	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}

	if e.Code == "" && e.Message == "" {
		msg = fmt.Sprintf("%s: HTTP %d %s", msg, e.StatusCode, http.StatusText(e.StatusCode))
	}

	return msg
}

func (e *APIError) Unwrap() error { return e.kind }

// errorBody is the JSON error shape the API uses. Code may arrive as an
// integer or a string.
type errorBody struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
}

// newAPIError maps a non-expected status code through the endpoint's lookup
// table, preferring the server's code/message over the bare status line.
func newAPIError(statusCode int, body []byte, lookup map[int]error) *APIError {
	kind, ok := lookup[statusCode]
	if !ok {
		kind = ErrHTTP
	}

	apiErr := &APIError{StatusCode: statusCode, kind: kind}

	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		apiErr.Message = parsed.Message

		if len(parsed.Code) > 0 {
			var s string
			if json.Unmarshal(parsed.Code, &s) == nil {
				apiErr.Code = s
			} else {
				apiErr.Code = string(parsed.Code)
			}
		}
	}

	return apiErr
}

// Per-entity status-code lookup tables: a generic base overridden with
// entity-specific 401/403/404 mappings.

var genericStatusErrors = map[int]error{
	http.StatusBadRequest: ErrBadRequest,
	http.StatusForbidden:  ErrUnauthorized,
	http.StatusNotFound:   ErrNotFound,
}

func mergeStatusErrors(overrides map[int]error) map[int]error {
	merged := make(map[int]error, len(genericStatusErrors)+len(overrides))

	for code, err := range genericStatusErrors {
		merged[code] = err
	}

	for code, err := range overrides {
		merged[code] = err
	}

	return merged
}

var (
	systemStatusErrors = mergeStatusErrors(map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusForbidden:    ErrNotOwnSystem,
		http.StatusNotFound:     ErrSystemNotFound,
	})

	memberStatusErrors = mergeStatusErrors(map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusForbidden:    ErrNotOwnMember,
		http.StatusNotFound:     ErrMemberNotFound,
	})

	groupStatusErrors = mergeStatusErrors(map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusForbidden:    ErrNotOwnGroup,
		http.StatusNotFound:     ErrGroupNotFound,
	})

	switchStatusErrors = mergeStatusErrors(map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusForbidden:    ErrNotOwnSystem,
		http.StatusNotFound:     ErrSwitchNotFound,
	})

	messageStatusErrors = mergeStatusErrors(map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusNotFound:     ErrMessageNotFound,
	})

	guildStatusErrors = mergeStatusErrors(map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusNotFound:     ErrGuildNotFound,
	})
)
