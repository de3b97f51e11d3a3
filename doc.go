// Package pluralkit provides a Go client for the PluralKit v2 REST API.
//
// The PluralKit API exposes systems, members, groups, switches and proxied
// messages. This package wraps the full v2 surface with typed models,
// client-side patch validation, and an error taxonomy that maps the API's
// status codes onto sentinel errors.
//
// # Rate Limiting
//
// The client paces itself to the API's documented budget of 2 requests per
// second and keeps that budget in sync with the X-RateLimit response
// headers. A single 429 response with a Retry-After header is absorbed
// transparently; anything beyond that surfaces as an error.
//
// # Example Usage
//
//	// A token is only needed for @me references and private data.
//	client := pluralkit.New(os.Getenv("PLURALKIT_TOKEN"))
//
//	system, err := client.GetOwnSystem(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("System: %s (%s)\n", system.ID, *system.Name)
//
// # Updating Entities
//
// Update operations take a Patch, a map of wire field names to new values.
// Patches are validated locally (field names, string lengths, enum values)
// before any request is sent:
//
//	member, err := client.UpdateMember(ctx, memberID, pluralkit.Patch{
//	    "display_name": "Aster",
//	    "birthday_privacy": pluralkit.PrivacyPrivate,
//	})
//
// # Error Handling
//
// API failures unwrap into sentinel errors, so callers can branch with
// errors.Is:
//
//	_, err := client.GetMember(ctx, ref)
//	if errors.Is(err, pluralkit.ErrMemberNotFound) {
//	    // handle the missing member
//	}
package pluralkit
