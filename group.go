package pluralkit

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Group is a collection of members within a system.
type Group struct {
	ID     GroupID
	System SystemID
	Name   string

	DisplayName *string
	Description *string
	Icon        *string
	Banner      *string
	Color       *Color
	Created     Timestamp

	NamePrivacy        Privacy
	DescriptionPrivacy Privacy
	IconPrivacy        Privacy
	ListPrivacy        Privacy
	MetadataPrivacy    Privacy
	Visibility         Privacy

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type groupWire struct {
	ID          *string            `json:"id"`
	UUID        *string            `json:"uuid"`
	System      *string            `json:"system"`
	Name        *string            `json:"name"`
	DisplayName *string            `json:"display_name"`
	Description *string            `json:"description"`
	Icon        *string            `json:"icon"`
	Banner      *string            `json:"banner"`
	Color       *Color             `json:"color"`
	Created     *Timestamp         `json:"created"`
	Privacy     map[string]Privacy `json:"privacy"`
}

var groupKnownKeys = wireKeys(groupWire{})

// ParseGroup builds a Group from a wire JSON object.
func ParseGroup(data []byte) (*Group, error) {
	var w groupWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "group: %v", err)
	}

	if w.ID == nil && w.UUID == nil {
		return nil, errors.Wrap(ErrParse, "group object is missing id and uuid")
	}

	id, err := NewGroupID(deref(w.ID), deref(w.UUID))
	if err != nil {
		return nil, errors.WithMessage(err, "group")
	}

	g := &Group{
		ID:          id,
		Name:        deref(w.Name),
		DisplayName: w.DisplayName,
		Description: w.Description,
		Icon:        w.Icon,
		Banner:      w.Banner,
		Color:       w.Color,

		NamePrivacy:        w.Privacy["name_privacy"],
		DescriptionPrivacy: w.Privacy["description_privacy"],
		IconPrivacy:        w.Privacy["icon_privacy"],
		ListPrivacy:        w.Privacy["list_privacy"],
		MetadataPrivacy:    w.Privacy["metadata_privacy"],
		Visibility:         w.Privacy["visibility"],

		Extra: extraKeys(data, groupKnownKeys),
	}

	if w.Created != nil {
		g.Created = *w.Created
	}

	if w.System != nil {
		system, err := ParseSystemID(*w.System)
		if err != nil {
			return nil, errors.WithMessage(err, "group system")
		}

		g.System = system
	}

	return g, nil
}

// String returns the group's reference ID.
func (g *Group) String() string { return g.ID.String() }

// MarshalJSON re-serializes the group, omitting unset fields.
func (g *Group) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if g.ID.Code() != "" {
		out["id"] = g.ID.Code()
	}

	if g.ID.UUID() != "" {
		out["uuid"] = g.ID.UUID()
	}

	if !g.System.IsZero() {
		out["system"] = g.System
	}

	if g.Name != "" {
		out["name"] = g.Name
	}

	putString(out, "display_name", g.DisplayName)
	putString(out, "description", g.Description)
	putString(out, "icon", g.Icon)
	putString(out, "banner", g.Banner)

	if g.Color != nil {
		out["color"] = g.Color
	}

	if !g.Created.IsZero() {
		out["created"] = g.Created
	}

	privacy := make(map[string]any)
	putPrivacy(privacy, "name_privacy", g.NamePrivacy)
	putPrivacy(privacy, "description_privacy", g.DescriptionPrivacy)
	putPrivacy(privacy, "icon_privacy", g.IconPrivacy)
	putPrivacy(privacy, "list_privacy", g.ListPrivacy)
	putPrivacy(privacy, "metadata_privacy", g.MetadataPrivacy)
	putPrivacy(privacy, "visibility", g.Visibility)

	if len(privacy) > 0 {
		out["privacy"] = privacy
	}

	return json.Marshal(out) //nolint:wrapcheck // Map marshal of json-safe values cannot fail
}
