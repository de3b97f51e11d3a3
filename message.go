package pluralkit

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Message is a proxied Discord message. System and Member are nil when the
// originating system or member has since been deleted.
type Message struct {
	ID        uint64
	Original  uint64
	Sender    uint64
	Channel   uint64
	Guild     uint64
	Timestamp Timestamp
	System    *System
	Member    *Member

	// Extra holds response keys outside the known schema.
	Extra map[string]json.RawMessage
}

type messageWire struct {
	ID        *snowflake      `json:"id"`
	Original  *snowflake      `json:"original"`
	Sender    *snowflake      `json:"sender"`
	Channel   *snowflake      `json:"channel"`
	Guild     *snowflake      `json:"guild"`
	Timestamp *Timestamp      `json:"timestamp"`
	System    json.RawMessage `json:"system"`
	Member    json.RawMessage `json:"member"`
}

var messageKnownKeys = wireKeys(messageWire{})

// ParseMessage builds a Message from a wire JSON object.
func ParseMessage(data []byte) (*Message, error) {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(ErrParse, "message: %v", err)
	}

	if w.ID == nil {
		return nil, errors.Wrap(ErrParse, "message object is missing id")
	}

	msg := &Message{
		ID:    uint64(*w.ID),
		Extra: extraKeys(data, messageKnownKeys),
	}

	if w.Original != nil {
		msg.Original = uint64(*w.Original)
	}

	if w.Sender != nil {
		msg.Sender = uint64(*w.Sender)
	}

	if w.Channel != nil {
		msg.Channel = uint64(*w.Channel)
	}

	if w.Guild != nil {
		msg.Guild = uint64(*w.Guild)
	}

	if w.Timestamp != nil {
		msg.Timestamp = *w.Timestamp
	}

	if len(w.System) > 0 && string(w.System) != "null" {
		system, err := ParseSystem(w.System)
		if err != nil {
			return nil, errors.WithMessage(err, "message system")
		}

		msg.System = system
	}

	if len(w.Member) > 0 && string(w.Member) != "null" {
		member, err := ParseMember(w.Member)
		if err != nil {
			return nil, errors.WithMessage(err, "message member")
		}

		msg.Member = member
	}

	return msg, nil
}

// MarshalJSON re-serializes the message. Snowflakes are emitted as strings,
// the shape the API itself uses.
func (msg *Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	out["id"] = strconv.FormatUint(msg.ID, 10)

	if msg.Original != 0 {
		out["original"] = strconv.FormatUint(msg.Original, 10)
	}

	if msg.Sender != 0 {
		out["sender"] = strconv.FormatUint(msg.Sender, 10)
	}

	if msg.Channel != 0 {
		out["channel"] = strconv.FormatUint(msg.Channel, 10)
	}

	if msg.Guild != 0 {
		out["guild"] = strconv.FormatUint(msg.Guild, 10)
	}

	if !msg.Timestamp.IsZero() {
		out["timestamp"] = msg.Timestamp
	}

	if msg.System != nil {
		out["system"] = msg.System
	}

	if msg.Member != nil {
		out["member"] = msg.Member
	}

	return json.Marshal(out) //nolint:wrapcheck // Map marshal of json-safe values cannot fail
}
