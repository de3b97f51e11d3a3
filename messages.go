package pluralkit

import (
	"context"
	"net/http"
	"strconv"
)

// GetMessage looks up a proxied message by the Discord snowflake of either
// the original message or the proxied webhook message.
func (c *Client) GetMessage(ctx context.Context, messageID uint64) (*Message, error) {
	ep := endpoint{
		method:       http.MethodGet,
		path:         "/messages/{message}",
		success:      http.StatusOK,
		statusErrors: messageStatusErrors,
	}

	msg, err := do(ctx, c, ep, callArgs{message: strconv.FormatUint(messageID, 10)}, ParseMessage)
	if err != nil {
		return nil, err
	}

	c.warnUnknown("message", msg.Extra)

	return msg, nil
}
