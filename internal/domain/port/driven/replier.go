package driven

import "context"

// Replier defines the driven port for sending a reply back on the chat
// platform. One reply token accepts exactly one reply call.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}
