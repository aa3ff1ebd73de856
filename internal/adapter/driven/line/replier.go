// Package line implements the Replier port using the official LINE
// Messaging API SDK.
package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"apexbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Replier = (*Replier)(nil)

// Replier sends reply messages through the LINE Messaging API.
type Replier struct {
	bot *messaging_api.MessagingApiAPI
}

// NewReplier creates a Replier authenticated with the channel access token.
func NewReplier(channelToken string) (*Replier, error) {
	bot, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging api client: %w", err)
	}
	return &Replier{bot: bot}, nil
}

// Reply answers one reply token with a single text message. The SDK's
// generated client carries no context; ctx is accepted for port symmetry.
func (r *Replier) Reply(_ context.Context, replyToken, text string) error {
	_, err := r.bot.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}
