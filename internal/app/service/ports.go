package service

import (
	"context"

	"github.com/jose-valero/war-roster-bot/internal/domain"
)

// Publisher is the outbound edge to the chat platform. Implemented by
// internal/adapters/discord.Publisher.
type Publisher interface {
	// Publish renders and sends a new roster message into rec.ChannelID
	// and returns the id of the created message.
	Publish(ctx context.Context, rec domain.Roster) (messageID string, err error)
	// Update re-renders rec over its existing message, in place.
	Update(ctx context.Context, rec domain.Roster) error
	// Announce sends a plain text message.
	Announce(ctx context.Context, channelID, content string) error
}
