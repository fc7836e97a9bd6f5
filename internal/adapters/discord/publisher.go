package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/war-roster-bot/internal/domain"
)

// Publisher implements service.Publisher on top of a live session.
type Publisher struct {
	s   *discordgo.Session
	loc *time.Location
}

func NewPublisher(s *discordgo.Session, loc *time.Location) *Publisher {
	return &Publisher{s: s, loc: loc}
}

func (p *Publisher) Publish(_ context.Context, rec domain.Roster) (string, error) {
	embed, row := rosterMessage(rec, p.loc)
	msg, err := p.s.ChannelMessageSendComplex(rec.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{row},
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (p *Publisher) Update(_ context.Context, rec domain.Roster) error {
	embed, row := rosterMessage(rec, p.loc)
	embeds := []*discordgo.MessageEmbed{embed}
	comps := []discordgo.MessageComponent{row}
	_, err := p.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    rec.ChannelID,
		ID:         rec.MessageID,
		Embeds:     &embeds,
		Components: &comps,
	})
	return err
}

func (p *Publisher) Announce(_ context.Context, channelID, content string) error {
	_, err := p.s.ChannelMessageSend(channelID, content)
	return err
}
