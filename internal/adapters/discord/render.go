package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/war-roster-bot/internal/domain"
)

const (
	colorOpen   = 0x57F287
	colorClosed = 0xED4245
)

// rosterMessage renders a roster record into its embed + buttons. It is
// a pure function of the record (and the display zone): the same record
// always renders the same payload, so in-place edits are idempotent.
func rosterMessage(rec domain.Roster, loc *time.Location) (*discordgo.MessageEmbed, discordgo.MessageComponent) {
	var title, body string
	if rec.Variant.Kind == domain.KindInformal {
		title = statusEmoji(rec.Closed) + " " + rec.Variant.Title
		body = informalBody(rec, loc)
	} else {
		title = "⚔️ " + rec.Variant.Title + " Roster"
		body = warBody(rec, loc)
	}

	color := colorOpen
	if rec.Closed {
		color = colorClosed
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: body,
		Color:       color,
	}

	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SuccessButton,
				Label:    "✅ Join",
				CustomID: rec.Variant.Tag + "_join",
				Disabled: rec.Closed,
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				Label:    "❌ Leave",
				CustomID: rec.Variant.Tag + "_leave",
				Disabled: rec.Closed,
			},
		},
	}
	return embed, row
}

func informalBody(rec domain.Roster, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Main Roster (1–%d)**\n", domain.InformalMainCap)
	writeSlots(&b, rec.Main, domain.InformalMainCap)
	b.WriteString("\n✅ Join | ❌ Leave • " + statusLine(rec, loc))
	return b.String()
}

func warBody(rec domain.Roster, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(statusLine(rec, loc))
	if rec.CloseAt != nil {
		fmt.Fprintf(&b, "\n⏲️ Auto-closes at %s", rec.CloseAt.In(loc).Format("15:04"))
	}
	fmt.Fprintf(&b, "\n\n**Main Roster (1–%d)**\n", domain.WarMainCap)
	writeSlots(&b, rec.Main, domain.WarMainCap)

	if len(rec.Main) >= domain.WarMainCap || len(rec.Subs) > 0 {
		fmt.Fprintf(&b, "\n**Substitutes (1–%d)**\n", domain.SubCap)
		writeSlots(&b, rec.Subs, domain.SubCap)
	} else {
		b.WriteString("\n🔹 *Substitutes open when the main roster is full.*")
	}
	return b.String()
}

// writeSlots emits exactly cap numbered lines; slots past the occupied
// tail render blank. Numbering is positional, re-derived every render.
func writeSlots(b *strings.Builder, members []domain.Member, capacity int) {
	for i := 1; i <= capacity; i++ {
		if i <= len(members) {
			m := members[i-1]
			fmt.Fprintf(b, "**%d.** <@%s> | %s\n", i, m.ID, m.DisplayName)
		} else {
			fmt.Fprintf(b, "**%d.**\n", i)
		}
	}
}

func statusLine(rec domain.Roster, loc *time.Location) string {
	status := "🟢 Open"
	if rec.Closed {
		status = "🔴 Closed"
	}
	created := rec.CreatedAt.In(loc)
	return fmt.Sprintf("Status: %s • Created: %s • %s",
		status, created.Format("02 Jan 2006"), created.Format("15:04"))
}

func statusEmoji(closed bool) string {
	if closed {
		return "🔒"
	}
	return "✅"
}
