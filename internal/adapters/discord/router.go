package discord

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/war-roster-bot/internal/app/schedule"
	"github.com/jose-valero/war-roster-bot/internal/app/service"
	"github.com/jose-valero/war-roster-bot/internal/domain"
	"github.com/jose-valero/war-roster-bot/internal/infra/storage"
)

// text command → roster tag
var commandTags = map[string]string{
	"!roster":   "informal",
	"!bizwar":   "bizwar",
	"!rpticket": "rpticket",
	"!ratings":  "ratings",
	"!foundry":  "foundry",
	"!vineyard": "vineyard",
}

type Router struct {
	s       *discordgo.Session
	svc     *service.RosterService
	sched   *schedule.Runner
	limiter *clickLimiter
}

func NewRouter(s *discordgo.Session, svc *service.RosterService, sched *schedule.Runner) *Router {
	return &Router{
		s:       s,
		svc:     svc,
		sched:   sched,
		limiter: newClickLimiter(time.Second),
	}
}

func (r *Router) Handlers() {
	r.s.AddHandler(r.onMessage)
	r.s.AddHandler(r.onInteraction)
}

// onMessage handles the operator text commands: `!timers` plus one
// manual-post trigger per roster variant.
func (r *Router) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if m.Content == "!timers" {
		lines := r.sched.Forecast()
		if _, err := s.ChannelMessageSend(m.ChannelID, "🕑 **Scheduled activities**\n"+strings.Join(lines, "\n")); err != nil {
			log.Printf("[router] !timers reply: %v", err)
		}
		return
	}

	tag, ok := commandTags[m.Content]
	if !ok {
		return
	}
	log.Printf("[router] %s by=%s chan=%s", m.Content, m.Author.ID, m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if _, err := r.svc.Create(ctx, tag, m.ChannelID, nil); err != nil {
		log.Printf("[router] %s: %v", m.Content, err)
		return
	}
	// keep the channel clean; deletion failures don't matter
	_ = s.ChannelMessageDelete(m.ChannelID, m.ID)
}

// onInteraction routes `{tag}_join` / `{tag}_leave` button presses.
func (r *Router) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionMessageComponent {
		return
	}
	data := ic.MessageComponentData()
	tag, action, ok := strings.Cut(data.CustomID, "_")
	if !ok {
		return
	}
	if _, known := domain.VariantByTag(tag); !known {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[router] panic on %s: %v", data.CustomID, rec)
			_ = SendEphemeral(s, ic, "⚠️ Something went wrong, try again.")
		}
	}()

	user := interactionUser(ic)
	if user == nil {
		return
	}
	if !r.limiter.Allow(user.ID) {
		_ = SendEphemeral(s, ic, "⏳ Easy — one click per second.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	var (
		out domain.Outcome
		err error
	)
	switch action {
	case "join":
		out, err = r.svc.Join(ctx, ic.Message.ID, domain.Member{ID: user.ID, DisplayName: displayName(ic, user)})
	case "leave":
		out, err = r.svc.Leave(ctx, ic.Message.ID, user.ID)
	default:
		return
	}

	if errors.Is(err, storage.ErrNotFound) {
		_ = SendEphemeral(s, ic, "⚠️ This roster is no longer active.")
		return
	}
	if err != nil {
		log.Printf("[router] %s msg=%s: %v", data.CustomID, ic.Message.ID, err)
		_ = SendEphemeral(s, ic, "⚠️ Something went wrong, try again.")
		return
	}
	_ = SendEphemeral(s, ic, outcomeReply(out))
}

func outcomeReply(out domain.Outcome) string {
	switch out {
	case domain.JoinedMain:
		return "✅ You've been added to the roster!"
	case domain.JoinedSub:
		return "✅ Main roster is full — you're in as a substitute!"
	case domain.Left:
		return "✅ You've been removed from the roster."
	case domain.AlreadyJoined:
		return "⚠️ You're already on the roster!"
	case domain.Full:
		return "❌ The roster is full!"
	case domain.NotOnRoster:
		return "⚠️ You're not on the roster."
	case domain.Closed:
		return "🔒 This roster is closed."
	}
	return "⚠️ Something went wrong, try again."
}

func interactionUser(ic *discordgo.InteractionCreate) *discordgo.User {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User
	}
	return ic.User
}

func displayName(ic *discordgo.InteractionCreate, user *discordgo.User) string {
	if ic.Member != nil && ic.Member.Nick != "" {
		return ic.Member.Nick
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
