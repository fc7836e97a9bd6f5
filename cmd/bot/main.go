package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	discordrouter "github.com/jose-valero/war-roster-bot/internal/adapters/discord"
	"github.com/jose-valero/war-roster-bot/internal/adapters/httpstatus"
	"github.com/jose-valero/war-roster-bot/internal/app/schedule"
	"github.com/jose-valero/war-roster-bot/internal/app/service"
	"github.com/jose-valero/war-roster-bot/internal/infra/clock"
	"github.com/jose-valero/war-roster-bot/internal/infra/config"
	"github.com/jose-valero/war-roster-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()
	rc := clockwork.NewRealClock()

	res, err := clock.NewResolver(cfg.Timezone, rc)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("✅ activity wall clock: %s", cfg.Timezone)

	store := storage.NewRosterStore()
	defer store.Close()

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ connected as %s (%s)", s.State.User.Username, s.State.User.ID)

	// Services
	pub := discordrouter.NewPublisher(s, res.Location())
	svc := service.NewRosterService(store, pub, res, service.Options{
		Channels:         cfg.RosterChannels,
		PromoteSubs:      cfg.PromoteSubs,
		AnnounceChannels: cfg.AnnounceChannels,
		AnnounceText:     cfg.AnnounceText,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler + store sweeper
	runner := schedule.NewRunner(res, rc, svc, schedule.Defaults())
	runner.Start(ctx)
	go store.RunSweeper(rc, cfg.SweepInterval, cfg.ClosedGrace, cfg.MaxRecordAge)

	// Router
	r := discordrouter.NewRouter(s, svc, runner)
	r.Handlers()

	// Status server
	web := httpstatus.New(store, runner)
	go web.Start(cfg.HTTPAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	log.Println("👋 shutting down")
}
