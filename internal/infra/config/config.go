package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DiscordToken string
	Timezone     string // named civil zone, e.g. Europe/London

	// one destination channel per roster tag; foundry falls back to the
	// ratings channel (they share one)
	RosterChannels map[string]string

	AnnounceChannels []string
	AnnounceText     string

	PromoteSubs bool // move the first sub into a vacated main slot

	HTTPAddr string // status server, default :8080

	// store eviction
	SweepInterval time.Duration
	ClosedGrace   time.Duration
	MaxRecordAge  time.Duration
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("missing env %s", k)
		}
		return v
	}

	cfg := Config{
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		Timezone:     get("ROSTER_TIMEZONE", false),
		RosterChannels: map[string]string{
			"informal": get("INFORMAL_CHANNEL_ID", true),
			"bizwar":   get("BIZWAR_CHANNEL_ID", true),
			"rpticket": get("RPTICKET_CHANNEL_ID", true),
			"ratings":  get("RATINGS_CHANNEL_ID", true),
			"foundry":  get("FOUNDRY_CHANNEL_ID", false),
			"vineyard": get("VINEYARD_CHANNEL_ID", true),
		},
		AnnounceText: get("ANNOUNCE_TEXT", false),
		HTTPAddr:     get("HTTP_ADDR", false),

		PromoteSubs:   envBool("PROMOTE_SUBS", true),
		SweepInterval: envMinutes("SWEEP_INTERVAL_MINUTES", 30*time.Minute),
		ClosedGrace:   envMinutes("CLOSED_GRACE_MINUTES", 6*60*time.Minute),
		MaxRecordAge:  envMinutes("MAX_RECORD_AGE_MINUTES", 48*60*time.Minute),
	}
	if raw := get("ANNOUNCE_CHANNEL_IDS", false); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.AnnounceChannels = append(cfg.AnnounceChannels, id)
			}
		}
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/London"
	}
	if cfg.RosterChannels["foundry"] == "" {
		cfg.RosterChannels["foundry"] = cfg.RosterChannels["ratings"]
	}
	if cfg.AnnounceText == "" {
		cfg.AnnounceText = "@everyone ⚔️ **War week begins!** Check the roster channels and sign up for today's battles."
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return cfg
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("env %s: expected bool, got %q", k, v)
	}
	return b
}

func envMinutes(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Fatalf("env %s: expected minutes, got %q", k, v)
	}
	return time.Duration(n) * time.Minute
}
