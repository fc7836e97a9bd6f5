package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jose-valero/war-roster-bot/internal/infra/clock"
)

type Cadence int

const (
	Hourly Cadence = iota
	Daily
	Weekly
)

// Activity is one declarative schedule entry. A tagged activity posts a
// roster of that variant; the untagged one posts the weekly banner.
type Activity struct {
	Name       string
	Tag        string
	Cadence    Cadence
	Weekday    time.Weekday // Weekly only
	Hour       int          // Daily/Weekly only
	Minute     int
	CloseAfter time.Duration // 0 → the posted roster never auto-closes
}

// Defaults is the fixed production schedule (times in the configured
// civil zone).
func Defaults() []Activity {
	return []Activity{
		{Name: "Informal", Tag: "informal", Cadence: Hourly, Minute: 25},
		{Name: "BizWar (evening)", Tag: "bizwar", Cadence: Daily, Hour: 18, Minute: 30, CloseAfter: 45 * time.Minute},
		{Name: "BizWar (night)", Tag: "bizwar", Cadence: Daily, Hour: 0, Minute: 30, CloseAfter: 50 * time.Minute},
		{Name: "RP Ticket (morning)", Tag: "rpticket", Cadence: Daily, Hour: 9, Minute: 55, CloseAfter: 50 * time.Minute},
		{Name: "RP Ticket (afternoon)", Tag: "rpticket", Cadence: Daily, Hour: 15, Minute: 55, CloseAfter: 50 * time.Minute},
		{Name: "RP Ticket (evening)", Tag: "rpticket", Cadence: Daily, Hour: 21, Minute: 55, CloseAfter: 50 * time.Minute},
		{Name: "Ratings", Tag: "ratings", Cadence: Daily, Hour: 20, Minute: 10, CloseAfter: time.Hour},
		{Name: "Foundry", Tag: "foundry", Cadence: Daily, Hour: 13, Minute: 50, CloseAfter: time.Hour},
		{Name: "Vineyard", Tag: "vineyard", Cadence: Daily, Hour: 19, Minute: 40, CloseAfter: time.Hour},
		{Name: "Weekly announcement", Cadence: Weekly, Weekday: time.Monday, Hour: 4},
	}
}

// Poster is what a fire needs from the roster service.
type Poster interface {
	PostScheduled(ctx context.Context, tag string, closeAt *time.Time) (messageID string, err error)
	CloseRoster(ctx context.Context, messageID string) error
	PostAnnouncement(ctx context.Context) error
}

// Runner arms one loop per activity: compute the delay to the next
// occurrence, sleep, fire, recompute. Delays are always re-derived from
// the current wall clock, so the loops never accumulate drift and
// self-correct across seasonal offset changes and process pauses.
type Runner struct {
	res   *clock.Resolver
	clock clockwork.Clock
	post  Poster
	acts  []Activity
}

func NewRunner(res *clock.Resolver, c clockwork.Clock, post Poster, acts []Activity) *Runner {
	return &Runner{res: res, clock: c, post: post, acts: acts}
}

func (r *Runner) Start(ctx context.Context) {
	for _, a := range r.acts {
		go r.run(ctx, a)
	}
	log.Printf("[sched] ⏰ armed %d scheduled activities", len(r.acts))
}

func (r *Runner) run(ctx context.Context, a Activity) {
	for {
		timer := r.clock.NewTimer(r.delay(a))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
		r.fire(ctx, a)
	}
}

// fire performs one occurrence. Nothing it does may stop the loop: every
// failure is logged and the next occurrence re-armed regardless.
func (r *Runner) fire(ctx context.Context, a Activity) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[sched] panic firing %s: %v", a.Name, rec)
		}
	}()

	if a.Tag == "" {
		if err := r.post.PostAnnouncement(ctx); err != nil {
			log.Printf("[sched] %s skipped this cycle: %v", a.Name, err)
		}
		return
	}

	var closeAt *time.Time
	if a.CloseAfter > 0 {
		t := r.res.Now().Add(a.CloseAfter)
		closeAt = &t
	}
	msgID, err := r.post.PostScheduled(ctx, a.Tag, closeAt)
	if err != nil {
		log.Printf("[sched] %s skipped this cycle: %v", a.Name, err)
		return
	}
	if a.CloseAfter > 0 {
		// one-shot close timer scoped to the message just posted,
		// independent of the activity's next-post timer
		r.clock.AfterFunc(a.CloseAfter, func() {
			if err := r.post.CloseRoster(ctx, msgID); err != nil {
				log.Printf("[sched] close %s msg=%s: %v", a.Name, msgID, err)
			}
		})
	}
}

func (r *Runner) delay(a Activity) time.Duration {
	switch a.Cadence {
	case Hourly:
		return r.res.UntilNextHourly(a.Minute)
	case Weekly:
		return r.res.UntilNextWeekly(a.Weekday, a.Hour, a.Minute)
	default:
		return r.res.UntilNextDaily(a.Hour, a.Minute)
	}
}

// Forecast renders one line per activity with its next fire, computed
// live from the current wall clock. Feeds !timers and /status.
func (r *Runner) Forecast() []string {
	now := r.res.Now()
	out := make([]string, 0, len(r.acts))
	for _, a := range r.acts {
		next := now.Add(r.delay(a))
		out = append(out, fmt.Sprintf("• **%s** — next at %s (in %s)",
			a.Name, next.Format("Mon 15:04"), fmtDelay(next.Sub(now))))
	}
	return out
}

func fmtDelay(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h >= 24 {
		return fmt.Sprintf("%dd %dh %02dm", h/24, h%24, m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
