package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jose-valero/war-roster-bot/internal/domain"
	"github.com/jose-valero/war-roster-bot/internal/infra/clock"
	"github.com/jose-valero/war-roster-bot/internal/infra/storage"
)

// RosterService glues the roster engine, the store and the publisher:
// it owns every state transition a roster goes through after posting.
type RosterService struct {
	store *storage.RosterStore
	pub   Publisher
	res   *clock.Resolver

	channels     map[string]string // tag → scheduled-post channel
	promote      bool
	announceTo   []string
	announceText string
}

type Options struct {
	Channels         map[string]string
	PromoteSubs      bool
	AnnounceChannels []string
	AnnounceText     string
}

func NewRosterService(store *storage.RosterStore, pub Publisher, res *clock.Resolver, opt Options) *RosterService {
	return &RosterService{
		store:        store,
		pub:          pub,
		res:          res,
		channels:     opt.Channels,
		promote:      opt.PromoteSubs,
		announceTo:   opt.AnnounceChannels,
		announceText: opt.AnnounceText,
	}
}

// Create posts a fresh roster of the given variant into channelID and
// starts tracking it under the new message id. Informal rosters never
// carry a close time, whatever the caller passes.
func (s *RosterService) Create(ctx context.Context, tag, channelID string, closeAt *time.Time) (domain.Roster, error) {
	v, ok := domain.VariantByTag(tag)
	if !ok {
		return domain.Roster{}, fmt.Errorf("unknown roster tag %q", tag)
	}
	if v.Kind == domain.KindInformal {
		closeAt = nil
	}
	rec := domain.NewRoster(v, channelID, s.res.Now(), closeAt)

	msgID, err := s.pub.Publish(ctx, rec.Clone())
	if err != nil {
		return domain.Roster{}, fmt.Errorf("publish %s roster: %w", tag, err)
	}
	rec.MessageID = msgID
	if err := s.store.Put(rec); err != nil {
		return domain.Roster{}, fmt.Errorf("track %s roster: %w", tag, err)
	}
	log.Printf("[roster] 📋 posted %s roster msg=%s chan=%s", tag, msgID, channelID)
	return rec.Clone(), nil
}

// PostScheduled is Create aimed at the variant's configured channel.
// The scheduler uses it for every timed post.
func (s *RosterService) PostScheduled(ctx context.Context, tag string, closeAt *time.Time) (string, error) {
	ch := s.channels[tag]
	if ch == "" {
		return "", fmt.Errorf("no channel configured for %q", tag)
	}
	rec, err := s.Create(ctx, tag, ch, closeAt)
	if err != nil {
		return "", err
	}
	return rec.MessageID, nil
}

// Join signs the member up on the roster behind messageID and edits the
// message from the post-mutation snapshot. storage.ErrNotFound means the
// roster is no longer tracked (restart, or swept).
func (s *RosterService) Join(ctx context.Context, messageID string, m domain.Member) (domain.Outcome, error) {
	var out domain.Outcome
	snap, err := s.store.Mutate(messageID, func(r *domain.Roster) {
		out = r.Join(m)
	})
	if err != nil {
		return 0, err
	}
	if out == domain.JoinedMain || out == domain.JoinedSub {
		s.update(ctx, snap)
	}
	return out, nil
}

// Leave removes the member, applying the configured promotion policy.
func (s *RosterService) Leave(ctx context.Context, messageID, memberID string) (domain.Outcome, error) {
	var out domain.Outcome
	snap, err := s.store.Mutate(messageID, func(r *domain.Roster) {
		out = r.Leave(memberID, s.promote)
	})
	if err != nil {
		return 0, err
	}
	if out == domain.Left {
		s.update(ctx, snap)
	}
	return out, nil
}

// CloseRoster locks the roster and disables its buttons. Closing an
// already-closed roster is a no-op; an untracked id is reported so the
// scheduler can log and move on.
func (s *RosterService) CloseRoster(ctx context.Context, messageID string) error {
	var wasClosed bool
	snap, err := s.store.Mutate(messageID, func(r *domain.Roster) {
		wasClosed = r.Closed
		r.Close(s.res.Now())
	})
	if err != nil {
		return err
	}
	if !wasClosed {
		s.update(ctx, snap)
		log.Printf("[roster] 🔒 closed %s roster msg=%s", snap.Variant.Tag, messageID)
	}
	return nil
}

// PostAnnouncement sends the weekly banner to every configured channel.
// Per-channel failures are logged and the rest still go out.
func (s *RosterService) PostAnnouncement(ctx context.Context) error {
	if len(s.announceTo) == 0 {
		log.Printf("[roster] weekly announcement skipped: no channels configured")
		return nil
	}
	var firstErr error
	for _, ch := range s.announceTo {
		if err := s.pub.Announce(ctx, ch, s.announceText); err != nil {
			log.Printf("[roster] announce chan=%s: %v", ch, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *RosterService) update(ctx context.Context, rec domain.Roster) {
	if err := s.pub.Update(ctx, rec); err != nil {
		// a lost edit only leaves the rendering stale; the next
		// mutation repaints from current state
		log.Printf("[roster] edit msg=%s: %v", rec.MessageID, err)
	}
}
