package domain

import "time"

// Kind distinguishes the two roster shapes we post.
type Kind int

const (
	// KindInformal is the 10-slot pickup roster. It never auto-closes.
	KindInformal Kind = iota
	// KindWar is the 25-main + 10-substitute roster used by every
	// scheduled war activity.
	KindWar
)

const (
	InformalMainCap = 10
	WarMainCap      = 25
	SubCap          = 10
)

// Member is one signed-up user. ID is the platform user id and is what
// keeps a user from occupying two slots on the same roster.
type Member struct {
	ID          string
	DisplayName string
}

// Variant tags a roster with its display name and the short id that
// namespaces its button custom ids ("bizwar_join", "bizwar_leave", ...).
type Variant struct {
	Tag   string
	Title string
	Kind  Kind
}

// Variants is the fixed set of roster types the bot knows about.
var Variants = []Variant{
	{Tag: "informal", Title: "Informal Roster (First 10 Only)", Kind: KindInformal},
	{Tag: "bizwar", Title: "Business War", Kind: KindWar},
	{Tag: "rpticket", Title: "RP Ticket", Kind: KindWar},
	{Tag: "ratings", Title: "Ratings Battle", Kind: KindWar},
	{Tag: "foundry", Title: "Foundry War", Kind: KindWar},
	{Tag: "vineyard", Title: "Vineyard War", Kind: KindWar},
}

func VariantByTag(tag string) (Variant, bool) {
	for _, v := range Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return Variant{}, false
}

// Roster is the record behind one posted sign-up message. Slot order is
// join order; display numbering is derived from it on every render.
type Roster struct {
	Variant   Variant
	Main      []Member
	Subs      []Member
	CreatedAt time.Time
	CloseAt   *time.Time // nil = never auto-closes
	Closed    bool
	ClosedAt  *time.Time
	ChannelID string
	MessageID string
}

func NewRoster(v Variant, channelID string, createdAt time.Time, closeAt *time.Time) *Roster {
	return &Roster{
		Variant:   v,
		ChannelID: channelID,
		CreatedAt: createdAt,
		CloseAt:   closeAt,
	}
}

// MainCap is the main-slot capacity for this roster's kind.
func (r *Roster) MainCap() int {
	if r.Variant.Kind == KindInformal {
		return InformalMainCap
	}
	return WarMainCap
}

// Outcome is the result of a join/leave attempt. Outcomes are expected,
// user-facing results, not errors.
type Outcome int

const (
	JoinedMain Outcome = iota
	JoinedSub
	Left
	AlreadyJoined
	Full
	NotOnRoster
	Closed
)

func (o Outcome) String() string {
	switch o {
	case JoinedMain:
		return "joined_main"
	case JoinedSub:
		return "joined_sub"
	case Left:
		return "left"
	case AlreadyJoined:
		return "already_joined"
	case Full:
		return "full"
	case NotOnRoster:
		return "not_on_roster"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Has reports whether the member occupies any slot, main or sub.
func (r *Roster) Has(memberID string) bool {
	return indexOf(r.Main, memberID) >= 0 || indexOf(r.Subs, memberID) >= 0
}

// Join appends the member to the first tier with room. Subs only start
// filling once the main roster is at capacity.
func (r *Roster) Join(m Member) Outcome {
	if r.Closed {
		return Closed
	}
	if r.Has(m.ID) {
		return AlreadyJoined
	}
	if len(r.Main) < r.MainCap() {
		r.Main = append(r.Main, m)
		return JoinedMain
	}
	if r.Variant.Kind == KindWar && len(r.Subs) < SubCap {
		r.Subs = append(r.Subs, m)
		return JoinedSub
	}
	return Full
}

// Leave removes the member from whichever tier holds them; everyone
// below shifts up one position. With promote set, the first substitute
// moves into a main slot vacated by a main-roster departure, so subs
// never outlive a full main roster.
func (r *Roster) Leave(memberID string, promote bool) Outcome {
	if r.Closed {
		return Closed
	}
	if i := indexOf(r.Main, memberID); i >= 0 {
		r.Main = append(r.Main[:i], r.Main[i+1:]...)
		if promote && len(r.Subs) > 0 {
			r.Main = append(r.Main, r.Subs[0])
			r.Subs = append([]Member{}, r.Subs[1:]...)
		}
		return Left
	}
	if i := indexOf(r.Subs, memberID); i >= 0 {
		r.Subs = append(r.Subs[:i], r.Subs[i+1:]...)
		return Left
	}
	return NotOnRoster
}

// Close marks the roster closed. Closed is terminal: repeat calls keep
// the original ClosedAt.
func (r *Roster) Close(now time.Time) {
	if r.Closed {
		return
	}
	r.Closed = true
	r.ClosedAt = &now
}

// Clone returns a deep snapshot safe to render outside the store lock.
func (r *Roster) Clone() Roster {
	c := *r
	c.Main = append([]Member(nil), r.Main...)
	c.Subs = append([]Member(nil), r.Subs...)
	if r.CloseAt != nil {
		t := *r.CloseAt
		c.CloseAt = &t
	}
	if r.ClosedAt != nil {
		t := *r.ClosedAt
		c.ClosedAt = &t
	}
	return c
}

func indexOf(ms []Member, id string) int {
	for i, m := range ms {
		if m.ID == id {
			return i
		}
	}
	return -1
}
