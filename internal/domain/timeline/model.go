package timeline

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Kind classifies a timeline entry.
type Kind string

const (
	KindTask    Kind = "task"
	KindHabit   Kind = "habit"
	KindEvent   Kind = "event"
	KindFixture Kind = "fixture"
)

func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindTask:
		return KindTask, true
	case KindHabit:
		return KindHabit, true
	case KindEvent:
		return KindEvent, true
	case KindFixture:
		return KindFixture, true
	default:
		return "", false
	}
}

// IsEvent reports whether the kind renders as a calendar event.
// Fixtures are events sourced from a sports provider.
func (k Kind) IsEvent() bool {
	return k == KindEvent || k == KindFixture
}

// Completable reports whether the kind carries a completion flag.
func (k Kind) Completable() bool {
	return k == KindTask || k == KindHabit
}

// Item is one normalized entry on a day's timeline, regardless of origin.
type Item struct {
	ID           string
	Title        string
	Kind         Kind
	CalendarDate civil.Date
	StartTime    *time.Time
	EndTime      *time.Time
	Completed    bool
	Venue        string
	SourceNote   string
}

// EffectiveTime is the instant used for ordering: the start time when set,
// otherwise midnight of the calendar date in loc.
func (i Item) EffectiveTime(loc *time.Location) time.Time {
	if i.StartTime != nil {
		return *i.StartTime
	}
	if loc == nil {
		loc = time.Local
	}
	return i.CalendarDate.In(loc)
}

// Clone returns a copy that does not share time pointers with i.
func (i Item) Clone() Item {
	out := i
	if i.StartTime != nil {
		v := *i.StartTime
		out.StartTime = &v
	}
	if i.EndTime != nil {
		v := *i.EndTime
		out.EndTime = &v
	}
	return out
}

func CloneAll(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
