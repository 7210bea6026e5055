// Package calendar mirrors user events into an iCalendar feed.
package calendar

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
)

const defaultProductID = "-//day-planner//timeline//EN"

// ICSMirror implements timeline.CalendarMirror by keeping mirrored events in
// memory and rendering them as one VCALENDAR on demand.
type ICSMirror struct {
	productID string
	now       func() time.Time

	mu     sync.RWMutex
	events map[string]timeline.Item
}

func NewICSMirror(productID string) *ICSMirror {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		productID = defaultProductID
	}
	return &ICSMirror{
		productID: productID,
		now:       time.Now,
		events:    make(map[string]timeline.Item),
	}
}

func (m *ICSMirror) Upsert(_ context.Context, item timeline.Item) error {
	if !item.Kind.IsEvent() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[item.ID] = item.Clone()
	return nil
}

func (m *ICSMirror) Remove(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, itemID)
	return nil
}

func (m *ICSMirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Render serializes the mirrored events ordered by start. Events without a
// start time become all-day events on their calendar date.
func (m *ICSMirror) Render() string {
	m.mu.RLock()
	items := make([]timeline.Item, 0, len(m.events))
	for _, item := range m.events {
		items = append(items, item.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		left, right := items[i].EffectiveTime(time.UTC), items[j].EffectiveTime(time.UTC)
		if !left.Equal(right) {
			return left.Before(right)
		}
		return items[i].ID < items[j].ID
	})

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(m.productID)

	stamp := m.now().UTC()
	for _, item := range items {
		event := cal.AddEvent(item.ID)
		event.SetDtStampTime(stamp)
		event.SetSummary(item.Title)
		if item.Venue != "" {
			event.SetLocation(item.Venue)
		}
		if item.SourceNote != "" {
			event.SetDescription(item.SourceNote)
		}

		if item.StartTime == nil {
			day := item.CalendarDate.In(time.UTC)
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		event.SetStartAt(item.StartTime.UTC())
		end := item.StartTime.UTC()
		if item.EndTime != nil {
			end = item.EndTime.UTC()
		}
		event.SetEndAt(end)
	}
	return cal.Serialize()
}
