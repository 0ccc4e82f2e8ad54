package store

import (
	"sync"

	"plangen/progress"
)

// Event is one change-feed notification, published after every successful
// progress write so other sessions (a second tab, another device) can
// reconcile their view.
type Event struct {
	Type  progress.EventType `json:"type"`
	Table string             `json:"table"`
	Row   any                `json:"row"`
}

// Filter scopes a subscription to one learner's dashboard.
type Filter struct {
	ProfileID   uint
	DashboardID uint
}

type subscriber struct {
	table  string
	filter Filter
	ch     chan Event
}

// Feed is an in-process publish/subscribe hub for progress change events.
type Feed struct {
	mu   sync.Mutex
	subs map[int]*subscriber
	next int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscriber)}
}

// Subscribe registers for events on one table scoped by filter. Table "" or
// zero filter fields match everything. The returned func unsubscribes and
// closes the channel.
func (f *Feed) Subscribe(table string, filter Filter) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	sub := &subscriber{table: table, filter: filter, ch: make(chan Event, 16)}
	f.subs[id] = sub

	unsubscribe := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if s, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, unsubscribe
}

// Publish delivers an event to matching subscribers. Delivery is
// non-blocking: a subscriber that cannot keep up loses events and is
// expected to reconcile on its next full load.
func (f *Feed) Publish(ev Event, profileID, dashboardID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.table != "" && sub.table != ev.Table {
			continue
		}
		if sub.filter.ProfileID != 0 && sub.filter.ProfileID != profileID {
			continue
		}
		if sub.filter.DashboardID != 0 && sub.filter.DashboardID != dashboardID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
