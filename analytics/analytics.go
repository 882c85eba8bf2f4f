// Package analytics records user actions. Events are written as structured
// log entries; nothing is sent over the network.
package analytics

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Event names a tracked user action.
type Event string

const (
	AppLaunch         Event = "app_launch"
	PhotoCapture      Event = "photo_capture"
	FilterApplied     Event = "filter_applied"
	StickerAdded      Event = "sticker_added"
	ExportClean       Event = "export_clean"
	ExportCensored    Event = "export_censored"
	Share             Event = "share"
	PurchaseStarted   Event = "purchase_started"
	PurchaseCompleted Event = "purchase_completed"
	PurchaseFailed    Event = "purchase_failed"
	SecretUnlocked    Event = "secret_unlocked"
)

// Props holds the properties attached to an event.
type Props map[string]any

// Sink receives tracked events.
type Sink interface {
	Track(event Event, props Props)
}

// Nop discards every event.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Track(Event, Props) {}

// LogSink writes events to a logrus logger at info level.
type LogSink struct {
	Log logrus.FieldLogger
}

// NewLogSink returns a sink logging through l, or the standard logger when l is nil.
func NewLogSink(l logrus.FieldLogger) *LogSink {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogSink{Log: l}
}

// Track implements Sink.
func (s *LogSink) Track(event Event, props Props) {
	s.Log.WithFields(logrus.Fields(props)).WithField("event", string(event)).Info("analytics")
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Record
}

// Record is one event captured by a Recorder.
type Record struct {
	Event Event
	Props Props
}

// Track implements Sink.
func (r *Recorder) Track(event Event, props Props) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Record{Event: event, Props: props})
}

// Events returns the captured events in order.
func (r *Recorder) Events() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.events...)
}

// Tracker offers typed helpers on top of a Sink.
type Tracker struct {
	sink Sink
}

// NewTracker wraps sink. A nil sink discards events.
func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = Nop
	}
	return &Tracker{sink: sink}
}

func (t *Tracker) Track(event Event, props Props) { t.sink.Track(event, props) }

func (t *Tracker) FilterUsed(id string) {
	t.sink.Track(FilterApplied, Props{"filter_id": id})
}

func (t *Tracker) StickerUsed(id string) {
	t.sink.Track(StickerAdded, Props{"sticker_id": id})
}

// Exported records both variants written by an export.
func (t *Tracker) Exported() {
	t.sink.Track(ExportClean, nil)
	t.sink.Track(ExportCensored, nil)
}

func (t *Tracker) Shared(count int) {
	t.sink.Track(Share, Props{"count": count})
}

func (t *Tracker) Purchase(productID string, ok bool) {
	ev := PurchaseCompleted
	if !ok {
		ev = PurchaseFailed
	}
	t.sink.Track(ev, Props{"product_id": productID})
}

func (t *Tracker) SecretUnlock(id string) {
	t.sink.Track(SecretUnlocked, Props{"secret_id": id})
}
