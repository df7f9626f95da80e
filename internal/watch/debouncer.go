package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer collects events until the configured interval passes without a
// new one, then hands the whole batch to the callback in arrival order.
// With a max wait set, a batch is flushed no later than max wait after its
// first event, however busy the stream stays.
type Debouncer struct {
	interval time.Duration
	maxWait  time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func(batch []Event)
	pending  []Event
	first    time.Time
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithMaxWait caps how long the first event of a batch may wait. Zero
// disables the cap.
func WithMaxWait(d time.Duration) DebouncerOption {
	return func(db *Debouncer) {
		db.maxWait = d
	}
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// firing callback with every event seen since the previous firing.
func NewDebouncer(interval time.Duration, callback func(batch []Event), opts ...DebouncerOption) *Debouncer {
	d := &Debouncer{
		interval: interval,
		callback: callback,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Trigger records an event. If no further events arrive within the debounce
// interval, the callback fires with the accumulated batch.
func (d *Debouncer) Trigger(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()

	if len(d.pending) == 0 {
		d.first = now
	}

	d.pending = append(d.pending, ev)

	delay := d.interval

	if d.maxWait > 0 {
		if left := d.first.Add(d.maxWait).Sub(now); left < delay {
			delay = max(left, 0)
		}
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(delay, d.flush)
}

func (d *Debouncer) flush() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("debouncer callback panicked", slog.Any("error", r))
		}
	}()

	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(batch) > 0 {
		d.callback(batch)
	}
}

// Stop cancels any pending debounced callback and discards the events it
// would have delivered.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.pending = nil
}
