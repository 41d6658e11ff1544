package autosave

import (
	"sync"
	"time"
)

// Debouncer delays a save per field until input has been quiet for the configured delay.
// Scheduling a field again replaces its pending timer, so at most one save per field is
// pending and the latest schedule wins. Fired field ids are delivered on C.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	seq     map[string]uint64
	stopped bool

	out  chan string
	done chan struct{}
}

// New creates a Debouncer with the given quiet window.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		seq:    make(map[string]uint64),
		out:    make(chan string, 16),
		done:   make(chan struct{}),
	}
}

// C delivers the id of each field whose quiet window elapsed.
func (d *Debouncer) C() <-chan string {
	return d.out
}

// Delay returns the quiet window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule (re)starts the timer for field.
func (d *Debouncer) Schedule(field string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[field]; ok {
		t.Stop()
	}

	d.seq[field]++
	gen := d.seq[field]
	d.timers[field] = time.AfterFunc(d.delay, func() {
		d.fire(field, gen)
	})
}

func (d *Debouncer) fire(field string, gen uint64) {
	d.mu.Lock()
	// A timer that already started running can lose the race with Schedule or Cancel.
	if d.stopped || d.seq[field] != gen {
		d.mu.Unlock()
		return
	}
	delete(d.timers, field)
	d.mu.Unlock()

	select {
	case d.out <- field:
	case <-d.done:
	}
}

// Cancel drops the pending save for field, if any.
func (d *Debouncer) Cancel(field string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[field]; ok {
		t.Stop()
		delete(d.timers, field)
	}
	d.seq[field]++
}

// Pending reports whether field has a save waiting.
func (d *Debouncer) Pending(field string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.timers[field]
	return ok
}

// PendingFields returns the fields with a save waiting.
func (d *Debouncer) PendingFields() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	fields := make([]string, 0, len(d.timers))
	for f := range d.timers {
		fields = append(fields, f)
	}
	return fields
}

// Stop cancels every pending timer and releases fired timers still waiting for a reader.
// Later calls to Schedule are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.stopped {
		d.stopped = true
		close(d.done)
	}
	for f, t := range d.timers {
		t.Stop()
		delete(d.timers, f)
	}
}
