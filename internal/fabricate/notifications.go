package fabricate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DeliveryOptions tunes a NotificationManager. Zero fields take the
// defaults listed next to them.
type DeliveryOptions struct {
	Workers     int           // 1
	QueueSize   int           // 1024
	MaxAttempts int           // 4
	Backoff     time.Duration // 100ms, doubled after every failed attempt
	Timeout     time.Duration // 30s per queued event
	Logger      Logger

	// Observe, when set, is called once per notifier after a queued event
	// was delivered or given up on. It runs on a worker goroutine.
	Observe func(Delivery)
}

// Default fills zero fields.
func (o *DeliveryOptions) Default() {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 1024
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 4
	}
	if o.Backoff <= 0 {
		o.Backoff = 100 * time.Millisecond
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Logger == nil {
		o.Logger = NewNoOpLogger()
	}
}

// Delivery is the outcome of sending one event to one notifier.
type Delivery struct {
	NotifierID string
	Kind       EventKind
	Attempts   int
	Err        error
}

// DeliveryStats counts queued deliveries since the manager started.
type DeliveryStats struct {
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

type delivery struct {
	event   NotificationEvent
	targets []string
}

// NotificationManager fans inventory events out to registered notifiers.
// Publish and Enqueue hand events to a bounded queue drained by worker
// goroutines that retry failed notifiers; Notify delivers inline.
type NotificationManager struct {
	opts DeliveryOptions

	mu        sync.RWMutex
	notifiers map[string]Notifier
	closed    bool

	queue   chan delivery
	workers sync.WaitGroup

	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

var _ EventSink = (*NotificationManager)(nil)

// NewNotificationManager starts a manager with opts.Workers workers.
func NewNotificationManager(opts DeliveryOptions) *NotificationManager {
	opts.Default()
	nm := &NotificationManager{
		opts:      opts,
		notifiers: make(map[string]Notifier),
		queue:     make(chan delivery, opts.QueueSize),
	}
	nm.workers.Add(opts.Workers)
	for range opts.Workers {
		go func() {
			defer nm.workers.Done()
			for d := range nm.queue {
				nm.process(d)
			}
		}()
	}
	return nm
}

func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return errors.New("notifier cannot be nil")
	}
	id := notifier.ID()
	if id == "" {
		return errors.New("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if nm.closed {
		return ErrManagerClosed
	}
	if _, taken := nm.notifiers[id]; taken {
		return fmt.Errorf("%w: %s", ErrNotifierExists, id)
	}
	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier removes the notifier and closes it.
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, ok := nm.notifiers[id]
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotifierNotFound, id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("closing notifier %s: %w", id, err)
	}
	return nil
}

func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, ok := nm.notifiers[id]
	return notifier, ok
}

// ListNotifiers returns the registered ids, sorted.
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	nm.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Stats returns the queued delivery counters.
func (nm *NotificationManager) Stats() DeliveryStats {
	return DeliveryStats{
		Delivered: nm.delivered.Load(),
		Failed:    nm.failed.Load(),
		Dropped:   nm.dropped.Load(),
	}
}

// Publish queues event for every notifier registered at call time.
func (nm *NotificationManager) Publish(event NotificationEvent) {
	nm.Enqueue(event, nm.ListNotifiers())
}

// Enqueue queues event for the given notifiers without blocking. It reports
// false when the event was not queued: the manager is closed or the queue
// is full. A full queue counts the event as dropped.
func (nm *NotificationManager) Enqueue(event NotificationEvent, notifierIDs []string) bool {
	if len(notifierIDs) == 0 {
		return false
	}
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return false
	}
	select {
	case nm.queue <- delivery{event: event, targets: notifierIDs}:
		return true
	default:
		nm.dropped.Add(1)
		nm.opts.Logger.Warnf("notification queue full, dropping event: kind=%s actor=%s", event.Kind, event.ActorID)
		return false
	}
}

func (nm *NotificationManager) process(d delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), nm.opts.Timeout)
	defer cancel()

	for _, id := range d.targets {
		notifier, ok := nm.GetNotifier(id)
		if !ok {
			// Unregistered after the event was queued.
			nm.opts.Logger.Debugf("skipping notifier %s: not registered", id)
			continue
		}
		attempts, err := nm.deliverWithRetry(ctx, notifier, d.event)
		if err != nil {
			nm.opts.Logger.Errorf("giving up on notifier %s after %d attempts: %v", id, attempts, err)
		}
		if nm.opts.Observe != nil {
			nm.opts.Observe(Delivery{NotifierID: id, Kind: d.event.Kind, Attempts: attempts, Err: err})
		}
		// Counted after Observe so Stats never runs ahead of the observer.
		if err != nil {
			nm.failed.Add(1)
		} else {
			nm.delivered.Add(1)
		}
	}
}

// deliverWithRetry returns the number of attempts made and the last error,
// nil once an attempt succeeds.
func (nm *NotificationManager) deliverWithRetry(ctx context.Context, notifier Notifier, event NotificationEvent) (int, error) {
	wait := nm.opts.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = notifier.Notify(ctx, event); err == nil {
			return attempt, nil
		}
		nm.opts.Logger.Warnf("notifier %s failed: attempt=%d error=%v", notifier.ID(), attempt, err)
		if attempt == nm.opts.MaxAttempts {
			return attempt, err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		wait *= 2
	}
}

// Notify delivers event to the given notifiers inline, one attempt each,
// and joins every failure into the returned error.
func (nm *NotificationManager) Notify(ctx context.Context, event NotificationEvent, notifierIDs []string) error {
	var errs []error
	for _, id := range notifierIDs {
		notifier, ok := nm.GetNotifier(id)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNotifierNotFound, id))
			continue
		}
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Close stops accepting events, drains the queue and closes every
// notifier. Calling it again is a no-op.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.queue)
	nm.mu.Unlock()

	nm.workers.Wait()

	nm.mu.Lock()
	registered := nm.notifiers
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	var errs []error
	for id, notifier := range registered {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing notifier %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
