package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"pothole-service/internal/model"
	"pothole-service/internal/store"
)

type Config struct {
	Channel     string
	Recipient   string
	QueueSize   int
	Workers     int
	MaxAttempts int
	BaseDelay   time.Duration
	DedupWindow time.Duration
}

func (c *Config) applyDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 2 * time.Second
	}
	if c.DedupWindow <= 0 {
		c.DedupWindow = 5 * time.Minute
	}
	if c.Channel == "" {
		c.Channel = "log"
	}
}

type job struct {
	report model.Report
	event  model.NotificationEvent
}

// Dispatcher delivers workflow notifications off the critical path. Enqueue
// never blocks a transition: a full queue drops the job with a warning.
// Delivery is attempted MaxAttempts times with exponential backoff; the
// outcome lands in the notifications store as SENT or FAILED. Duplicate
// report+event enqueues inside DedupWindow collapse to one delivery.
type Dispatcher struct {
	cfg      Config
	registry *Registry
	store    store.NotificationStore
	dedup    *Deduplicator
	log      zerolog.Logger

	jobs    chan job
	wg      sync.WaitGroup
	stopped atomic.Bool
	once    sync.Once
}

func NewDispatcher(cfg Config, registry *Registry, notifications store.NotificationStore, log zerolog.Logger) *Dispatcher {
	cfg.applyDefaults()
	return &Dispatcher{
		cfg:      cfg,
		registry: registry,
		store:    notifications,
		dedup:    NewDeduplicator(cfg.DedupWindow),
		log:      log.With().Str("component", "notify").Logger(),
		jobs:     make(chan job, cfg.QueueSize),
	}
}

// Start launches the delivery workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop drains the queue and waits for in-flight deliveries.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.stopped.Store(true)
		close(d.jobs)
	})
	d.wg.Wait()
}

// Enqueue schedules delivery for report+event. Fire-and-forget: errors and
// drops are logged, never returned.
func (d *Dispatcher) Enqueue(report model.Report, event model.NotificationEvent) {
	if d.stopped.Load() {
		return
	}
	select {
	case d.jobs <- job{report: report, event: event}:
	default:
		d.log.Warn().
			Str("report_id", report.ID.String()).
			Str("event", string(event)).
			Msg("notification queue full, dropping")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.deliver(context.Background(), j)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	dedupKey := fmt.Sprintf("%s:%s", j.report.ID, j.event)
	if d.dedup.IsDuplicate(dedupKey) {
		d.log.Debug().
			Str("report_id", j.report.ID.String()).
			Str("event", string(j.event)).
			Msg("duplicate notification collapsed")
		return
	}

	n := &model.Notification{
		ReportID:  j.report.ID,
		Event:     j.event,
		Channel:   d.cfg.Channel,
		Recipient: d.cfg.Recipient,
		Message:   Message(j.report, j.event),
		Status:    model.NotificationStatusPending,
	}
	persisted := true
	if err := d.store.Create(ctx, n); err != nil {
		persisted = false
		d.log.Error().Err(err).Str("report_id", j.report.ID.String()).Msg("persist notification")
	}

	provider, err := d.registry.Get(d.cfg.Channel)
	if err != nil {
		n.Status = model.NotificationStatusFailed
		n.Error = err.Error()
	} else {
		d.attempt(ctx, provider, n)
	}

	if n.Status == model.NotificationStatusFailed {
		d.log.Error().
			Str("report_id", n.ReportID.String()).
			Str("event", string(n.Event)).
			Int("attempts", n.Attempts).
			Str("error", n.Error).
			Msg("notification delivery failed")
	}
	if persisted {
		if err := d.store.Update(ctx, n); err != nil {
			d.log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("update notification")
		}
	}
}

func (d *Dispatcher) attempt(ctx context.Context, provider Provider, n *model.Notification) {
	var lastErr error
	for attempt := 0; attempt < d.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			// 1x, 2x, 4x... base delay between attempts.
			time.Sleep(d.cfg.BaseDelay * time.Duration(1<<uint(attempt-1)))
		}
		n.Attempts = attempt + 1

		providerID, err := provider.Send(ctx, n.Recipient, n.Message)
		if err == nil {
			n.Status = model.NotificationStatusSent
			n.ProviderID = providerID
			return
		}
		lastErr = err
		d.log.Warn().Err(err).
			Str("report_id", n.ReportID.String()).
			Int("attempt", n.Attempts).
			Msg("notification attempt failed")
	}

	n.Status = model.NotificationStatusFailed
	if lastErr != nil {
		n.Error = lastErr.Error()
	}
}
