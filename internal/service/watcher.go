package service

import (
	"context"
	"time"

	"garage_monitor/internal/config"
	"garage_monitor/internal/logger"
	"garage_monitor/internal/models"
	"garage_monitor/internal/notify"
	"garage_monitor/internal/repository"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
)

// CycleReport is what one poll cycle observed and did.
type CycleReport struct {
	Observation models.Observation
	Attempts    []models.NotificationAttempt
}

// WatcherService polls the door and alerts recipients while it is open
// during observation hours. It keeps no state between cycles.
type WatcherService struct {
	prober     Prober
	notifier   notify.Notifier
	clock      Clock
	recipients []string
	interval   time.Duration
	window     config.Window
	log        *logger.Logger

	// optional journal
	stateRepo repository.StateRepo
	obsRepo   repository.ObservationRepo
	notifRepo repository.NotificationRepo
}

// NewWatcherService builds the loop. repos may be nil to run without a journal.
func NewWatcherService(
	s config.Settings,
	prober Prober,
	notifier notify.Notifier,
	repos *repository.Repository,
	clock Clock,
	log *logger.Logger,
) *WatcherService {
	if log == nil {
		log = logger.Nop()
	}
	w := &WatcherService{
		prober:     prober,
		notifier:   notifier,
		clock:      clock,
		recipients: append([]string(nil), s.Recipients...),
		interval:   s.Interval,
		window:     s.Window,
		log:        log,
	}
	if repos != nil {
		w.stateRepo = repos.StateRepo
		w.obsRepo = repos.ObservationRepo
		w.notifRepo = repos.NotificationRepo
	}
	return w
}

// Run sleeps, then runs a cycle, forever. Only ctx cancellation stops it,
// and only while sleeping: a started cycle finishes every recipient.
func (w *WatcherService) Run(ctx context.Context) {
	w.log.Infow("watcher_started",
		"every", durafmt.Parse(w.interval).String(),
		"provider", w.notifier.Name(),
		"recipients", w.recipients,
		"awake_start_end_hours", []int{w.window.Start, w.window.End},
	)
	// the latest state is per process; history survives restarts
	if w.stateRepo != nil {
		if err := w.stateRepo.Clear(ctx); err != nil {
			w.log.Errorw("state_clear_failed", "err", err)
		}
	}
	cycleCtx := context.WithoutCancel(ctx)
	for {
		if err := w.clock.Sleep(ctx, w.interval); err != nil {
			w.log.Infow("watcher_stopped", "reason", err)
			return
		}
		w.Cycle(cycleCtx)
	}
}

// Cycle probes once and notifies every recipient iff the door is open and
// the current hour is an observation hour.
func (w *WatcherService) Cycle(ctx context.Context) CycleReport {
	state, probeErr := w.prober.Probe(ctx)
	now := w.clock.Now()

	obs := models.Observation{
		ID:         uuid.NewString(),
		ObservedAt: now,
		State:      state,
		Hour:       now.Hour(),
		Minute:     now.Minute(),
		InWindow:   IsObservationTime(now, w.window.Start, w.window.End),
	}
	if probeErr != nil {
		obs.State = models.DoorUnknown
		obs.Error = probeErr.Error()
		w.log.Warnw("probe_failed", "err", probeErr)
	}

	w.log.Infow("door_state",
		"state", obs.State.String(),
		"hour", obs.Hour,
		"minute", obs.Minute,
		"in_window", obs.InWindow,
	)

	var attempts []models.NotificationAttempt
	if obs.ShouldAlert() {
		attempts = w.notifyAll(ctx, &obs)
	}

	w.record(ctx, obs, attempts)
	return CycleReport{Observation: obs, Attempts: attempts}
}

// notifyAll delivers to each recipient in order; a failure for one recipient
// never prevents the next attempt.
func (w *WatcherService) notifyAll(ctx context.Context, obs *models.Observation) []models.NotificationAttempt {
	attempts := make([]models.NotificationAttempt, 0, len(w.recipients))
	for _, recipient := range w.recipients {
		at := w.clock.Now()
		w.log.Infow("notify",
			"recipient", recipient,
			"state", obs.State.String(),
			"hour", at.Hour(),
			"minute", at.Minute(),
		)

		attempt := models.NotificationAttempt{
			ID:            uuid.NewString(),
			ObservationID: obs.ID,
			Recipient:     recipient,
			Provider:      w.notifier.Name(),
			AttemptedAt:   at,
		}
		if err := w.notifier.Notify(ctx, recipient, at); err != nil {
			attempt.Error = err.Error()
			obs.Failed++
			w.log.Warnw("notify_failed", "recipient", recipient, "err", err)
		} else {
			attempt.Delivered = true
			obs.Notified++
			w.log.Infow("notify_sent", "recipient", recipient)
		}
		attempts = append(attempts, attempt)
	}
	return attempts
}

// record journals the cycle. Storage errors are logged and otherwise ignored.
func (w *WatcherService) record(ctx context.Context, obs models.Observation, attempts []models.NotificationAttempt) {
	if w.stateRepo != nil {
		if err := w.stateRepo.Save(ctx, obs); err != nil {
			w.log.Errorw("state_save_failed", "err", err, "observation_id", obs.ID)
		}
	}
	if w.obsRepo == nil {
		return
	}
	if err := w.obsRepo.Append(ctx, obs); err != nil {
		w.log.Errorw("observation_append_failed", "err", err, "observation_id", obs.ID)
		return
	}
	if w.notifRepo == nil {
		return
	}
	for _, a := range attempts {
		if err := w.notifRepo.Append(ctx, a); err != nil {
			w.log.Errorw("notification_append_failed", "err", err, "recipient", a.Recipient)
		}
	}
}
