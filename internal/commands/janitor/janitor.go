// Package janitor sweeps commands stuck in the pending state, e.g. after a
// crash between the two dispatch phases or a hung generation call.
package janitor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/emergent-shell/shell-backend/internal/commands/domain"
	"github.com/emergent-shell/shell-backend/internal/events"
)

const timeoutOutput = "Error: command timed out"

// Store is the stale-command slice of the command repository.
type Store interface {
	CompleteStale(ctx context.Context, cutoff time.Time, output string) ([]domain.Command, error)
}

// Janitor completes commands pending longer than the timeout with a terminal
// error output. The guarded patch in the store keeps this race-safe against
// a phase-2 worker finishing at the same moment.
type Janitor struct {
	store   Store
	bus     events.Bus
	log     *logrus.Logger
	timeout time.Duration
	cron    *cron.Cron
}

func New(store Store, bus events.Bus, log *logrus.Logger, timeout time.Duration) *Janitor {
	return &Janitor{
		store:   store,
		bus:     bus,
		log:     log,
		timeout: timeout,
		cron:    cron.New(),
	}
}

// Start schedules the sweep every 30 seconds.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("@every 30s", j.Sweep); err != nil {
		return err
	}
	j.cron.Start()
	j.log.WithField("timeout", j.timeout.String()).Info("command janitor started")
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep is exported so a deployment can also trigger it out of band.
func (j *Janitor) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-j.timeout)
	reaped, err := j.store.CompleteStale(ctx, cutoff, timeoutOutput)
	if err != nil {
		j.log.WithError(err).Error("stale command sweep failed")
		return
	}

	for _, cmd := range reaped {
		j.log.WithFields(logrus.Fields{
			"command_id": cmd.ID,
			"owner_id":   cmd.OwnerID,
		}).Warn("completed stale command")

		if err := j.bus.Publish(ctx, events.Event{
			Kind:      events.KindPatch,
			CommandID: cmd.ID,
			OwnerID:   cmd.OwnerID,
			ProjectID: cmd.ProjectID,
		}); err != nil {
			j.log.WithError(err).Warn("failed to publish janitor patch event")
		}
	}
}
