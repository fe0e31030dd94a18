// Package dispatcher owns the two-phase lifecycle of a submitted command:
// persist a pending record synchronously, then execute it on a worker pool
// and patch the output exactly once.
package dispatcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emergent-shell/shell-backend/internal/auth"
	"github.com/emergent-shell/shell-backend/internal/commands/domain"
	"github.com/emergent-shell/shell-backend/internal/commands/executor"
	"github.com/emergent-shell/shell-backend/internal/commands/parser"
	"github.com/emergent-shell/shell-backend/internal/events"
)

// CommandStore is the slice of command persistence the dispatcher needs.
type CommandStore interface {
	InsertPending(ctx context.Context, c domain.Command) error
	Complete(ctx context.Context, id, output string) (bool, error)
}

type job struct {
	cmd domain.Command
}

// Dispatcher runs phase 2 on a fixed pool of workers fed by a buffered job
// queue. Jobs from different commands are unordered relative to each other;
// a command's own phase 1 always commits before its job is enqueued.
type Dispatcher struct {
	store   CommandStore
	exec    *executor.Executor
	bus     events.Bus
	log     *logrus.Logger
	timeout time.Duration
	workers int

	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup
}

type Options struct {
	Workers   int
	QueueSize int
	// Timeout bounds one command's execution; the janitor reaps anything
	// that still slips through.
	Timeout time.Duration
}

func New(store CommandStore, exec *executor.Executor, bus events.Bus, log *logrus.Logger, opt Options) *Dispatcher {
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	if opt.QueueSize < 1 {
		opt.QueueSize = 16
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 2 * time.Minute
	}

	return &Dispatcher{
		store:   store,
		exec:    exec,
		bus:     bus,
		log:     log,
		timeout: opt.Timeout,
		workers: opt.Workers,
		jobs:    make(chan job, opt.QueueSize),
		quit:    make(chan struct{}),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 1; i <= d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.log.WithField("workers", d.workers).Info("command dispatcher started")
}

// Stop drains in-flight jobs and stops the workers. Queued jobs that have
// not started are left pending for the janitor.
func (d *Dispatcher) Stop() {
	close(d.quit)
	d.wg.Wait()
}

// Submit persists the pending command and schedules its execution. It
// returns as soon as phase 1 commits; callers never wait on execution.
func (d *Dispatcher) Submit(ctx context.Context, raw, ownerID, projectID string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", auth.ErrNotAuthenticated
	}

	cmd := domain.Command{
		ID:        uuid.NewString(),
		Command:   raw,
		ProjectID: projectID,
		OwnerID:   ownerID,
		Status:    domain.StatusPending,
		Output:    domain.OutputPending,
		Timestamp: time.Now().UTC(),
	}

	if err := d.store.InsertPending(ctx, cmd); err != nil {
		return "", err
	}

	d.publish(events.Event{
		Kind:      events.KindInsert,
		CommandID: cmd.ID,
		OwnerID:   cmd.OwnerID,
		ProjectID: cmd.ProjectID,
	})

	d.enqueue(job{cmd: cmd})
	return cmd.ID, nil
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
	default:
		// Queue full. The record is already durable, so hand the job off
		// without blocking the submitter; the janitor covers the worst case.
		go func() {
			select {
			case d.jobs <- j:
			case <-d.quit:
			}
		}()
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case j := <-d.jobs:
			d.process(j.cmd)
		case <-d.quit:
			return
		}
	}
}

// process is phase 2. It runs under its own context so it survives the
// submitter's request lifetime, and the guarded Complete keeps the
// pending→completed transition single-shot even if it runs twice.
func (d *Dispatcher) process(cmd domain.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	instr := parser.Parse(cmd.Command)
	output := d.exec.Execute(ctx, instr, cmd.OwnerID)

	patched, err := d.store.Complete(ctx, cmd.ID, output)
	if err != nil {
		d.log.WithError(err).WithField("command_id", cmd.ID).Error("failed to patch command output")
		return
	}
	if !patched {
		// Already completed (janitor or a duplicate run beat us).
		return
	}

	d.publish(events.Event{
		Kind:      events.KindPatch,
		CommandID: cmd.ID,
		OwnerID:   cmd.OwnerID,
		ProjectID: cmd.ProjectID,
	})
}

func (d *Dispatcher) publish(ev events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.bus.Publish(ctx, ev); err != nil {
		d.log.WithError(err).WithField("command_id", ev.CommandID).Warn("failed to publish command event")
	}
}
