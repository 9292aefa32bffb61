package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is one fire-and-forget unit of work, typically an analysis trigger.
type Task func(ctx context.Context) error

type job struct {
	workID string
	task   Task
}

// Dispatcher runs fire-and-forget tasks on a fixed pool of workers. The
// submitting request never waits for or observes the task's outcome; every
// failure is recorded to the dead-letter log instead of being swallowed.
type Dispatcher struct {
	jobs        chan job
	wg          sync.WaitGroup
	workers     int
	taskTimeout time.Duration
	logger      zerolog.Logger
}

func NewDispatcher(workers, queueSize int, taskTimeout time.Duration, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		jobs:        make(chan job, queueSize),
		workers:     workers,
		taskTimeout: taskTimeout,
		logger:      logger,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.logger.Info().Int("workers", d.workers).Msg("Dispatcher started")
}

func (d *Dispatcher) Stop() {
	close(d.jobs)
	d.wg.Wait()
	d.logger.Info().Msg("Dispatcher stopped")
}

// Submit never blocks: when the queue is saturated the task is dropped and
// dead-lettered.
func (d *Dispatcher) Submit(workID string, task Task) {
	select {
	case d.jobs <- job{workID: workID, task: task}:
	default:
		d.deadLetter(workID, "dispatch queue full", nil)
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for j := range d.jobs {
		d.run(id, j)
	}
}

func (d *Dispatcher) run(workerID int, j job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Int("worker_id", workerID).
				Str("work_id", j.workID).
				Interface("panic", r).
				Msg("Dispatched task panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.taskTimeout)
	defer cancel()

	if err := j.task(ctx); err != nil {
		d.deadLetter(j.workID, "dispatched task failed", err)
	}
}

// deadLetter is the observable trace of a lost fire-and-forget dispatch.
func (d *Dispatcher) deadLetter(workID, reason string, err error) {
	event := d.logger.Error().
		Str("work_id", workID).
		Str("dead_letter", reason)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Analysis dispatch lost")
}
