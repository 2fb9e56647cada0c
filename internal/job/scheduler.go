package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phrazzld/todolist/internal/platform/logger"
)

// ErrAlreadyRunning is returned by Trigger while a run is in progress.
var ErrAlreadyRunning = errors.New("job is already running")

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// IntervalConfig holds the schedule for a Scheduler.
type IntervalConfig struct {
	// Interval between ticks; must be positive.
	Interval time.Duration

	// MisfireGrace is how late a tick may be handled and still run.
	// Zero means ticks are never dropped for lateness.
	MisfireGrace time.Duration
}

// Scheduler fires one Job on a fixed interval.
type Scheduler struct {
	job    Job
	config IntervalConfig
	logger *slog.Logger
	now    func() time.Time

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool

	running atomic.Bool
	runs    atomic.Int64
}

// NewScheduler creates a Scheduler for job.
// If logger is nil, a default logger will be used.
func NewScheduler(job Job, config IntervalConfig, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job cannot be nil")
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", config.Interval)
	}
	if config.MisfireGrace < 0 {
		return nil, fmt.Errorf("misfire grace cannot be negative, got %s", config.MisfireGrace)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		job:        job,
		config:     config,
		logger:     logger.With(slog.String("component", "scheduler"), slog.String("job", job.Name())),
		now:        time.Now,
		ctx:        ctx,
		cancelFunc: cancel,
	}, nil
}

// Start begins ticking. Calling Start more than once, or after Stop, does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.loop()

	s.logger.Info("scheduler started",
		slog.Duration("interval", s.config.Interval),
		slog.Duration("misfire_grace", s.config.MisfireGrace))
}

// Stop halts ticking, cancels a run in progress and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info("scheduler stopped", slog.Int64("runs", s.runs.Load()))
}

// Trigger runs the job now, synchronously, unless a run is in progress.
func (s *Scheduler) Trigger(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)
	return s.execute(ctx)
}

// Runs returns how many times the job has been executed.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case tick := <-ticker.C:
			s.onTick(tick)
		}
	}
}

// onTick starts a run for the tick scheduled at tick unless it misfired or
// the previous run is still going.
func (s *Scheduler) onTick(tick time.Time) bool {
	if late := s.now().Sub(tick); s.config.MisfireGrace > 0 && late > s.config.MisfireGrace {
		s.logger.Warn("run skipped: misfire grace exceeded",
			slog.Time("scheduled", tick),
			slog.Duration("late", late))
		return false
	}

	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("run skipped: maximum running instances reached",
			slog.Time("scheduled", tick))
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		if err := s.execute(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			// Failures are reported only; the next tick runs as usual.
			s.logger.Error("job run failed", slog.String("error", err.Error()))
		}
	}()
	return true
}

func (s *Scheduler) execute(ctx context.Context) (err error) {
	log := s.logger.With(slog.Int64("run", s.runs.Add(1)))
	ctx = logger.WithLogger(ctx, log)

	defer func() {
		if p := recover(); p != nil {
			log.Error("job panicked", slog.Any("panic", p))
			err = fmt.Errorf("job %s panicked: %v", s.job.Name(), p)
		}
	}()

	start := s.now()
	log.Debug("job run starting")
	err = s.job.Run(ctx)
	log.Debug("job run finished",
		slog.Duration("duration", s.now().Sub(start)),
		slog.Bool("ok", err == nil))
	return err
}
