// Package scheduler runs the periodic digest jobs on cron specs, each run
// guarded by a lease and wrapped in a retry policy.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"dailydigest/internal/events"
	"dailydigest/internal/logger"

	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownJob = errors.New("unknown job")
	ErrJobRunning = errors.New("job is already running")
)

const DefaultLeaseTTL = 30 * time.Minute

type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron     *cron.Cron
	policy   RetryPolicy
	locker   Locker
	leaseTTL time.Duration

	mu      sync.Mutex
	jobs    map[string]Job
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(loc *time.Location, policy RetryPolicy, locker Locker) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if locker == nil {
		locker = NoopLocker{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		policy:   policy,
		locker:   locker,
		leaseTTL: DefaultLeaseTTL,
		jobs:     map[string]Job{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register adds job to the cron table. A job with an empty spec can only be
// started through RunNow.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.Name]; ok {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	if job.Spec != "" {
		if _, err := s.cron.AddFunc(job.Spec, func() {
			_ = s.execute(s.ctx, job)
		}); err != nil {
			return fmt.Errorf("invalid schedule %q for job %s: %w", job.Spec, job.Name, err)
		}
	}

	s.jobs[job.Name] = job
	return nil
}

func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
}

// Stop halts the cron loop, cancels pending retries and waits for running
// jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.cancel()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
}

// RunNow executes the named job synchronously with the same lease and retry
// handling as a scheduled run.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, job)
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	ctx = logger.With(ctx, "job", job.Name)

	release, ok, err := s.locker.Acquire(ctx, job.Name, s.leaseTTL)
	if err != nil {
		logger.Error(ctx, "could not acquire job lease", err)
		return err
	}
	if !ok {
		logger.Info(ctx, "job already running elsewhere, skipping")
		return ErrJobRunning
	}
	defer release()

	started := time.Now()
	attempts, err := s.policy.Run(ctx, func(ctx context.Context, attempt int) error {
		logger.Info(ctx, "job started", "attempt", attempt)
		if events.Em != nil {
			events.Em.JobStarted(job.Name, attempt)
		}

		err := safeRun(ctx, job)
		if err != nil {
			logger.Warn(ctx, "job attempt failed", "attempt", attempt, "error", err)
		}
		return err
	})

	if err != nil {
		logger.Error(ctx, "job failed permanently", err, "attempts", attempts)
		if events.Em != nil {
			events.Em.JobFailed(job.Name, attempts, err)
		}
		return err
	}

	took := time.Since(started)
	logger.Info(ctx, "job finished", "attempts", attempts, "took", took)
	if events.Em != nil {
		events.Em.JobFinished(job.Name, attempts, took)
	}
	return nil
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}
