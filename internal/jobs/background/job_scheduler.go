package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const LowStockScanJob = "low-stock-scan"

// LowStockScanner runs a full catalog low stock check.
type LowStockScanner interface {
	ScheduledLowStockCheck(ctx context.Context) error
}

// JobScheduler owns the periodic jobs of the process.
type JobScheduler struct {
	scheduler gocron.Scheduler
	scanner   LowStockScanner
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler registers the low stock scan to run every scanInterval.
func NewJobScheduler(scanner LowStockScanner, scanInterval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		scanner:   scanner,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.AddJob(LowStockScanJob, scanInterval, js.scanLowStock); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) scanLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	// errors are logged by the scanner
	_ = js.scanner.ScheduledLowStockCheck(ctx)
}

// AddJob schedules fn every interval. A run still in progress when the next one is
// due is rescheduled rather than overlapped.
func (js *JobScheduler) AddJob(name string, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	js.jobs[name] = job
	log.Debug().Str("job", name).Dur("interval", interval).Msg("job registered")
	return nil
}

func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}
	return nil
}

// JobStatus describes one scheduled job.
type JobStatus struct {
	Name    string     `json:"name"`
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// GetJobStatus returns the scheduled jobs sorted by name.
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		status := JobStatus{Name: name}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			status.LastRun = &last
		}
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			status.NextRun = &next
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
