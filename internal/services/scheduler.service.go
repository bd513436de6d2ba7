package services

import (
	"context"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly Schedule = iota
	DailyMorning
)

// dailyMorningAt is local office time, before staff start work.
const dailyMorningAt = "08:00"

type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.Local),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) runJob(job Job) {
	log := s.log.Function("runJob")

	start := time.Now()
	if err := job.Execute(s.ctx); err != nil {
		log.Er("job failed", err, "job", job.Name())
		return
	}
	log.Info("job completed", "job", job.Name(), "duration", time.Since(start))
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case DailyMorning:
		_, err = s.scheduler.Every(1).Day().At(dailyMorningAt).Do(s.runJob, job)
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(s.runJob, job)
	default:
		return log.Error("unknown job schedule", "job", job.Name(), "schedule", job.Schedule())
	}
	if err != nil {
		return log.Err("failed to register job", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("job registered", "job", job.Name())
	return nil
}

func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")
	if s.started || len(s.jobs) == 0 {
		return
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("job scheduled", "nextRun", job.NextRun())
	}
}

func (s *SchedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if !s.started {
		return
	}

	s.scheduler.Stop()
	s.started = false
	s.log.Function("Stop").Info("scheduler stopped")
}

func (s *SchedulerService) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
