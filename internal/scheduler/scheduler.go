package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"bike-share-predict/internal/storage"
)

// Scheduler periodically purges the published chart images. Charts are
// one-shot artifacts; anything still in the container at sweep time is
// stale.
type Scheduler struct {
	scheduler *gocron.Scheduler
	images    storage.Gateway
	interval  time.Duration
}

// New creates a Scheduler sweeping the given gateway.
func New(images storage.Gateway, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		images:    images,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.images.Clear(ctx); err != nil {
			log.Printf("scheduler: image sweep failed: %v", err)
			return
		}
		log.Println("scheduler: purged stale chart images")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
