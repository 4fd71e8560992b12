package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lomoval/strikeboard/internal/listing"
	"github.com/lomoval/strikeboard/internal/rabbit"
	"github.com/lomoval/strikeboard/internal/storage"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Spec string
}

type Publisher interface {
	PublishMessage(m rabbit.Message) error
}

// Scheduler announces events whose status changed since the previous check.
type Scheduler struct {
	storage   storage.Storage
	publisher Publisher
	spec      string
	now       func() time.Time

	mu        sync.Mutex
	lastCheck time.Time
}

func New(config Config, storage storage.Storage, publisher Publisher) *Scheduler {
	spec := config.Spec
	if spec == "" {
		spec = "@every 1m"
	}
	return &Scheduler{storage: storage, publisher: publisher, spec: spec, now: time.Now}
}

// Run executes Check on the configured schedule until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.spec, func() {
		sent, err := s.Check(ctx)
		if err != nil {
			log.Errorf("failed to check events: %v", err)
			return
		}
		log.Debugf("status messages sent: %d", sent)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// Check publishes a status message for every event classified differently at
// the previous check and now. The first call only records the instant.
// The instant is kept when events can not be loaded.
func (s *Scheduler) Check(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.lastCheck.IsZero() {
		s.lastCheck = now
		return 0, nil
	}

	events, err := s.storage.ListEvents(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, e := range events {
		before := listing.Classify(e.StartTime, e.EndTime, s.lastCheck)
		after := listing.Classify(e.StartTime, e.EndTime, now)
		if before == after {
			continue
		}
		log.Debugf("event %s: %s -> %s", e.ID, before, after)
		if err := s.publisher.PublishMessage(rabbit.NewStatusMessage(e, string(after))); err != nil {
			log.Errorf("failed to publish status of event %s: %v", e.ID, err)
			continue
		}
		sent++
	}
	s.lastCheck = now
	return sent, nil
}
