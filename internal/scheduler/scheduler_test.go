package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lomoval/strikeboard/internal/rabbit"
	"github.com/lomoval/strikeboard/internal/storage"
	memorystorage "github.com/lomoval/strikeboard/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	messages []rabbit.Message
	err      error
}

func (f *fakePublisher) PublishMessage(m rabbit.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, m)
	return nil
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	stor := memorystorage.New()
	starting := storage.Event{Title: "starting", StartTime: base.Add(30 * time.Second), EndTime: base.Add(time.Hour)}
	ending := storage.Event{Title: "ending", StartTime: base.Add(-time.Hour), EndTime: base.Add(10 * time.Second)}
	quiet := storage.Event{Title: "quiet", StartTime: base.AddDate(0, 0, 1), EndTime: base.AddDate(0, 0, 2)}
	for _, e := range []*storage.Event{&starting, &ending, &quiet} {
		require.NoError(t, stor.AddEvent(ctx, e))
	}

	pub := &fakePublisher{}
	s := New(Config{}, stor, pub)
	now := base
	s.now = func() time.Time { return now }

	sent, err := s.Check(ctx)
	require.NoError(t, err)
	require.Zero(t, sent)

	now = base.Add(time.Minute)
	sent, err = s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, sent)

	statuses := map[string]string{}
	for _, m := range pub.messages {
		require.Equal(t, rabbit.KindStatus, m.Kind)
		statuses[m.Title] = m.Status
	}
	require.Equal(t, map[string]string{"starting": "ongoing", "ending": "completed"}, statuses)

	now = base.Add(2 * time.Minute)
	sent, err = s.Check(ctx)
	require.NoError(t, err)
	require.Zero(t, sent)
}

type failingStorage struct {
	*memorystorage.Storage
}

func (failingStorage) ListEvents(context.Context) ([]storage.Event, error) {
	return nil, errors.New("store unavailable")
}

func TestCheckKeepsInstantOnFailure(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New(Config{}, failingStorage{memorystorage.New()}, &fakePublisher{})
	now := base
	s.now = func() time.Time { return now }

	_, err := s.Check(context.Background())
	require.NoError(t, err)

	now = base.Add(time.Minute)
	_, err = s.Check(context.Background())
	require.Error(t, err)
	require.Equal(t, base, s.lastCheck)
}

func TestRunRejectsBadSpec(t *testing.T) {
	s := New(Config{Spec: "every minute"}, memorystorage.New(), &fakePublisher{})
	require.Error(t, s.Run(context.Background()))
}
