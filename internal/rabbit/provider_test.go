package rabbit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lomoval/strikeboard/internal/storage"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	keys      []string
	published []amqp.Publishing
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func TestShare(t *testing.T) {
	ch := &fakeChannel{}
	p := New(Config{Host: "127.0.0.1", Port: 5672, User: "user", Password: "pass", Queue: "strikes.notify"})
	p.publisher = ch

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, p.Share(context.Background(), storage.Event{ID: "7", Title: "Paris Rally", Location: "Paris", StartTime: start}))

	require.Equal(t, []string{"strikes.notify"}, ch.keys)
	require.Equal(t, "application/json", ch.published[0].ContentType)

	var m Message
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &m))
	require.Equal(t, KindShare, m.Kind)
	require.Equal(t, "7", m.EventID)
	require.True(t, start.Equal(m.Time))
}

func TestNotConnected(t *testing.T) {
	p := New(Config{})

	require.ErrorIs(t, p.Publish([]byte("{}")), ErrNotConnected)
	require.ErrorIs(t, p.Consume(context.Background(), nil), ErrNotConnected)
	require.NoError(t, p.Close())
}

func TestParseMessage(t *testing.T) {
	e := storage.Event{ID: "3", Title: "Lyon March", Location: "Lyon"}
	data, err := json.Marshal(NewStatusMessage(e, "ongoing"))
	require.NoError(t, err)

	m, err := ParseMessage(data)
	require.NoError(t, err)
	require.Equal(t, KindStatus, m.Kind)
	require.Equal(t, "ongoing", m.Status)

	_, err = ParseMessage([]byte(`{"kind":"reminder"}`))
	require.Error(t, err)
	_, err = ParseMessage([]byte(`{`))
	require.Error(t, err)
}
