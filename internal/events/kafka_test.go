package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	p, err := NewKafkaPublisher(nil)
	require.Error(t, err)
	assert.Nil(t, p)

	p, err = NewKafkaPublisher([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNewKafkaPublisher_FlushesEachMessage(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"localhost:9092"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	assert.Equal(t, 1, p.writer.BatchSize)
	assert.Equal(t, 10*time.Millisecond, p.writer.BatchTimeout)
	assert.Equal(t, writeTimeout, p.writer.WriteTimeout)
	assert.False(t, p.writer.Async)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), TopicUsers, "1", New(UserRegistered, 1, nil)))
	require.NoError(t, Nop{}.Publish(context.Background(), TopicUsers, "1", New(UserLoggedIn, 1, nil)))

	got := r.Events()
	require.Len(t, got, 1)
	assert.Equal(t, TopicUsers, got[0].Topic)
	assert.Equal(t, []string{UserRegistered}, r.Types())
}
