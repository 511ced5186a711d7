package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisStreamQueue_PublishAddsEntryWithKey(t *testing.T) {
	client := newTestRedis(t)
	q := NewRedisStreamQueue(client, nil)

	err := q.Publish(context.Background(), "inventory-events", Message{Key: "7", Body: []byte(`{"eventType":"INCREASE_STOCK"}`)})
	require.NoError(t, err)

	entries, err := client.XRange(context.Background(), "inventory-events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "7", entries[0].Values["key"])
	assert.Equal(t, `{"eventType":"INCREASE_STOCK"}`, entries[0].Values["body"])
}

func TestRedisStreamQueue_SubscribeDeliversAndAcks(t *testing.T) {
	client := newTestRedis(t)
	q := NewRedisStreamQueue(client, &RedisStreamConfig{Group: "g", Consumer: "c", BlockTime: 50 * time.Millisecond})
	defer q.Close()

	received := make(chan Message, 1)
	err := q.Subscribe(context.Background(), "inventory-events", func(ctx context.Context, topic string, msg Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Publish(context.Background(), "inventory-events", Message{Key: "9", Body: []byte("payload")}))

	select {
	case msg := <-received:
		assert.Equal(t, "9", msg.Key)
		assert.Equal(t, []byte("payload"), msg.Body)
	case <-time.After(3 * time.Second):
		t.Fatal("message not delivered")
	}

	// Acked messages leave the pending entries list.
	assert.Eventually(t, func() bool {
		pending, err := client.XPending(context.Background(), "inventory-events", "g").Result()
		return err == nil && pending.Count == 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestRedisStreamQueue_FailedMessageStaysPending(t *testing.T) {
	client := newTestRedis(t)
	q := NewRedisStreamQueue(client, &RedisStreamConfig{Group: "g", Consumer: "c", BlockTime: 50 * time.Millisecond})
	defer q.Close()

	handled := make(chan struct{}, 1)
	err := q.Subscribe(context.Background(), "inventory-events", func(ctx context.Context, topic string, msg Message) error {
		handled <- struct{}{}
		return assert.AnError
	})
	require.NoError(t, err)

	require.NoError(t, q.Publish(context.Background(), "inventory-events", Message{Key: "1", Body: []byte("bad")}))

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatal("message not handled")
	}

	pending, err := client.XPending(context.Background(), "inventory-events", "g").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestRedisStreamQueue_CloseStopsEverySubscription(t *testing.T) {
	client := newTestRedis(t)
	q := NewRedisStreamQueue(client, &RedisStreamConfig{Group: "g", Consumer: "c", BlockTime: 50 * time.Millisecond})

	received := make(chan string, 4)
	handler := func(ctx context.Context, topic string, msg Message) error {
		received <- topic
		return nil
	}
	require.NoError(t, q.Subscribe(context.Background(), "inventory-events", handler))
	require.NoError(t, q.Subscribe(context.Background(), "shipping-events", handler))

	// Both loops are live before Close.
	require.NoError(t, q.Publish(context.Background(), "inventory-events", Message{Key: "1", Body: []byte("a")}))
	require.NoError(t, q.Publish(context.Background(), "shipping-events", Message{Key: "2", Body: []byte("b")}))

	topics := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case topic := <-received:
			topics[topic] = true
		case <-time.After(3 * time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.True(t, topics["inventory-events"])
	assert.True(t, topics["shipping-events"])

	require.NoError(t, q.Close())
	time.Sleep(100 * time.Millisecond)

	// After Close no loop reads; published messages stay unconsumed.
	require.NoError(t, q.Publish(context.Background(), "inventory-events", Message{Key: "3", Body: []byte("c")}))
	require.NoError(t, q.Publish(context.Background(), "shipping-events", Message{Key: "4", Body: []byte("d")}))

	select {
	case topic := <-received:
		t.Fatalf("message delivered after Close on %s", topic)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRedisStreamQueue_Health(t *testing.T) {
	client := newTestRedis(t)
	q := NewRedisStreamQueue(client, nil)
	assert.NoError(t, q.Health())
}
