package notify_test

import (
	"context"
	"encoding/json"
	"fmt"
	"taskManager/internal/notify"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisNotifier(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в short режиме")
	}

	addr := startRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := notify.NewRedisClient(addr)
	require.NoError(t, err)
	n := notify.NewRedisNotifier(client, "task-events")
	defer n.Close()

	subscriber, err := notify.NewRedisClient(addr)
	require.NoError(t, err)
	defer subscriber.Close()

	received := make(chan string, 1)
	go func() {
		_ = subscriber.Receive(ctx, subscriber.B().Subscribe().Channel("task-events").Build(), func(msg rueidis.PubSubMessage) {
			received <- msg.Message
		})
	}()

	// ждём, пока подписка появится на сервере
	var probe struct {
		Channel   string `json:"channel"`
		Receivers int64  `json:"receivers"`
	}
	require.Eventually(t, func() bool {
		counts, err := client.Do(ctx, client.B().PubsubNumsub().Channel("task-events").Build()).ToArray()
		if err != nil || len(counts) != 2 {
			return false
		}
		subscribers, err := counts[1].AsInt64()
		return err == nil && subscribers > 0
	}, 10*time.Second, 50*time.Millisecond)

	require.NoError(t, n.Notify(ctx, notify.Event{TaskID: 9, Action: notify.ActionCreated, Title: "Ship it"}))

	select {
	case msg := <-received:
		assert.JSONEq(t, `{"task_id":9,"action":"created","title":"Ship it"}`, msg)
	case <-ctx.Done():
		t.Fatal("сообщение не получено")
	}

	raw, err := n.Probe(ctx, map[string]string{"probe": "diagnostics"})
	require.NoError(t, err)
	<-received

	require.NoError(t, json.Unmarshal(raw, &probe))
	assert.Equal(t, "task-events", probe.Channel)
	assert.Equal(t, int64(1), probe.Receivers)
	assert.True(t, n.Available())
	assert.Equal(t, "redis", n.Name())
}
