package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"
)

// RedisNotifier публикует события в канал Redis
type RedisNotifier struct {
	client  rueidis.Client
	channel string
}

func NewRedisClient(addr string) (rueidis.Client, error) {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("создание клиента redis: %w", err)
	}
	return redisClient, nil
}

func NewRedisNotifier(client rueidis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, event Event) error {
	_, err := n.publish(ctx, event)
	return err
}

// Probe публикует сообщение и возвращает число подписчиков, получивших его
func (n *RedisNotifier) Probe(ctx context.Context, payload any) (json.RawMessage, error) {
	receivers, err := n.publish(ctx, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"channel":   n.channel,
		"receivers": receivers,
	})
}

func (n *RedisNotifier) publish(ctx context.Context, payload any) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("сериализация события: %w", err)
	}

	cmd := n.client.B().Publish().Channel(n.channel).Message(string(body)).Build()
	receivers, err := n.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("публикация в %s: %w", n.channel, err)
	}
	return receivers, nil
}

func (n *RedisNotifier) Available() bool { return true }

func (n *RedisNotifier) Name() string { return "redis" }

func (n *RedisNotifier) Close() {
	n.client.Close()
}
