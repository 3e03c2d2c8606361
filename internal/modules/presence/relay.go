package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hotelops/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const RelayChannel = "hotelops:presence"

// RedisRelay fans notifications out across API instances. Broadcast publishes
// to a redis channel; Run delivers everything published there, including this
// instance's own messages, to the local hub.
type RedisRelay struct {
	rdb     *redis.Client
	hub     *Hub
	channel string
	log     zerolog.Logger
}

func NewRedisRelay(rdb *redis.Client, hub *Hub, log zerolog.Logger) *RedisRelay {
	return &RedisRelay{
		rdb:     rdb,
		hub:     hub,
		channel: RelayChannel,
		log:     log,
	}
}

func (r *RedisRelay) Broadcast(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := r.rdb.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Subscribe opens the subscription and waits for redis to confirm it, so no
// message published after it returns is missed.
func (r *RedisRelay) Subscribe(ctx context.Context) (*redis.PubSub, error) {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	return sub, nil
}

// Run delivers messages from sub to the hub until ctx is done or the
// subscription closes.
func (r *RedisRelay) Run(ctx context.Context, sub *redis.PubSub) error {
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var n domain.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				r.log.Warn().Err(err).Msg("dropping malformed relay message")
				continue
			}
			if err := r.hub.Deliver(n); err != nil {
				r.log.Warn().Err(err).Msg("relay delivery failed")
			}
		}
	}
}
