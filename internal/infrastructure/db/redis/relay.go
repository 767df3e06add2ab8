package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/actowiz/text-submission-api/internal/core/domain"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

// Relay fans submission events out across service instances. Publish sends the
// event to a Redis channel; Run delivers every message seen on that channel to
// the local publisher, so each instance's listeners receive it exactly once.
type Relay struct {
	client  *redis.Client
	channel string
	local   ports.EventPublisher
	log     zerolog.Logger
}

func NewRelay(client *redis.Client, channel string, local ports.EventPublisher, log zerolog.Logger) *Relay {
	return &Relay{client: client, channel: channel, local: local, log: log}
}

// Publish satisfies ports.EventPublisher.
func (r *Relay) Publish(ctx context.Context, event domain.SubmissionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Run subscribes to the channel and forwards messages until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	r.log.Info().Str("channel", r.channel).Msg("relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(ctx, msg.Payload)
		}
	}
}

func (r *Relay) forward(ctx context.Context, payload string) {
	var event domain.SubmissionEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		r.log.Warn().Err(err).Str("channel", r.channel).Msg("dropping undecodable relay message")
		return
	}
	if err := r.local.Publish(ctx, event); err != nil {
		r.log.Warn().Err(err).Msg("local fan-out failed")
	}
}
