package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/ZombieDefense/pkg/logger"
)

const statsChannel = "stats-events"

type StatsPublisher interface {
	PublishStatsUpdated(ctx context.Context, event StatsEvent)
}

// RedisStatsEvents fans stats changes out to every instance over pub/sub so
// each one can refresh its own websocket clients.
type RedisStatsEvents struct {
	db       *redis.Client
	instance string
}

func NewStatsEvents(db *redis.Client, instance string) *RedisStatsEvents {
	return &RedisStatsEvents{db: db, instance: instance}
}

func (r *RedisStatsEvents) PublishStatsUpdated(ctx context.Context, event StatsEvent) {
	event.Type = StatsUpdated
	event.Instance = r.instance
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Error encoding stats event: %v", err)
		return
	}
	if err := r.db.Publish(ctx, statsChannel, payload).Err(); err != nil {
		logger.Errorf("Error publishing stats event: %v", err)
	}
}

// Subscribe delivers every received event to handle until ctx is done.
func (r *RedisStatsEvents) Subscribe(ctx context.Context, handle func(StatsEvent)) error {
	sub := r.db.Subscribe(ctx, statsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("error subscribing %w", err)
	}

	ch := sub.Channel()
	logger.Infof("Subscribed to %s channel", statsChannel)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event StatsEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Warnf("Error decoding stats event: %v", err)
					continue
				}
				handle(event)
			}
		}
	}()
	return nil
}

// LocalStatsEvents delivers events in-process when redis is not configured.
// Delivery runs on its own goroutine so a slow viewer never holds up the
// session write that produced the event.
type LocalStatsEvents struct {
	mu     sync.RWMutex
	handle func(StatsEvent)
}

func NewLocalStatsEvents() *LocalStatsEvents {
	return &LocalStatsEvents{}
}

func (l *LocalStatsEvents) PublishStatsUpdated(_ context.Context, event StatsEvent) {
	event.Type = StatsUpdated
	l.mu.RLock()
	handle := l.handle
	l.mu.RUnlock()
	if handle != nil {
		go handle(event)
	}
}

func (l *LocalStatsEvents) Subscribe(_ context.Context, handle func(StatsEvent)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handle = handle
	return nil
}
