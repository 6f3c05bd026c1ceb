package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// fullInfoKey is the well-known shared key. Every view reads and
	// writes the same fact.
	fullInfoKey = "agenda:full:info"

	// changeChannel carries change ticks to subscribed views.
	changeChannel = "agenda:full:changed"
)

// RedisStore persists the shared fact in redis so the signal survives
// across processes. The key expires at the end of the local day: a new
// day always starts clean.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a redis-backed signal store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Get retrieves the current fact, or nil when none is set.
func (s *RedisStore) Get(ctx context.Context) (*FullInfo, error) {
	data, err := s.client.Get(ctx, fullInfoKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("agenda: get signal: %w", err)
	}

	var info FullInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("agenda: unmarshal signal: %w", err)
	}
	return &info, nil
}

// Set records the fact and notifies observers.
func (s *RedisStore) Set(ctx context.Context, info FullInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("agenda: marshal signal: %w", err)
	}
	if err := s.client.Set(ctx, fullInfoKey, data, s.untilMidnight()).Err(); err != nil {
		return fmt.Errorf("agenda: set signal: %w", err)
	}
	return s.notify(ctx)
}

// Clear removes the fact and notifies observers.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, fullInfoKey).Err(); err != nil {
		return fmt.Errorf("agenda: clear signal: %w", err)
	}
	return s.notify(ctx)
}

// Subscribe delivers a tick per change until stop is called.
func (s *RedisStore) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	sub := s.client.Subscribe(ctx, changeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("agenda: subscribe: %w", err)
	}

	ticks := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(ticks)
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case ticks <- struct{}{}:
				default: // observer re-reads anyway, collapse bursts
				}
			}
		}
	}()

	stop := func() {
		close(done)
		_ = sub.Close()
	}
	return ticks, stop, nil
}

func (s *RedisStore) notify(ctx context.Context) error {
	if err := s.client.Publish(ctx, changeChannel, "changed").Err(); err != nil {
		return fmt.Errorf("agenda: publish change: %w", err)
	}
	return nil
}

func (s *RedisStore) untilMidnight() time.Duration {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
