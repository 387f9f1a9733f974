package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/ebfdigital/manager_backend/config"
)

// Source yields feed events until its context is cancelled.
type Source interface {
	Events(ctx context.Context) <-chan Event
}

// RedisSource subscribes to every per-table channel with one pattern
// subscription. Dropped connections are resubscribed with backoff; events
// published in between are lost, which the store tolerates (a fresh LoadAll
// after subscribe bounds the staleness).
type RedisSource struct {
	Logger *logrus.Logger
}

func NewRedisSource(logger *logrus.Logger) *RedisSource {
	return &RedisSource{Logger: logger}
}

func (s *RedisSource) Events(ctx context.Context) <-chan Event {
	out := make(chan Event, 64)
	go func() {
		defer close(out)
		backoff := time.Second
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			rdb := config.GetRedisDB()
			if rdb == nil {
				// redis not connected yet (port-first startup)
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
				continue
			}

			sub := rdb.PSubscribe(ctx, ChannelPrefix+"*")
			if _, err := sub.Receive(ctx); err != nil {
				_ = sub.Close()
				if ctx.Err() != nil {
					return
				}
				if s.Logger != nil {
					s.Logger.WithFields(logrus.Fields{"field": "RedisSource"}).
						Error("subscribe failed: " + err.Error())
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff):
				}
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}
			backoff = time.Second

			ch := sub.Channel()
		consume:
			for {
				select {
				case <-ctx.Done():
					_ = sub.Close()
					return
				case msg, ok := <-ch:
					if !ok {
						// connection dropped, resubscribe
						_ = sub.Close()
						break consume
					}
					var event Event
					if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
						if s.Logger != nil {
							s.Logger.WithFields(logrus.Fields{"field": "RedisSource", "channel": msg.Channel}).
								Error("malformed feed payload dropped: " + err.Error())
						}
						continue
					}
					select {
					case out <- event:
					case <-ctx.Done():
						_ = sub.Close()
						return
					}
				}
			}
		}
	}()
	return out
}
