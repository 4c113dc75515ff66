package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/yoockh/hirex/internal/models"
)

// Subscription delivers raw JSON event payloads until closed.
type Subscription interface {
	Messages() <-chan string
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, jobID string) (Subscription, error)
}

type Bus interface {
	Publisher
	Subscriber
}

func (p *RedisPublisher) Subscribe(ctx context.Context, jobID string) (Subscription, error) {
	ps := p.rdb.Subscribe(ctx, Channel(jobID))
	// wait for the subscribe confirmation so publishes after this call are not missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	return newRedisSubscription(ps.Channel(), ps.Close), nil
}

type redisSubscription struct {
	in      <-chan *redis.Message
	closeFn func() error
	out     chan string
	done    chan struct{}
	once    sync.Once
	err     error
}

func newRedisSubscription(in <-chan *redis.Message, closeFn func() error) *redisSubscription {
	s := &redisSubscription{
		in:      in,
		closeFn: closeFn,
		out:     make(chan string, 16),
		done:    make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump forwards payloads until the source ends or Close is called, even
// when nobody is reading out anymore.
func (s *redisSubscription) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case m, ok := <-s.in:
			if !ok {
				return
			}
			select {
			case s.out <- m.Payload:
			case <-s.done:
				return
			}
		}
	}
}

func (s *redisSubscription) Messages() <-chan string { return s.out }

func (s *redisSubscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.err = s.closeFn()
	})
	return s.err
}

// MemoryBus is an in-process Publisher and Subscriber for single-instance runs and tests.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[*memSubscription]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[string]map[*memSubscription]struct{}{}}
}

func (b *MemoryBus) Publish(_ context.Context, ev models.ApplicationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs[Channel(ev.JobID)] {
		select {
		case s.out <- string(payload):
		default:
			// slow subscriber, drop
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, jobID string) (Subscription, error) {
	s := &memSubscription{bus: b, channel: Channel(jobID), out: make(chan string, 16)}
	b.mu.Lock()
	if b.subs[s.channel] == nil {
		b.subs[s.channel] = map[*memSubscription]struct{}{}
	}
	b.subs[s.channel][s] = struct{}{}
	b.mu.Unlock()
	return s, nil
}

type memSubscription struct {
	bus     *MemoryBus
	channel string
	out     chan string
	once    sync.Once
}

func (s *memSubscription) Messages() <-chan string { return s.out }

func (s *memSubscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs[s.channel], s)
		s.bus.mu.Unlock()
		close(s.out)
	})
	return nil
}
