package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/glowbook/glowbook-api/utils"
	"go.uber.org/zap"
)

// ChangeEvent describes a mutation to booking-related state. Handlers
// publish one event per successful write so other sessions (or tabs) can
// refresh their view of the same provider's data.
type ChangeEvent struct {
	Resource   string `json:"resource"` // "bookings", "availability", "services"
	Action     string `json:"action"`   // "created", "updated", "deleted"
	ProviderID uint   `json:"provider_id"`
}

// ChangeHub decouples change notification from any specific transport.
// Subscribers receive every event published after they subscribe; the
// returned function cancels the subscription.
type ChangeHub interface {
	Publish(event ChangeEvent)
	Subscribe(fn func(ChangeEvent)) (unsubscribe func())
}

var changeHubInstance ChangeHub

// InitChangeHub selects the hub implementation: Redis-backed pub/sub when
// an address is configured, otherwise an in-process hub.
func InitChangeHub(redisAddr string) ChangeHub {
	if redisAddr != "" {
		changeHubInstance = NewRedisChangeHub(redisAddr)
	} else {
		changeHubInstance = NewMemoryChangeHub()
	}
	return changeHubInstance
}

// GetChangeHub returns the initialized change hub instance
func GetChangeHub() ChangeHub {
	if changeHubInstance == nil {
		changeHubInstance = NewMemoryChangeHub()
	}
	return changeHubInstance
}

// SetChangeHub sets the change hub instance (primarily for testing)
func SetChangeHub(hub ChangeHub) {
	changeHubInstance = hub
}

// MemoryChangeHub is the in-process ChangeHub used by default and in tests
type MemoryChangeHub struct {
	mu     sync.RWMutex
	subs   map[int]func(ChangeEvent)
	nextID int
}

// NewMemoryChangeHub creates an in-process change hub
func NewMemoryChangeHub() *MemoryChangeHub {
	return &MemoryChangeHub{
		subs: make(map[int]func(ChangeEvent)),
	}
}

// Publish delivers the event synchronously to every subscriber
func (h *MemoryChangeHub) Publish(event ChangeEvent) {
	h.mu.RLock()
	fns := make([]func(ChangeEvent), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}

// Subscribe registers a callback and returns its cancel function
func (h *MemoryChangeHub) Subscribe(fn func(ChangeEvent)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

const redisChangeChannel = "glowbook:changes"

// RedisChangeHub is a ChangeHub backed by Redis pub/sub, so changes fan
// out across server instances
type RedisChangeHub struct {
	client *redis.Client
}

// NewRedisChangeHub creates a Redis-backed change hub
func NewRedisChangeHub(addr string) *RedisChangeHub {
	return &RedisChangeHub{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Publish broadcasts the event on the shared Redis channel
func (h *RedisChangeHub) Publish(event ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		utils.GetLogger().Warn("failed to marshal change event", zap.Error(err))
		return
	}

	if err := h.client.Publish(context.Background(), redisChangeChannel, payload).Err(); err != nil {
		utils.GetLogger().Warn("failed to publish change event", zap.Error(err))
	}
}

// Subscribe consumes the shared channel until the cancel function is called
func (h *RedisChangeHub) Subscribe(fn func(ChangeEvent)) func() {
	pubsub := h.client.Subscribe(context.Background(), redisChangeChannel)

	go func() {
		for msg := range pubsub.Channel() {
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				utils.GetLogger().Warn("failed to decode change event", zap.Error(err))
				continue
			}
			fn(event)
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			utils.GetLogger().Warn("failed to close change subscription", zap.Error(err))
		}
	}
}
