package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPattern = "tracking:*:broadcast"

// Hub fans payloads out to websocket clients grouped by topic. With redis
// configured, every broadcast goes through redis pub/sub so that clients on
// all instances receive it exactly once.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	done    chan struct{}
}

type Client struct {
	Topic string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe failed, broadcasting locally only: %v", err)
			_ = pubsub.Close()
		} else {
			h.redis = redisClient
			h.pubsub = pubsub
			go h.forwardRedis()
		}
	}
	if h.pubsub == nil {
		close(h.done)
	}
	return h
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicClients, ok := h.clients[client.Topic]; ok {
		if _, registered := topicClients[client]; !registered {
			return
		}
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.clients, client.Topic)
		}
		close(client.Send)
	}
}

func (h *Hub) Broadcast(topic string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(topic), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(topic, payload)
}

// Close stops the redis subscription, if any.
func (h *Hub) Close() {
	if h.pubsub != nil {
		_ = h.pubsub.Close()
		<-h.done
	}
}

func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forwardRedis() {
	defer close(h.done)
	for msg := range h.pubsub.Channel() {
		h.deliver(topicFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(topic string) string {
	return "tracking:" + topic + ":broadcast"
}

func topicFromChannel(ch string) string {
	// tracking:{topic}:broadcast
	const prefix = "tracking:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
