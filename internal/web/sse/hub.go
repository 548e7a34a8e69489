package sse

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/encounterlog/internal/model"
)

// Topic names a stream of events that clients subscribe to
type Topic string

// EncountersTopic carries changes to the encounter list
const EncountersTopic Topic = "encounters"

// EncounterTopic returns the topic carrying updates for one encounter
func EncounterTopic(id model.EncounterID) Topic {
	return Topic("encounter:" + strconv.FormatInt(int64(id), 10))
}

// EncounterViewTopic returns the topic for viewers of an encounter who chose
// to show or hide names. A nil choice follows the server default.
func EncounterViewTopic(id model.EncounterID, hideNames *bool) Topic {
	if hideNames == nil {
		return EncounterTopic(id)
	}
	if *hideNames {
		return EncounterTopic(id) + ":hidden"
	}
	return EncounterTopic(id) + ":shown"
}

// Hub fans out events to the SSE clients of a single topic
type Hub struct {
	topic   Topic
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a topic
func NewHub(topic Topic, logger *slog.Logger) *Hub {
	return &Hub{
		topic:      topic,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("topic", string(topic))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Topic returns the hub's topic
func (h *Hub) Topic() Topic {
	return h.topic
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			total := len(h.clients)
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("sse broadcast partial failure - client buffers full",
					slog.Int("sent", total-dropped),
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub. It is a no-op once the hub is closed.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.Broadcast(formatSSEMessage(eventName, data))
}

// Close shuts down the hub. It is safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits s on LF or CRLF, dropping one trailing line break
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager owns one hub per topic
type HubManager struct {
	hubs   map[Topic]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[Topic]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a topic, creating and starting one if needed
func (m *HubManager) GetOrCreateHub(topic Topic) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[topic]; ok {
		return hub
	}

	hub := NewHub(topic, m.logger)
	m.hubs[topic] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a topic, or nil if nobody has subscribed
func (m *HubManager) GetHub(topic Topic) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[topic]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(topic Topic) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[topic]; ok {
		hub.Close()
		delete(m.hubs, topic)
		m.logger.Info("sse hub removed", slog.String("topic", string(topic)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for topic, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, topic)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removed))
	}
}

// Close shuts down every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for topic, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, topic)
	}
}
