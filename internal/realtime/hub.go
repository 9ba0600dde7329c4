package realtime

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/charlesng35/nebula/pkg/logger"
	"github.com/charlesng35/nebula/pkg/metrics"
)

// Message is the JSON frame delivered to subscribers.
type Message struct {
	Stream string         `json:"stream"`
	Event  string         `json:"event"`
	Data   any            `json:"data,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Hub fans out stream messages to subscribed websocket clients.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*connection]struct{}

	upgrader websocket.Upgrader
	allow    func(stream string) bool
	origins  map[string]struct{}
	log      *zap.Logger
}

// HubOption customises a Hub.
type HubOption func(*Hub)

// WithStreamFilter restricts the streams clients may subscribe to.
func WithStreamFilter(allow func(stream string) bool) HubOption {
	return func(h *Hub) {
		h.allow = allow
	}
}

// WithAllowedOrigins admits cross-origin websocket handshakes from the listed
// origins, e.g. "https://admin.example.com". "*" admits every origin.
// Same-host and loopback origins are always accepted.
func WithAllowedOrigins(origins ...string) HubOption {
	return func(h *Hub) {
		for _, origin := range origins {
			if origin = strings.ToLower(strings.TrimSpace(origin)); origin != "" {
				h.origins[strings.TrimSuffix(origin, "/")] = struct{}{}
			}
		}
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscriptions: make(map[string]map[*connection]struct{}),
		origins:       make(map[string]struct{}),
		log:           logger.WithModule("realtime"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Allowed reports whether clients may subscribe to stream.
func (h *Hub) Allowed(stream string) bool {
	stream = normalizeStream(stream)
	if stream == "" {
		return false
	}
	return h.allow == nil || h.allow(stream)
}

// Serve upgrades the request to a websocket, subscribes it to streams and
// blocks until the client goes away.
func (h *Hub) Serve(streams []string, w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	client := newConnection(h, socket)
	metrics.RealtimeConnections.Inc()
	defer metrics.RealtimeConnections.Dec()

	client.reply(subscriptionAck(EventSubscribed, h.subscribe(client, streams)))

	go client.writeLoop()
	client.readLoop()
}

// BroadcastStream delivers message to every client subscribed to stream.
// Clients whose buffer is full are disconnected.
func (h *Hub) BroadcastStream(stream string, message Message) {
	stream = normalizeStream(stream)
	if stream == "" {
		return
	}
	message.Stream = stream

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subscriptions[stream] {
		client.reply(message)
	}
}

// Subscribers returns the number of clients listening on stream.
func (h *Hub) Subscribers(stream string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[normalizeStream(stream)])
}

// subscribe adds the allowed streams and returns every stream the client now
// listens to out of those requested.
func (h *Hub) subscribe(client *connection, streams []string) []string {
	accepted := []string{}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, stream := range uniqueStreams(streams) {
		if !h.Allowed(stream) {
			h.log.Debug("ignoring unknown stream", zap.String("stream", stream), zap.String("client", client.id))
			continue
		}
		accepted = append(accepted, stream)
		if _, exists := client.streams[stream]; exists {
			continue
		}
		if h.subscriptions[stream] == nil {
			h.subscriptions[stream] = make(map[*connection]struct{})
		}
		h.subscriptions[stream][client] = struct{}{}
		client.streams[stream] = struct{}{}
	}
	return accepted
}

// unsubscribe drops the listed streams and returns those that were active.
func (h *Hub) unsubscribe(client *connection, streams []string) []string {
	removed := []string{}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, stream := range uniqueStreams(streams) {
		if _, active := client.streams[stream]; active {
			h.removeLocked(client, stream)
			removed = append(removed, stream)
		}
	}
	return removed
}

func (h *Hub) unregister(client *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for stream := range client.streams {
		h.removeLocked(client, stream)
	}
}

func (h *Hub) removeLocked(client *connection, stream string) {
	if clients, ok := h.subscriptions[stream]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscriptions, stream)
		}
	}
	delete(client.streams, stream)
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := strings.ToLower(strings.TrimSpace(r.Header.Get("Origin")))
	if origin == "" {
		return true
	}
	if _, ok := h.origins["*"]; ok {
		return true
	}
	if _, ok := h.origins[origin]; ok {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()
	return strings.EqualFold(host, hostname(r.Host)) || isLoopback(host)
}

func hostname(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}

func isLoopback(host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return strings.EqualFold(host, "localhost")
}

func normalizeStream(stream string) string {
	return strings.ToLower(strings.TrimSpace(stream))
}

// ParseStreams splits comma separated stream lists and returns the distinct
// normalised names in first-seen order.
func ParseStreams(values ...string) []string {
	var streams []string
	for _, value := range values {
		streams = append(streams, strings.Split(value, ",")...)
	}
	return uniqueStreams(streams)
}

func uniqueStreams(streams []string) []string {
	seen := make(map[string]struct{}, len(streams))
	result := make([]string, 0, len(streams))
	for _, stream := range streams {
		stream = normalizeStream(stream)
		if _, dup := seen[stream]; dup || stream == "" {
			continue
		}
		seen[stream] = struct{}{}
		result = append(result, stream)
	}
	return result
}

func subscriptionAck(event string, streams []string) Message {
	return Message{Event: event, Meta: map[string]any{"streams": streams}}
}
