package broadcast

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"minesafe.xyz/mine-monitor-service/pkg/common"
)

const (
	TopicReadingIngested   = "reading-ingested"
	TopicRiskClassified    = "risk-classified"
	TopicAlertCreated      = "alert-created"
	TopicAlertAcknowledged = "alert-acknowledged"
	TopicAlertResolved     = "alert-resolved"
	TopicAlertEscalated    = "alert-escalated"
)

// Publisher is the fire-and-forget notification surface the core emits to.
// Delivery is best-effort; subscribers re-fetch current state over HTTP after
// a reconnect rather than relying on replay.
type Publisher interface {
	Publish(topic string, sensorID string, data any)
}

// Message is the wire shape pushed to dashboard subscribers.
type Message struct {
	Topic    string    `json:"topic"`
	SensorID string    `json:"sensor_id,omitempty"`
	Data     any       `json:"data"`
	Ts       time.Time `json:"ts"`
}

// Hub maintains the set of connected dashboard clients and fans published
// messages out to all of them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	logger := common.GetLoggerWith(common.LoggerNameBroadcastHub)
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			for client := range h.clients {
				h.dropClient(client)
			}
			logger.Info("Broadcast hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			logger.Info("Dashboard client connected", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
				logger.Info("Dashboard client disconnected", zap.Int("clients", len(h.clients)))
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// slow consumer, drop it rather than stall the hub
					h.dropClient(client)
					logger.Warn("Dropped slow dashboard client", zap.Int("clients", len(h.clients)))
				}
			}
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// Publish queues a message for all connected clients. It never blocks the
// caller: when the hub's buffer is full the message is dropped with a log line.
func (h *Hub) Publish(topic string, sensorID string, data any) {
	logger := common.GetLoggerWith(
		common.LoggerNameBroadcastHub,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryBroadcast),
	)

	payload, err := json.Marshal(Message{
		Topic:    topic,
		SensorID: sensorID,
		Data:     data,
		Ts:       time.Now(),
	})
	if err != nil {
		logger.Warn("Failed to encode broadcast message", zap.String("topic", topic), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Broadcast buffer full, message dropped", zap.String("topic", topic))
	}
}
