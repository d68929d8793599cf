package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minesafe.xyz/mine-monitor-service/pkg/common"
	_ "minesafe.xyz/mine-monitor-service/pkg/testing"
)

func setupTestHub(t *testing.T) (*Hub, *httptest.Server) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ServeWs(hub, w, r)
	}))

	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})

	return hub, srv
}

func dialTestHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	common.SetTestLoggerNop()

	hub, srv := setupTestHub(t)
	conn := dialTestHub(t, srv)

	// give the register a moment to land in the hub loop
	time.Sleep(50 * time.Millisecond)

	hub.Publish(TopicAlertCreated, "sensor-1", map[string]any{"alert_id": "AL-1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	err = json.Unmarshal(payload, &msg)
	require.NoError(t, err)

	assert.Equal(t, TopicAlertCreated, msg.Topic)
	assert.Equal(t, "sensor-1", msg.SensorID)
	assert.Equal(t, "AL-1", msg.Data.(map[string]any)["alert_id"])
	assert.False(t, msg.Ts.IsZero())
}

func TestHubBroadcast_MultipleClients(t *testing.T) {
	common.SetTestLoggerNop()

	hub, srv := setupTestHub(t)
	first := dialTestHub(t, srv)
	second := dialTestHub(t, srv)

	time.Sleep(50 * time.Millisecond)

	hub.Publish(TopicReadingIngested, "sensor-2", map[string]any{"reading_id": float64(7)})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, TopicReadingIngested, msg.Topic)
		assert.Equal(t, "sensor-2", msg.SensorID)
	}
}

func TestHubPublish_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		// publishing with no clients connected must not block or panic
		hub, _ := setupTestHub(t)
		for n := 0; n < 10; n++ {
			hub.Publish(TopicRiskClassified, "sensor-3", map[string]any{"risk_level": "LOW"})
		}
	}

	{
		// unencodable payloads are dropped, not fatal
		hub, _ := setupTestHub(t)
		hub.Publish(TopicRiskClassified, "sensor-3", map[string]any{"bad": make(chan int)})
	}
}

func TestHubClientDisconnect(t *testing.T) {
	common.SetTestLoggerNop()

	hub, srv := setupTestHub(t)
	conn := dialTestHub(t, srv)

	time.Sleep(50 * time.Millisecond)
	conn.Close()
	time.Sleep(50 * time.Millisecond)

	// publishing after the client went away must still work
	hub.Publish(TopicAlertResolved, "sensor-4", map[string]any{"alert_id": "AL-2"})
}
