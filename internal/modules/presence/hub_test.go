package presence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotelops/internal/domain"
	"hotelops/internal/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type wsFixture struct {
	hub    *Hub
	tokens *jwt.Service
	server *httptest.Server
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	tokens := jwt.New("ws-secret", time.Hour)

	router := gin.New()
	h := NewHandler(hub, tokens, nil, zerolog.Nop())
	h.RegisterWS(&router.RouterGroup)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &wsFixture{hub: hub, tokens: tokens, server: srv}
}

// connect dials as user and waits for the connection status frame, which is
// sent only after the hub has registered the socket.
func (f *wsFixture) connect(t *testing.T, user string) *websocket.Conn {
	t.Helper()
	token, err := f.tokens.GenerateToken(user, "reception")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/presence?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	status := readFrame(t, conn)
	require.Equal(t, "connection_status", status["type"])
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestHandler_RejectsMissingOrBadToken(t *testing.T) {
	f := newWSFixture(t)

	resp, err := http.Get(f.server.URL + "/ws/presence")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(f.server.URL + "/ws/presence?token=garbage")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_BroadcastSkipsCreator(t *testing.T) {
	f := newWSFixture(t)
	alice := f.connect(t, "alice")
	bob := f.connect(t, "bob")

	online := readFrame(t, alice)
	assert.Equal(t, string(domain.NotifUserOnline), online["type"])

	assert.Equal(t, []string{"alice", "bob"}, f.hub.Online())

	ctx := context.Background()
	require.NoError(t, f.hub.Broadcast(ctx, domain.Notification{
		Type:      domain.NotifRoomBlocked,
		Title:     "Room blocked",
		Data:      map[string]any{"room": "210"},
		CreatedBy: "alice",
	}))
	require.NoError(t, f.hub.Broadcast(ctx, domain.Notification{
		Type:      domain.NotifRoomStatusChanged,
		CreatedBy: domain.SystemSender,
	}))

	got := readFrame(t, bob)
	assert.Equal(t, string(domain.NotifRoomBlocked), got["type"])
	assert.Equal(t, "alice", got["created_by"])

	// Alice never sees her own block; her next frame is the system one.
	got = readFrame(t, alice)
	assert.Equal(t, string(domain.NotifRoomStatusChanged), got["type"])
}

func TestHub_PingPong(t *testing.T) {
	f := newWSFixture(t)
	alice := f.connect(t, "alice")

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "ping"}))
	got := readFrame(t, alice)
	assert.Equal(t, "pong", got["type"])
}

func TestHub_NewConnectionReplacesOld(t *testing.T) {
	f := newWSFixture(t)
	first := f.connect(t, "alice")
	_ = f.connect(t, "alice")

	assert.Equal(t, []string{"alice"}, f.hub.Online())

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)
}

func TestRedisRelay_DeliversAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newWSFixture(t)
	bob := f.connect(t, "bob")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	relay := NewRedisRelay(rdb, f.hub, zerolog.Nop())
	sub, err := relay.Subscribe(ctx)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx, sub) }()

	// A second instance only publishes; it has no sockets of its own.
	other := NewRedisRelay(rdb, NewHub(zerolog.Nop()), zerolog.Nop())
	require.NoError(t, other.Broadcast(ctx, domain.Notification{
		Type:      domain.NotifRoomUnblocked,
		Data:      map[string]any{"room": "315"},
		CreatedBy: "carol",
	}))

	got := readFrame(t, bob)
	assert.Equal(t, string(domain.NotifRoomUnblocked), got["type"])
	data, ok := got["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "315", data["room"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
