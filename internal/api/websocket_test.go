package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialChatSocket(t *testing.T, h *ChatSocket, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.Dial(ctx, "ws"+srv.URL[len("http"):], &websocket.DialOptions{HTTPHeader: header})
}

func readReply(t *testing.T, ws *websocket.Conn) wsReply {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := ws.Read(ctx)
	require.NoError(t, err)
	var reply wsReply
	require.NoError(t, json.Unmarshal(data, &reply))
	return reply
}

func writeFrame(t *testing.T, ws *websocket.Conn, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, ws.Write(context.Background(), websocket.MessageText, data))
}

func TestChatSocketTurn(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	ws, _, err := dialChatSocket(t, NewChatSocket(s.chat, "*", false), "")
	require.NoError(t, err)
	defer func() { _ = ws.Close(websocket.StatusNormalClosure, "") }()

	writeFrame(t, ws, wsMessage{Type: "ping"})
	assert.Equal(t, "pong", readReply(t, ws).Type)

	writeFrame(t, ws, wsMessage{Type: "message", Content: "Where do I find rest?"})
	reply := readReply(t, ws)
	require.Equal(t, "reply", reply.Type)
	require.NotNil(t, reply.Result)
	assert.True(t, reply.Result.Committed)
	assert.Equal(t, "Cast all your care upon Him.", reply.Result.Reply.Content)

	writeFrame(t, ws, wsMessage{Type: "message", Content: "   "})
	assert.Equal(t, "error", readReply(t, ws).Type)

	writeFrame(t, ws, wsMessage{Type: "dance"})
	assert.Equal(t, "error", readReply(t, ws).Type)

	require.NoError(t, ws.Write(context.Background(), websocket.MessageText, []byte("not json")))
	assert.Equal(t, "invalid message", readReply(t, ws).Error)

	cur, ok := s.chat.Sessions().Current()
	require.True(t, ok)
	assert.Len(t, cur.Messages, 2)
}

func TestChatSocketRejectsForeignOrigin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	_, resp, err := dialChatSocket(t, NewChatSocket(s.chat, "https://bible.example.com", false), "https://evil.example.com")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
