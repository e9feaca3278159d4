package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbridge-backend/internal/dialogflow"
)

func dialWS(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) *dialogflow.Response {
	t.Helper()
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, msgType)
	var resp dialogflow.Response
	require.NoError(t, json.Unmarshal(data, &resp))
	return &resp
}

func TestWebSocketChatSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts, "access_token="+token+"&session_id=chat-1")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	first := readResponse(t, conn)
	assert.Equal(t, "hello", first.FulfillmentText)
	assert.Equal(t, []string{"hello"}, first.Messages)
	assert.Equal(t, dialogflow.BranchPromptNext, first.ResultBranch)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("see you later")))
	second := readResponse(t, conn)
	assert.Equal(t, "see you later", second.FulfillmentText)

	// Both turns went out under the session id from the query string.
	sessions := env.sessions.sessions()
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.Equal(t, "projects/test-project/agent/sessions/chat-1", s)
	}
}

func TestWebSocketGeneratedSessionIDIsStable(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts, "access_token="+token)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("one")))
	readResponse(t, conn)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("two")))
	readResponse(t, conn)

	sessions := env.sessions.sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, sessions[0], sessions[1])
	assert.NotEmpty(t, strings.TrimPrefix(sessions[0], "projects/test-project/agent/sessions/"))
}

func TestWebSocketBinaryFramesIgnored(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts, "access_token="+token)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("after binary")))

	// The binary frame produced no reply; the first frame back answers the
	// text frame.
	resp := readResponse(t, conn)
	assert.Equal(t, "after binary", resp.FulfillmentText)
}

func TestWebSocketRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketRejectsPlainGET(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)
	ts := httptest.NewServer(env.srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws?access_token=" + token)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
