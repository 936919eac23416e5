package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/tatolab/streamlib/compiler"
)

func TestServerSnapshotHandler(t *testing.T) {
	c, pid := newTestCompiler(t)
	srv := NewServer(c)

	ts := httptest.NewServer(http.HandlerFunc(srv.ServeHTTP))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	var view GraphView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Len(t, view.Processors, 1)
	assert.Equal(t, pid, view.Processors[0].ID)
}

func TestServerEventsHandlerStreamsGraphChanges(t *testing.T) {
	c, _ := newTestCompiler(t)
	srv := NewServer(c)

	ts := httptest.NewServer(http.HandlerFunc(srv.ServeHTTP))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + ts.URL[len("http"):] + "/events"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "test done")

	_, err = c.AddProcessor(compiler.ProcessorSpec{TypeName: "obs_sink"}, nil, nil)
	require.NoError(t, err)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg EventMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "processor_added", msg.Kind)
}

func TestServerUnknownPathIs404(t *testing.T) {
	c, _ := newTestCompiler(t)
	srv := NewServer(c)
	ts := httptest.NewServer(http.HandlerFunc(srv.ServeHTTP))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
