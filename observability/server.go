package observability

import (
	"context"
	"encoding/json"
	"net/http"

	"nhooyr.io/websocket"

	"github.com/tatolab/streamlib/compiler"
	"github.com/tatolab/streamlib/graph"
	streamliblog "github.com/tatolab/streamlib/log"
)

// EventMessage is the JSON shape pushed to a subscribed websocket
// client on every GraphDidChange event.
type EventMessage struct {
	Kind        string `json:"kind"`
	ProcessorID string `json:"processor_id,omitempty"`
	LinkID      string `json:"link_id,omitempty"`
}

// Server exposes a compiler's graph read-only over HTTP: a JSON
// snapshot endpoint and a websocket stream of graph-change events.
// It never mutates the graph; writes to the underlying compiler are a
// collaborator's job, not this package's.
type Server struct {
	compiler *compiler.Compiler
}

// NewServer wraps compiler for read-only HTTP/websocket exposure.
func NewServer(c *compiler.Compiler) *Server {
	return &Server{compiler: c}
}

// ServeHTTP dispatches GET /snapshot to SnapshotHandler and GET
// /events to EventsHandler; any other path is 404.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/snapshot":
		s.SnapshotHandler(w, r)
	case "/events":
		s.EventsHandler(w, r)
	default:
		http.NotFound(w, r)
	}
}

// SnapshotHandler writes the current GraphView as JSON.
func (s *Server) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Snapshot(s.compiler)); err != nil {
		streamliblog.GetDefaultLogger().Warn("observability: snapshot encode failed: %v", err)
	}
}

// EventsHandler upgrades the request to a websocket and streams every
// subsequent GraphDidChange event as a JSON EventMessage, one per
// frame, until the client disconnects or the request context is
// cancelled.
func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		streamliblog.GetDefaultLogger().Warn("observability: websocket accept failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "server closing")

	changed, unsubscribe := s.compiler.Graph().Events().Subscribe()
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-changed:
			if !ok {
				return
			}
			if err := writeEvent(ctx, conn, e); err != nil {
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, e graph.Event) error {
	data, err := json.Marshal(EventMessage{
		Kind:        string(e.Kind),
		ProcessorID: e.ProcessorID,
		LinkID:      e.LinkID,
	})
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
