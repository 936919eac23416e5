package compiler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatolab/streamlib/frame"
	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/link"
	"github.com/tatolab/streamlib/processor"
)

type bindRecorder struct {
	writer   link.Writer[frame.DataFrame]
	reader   link.Reader[frame.DataFrame]
	writerID string
	readerID string
}

func (p *bindRecorder) Setup(context.Context) error    { return nil }
func (p *bindRecorder) Teardown(context.Context) error { return nil }
func (p *bindRecorder) Start(context.Context) error    { return nil }
func (p *bindRecorder) Stop(context.Context) error  { return nil }
func (p *bindRecorder) BindWriter(portName, linkID string, writer any) {
	p.writer, _ = writer.(link.Writer[frame.DataFrame])
	p.writerID = linkID
}
func (p *bindRecorder) UnbindWriter(string, string) {}
func (p *bindRecorder) BindReader(portName, linkID string, reader any) {
	p.reader, _ = reader.(link.Reader[frame.DataFrame])
	p.readerID = linkID
}
func (p *bindRecorder) UnbindReader(string, string) {}

// TestUnconnectedPortsGetPlugBindings verifies the unbound-port path:
// a processor declaring ports that are never connected still receives
// a non-nil plug writer/reader at Create time, rather than nil.
func TestUnconnectedPortsGetPlugBindings(t *testing.T) {
	reg := processor.NewRegistry()
	rec := &bindRecorder{}
	require.NoError(t, reg.Register(&processor.Descriptor{
		Name:    "bind_recorder",
		Inputs:  []graph.Port{{Name: "in", Direction: graph.DirectionInput, Schema: "com.streamlib.dataframe"}},
		Outputs: []graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.dataframe"}},
		New: func(json.RawMessage) (any, error) {
			return rec, nil
		},
	}))
	c := New(reg)

	_, err := c.AddProcessor(ProcessorSpec{TypeName: "bind_recorder"},
		[]graph.Port{{Name: "in", Direction: graph.DirectionInput, Schema: "com.streamlib.dataframe"}},
		[]graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.dataframe"}})
	require.NoError(t, err)
	require.NoError(t, c.Compile(context.Background()))

	require.NotNil(t, rec.writer)
	require.NotNil(t, rec.reader)
	assert.Empty(t, rec.writerID)
	assert.Empty(t, rec.readerID)

	assert.NotPanics(t, func() { rec.writer.Push(frame.DataFrame{}) })
	assert.Equal(t, uint64(0), rec.writer.DropCount())
	_, ok := rec.reader.Read()
	assert.False(t, ok)
}
