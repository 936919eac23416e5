package compiler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatolab/streamlib/frame"
	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/link"
	"github.com/tatolab/streamlib/processor"
	"github.com/tatolab/streamlib/streamerr"
)

type testSource struct {
	mu     sync.Mutex
	writer link.Writer[frame.DataFrame]
	n      int
}

func (p *testSource) Setup(context.Context) error    { return nil }
func (p *testSource) Teardown(context.Context) error { return nil }
func (p *testSource) ExecutionConfig() processor.ExecutionConfig {
	return processor.Continuous(1)
}
func (p *testSource) Process(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer != nil {
		p.n++
		p.writer.Push(frame.DataFrame{TimestampNs: int64(p.n)})
	}
	return nil
}
func (p *testSource) BindWriter(portName, linkID string, writer any) {
	if portName != "out" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer, _ = writer.(link.Writer[frame.DataFrame])
}
func (p *testSource) UnbindWriter(portName, linkID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = nil
}
func (p *testSource) BindReader(string, string, any) {}
func (p *testSource) UnbindReader(string, string)    {}

type testSink struct {
	mu       sync.Mutex
	reader   link.Reader[frame.DataFrame]
	received chan frame.DataFrame
}

func newTestSink() *testSink {
	return &testSink{received: make(chan frame.DataFrame, 16)}
}

func (p *testSink) Setup(context.Context) error    { return nil }
func (p *testSink) Teardown(context.Context) error { return nil }
func (p *testSink) ExecutionConfig() processor.ExecutionConfig {
	return processor.Reactive()
}
func (p *testSink) Process(context.Context) error {
	p.mu.Lock()
	r := p.reader
	p.mu.Unlock()
	if r == nil {
		return nil
	}
	for {
		v, ok := r.Read()
		if !ok {
			return nil
		}
		p.received <- v
	}
}
func (p *testSink) BindWriter(string, string, any) {}
func (p *testSink) UnbindWriter(string, string)    {}
func (p *testSink) BindReader(portName, linkID string, reader any) {
	if portName != "in" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reader, _ = reader.(link.Reader[frame.DataFrame])
}
func (p *testSink) UnbindReader(portName, linkID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reader = nil
}

func registerTestDescriptors(t *testing.T, reg *processor.Registry) *testSink {
	t.Helper()
	sink := newTestSink()

	require.NoError(t, reg.Register(&processor.Descriptor{
		Name:    "test_source",
		Outputs: []graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.dataframe"}},
		New: func(json.RawMessage) (any, error) {
			return &testSource{}, nil
		},
	}))
	require.NoError(t, reg.Register(&processor.Descriptor{
		Name:   "test_sink",
		Inputs: []graph.Port{{Name: "in", Direction: graph.DirectionInput, Schema: "com.streamlib.dataframe"}},
		New: func(json.RawMessage) (any, error) {
			return sink, nil
		},
	}))
	return sink
}

func TestCompilerEndToEndDataFlows(t *testing.T) {
	reg := processor.NewRegistry()
	sink := registerTestDescriptors(t, reg)
	c := New(reg)

	srcID, err := c.AddProcessor(ProcessorSpec{TypeName: "test_source"}, nil,
		[]graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.dataframe"}})
	require.NoError(t, err)
	dstID, err := c.AddProcessor(ProcessorSpec{TypeName: "test_sink"},
		[]graph.Port{{Name: "in", Direction: graph.DirectionInput, Schema: "com.streamlib.dataframe"}}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Compile(ctx))

	srcNode, _ := c.Graph().Processor(srcID)
	dstNode, _ := c.Graph().Processor(dstID)
	assert.Equal(t, graph.ProcessorRunning, srcNode.State)
	assert.Equal(t, graph.ProcessorRunning, dstNode.State)

	_, err = c.Connect(
		graph.PortRef{ProcessorID: srcID, PortName: "out"},
		graph.PortRef{ProcessorID: dstID, PortName: "in"}, 4)
	require.NoError(t, err)
	require.NoError(t, c.Compile(ctx))

	srcNode, _ = c.Graph().Processor(srcID)
	dstNode, _ = c.Graph().Processor(dstID)
	assert.Equal(t, graph.ProcessorRunning, srcNode.State)
	assert.Equal(t, graph.ProcessorRunning, dstNode.State)

	select {
	case <-sink.received:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the sink to observe at least one frame")
	}

	require.NoError(t, c.RemoveProcessor(dstID))
	require.NoError(t, c.Compile(ctx))

	_, ok := c.Graph().Processor(dstID)
	assert.False(t, ok)

	require.NoError(t, c.Shutdown(ctx))
}

func TestAddProcessorRejectsUnknownType(t *testing.T) {
	c := New(processor.NewRegistry())
	_, err := c.AddProcessor(ProcessorSpec{TypeName: "does_not_exist"}, nil, nil)
	require.Error(t, err)
	kind, ok := streamerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, streamerr.Configuration, kind)
}

func TestRemoveProcessorUnknown(t *testing.T) {
	c := New(processor.NewRegistry())
	err := c.RemoveProcessor("P_nope")
	require.Error(t, err)
}

func TestPauseResumeRoundTrip(t *testing.T) {
	reg := processor.NewRegistry()
	registerTestDescriptors(t, reg)
	c := New(reg)

	srcID, err := c.AddProcessor(ProcessorSpec{TypeName: "test_source"}, nil,
		[]graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.dataframe"}})
	require.NoError(t, err)
	require.NoError(t, c.Compile(context.Background()))

	require.NoError(t, c.Pause(context.Background()))
	node, _ := c.Graph().Processor(srcID)
	assert.Equal(t, graph.ProcessorPaused, node.State)

	require.NoError(t, c.Resume(context.Background()))
	node, _ = c.Graph().Processor(srcID)
	assert.Equal(t, graph.ProcessorRunning, node.State)

	require.NoError(t, c.Shutdown(context.Background()))
}

func TestClassifyPrioritySubstringHeuristic(t *testing.T) {
	assert.Equal(t, processor.PriorityRealTime, classifyPriority("audio_input"))
	assert.Equal(t, processor.PriorityHigh, classifyPriority("camera_source"))
	assert.Equal(t, processor.PriorityHigh, classifyPriority("h264_encoder"))
	assert.Equal(t, processor.PriorityNormal, classifyPriority("metadata_tagger"))
}

func TestPendingQueueBasics(t *testing.T) {
	q := NewPendingQueue()
	assert.True(t, q.IsEmpty())
	q.Push(PendingOperation{Kind: OpAddProcessor, ProcessorID: "P1"})
	q.Push(PendingOperation{Kind: OpAddProcessor, ProcessorID: "P2"})
	assert.Equal(t, 2, q.Len())

	ops := q.TakeAll()
	assert.Len(t, ops, 2)
	assert.True(t, q.IsEmpty())
}

func TestPendingQueueRemoveProcessorOperations(t *testing.T) {
	q := NewPendingQueue()
	q.Push(PendingOperation{Kind: OpAddProcessor, ProcessorID: "P1"})
	q.Push(PendingOperation{Kind: OpAddProcessor, ProcessorID: "P2"})
	q.Push(PendingOperation{Kind: OpUpdateProcessorConfig, ProcessorID: "P1"})

	q.RemoveProcessorOperations("P1")
	ops := q.TakeAll()
	require.Len(t, ops, 1)
	assert.Equal(t, "P2", ops[0].ProcessorID)
}

func TestComputeDeltaPartitionsOperations(t *testing.T) {
	d := computeDelta([]PendingOperation{
		{Kind: OpAddProcessor, ProcessorID: "P1"},
		{Kind: OpRemoveProcessor, ProcessorID: "P2"},
		{Kind: OpAddLink, LinkID: "L1"},
		{Kind: OpRemoveLink, LinkID: "L2"},
		{Kind: OpUpdateProcessorConfig, ProcessorID: "P1", NewConfig: []byte(`{"a":1}`)},
	})
	assert.Equal(t, []string{"P1"}, d.ProcessorsToAdd)
	assert.Equal(t, []string{"P2"}, d.ProcessorsToRemove)
	assert.Equal(t, []string{"L1"}, d.LinksToAdd)
	assert.Equal(t, []string{"L2"}, d.LinksToRemove)
	assert.Equal(t, json.RawMessage(`{"a":1}`), d.ConfigsToUpdate["P1"])
}

func TestReadyBarrierHandshake(t *testing.T) {
	b := NewReadyBarrier()
	done := make(chan struct{})
	go func() {
		b.SignalReady()
		b.WaitContinue()
		close(done)
	}()

	b.WaitReady()
	select {
	case <-done:
		t.Fatal("processor side should still be waiting for continue")
	case <-time.After(20 * time.Millisecond):
	}

	b.SignalContinue()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected processor side to unblock after SignalContinue")
	}
}
