package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatolab/streamlib/processor"
)

func TestClassifyPriorityMatchesKnownFamilies(t *testing.T) {
	assert.Equal(t, processor.PriorityRealTime, classifyPriority("audio_capture"))
	assert.Equal(t, processor.PriorityHigh, classifyPriority("CameraSource"))
	assert.Equal(t, processor.PriorityHigh, classifyPriority("display_sink"))
	assert.Equal(t, processor.PriorityHigh, classifyPriority("h264_encoder"))
	assert.Equal(t, processor.PriorityNormal, classifyPriority("metrics_exporter"))
}

func TestThreadHintForFallsBackToHeuristicWithoutOverride(t *testing.T) {
	reg := processor.NewRegistry()
	registerTestDescriptors(t, reg)
	c := New(reg)

	srcID, err := c.AddProcessor(ProcessorSpec{TypeName: "test_source"}, nil, nil)
	require.NoError(t, err)
	node, ok := c.Graph().Processor(srcID)
	require.True(t, ok)

	hint := c.Scheduling(node)
	assert.Equal(t, processor.PriorityNormal, hint.Priority)
	assert.Equal(t, "test_source", hint.Name)
}

func TestAddProcessorWithSchedulingOverrideIsReachableViaSpec(t *testing.T) {
	reg := processor.NewRegistry()
	registerTestDescriptors(t, reg)
	c := New(reg)

	override := processor.ThreadHint{Priority: processor.PriorityRealTime, Name: "capture-thread"}
	srcID, err := c.AddProcessor(ProcessorSpec{
		TypeName:           "test_source",
		SchedulingOverride: &override,
	}, nil, nil)
	require.NoError(t, err)

	node, ok := c.Graph().Processor(srcID)
	require.True(t, ok)
	assert.Equal(t, override, c.Scheduling(node))
}

func TestOverrideSchedulingAttachedDirectlyWins(t *testing.T) {
	reg := processor.NewRegistry()
	registerTestDescriptors(t, reg)
	c := New(reg)

	srcID, err := c.AddProcessor(ProcessorSpec{TypeName: "test_source"}, nil, nil)
	require.NoError(t, err)
	node, ok := c.Graph().Processor(srcID)
	require.True(t, ok)

	OverrideScheduling(node, processor.ThreadHint{Priority: processor.PriorityBackground, Name: "idle"})
	hint := c.Scheduling(node)
	assert.Equal(t, processor.PriorityBackground, hint.Priority)
	assert.Equal(t, "idle", hint.Name)
}
