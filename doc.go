// StreamLib is a real-time multimedia streaming dataflow framework: a
// typed graph of processors connected by single-producer/single-consumer
// links, compiled incrementally as the graph is mutated, and a
// platform-agnostic rendering hardware interface for GPU texture work.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/tatolab/streamlib
//
// Assemble a runtime, register a processor type, and wire a small
// pipeline:
//
//	package main
//
//	import (
//		"context"
//		"encoding/json"
//
//		"github.com/tatolab/streamlib/compiler"
//		"github.com/tatolab/streamlib/graph"
//		"github.com/tatolab/streamlib/processor"
//		"github.com/tatolab/streamlib/runtime"
//	)
//
//	func main() {
//		reg := processor.Global
//		reg.Register(&processor.Descriptor{
//			Name:    "camera_source",
//			Outputs: []graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.videoframe"}},
//			New: func(cfg json.RawMessage) (any, error) {
//				return newCameraSource(cfg)
//			},
//		})
//
//		rt, err := runtime.New(runtime.Config{}, reg)
//		if err != nil {
//			panic(err)
//		}
//		ctx := context.Background()
//		rt.Start(ctx)
//
//		srcID, _ := rt.AddProcessor(ctx, compiler.ProcessorSpec{TypeName: "camera_source"}, nil,
//			[]graph.Port{{Name: "out", Direction: graph.DirectionOutput, Schema: "com.streamlib.videoframe"}})
//		_ = srcID
//
//		runtime.WaitForSignal()
//		rt.Stop(ctx)
//	}
//
// # Package Layout
//
//   - graph: the typed property graph of processors and links, with a
//     fluent traversal DSL and ECS-style component attachment.
//   - link: the SPSC ring-buffer transport between a wired output port
//     and a wired input port, with skip-to-latest and read-next-in-order
//     consumption strategies; a push never blocks the producer.
//   - schema: the process-global registry of payload schemas, loaded
//     with the built-in ones (video frame, audio frame, opaque data
//     frame) and open to more at runtime, each with its consumption
//     strategy.
//   - processor: the Processor/ManualProcessor contracts a processor
//     implementation satisfies, and the process-global descriptor
//     registry collaborators register against.
//   - compiler: the four-phase incremental compiler (Create, Wire,
//     Setup, Start) that turns graph mutations into running processor
//     goroutines, plus pause/resume and reverse-dependency-order
//     teardown.
//   - rhi: the platform-agnostic rendering hardware interface —
//     devices, textures, refcounted pixel buffers, format conversion,
//     and cross-process external handles.
//   - pkginstall: installed-package bookkeeping under STREAMLIB_HOME —
//     a name-level manifest plus a SQLite index of where each
//     processor's extracted files live on disk.
//   - runtime: the top-level object a host program constructs, starts,
//     drives with graph mutations, and stops.
//   - observability: the read-only surface for enumerating processors
//     and links, querying their JSON state, and subscribing to
//     graph-change events, optionally over a local websocket.
//
// # Configuration
//
// The runtime reads the following environment variables, each with a
// sensible default (see runtime.ResolveConfig):
//
//   - STREAMLIB_HOME: directory holding package manifests, the
//     installed-processors index, and per-processor venv/data dirs
//   - STREAMLIB_RUNTIME_ID: this process's identity across restarts
//   - STREAMLIB_RHI_BACKEND: explicit RHI backend selection
//   - STREAMLIB_BROKER_PORT: observability websocket listen port
//
// # License
//
// This project is licensed under the MIT License.
package streamlib // import "github.com/tatolab/streamlib"
