// Package source implements the streaming chunk/mapping pipeline: the
// StreamChunks protocol and the source values (RawSource, OriginalSource,
// SourceMapSource, ReplaceSource, ConcatSource) that compose through it into
// a single combined Source Map v3 document.
//
// Built on top of internal/sourcemap, the way the teacher (esbuild) layers
// internal/js_printer on top of internal/sourcemap: the low-level package
// owns VLQ/column arithmetic and the wire format, this package owns the
// tree of composable sources.
package source

import (
	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// GeneratedInfo is the "one past the last character" position a
// StreamChunks producer returns once it has emitted every chunk (spec.md
// §4.2). Lines are 0-based, matching internal/sourcemap.Mapping.
type GeneratedInfo struct {
	GeneratedLine   int32
	GeneratedColumn int32
}

// OnChunk is called once per emitted chunk, in monotonic generated order.
// chunk is nil when MapOptions.FinalSource is set and the producer has
// chosen to omit the text; mapping.Original is nil for a purely generated
// (unmapped) chunk.
type OnChunk func(chunk *string, mapping sm.Mapping)

// OnSource announces a source referenced by SourceIndex before any mapping
// using that index is emitted. content is nil when the source's text is
// unknown (e.g. an upstream map had no "sourcesContent" entry).
type OnSource func(index int32, name string, content *string)

// OnName announces a name referenced by NameIndex before any mapping using
// that index is emitted.
type OnName func(index int32, name string)

// Source is the capability every composable value in this package
// implements (spec.md §3/§6).
type Source interface {
	// Source returns the full generated text.
	Source() string

	// Buffer returns the generated text as UTF-8 bytes.
	Buffer() []byte

	// Size returns the UTF-8 byte length of the generated text.
	Size() int

	// Map drives StreamChunks and materializes a SourceMap, or nil if no
	// mapping was ever emitted (spec.md §4.5, §7).
	Map(opts sm.MapOptions) *sm.SourceMap

	// StreamChunks emits this source's generated text and mappings to the
	// given sinks in monotonic generated order and returns the final
	// generated position (spec.md §4.2).
	StreamChunks(opts sm.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo
}
