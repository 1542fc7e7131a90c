package source

import (
	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// SourceMapSource pairs generated text with a source map describing it, and
// optionally a second, inner source map describing the generated text's own
// named original source in turn (spec.md §4.9) — the shape a minifier or
// bundler output takes when it re-maps text that was already the product
// of an earlier compilation step.
type SourceMapSource struct {
	value                string
	name                 string
	sourceMap            *sm.SourceMap
	originalSource       *string
	innerSourceMap       *sm.SourceMap
	removeOriginalSource bool
}

// SourceMapSourceOptions is the full constructor form, mirroring the
// teacher lineage's SourceMapSourceOptions/WithoutOriginalOptions split.
type SourceMapSourceOptions struct {
	Value                string
	Name                 string
	SourceMap            *sm.SourceMap
	OriginalSource       *string
	InnerSourceMap       *sm.SourceMap
	RemoveOriginalSource bool
}

func NewSourceMapSource(opts SourceMapSourceOptions) *SourceMapSource {
	return &SourceMapSource{
		value:                opts.Value,
		name:                 opts.Name,
		sourceMap:            opts.SourceMap,
		originalSource:       opts.OriginalSource,
		innerSourceMap:       opts.InnerSourceMap,
		removeOriginalSource: opts.RemoveOriginalSource,
	}
}

// NewSourceMapSourceWithoutOriginal builds a SourceMapSource that has no
// inner source map: its own source map is the whole story.
func NewSourceMapSourceWithoutOriginal(value, name string, sourceMap *sm.SourceMap) *SourceMapSource {
	return &SourceMapSource{value: value, name: name, sourceMap: sourceMap}
}

func (s *SourceMapSource) Source() string { return s.value }
func (s *SourceMapSource) Buffer() []byte { return []byte(s.value) }
func (s *SourceMapSource) Size() int      { return len(s.value) }

func (s *SourceMapSource) Map(opts sm.MapOptions) *sm.SourceMap {
	return GetMap(s, opts)
}

func (s *SourceMapSource) StreamChunks(opts sm.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	if s.innerSourceMap == nil {
		return streamChunksOfSourceMap(s.value, s.sourceMap, onChunk, onSource, onName, opts)
	}
	return streamChunksOfCombinedSourceMap(
		s.value, s.sourceMap,
		s.name, s.originalSource, s.innerSourceMap, s.removeOriginalSource,
		onChunk, onSource, onName, opts,
	)
}
