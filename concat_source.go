package source

import (
	"strings"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// ConcatSource concatenates several sources end to end, maintaining a
// per-child line/column offset and de-duplicating source/name indices
// across children (spec.md §4.8).
type ConcatSource struct {
	children []Source
}

func NewConcatSource(children ...Source) *ConcatSource {
	return &ConcatSource{children: append([]Source(nil), children...)}
}

func (c *ConcatSource) Add(child Source) {
	c.children = append(c.children, child)
}

func (c *ConcatSource) Source() string {
	var b strings.Builder
	for _, ch := range c.children {
		b.WriteString(ch.Source())
	}
	return b.String()
}

func (c *ConcatSource) Buffer() []byte {
	var out []byte
	for _, ch := range c.children {
		out = append(out, ch.Buffer()...)
	}
	return out
}

func (c *ConcatSource) Size() int {
	n := 0
	for _, ch := range c.children {
		n += ch.Size()
	}
	return n
}

func (c *ConcatSource) Map(opts sm.MapOptions) *sm.SourceMap {
	return GetMap(c, opts)
}

func (c *ConcatSource) StreamChunks(opts sm.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	if len(c.children) == 1 {
		return c.children[0].StreamChunks(opts, onChunk, onSource, onName)
	}

	var currentLineOffset, currentColumnOffset int32
	sourceMapping := map[string]int32{}
	nameMapping := map[string]int32{}
	needToCloseMapping := false

	for _, child := range c.children {
		sourceIndexMapping := map[int32]int32{}
		nameIndexMapping := map[int32]int32{}
		var lastMappingLine int32

		childOnSource := func(index int32, name string, content *string) {
			global, ok := sourceMapping[name]
			if !ok {
				global = int32(len(sourceMapping))
				sourceMapping[name] = global
				onSource(global, name, content)
			}
			sourceIndexMapping[index] = global
		}
		childOnName := func(index int32, name string) {
			global, ok := nameMapping[name]
			if !ok {
				global = int32(len(nameMapping))
				nameMapping[name] = global
				onName(global, name)
			}
			nameIndexMapping[index] = global
		}

		childOnChunk := func(chunk *string, m sm.Mapping) {
			line := m.GeneratedLine + currentLineOffset
			column := m.GeneratedColumn
			if m.GeneratedLine == 0 {
				column += currentColumnOffset
			}

			if needToCloseMapping {
				if m.GeneratedLine != 0 || m.GeneratedColumn != 0 {
					onChunk(nil, sm.Mapping{
						GeneratedLine:   currentLineOffset,
						GeneratedColumn: currentColumnOffset,
					})
				}
				needToCloseMapping = false
			}

			var resultSourceIndex *int32
			var resultNameIndex *int32
			if m.Original != nil {
				if g, ok := sourceIndexMapping[m.Original.SourceIndex]; ok {
					resultSourceIndex = &g
				}
				if m.Original.HasName {
					if g, ok := nameIndexMapping[m.Original.NameIndex]; ok {
						resultNameIndex = &g
					}
				}
			}

			if resultSourceIndex == nil {
				lastMappingLine = 0
			} else {
				lastMappingLine = m.GeneratedLine
			}

			if resultSourceIndex != nil && m.Original != nil {
				orig := sm.OriginalLocation{
					SourceIndex:    *resultSourceIndex,
					OriginalLine:   m.Original.OriginalLine,
					OriginalColumn: m.Original.OriginalColumn,
				}
				if resultNameIndex != nil {
					orig.HasName = true
					orig.NameIndex = *resultNameIndex
				}
				onChunk(chunk, sm.Mapping{GeneratedLine: line, GeneratedColumn: column, Original: &orig})
			} else if !opts.FinalSource {
				onChunk(chunk, sm.Mapping{GeneratedLine: line, GeneratedColumn: column})
			}
		}

		info := child.StreamChunks(opts, childOnChunk, childOnSource, childOnName)

		if needToCloseMapping {
			if info.GeneratedLine != 0 || info.GeneratedColumn != 0 {
				onChunk(nil, sm.Mapping{
					GeneratedLine:   currentLineOffset,
					GeneratedColumn: currentColumnOffset,
				})
				needToCloseMapping = false
			}
		}

		if info.GeneratedLine != 0 {
			currentColumnOffset = info.GeneratedColumn
		} else {
			currentColumnOffset += info.GeneratedColumn
		}

		needToCloseMapping = needToCloseMapping || (opts.FinalSource && lastMappingLine == info.GeneratedLine)

		currentLineOffset += info.GeneratedLine
	}

	return GeneratedInfo{GeneratedLine: currentLineOffset, GeneratedColumn: currentColumnOffset}
}
