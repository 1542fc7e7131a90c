package source

import (
	"sort"
	"strings"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// edit is a single insertion or replacement recorded against a ReplaceSource.
// Start/End are UTF-16 offsets over the inner source's generated text,
// linearized across line boundaries: a newline does not reset the count
// (spec.md §4.6).
type edit struct {
	start, end int
	content    string
	name       string
	hasName    bool
}

// ReplaceSource decorates an inner source with an ordered list of edits,
// re-streaming chunks rewritten to match the edited output while preserving
// precise mapping provenance (spec.md §4.6). Edits accumulate in arrival
// order and are sorted lazily on first use.
type ReplaceSource struct {
	inner  Source
	edits  []edit
	sorted bool
}

func NewReplaceSource(inner Source) *ReplaceSource {
	return &ReplaceSource{inner: inner}
}

func (r *ReplaceSource) Original() Source { return r.inner }

// Insert adds content at a single offset with no corresponding deletion.
func (r *ReplaceSource) Insert(start int, content string, name *string) {
	r.Replace(start, start, content, name)
}

// Replace records that [start, end) of the inner generated text is
// replaced by content.
func (r *ReplaceSource) Replace(start, end int, content string, name *string) {
	e := edit{start: start, end: end, content: content}
	if name != nil {
		e.hasName = true
		e.name = *name
	}
	r.edits = append(r.edits, e)
	r.sorted = false
}

func (r *ReplaceSource) sortEdits() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.edits, func(i, j int) bool {
		a, b := r.edits[i], r.edits[j]
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end < b.end
	})
	r.sorted = true
}

func (r *ReplaceSource) Source() string {
	r.sortEdits()
	inner := r.inner.Source()
	w := sm.NewWithIndices(inner)
	innerLen := w.UTF16Len()

	var b strings.Builder
	pos := 0
	for _, e := range r.edits {
		if pos < e.start {
			end := e.start
			if end > innerLen {
				end = innerLen
			}
			b.WriteString(w.Slice(pos, end))
		}
		b.WriteString(e.content)
		next := e.end
		if next < pos {
			next = pos
		}
		if next > innerLen {
			next = innerLen
		}
		pos = next
	}
	b.WriteString(w.Slice(pos, innerLen))
	return b.String()
}

func (r *ReplaceSource) Buffer() []byte { return []byte(r.Source()) }
func (r *ReplaceSource) Size() int      { return len(r.Source()) }

func (r *ReplaceSource) Map(opts sm.MapOptions) *sm.SourceMap {
	r.sortEdits()
	if len(r.edits) == 0 {
		return r.inner.Map(opts)
	}
	return GetMap(r, opts)
}

// checkOriginalContent reports whether the given original location's text
// matches expectedChunk verbatim in the recorded source content, enabling
// the identity-mapping split described in spec.md §4.7.
func checkOriginalContent(sourceContentLines [][]string, sourceIndex, line, column int32, expectedChunk string) bool {
	if int(sourceIndex) >= len(sourceContentLines) {
		return false
	}
	lines := sourceContentLines[sourceIndex]
	if lines == nil || int(line) >= len(lines) {
		return false
	}
	contentLine := lines[line]
	w := sm.NewWithIndices(contentLine)
	expectedLen := sm.UTF16Len(expectedChunk)
	if int(column)+expectedLen > w.UTF16Len() {
		return false
	}
	return w.Slice(int(column), int(column)+expectedLen) == expectedChunk
}

func (r *ReplaceSource) StreamChunks(opts sm.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	r.sortEdits()

	pos := 0
	i := 0
	var replacementEnd *int
	var nextStart *int
	if i < len(r.edits) {
		v := r.edits[i].start
		nextStart = &v
	}
	generatedLineOffset := 0
	generatedColumnOffset := 0
	generatedColumnOffsetLine := int32(-1)

	var sourceContentLines [][]string
	nameMapping := map[string]int32{}
	nameIndexMapping := map[int32]int32{}

	childOnSource := func(index int32, name string, content *string) {
		for len(sourceContentLines) <= int(index) {
			sourceContentLines = append(sourceContentLines, nil)
		}
		if content != nil {
			sourceContentLines[index] = splitRawLines(*content)
		}
		onSource(index, name, content)
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

	childOnChunk := func(chunkPtr *string, m sm.Mapping) {
		chunk := *chunkPtr
		w := sm.NewWithIndices(chunk)
		chunkLen := w.UTF16Len()
		chunkPos := 0
		endPos := pos + chunkLen

		mapping := m
		hasOrig := mapping.Original != nil
		var orig sm.OriginalLocation
		if hasOrig {
			orig = *mapping.Original
			mapping.Original = &orig
		}

		translatedOriginal := func() *sm.OriginalLocation {
			if !hasOrig {
				return nil
			}
			o := sm.OriginalLocation{SourceIndex: orig.SourceIndex, OriginalLine: orig.OriginalLine, OriginalColumn: orig.OriginalColumn}
			if orig.HasName {
				if g, ok := nameIndexMapping[orig.NameIndex]; ok {
					o.HasName = true
					o.NameIndex = g
				}
			}
			return &o
		}

		columnAt := func(line int32, base int32) int32 {
			if line == generatedColumnOffsetLine {
				return base + int32(generatedColumnOffset)
			}
			return base
		}

		if replacementEnd != nil && *replacementEnd > pos {
			if *replacementEnd >= endPos {
				line := mapping.GeneratedLine + int32(generatedLineOffset)
				if strings.HasSuffix(chunk, "\n") {
					generatedLineOffset--
					if generatedColumnOffsetLine == line {
						generatedColumnOffset += int(mapping.GeneratedColumn)
					}
				} else if generatedColumnOffsetLine == line {
					generatedColumnOffset -= chunkLen
				} else {
					generatedColumnOffset = -chunkLen
					generatedColumnOffsetLine = line
				}
				pos = endPos
				return
			}
			skip := *replacementEnd - pos
			if hasOrig && checkOriginalContent(sourceContentLines, orig.SourceIndex, orig.OriginalLine, orig.OriginalColumn, w.Slice(0, skip)) {
				orig.OriginalColumn += int32(skip)
			}
			pos += skip
			line := mapping.GeneratedLine + int32(generatedLineOffset)
			if generatedColumnOffsetLine == line {
				generatedColumnOffset -= skip
			} else {
				generatedColumnOffset = -skip
				generatedColumnOffsetLine = line
			}
			mapping.GeneratedColumn += int32(skip)
			chunkPos = skip
		}

		for nextStart != nil && *nextStart < endPos {
			line := mapping.GeneratedLine + int32(generatedLineOffset)

			if *nextStart > pos {
				offset := *nextStart - pos
				chunkSlice := w.Slice(chunkPos, chunkPos+offset)
				col := columnAt(line, mapping.GeneratedColumn)
				cs := chunkSlice
				onChunk(&cs, sm.Mapping{GeneratedLine: line, GeneratedColumn: col, Original: translatedOriginal()})

				mapping.GeneratedColumn += int32(offset)
				chunkPos += offset
				pos = *nextStart
				if hasOrig && checkOriginalContent(sourceContentLines, orig.SourceIndex, orig.OriginalLine, orig.OriginalColumn, chunkSlice) {
					orig.OriginalColumn += int32(sm.UTF16Len(chunkSlice))
				}
			}

			repl := r.edits[i]
			lines := splitRawLines(repl.content)
			var replacementNameIndex *int32
			if repl.hasName {
				g, ok := nameMapping[repl.name]
				if !ok {
					g = int32(len(nameMapping))
					nameMapping[repl.name] = g
					onName(g, repl.name)
				}
				replacementNameIndex = &g
			}
			if len(lines) == 0 {
				lines = []string{""}
			}
			for li, contentLine := range lines {
				col := columnAt(line, mapping.GeneratedColumn)
				var o *sm.OriginalLocation
				if hasOrig {
					oo := sm.OriginalLocation{SourceIndex: orig.SourceIndex, OriginalLine: orig.OriginalLine, OriginalColumn: orig.OriginalColumn}
					if replacementNameIndex != nil {
						oo.HasName = true
						oo.NameIndex = *replacementNameIndex
					}
					o = &oo
				}
				cl := contentLine
				onChunk(&cl, sm.Mapping{GeneratedLine: line, GeneratedColumn: col, Original: o})
				replacementNameIndex = nil

				isLast := li == len(lines)-1
				if isLast && !strings.HasSuffix(contentLine, "\n") {
					if generatedColumnOffsetLine == line {
						generatedColumnOffset += sm.UTF16Len(contentLine)
					} else {
						generatedColumnOffset = sm.UTF16Len(contentLine)
						generatedColumnOffsetLine = line
					}
				} else {
					generatedLineOffset++
					line++
					generatedColumnOffset = -int(mapping.GeneratedColumn)
					generatedColumnOffsetLine = line
				}
			}

			if replacementEnd == nil {
				v := repl.end
				replacementEnd = &v
			} else if repl.end > *replacementEnd {
				v := repl.end
				replacementEnd = &v
			}
			i++
			if i < len(r.edits) {
				v := r.edits[i].start
				nextStart = &v
			} else {
				nextStart = nil
			}

			offset := chunkLen - endPos + *replacementEnd - chunkPos
			if offset > 0 {
				if *replacementEnd >= endPos {
					line2 := mapping.GeneratedLine + int32(generatedLineOffset)
					if strings.HasSuffix(chunk, "\n") {
						generatedLineOffset--
						if generatedColumnOffsetLine == line2 {
							generatedColumnOffset += int(mapping.GeneratedColumn)
						}
					} else if generatedColumnOffsetLine == line2 {
						generatedColumnOffset -= chunkLen - chunkPos
					} else {
						generatedColumnOffset = chunkPos - chunkLen
						generatedColumnOffsetLine = line2
					}
					pos = endPos
					return
				}
				line2 := mapping.GeneratedLine + int32(generatedLineOffset)
				if hasOrig && checkOriginalContent(sourceContentLines, orig.SourceIndex, orig.OriginalLine, orig.OriginalColumn, w.Slice(chunkPos, chunkPos+offset)) {
					orig.OriginalColumn += int32(offset)
				}
				chunkPos += offset
				pos += offset
				if generatedColumnOffsetLine == line2 {
					generatedColumnOffset -= offset
				} else {
					generatedColumnOffset = -offset
					generatedColumnOffsetLine = line2
				}
				mapping.GeneratedColumn += int32(offset)
			}
		}

		if chunkPos < chunkLen {
			var chunkSlice string
			if chunkPos == 0 {
				chunkSlice = chunk
			} else {
				chunkSlice = w.Slice(chunkPos, chunkLen)
			}
			line := mapping.GeneratedLine + int32(generatedLineOffset)
			col := columnAt(line, mapping.GeneratedColumn)
			onChunk(&chunkSlice, sm.Mapping{GeneratedLine: line, GeneratedColumn: col, Original: translatedOriginal()})
		}
		pos = endPos
	}

	info := r.inner.StreamChunks(sm.MapOptions{Columns: opts.Columns, FinalSource: false}, childOnChunk, childOnSource, childOnName)

	var remainder strings.Builder
	for i < len(r.edits) {
		remainder.WriteString(r.edits[i].content)
		i++
	}
	line := info.GeneratedLine + int32(generatedLineOffset)
	matches := splitRawLines(remainder.String())
	for idx, contentLine := range matches {
		col := info.GeneratedColumn
		if line == generatedColumnOffsetLine {
			col += int32(generatedColumnOffset)
		}
		cl := contentLine
		onChunk(&cl, sm.Mapping{GeneratedLine: line, GeneratedColumn: col})

		isLast := idx == len(matches)-1
		if isLast && !strings.HasSuffix(contentLine, "\n") {
			if generatedColumnOffsetLine == line {
				generatedColumnOffset += sm.UTF16Len(contentLine)
			} else {
				generatedColumnOffset = sm.UTF16Len(contentLine)
				generatedColumnOffsetLine = line
			}
		} else {
			generatedLineOffset++
			line++
			generatedColumnOffset = -int(info.GeneratedColumn)
			generatedColumnOffsetLine = line
		}
	}

	finalCol := info.GeneratedColumn
	if line == generatedColumnOffsetLine {
		finalCol += int32(generatedColumnOffset)
	}
	return GeneratedInfo{GeneratedLine: line, GeneratedColumn: finalCol}
}
