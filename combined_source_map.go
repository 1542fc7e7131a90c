package source

import (
	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// sourceMapLineData holds, for one generated line of an inner source map,
// its decoded mapping fields flattened into groups of five (generated
// column, source index, original line, original column, name index, any
// missing field as -1) alongside the literal chunk text streamed for each
// group. Built once per inner source the first time it is referenced, then
// binary-searched by findInnerMapping (spec.md §4.9).
type sourceMapLineData struct {
	mappingsData []int32
	chunks       []string
}

func findInnerMapping(lineData []sourceMapLineData, line, column int32) (int, bool) {
	if int(line) >= len(lineData) {
		return 0, false
	}
	data := lineData[line].mappingsData
	l, r := 0, len(data)/5
	for l < r {
		m := (l + r) >> 1
		if data[m*5] <= column {
			l = m + 1
		} else {
			r = m
		}
	}
	if l == 0 {
		return 0, false
	}
	return l - 1, true
}

// streamChunksOfCombinedSourceMap composes a two-level source map chain: an
// outer (text, sourceMap) pair where one of the outer sources is itself
// generated text (innerSourceName/innerSourceContent) carrying its own
// inner source map, into a single flattened stream of chunks/mappings
// pointing straight at the deepest original source (spec.md §4.9).
//
// Grounded on original_source/src/helpers.rs's
// stream_chunks_of_combined_source_map; the lazy/memoized sentinel maps the
// Rust implementation threads through RefCell<LinearMap<i64>> are plain Go
// maps here. An index that has been announced but not yet resolved is stored
// as -2; a missing key is treated the same way where the code checks with
// comma-ok. -1 means "no source"/"no name".
func streamChunksOfCombinedSourceMap(
	text string,
	smap *sm.SourceMap,
	innerSourceName string,
	innerSourceContent *string,
	innerSourceMap *sm.SourceMap,
	removeInnerSource bool,
	onChunk OnChunk,
	onSource OnSource,
	onName OnName,
	opts sm.MapOptions,
) GeneratedInfo {
	sourceMapping := map[string]int32{}
	nameMapping := map[string]int32{}

	sourceIndexMapping := map[int32]int32{}
	nameIndexMapping := map[int32]int32{}
	nameIndexValueMapping := map[int32]string{}

	innerSourceIndex := int32(-2)
	innerSourceIndexMapping := map[int32]int32{}
	type innerSourceIndexValue struct {
		source  string
		content *string
	}
	innerSourceIndexValueMapping := map[int32]innerSourceIndexValue{}
	innerSourceContents := map[int32]*string{}
	innerSourceContentLines := map[int32][]*sm.WithIndices{}
	innerNameIndexMapping := map[int32]int32{}
	innerNameIndexValueMapping := map[int32]string{}

	var innerSourceMapLineData []sourceMapLineData

	contentLinesFor := func(idx int32) []*sm.WithIndices {
		if lines, ok := innerSourceContentLines[idx]; ok {
			return lines
		}
		var lines []*sm.WithIndices
		if content := innerSourceContents[idx]; content != nil {
			for _, l := range splitRawLines(*content) {
				lines = append(lines, sm.NewWithIndices(l))
			}
		}
		innerSourceContentLines[idx] = lines
		return lines
	}

	registerGlobalSource := func(name string, content *string) int32 {
		if g, ok := sourceMapping[name]; ok {
			return g
		}
		g := int32(len(sourceMapping))
		sourceMapping[name] = g
		onSource(g, name, content)
		return g
	}
	registerGlobalName := func(name string) int32 {
		if g, ok := nameMapping[name]; ok {
			return g
		}
		g := int32(len(nameMapping))
		nameMapping[name] = g
		onName(g, name)
		return g
	}

	innerOnChunk := func(chunk *string, m sm.Mapping) {
		line := int(m.GeneratedLine)
		for len(innerSourceMapLineData) <= line {
			innerSourceMapLineData = append(innerSourceMapLineData, sourceMapLineData{})
		}
		data := &innerSourceMapLineData[line]
		var srcIdx, origLine, origCol, nameIdx int32 = -1, -1, -1, -1
		if m.Original != nil {
			srcIdx = m.Original.SourceIndex
			origLine = m.Original.OriginalLine
			origCol = m.Original.OriginalColumn
			if m.Original.HasName {
				nameIdx = m.Original.NameIndex
			}
		}
		data.mappingsData = append(data.mappingsData, m.GeneratedColumn, srcIdx, origLine, origCol, nameIdx)
		data.chunks = append(data.chunks, *chunk)
	}

	outerOnSource := func(i int32, name string, content *string) {
		if name == innerSourceName {
			innerSourceIndex = i
			if innerSourceContent != nil {
				content = innerSourceContent
			} else {
				innerSourceContent = content
			}
			sourceIndexMapping[i] = -2

			if content != nil {
				streamChunksOfSourceMap(*content, innerSourceMap, innerOnChunk,
					func(j int32, src string, srcContent *string) {
						innerSourceContents[j] = srcContent
						innerSourceIndexMapping[j] = -2
						innerSourceIndexValueMapping[j] = innerSourceIndexValue{source: src, content: srcContent}
					},
					func(j int32, n string) {
						innerNameIndexMapping[j] = -2
						innerNameIndexValueMapping[j] = n
					},
					sm.MapOptions{Columns: opts.Columns, FinalSource: false})
			}
			return
		}

		g := registerGlobalSource(name, content)
		sourceIndexMapping[i] = g
	}

	outerOnName := func(i int32, name string) {
		nameIndexMapping[i] = -2
		nameIndexValueMapping[i] = name
	}

	outerOnChunk := func(chunk *string, m sm.Mapping) {
		var sourceIndex, originalLine, originalColumn, nameIndex int32 = -1, -1, -1, -1
		if m.Original != nil {
			sourceIndex = m.Original.SourceIndex
			originalLine = m.Original.OriginalLine
			originalColumn = m.Original.OriginalColumn
			if m.Original.HasName {
				nameIndex = m.Original.NameIndex
			}
		}

		if sourceIndex == innerSourceIndex {
			if idx, ok := findInnerMapping(innerSourceMapLineData, originalLine, originalColumn); ok {
				lineData := innerSourceMapLineData[originalLine]
				mi := idx * 5
				innerSrcIdx := lineData.mappingsData[mi+1]
				innerOrigLine := lineData.mappingsData[mi+2]
				innerOrigCol := lineData.mappingsData[mi+3]
				innerNameIdx := lineData.mappingsData[mi+4]

				if innerSrcIdx >= 0 {
					innerChunk := lineData.chunks[idx]
					innerGeneratedColumn := lineData.mappingsData[mi]
					locationInChunk := originalColumn - innerGeneratedColumn
					if locationInChunk > 0 {
						if lines := contentLinesFor(innerSrcIdx); int(innerOrigLine) < len(lines) {
							l := lines[innerOrigLine]
							start := int(innerOrigCol)
							end := start + int(locationInChunk)
							originalChunk := l.Slice(start, end)
							if len(originalChunk) <= len(innerChunk) && innerChunk[:len(originalChunk)] == originalChunk {
								innerOrigCol += locationInChunk
								innerNameIdx = -1
							}
						}
					}

					resolvedSourceIndex, ok := innerSourceIndexMapping[innerSrcIdx]
					if !ok || resolvedSourceIndex == -2 {
						v := innerSourceIndexValueMapping[innerSrcIdx]
						resolvedSourceIndex = registerGlobalSource(v.source, v.content)
						innerSourceIndexMapping[innerSrcIdx] = resolvedSourceIndex
					}

					finalNameIndex := int32(-1)
					if innerNameIdx >= 0 {
						fn, ok := innerNameIndexMapping[innerNameIdx]
						if !ok || fn == -2 {
							if n, ok := innerNameIndexValueMapping[innerNameIdx]; ok {
								fn = registerGlobalName(n)
							} else {
								fn = -1
							}
							innerNameIndexMapping[innerNameIdx] = fn
						}
						finalNameIndex = fn
					} else if nameIndex >= 0 {
						// No inner name, but the outer mapping named this
						// position: promote it when the inner original
						// text at that position spells the same name.
						if lines := contentLinesFor(innerSrcIdx); int(innerOrigLine) < len(lines) {
							name := nameIndexValueMapping[nameIndex]
							l := lines[innerOrigLine]
							start := int(innerOrigCol)
							end := start + sm.UTF16Len(name)
							if l.Slice(start, end) == name {
								fn, ok := nameIndexMapping[nameIndex]
								if !ok || fn == -2 {
									fn = registerGlobalName(name)
									nameIndexMapping[nameIndex] = fn
								}
								finalNameIndex = fn
							}
						}
					}

					var original *sm.OriginalLocation
					if resolvedSourceIndex >= 0 {
						original = &sm.OriginalLocation{
							SourceIndex:    resolvedSourceIndex,
							OriginalLine:   innerOrigLine,
							OriginalColumn: innerOrigCol,
						}
						if finalNameIndex >= 0 {
							original.HasName = true
							original.NameIndex = finalNameIndex
						}
					}
					onChunk(chunk, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn, Original: original})
					return
				}
			}

			// Mapping falls inside the inner source's generated text, but
			// no inner mapping covers it.
			if removeInnerSource {
				onChunk(chunk, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn})
				return
			}
			if sourceIndexMapping[sourceIndex] == -2 {
				sourceIndexMapping[sourceIndex] = registerGlobalSource(innerSourceName, innerSourceContent)
			}
		}

		finalSourceIndex := int32(-1)
		if sourceIndex >= 0 {
			if g, ok := sourceIndexMapping[sourceIndex]; ok {
				finalSourceIndex = g
			}
		}
		if finalSourceIndex < 0 {
			onChunk(chunk, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn})
			return
		}

		finalNameIndex := int32(-1)
		if nameIndex >= 0 {
			if g, ok := nameIndexMapping[nameIndex]; ok {
				finalNameIndex = g
			}
		}
		if finalNameIndex == -2 {
			name := nameIndexValueMapping[nameIndex]
			finalNameIndex = registerGlobalName(name)
			nameIndexMapping[nameIndex] = finalNameIndex
		}

		original := &sm.OriginalLocation{SourceIndex: finalSourceIndex, OriginalLine: originalLine, OriginalColumn: originalColumn}
		if finalNameIndex >= 0 {
			original.HasName = true
			original.NameIndex = finalNameIndex
		}
		onChunk(chunk, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn, Original: original})
	}

	return streamChunksOfSourceMap(text, smap, outerOnChunk, outerOnSource, outerOnName, opts)
}
