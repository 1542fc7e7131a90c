package source

import (
	"strings"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// sourceMapRootedName applies a SourceMap's sourceRoot prefix to a source
// name, matching webpack-sources' getSourceName helper.
func sourceMapRootedName(smap *sm.SourceMap, name string) string {
	if !smap.HasSourceRoot || smap.SourceRoot == "" {
		return name
	}
	if strings.HasSuffix(smap.SourceRoot, "/") {
		return smap.SourceRoot + name
	}
	return smap.SourceRoot + "/" + name
}

func sourceContentAt(smap *sm.SourceMap, i int) *string {
	if i >= len(smap.SourcesContent) {
		return nil
	}
	t := smap.SourcesContent[i].Text
	if t == "" {
		return nil
	}
	return &t
}

// streamChunksOfSourceMap streams a (text, SourceMap) pair, selecting one of
// four algorithmic modes by MapOptions (spec.md §4.4).
func streamChunksOfSourceMap(text string, smap *sm.SourceMap, onChunk OnChunk, onSource OnSource, onName OnName, opts sm.MapOptions) GeneratedInfo {
	switch {
	case opts.Columns && opts.FinalSource:
		return streamChunksOfSourceMapFinal(text, smap, onChunk, onSource, onName)
	case opts.Columns && !opts.FinalSource:
		return streamChunksOfSourceMapFull(text, smap, onChunk, onSource, onName)
	case !opts.Columns && opts.FinalSource:
		return streamChunksOfSourceMapLinesFinal(text, smap, onChunk, onSource)
	default:
		return streamChunksOfSourceMapLinesFull(text, smap, onChunk, onSource)
	}
}

func announceSourcesAndNames(smap *sm.SourceMap, onSource OnSource, onName OnName) {
	for i, name := range smap.Sources {
		onSource(int32(i), sourceMapRootedName(smap, name), sourceContentAt(smap, i))
	}
	if onName == nil {
		return
	}
	for i, name := range smap.Names {
		onName(int32(i), name)
	}
}

// streamChunksOfSourceMapFinal is the {columns:true, final_source:true} mode:
// no text is ever emitted, only mapping metadata up to the terminal position.
func streamChunksOfSourceMapFinal(text string, smap *sm.SourceMap, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	result := generatedSourceInfo(text)
	if result.GeneratedLine == 0 && result.GeneratedColumn == 0 {
		return result
	}
	announceSourcesAndNames(smap, onSource, onName)

	mappings, err := smap.DecodedMappings()
	if err != nil {
		return result
	}

	var mappingActiveLine int32 = -1
	for _, m := range mappings {
		if m.GeneratedLine >= result.GeneratedLine &&
			(m.GeneratedColumn >= result.GeneratedColumn || m.GeneratedLine > result.GeneratedLine) {
			continue
		}
		if m.Original != nil {
			onChunk(nil, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn, Original: m.Original})
			mappingActiveLine = m.GeneratedLine
		} else if mappingActiveLine == m.GeneratedLine {
			onChunk(nil, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: m.GeneratedColumn})
		}
	}
	return result
}

// streamChunksOfSourceMapFull is the reference {columns:true,
// final_source:false} mode.
func streamChunksOfSourceMapFull(text string, smap *sm.SourceMap, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	rawLines := splitRawLines(text)
	if len(rawLines) == 0 {
		return GeneratedInfo{}
	}
	lines := make([]*sm.WithIndices, len(rawLines))
	for i, l := range rawLines {
		lines[i] = sm.NewWithIndices(l)
	}
	announceSourcesAndNames(smap, onSource, onName)

	lastLine := lines[len(lines)-1].Line()
	lastNewLine := strings.HasSuffix(lastLine, "\n")
	var finalLine, finalColumn int32
	if lastNewLine {
		finalLine = int32(len(lines))
	} else {
		finalLine = int32(len(lines) - 1)
		finalColumn = int32(lines[len(lines)-1].UTF16Len())
	}

	var curLine, curColumn int32
	mappingActive := false
	var activeOriginal *sm.OriginalLocation

	emitChunkAt := func(lineIdx int32, startCol, endCol int32, original *sm.OriginalLocation) {
		if int(lineIdx) >= len(lines) {
			return
		}
		chunk := lines[lineIdx].Slice(int(startCol), int(endCol))
		if chunk == "" {
			return
		}
		c := chunk
		onChunk(&c, sm.Mapping{GeneratedLine: lineIdx, GeneratedColumn: startCol, Original: original})
	}

	onMapping := func(m sm.Mapping) {
		if mappingActive && int(curLine) < len(lines) {
			if m.GeneratedLine != curLine {
				emitChunkAt(curLine, curColumn, int32(lines[curLine].UTF16Len()), activeOriginal)
				curLine++
				curColumn = 0
			} else {
				emitChunkAt(curLine, curColumn, m.GeneratedColumn, activeOriginal)
				curColumn = m.GeneratedColumn
			}
			mappingActive = false
		}
		if m.GeneratedLine > curLine && curColumn > 0 {
			if int(curLine) < len(lines) {
				emitChunkAt(curLine, curColumn, int32(lines[curLine].UTF16Len()), nil)
			}
			curLine++
			curColumn = 0
		}
		for m.GeneratedLine > curLine {
			if int(curLine) < len(lines) {
				c := lines[curLine].Line()
				onChunk(&c, sm.Mapping{GeneratedLine: curLine, GeneratedColumn: 0})
			}
			curLine++
		}
		if m.GeneratedColumn > curColumn {
			if int(curLine) < len(lines) {
				emitChunkAt(curLine, curColumn, m.GeneratedColumn, nil)
			}
			curColumn = m.GeneratedColumn
		}
		if m.Original != nil && (m.GeneratedLine < finalLine || (m.GeneratedLine == finalLine && m.GeneratedColumn < finalColumn)) {
			mappingActive = true
			o := *m.Original
			activeOriginal = &o
		}
	}

	mappings, err := smap.DecodedMappings()
	if err == nil {
		for _, m := range mappings {
			onMapping(m)
		}
	}
	onMapping(sm.Mapping{GeneratedLine: finalLine, GeneratedColumn: finalColumn})

	return GeneratedInfo{GeneratedLine: finalLine, GeneratedColumn: finalColumn}
}

// streamChunksOfSourceMapLinesFinal: {columns:false, final_source:true}.
func streamChunksOfSourceMapLinesFinal(text string, smap *sm.SourceMap, onChunk OnChunk, onSource OnSource) GeneratedInfo {
	result := generatedSourceInfo(text)
	if result.GeneratedLine == 0 && result.GeneratedColumn == 0 {
		return GeneratedInfo{}
	}
	announceSourcesAndNames(smap, onSource, nil)

	finalLine := result.GeneratedLine
	if result.GeneratedColumn == 0 {
		finalLine--
	}
	var curLine int32
	mappings, err := smap.DecodedMappings()
	if err != nil {
		return result
	}
	for _, m := range mappings {
		if m.Original == nil || m.GeneratedLine < curLine || m.GeneratedLine > finalLine {
			continue
		}
		o := *m.Original
		o.HasName = false
		o.NameIndex = 0
		curLine = m.GeneratedLine + 1
		onChunk(nil, sm.Mapping{GeneratedLine: m.GeneratedLine, GeneratedColumn: 0, Original: &o})
	}
	return result
}

// streamChunksOfSourceMapLinesFull: {columns:false, final_source:false}.
func streamChunksOfSourceMapLinesFull(text string, smap *sm.SourceMap, onChunk OnChunk, onSource OnSource) GeneratedInfo {
	lines := splitRawLines(text)
	if len(lines) == 0 {
		return GeneratedInfo{}
	}
	announceSourcesAndNames(smap, onSource, nil)

	var curLine int32
	mappings, err := smap.DecodedMappings()
	if err == nil {
		for _, m := range mappings {
			if m.Original == nil || m.GeneratedLine < curLine || int(m.GeneratedLine) >= len(lines) {
				continue
			}
			for m.GeneratedLine > curLine {
				if int(curLine) < len(lines) {
					c := lines[curLine]
					onChunk(&c, sm.Mapping{GeneratedLine: curLine, GeneratedColumn: 0})
				}
				curLine++
			}
			if int(m.GeneratedLine) < len(lines) {
				c := lines[curLine]
				o := *m.Original
				o.HasName = false
				o.NameIndex = 0
				onChunk(&c, sm.Mapping{GeneratedLine: curLine, GeneratedColumn: 0, Original: &o})
				curLine++
			}
		}
	}
	for int(curLine) < len(lines) {
		c := lines[curLine]
		onChunk(&c, sm.Mapping{GeneratedLine: curLine, GeneratedColumn: 0})
		curLine++
	}

	lastLine := lines[len(lines)-1]
	lastNewLine := strings.HasSuffix(lastLine, "\n")
	var finalLine, finalColumn int32
	if lastNewLine {
		finalLine = int32(len(lines))
	} else {
		finalLine = int32(len(lines) - 1)
		finalColumn = int32(sm.UTF16Len(lastLine))
	}
	return GeneratedInfo{GeneratedLine: finalLine, GeneratedColumn: finalColumn}
}
