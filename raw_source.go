package source

import (
	"strings"
	"unicode/utf8"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// RawSource is unmapped generated text: every chunk it streams has no
// Original location (spec.md §4.3).
type RawSource struct {
	text string
}

// NewRawSource builds a RawSource from a string.
func NewRawSource(text string) *RawSource { return &RawSource{text: text} }

// NewRawSourceFromBytes builds a RawSource from bytes, validating UTF-8
// (spec.md §6, §7).
func NewRawSourceFromBytes(data []byte) (*RawSource, error) {
	if offset := firstInvalidUTF8(data); offset >= 0 {
		return nil, &sm.UTF8Error{ByteOffset: offset}
	}
	return &RawSource{text: string(data)}, nil
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func (r *RawSource) Source() string { return r.text }
func (r *RawSource) Buffer() []byte { return []byte(r.text) }
func (r *RawSource) Size() int      { return len(r.text) }

func (r *RawSource) Map(opts sm.MapOptions) *sm.SourceMap {
	return GetMap(r, opts)
}

// splitRawLines splits at "\n" only, keeping the newline attached to the
// preceding line, per spec.md §4.3 (deliberately simpler than
// internal/sourcemap.SplitLines, which also treats carriage returns and the
// Unicode line/paragraph separators as terminators for generated-column
// bookkeeping of already-printed text; RawSource's contract is the
// narrower "\n"-only rule spec.md states).
func splitRawLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (r *RawSource) StreamChunks(opts sm.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	lines := splitRawLines(r.text)

	var line, lastLineUTF16Len int32
	for _, l := range lines {
		if !opts.FinalSource {
			chunk := l
			onChunk(&chunk, sm.Mapping{GeneratedLine: line, GeneratedColumn: 0})
		}
		lastLineUTF16Len = int32(sm.UTF16Len(l))
		line++
	}

	if len(lines) == 0 {
		return GeneratedInfo{}
	}
	if strings.HasSuffix(r.text, "\n") {
		return GeneratedInfo{GeneratedLine: line, GeneratedColumn: 0}
	}
	return GeneratedInfo{GeneratedLine: line - 1, GeneratedColumn: lastLineUTF16Len}
}
