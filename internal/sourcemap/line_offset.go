package sourcemap

import "unicode/utf8"

// LineColumnOffset tracks a cursor through generated text in terms of
// 0-based lines and UTF-16 code unit columns. It is used everywhere a
// streamer needs to know "how far into the output am I" without re-scanning
// from the start every time.
type LineColumnOffset struct {
	Lines   int
	Columns int
}

func (a LineColumnOffset) ComesBefore(b LineColumnOffset) bool {
	return a.Lines < b.Lines || (a.Lines == b.Lines && a.Columns < b.Columns)
}

// Add appends another relative offset. If "b" spans at least one line, "a"
// moves to that absolute column; otherwise the columns accumulate on the
// current line. This is the rule spec.md's ConcatSource child-offset
// bookkeeping depends on.
func (a *LineColumnOffset) Add(b LineColumnOffset) {
	if b.Lines == 0 {
		a.Columns += b.Columns
	} else {
		a.Lines += b.Lines
		a.Columns = b.Columns
	}
}

func (offset *LineColumnOffset) AdvanceBytes(bytes []byte) {
	columns := offset.Columns
	for len(bytes) > 0 {
		c, width := utf8.DecodeRune(bytes)
		bytes = bytes[width:]
		switch c {
		case '\r', '\n', '\u2028', '\u2029':
			if c == '\r' && len(bytes) > 0 && bytes[0] == '\n' {
				columns++
				continue
			}
			offset.Lines++
			columns = 0

		default:
			// Mozilla's "source-map" library counts columns using UTF-16 code units
			if c <= 0xFFFF {
				columns++
			} else {
				columns += 2
			}
		}
	}
	offset.Columns = columns
}

func (offset *LineColumnOffset) AdvanceString(text string) {
	columns := offset.Columns
	for i, c := range text {
		switch c {
		case '\r', '\n', '\u2028', '\u2029':
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				columns++
				continue
			}
			offset.Lines++
			columns = 0

		default:
			if c <= 0xFFFF {
				columns++
			} else {
				columns += 2
			}
		}
	}
	offset.Columns = columns
}

// UTF16Len returns the length of "text" in UTF-16 code units, the column
// unit spec.md §3 mandates throughout.
func UTF16Len(text string) int {
	n := 0
	for _, c := range text {
		if c <= 0xFFFF {
			n++
		} else {
			n += 2
		}
	}
	return n
}

// SplitLines splits "text" into lines, keeping the line terminator attached
// to the preceding line (mirrors the teacher's ChunkBuilder.
// updateGeneratedLineAndColumn treatment of line terminators, generalized
// to a standalone split since StreamChunks needs material line slices, not
// just a generated cursor).
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		switch c {
		case '\n':
			lines = append(lines, text[start:i+width])
			i += width
			start = i
		case '\r':
			end := i + width
			if end < len(text) && text[end] == '\n' {
				end++
			}
			lines = append(lines, text[start:end])
			i = end
			start = i
		case '\u2028', '\u2029':
			lines = append(lines, text[start:i+width])
			i += width
			start = i
		default:
			i += width
		}
	}
	if start < len(text) || len(lines) == 0 {
		lines = append(lines, text[start:])
	}
	return lines
}

// WithIndices memoizes the translation from a UTF-16 column offset to a
// byte offset within a single line of text. Forward sequential access (the
// common case while streaming) is amortized O(1) per query; backwards
// access restarts the scan from the beginning of the line, per spec.md §9.
type WithIndices struct {
	line       string
	byteOffset int
	utf16Col   int
}

func NewWithIndices(line string) *WithIndices {
	return &WithIndices{line: line}
}

func (w *WithIndices) Line() string { return w.line }

// ByteOffset returns the byte offset of UTF-16 column "col" within the
// line, clamped to the line's length if "col" runs past the end.
func (w *WithIndices) ByteOffset(col int) int {
	if col < w.utf16Col {
		w.byteOffset = 0
		w.utf16Col = 0
	}
	for w.utf16Col < col && w.byteOffset < len(w.line) {
		c, width := utf8.DecodeRuneInString(w.line[w.byteOffset:])
		w.byteOffset += width
		if c <= 0xFFFF {
			w.utf16Col++
		} else {
			w.utf16Col += 2
		}
	}
	return w.byteOffset
}

// Slice returns the substring of the line between UTF-16 columns
// [startCol, endCol).
func (w *WithIndices) Slice(startCol int, endCol int) string {
	start := w.ByteOffset(startCol)
	end := w.ByteOffset(endCol)
	return w.line[start:end]
}

// UTF16Len returns the total UTF-16 length of the line.
func (w *WithIndices) UTF16Len() int {
	w.ByteOffset(1 << 30)
	return w.utf16Col
}
