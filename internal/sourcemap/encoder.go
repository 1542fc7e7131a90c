package sourcemap

// Encoder accumulates Mapping values and produces the "mappings" string of a
// Source Map v3 document (spec.md §4.1). There are two implementations,
// selected by MapOptions.Columns: FullEncoder (one segment per mapping) and
// LinesOnlyEncoder (at most one segment per generated line).
type Encoder interface {
	Encode(m Mapping)
	Drain() string
}

// NewEncoder picks the implementation matching MapOptions.Columns.
func NewEncoder(columns bool) Encoder {
	if columns {
		return &FullEncoder{}
	}
	return &LinesOnlyEncoder{}
}

// FullEncoder emits one VLQ segment per incoming Mapping, delta-encoding
// the six state variables the Source Map v3 spec defines (generated line,
// generated column, source index, original line, original column, name
// index), the
// same deltas the teacher's ChunkBuilder.appendMappingToBuffer tracks while
// printing, adapted here to run over a Mapping stream instead of being
// driven directly by the printer.
type FullEncoder struct {
	buf []byte

	currentGenLine int32
	hasLine        bool // whether any mapping has been encoded yet on this line
	lineHasAny     bool

	genColumn   int32
	sourceIndex int32
	origLine    int32
	origColumn  int32
	nameIndex   int32

	// activeOriginal lets Encode drop a mapping that exactly repeats the
	// currently active one, and drop a generated-only mapping when no
	// mapping is active to close, per spec.md §4.1.
	haveActive     bool
	activeOriginal OriginalLocation
}

func (e *FullEncoder) Encode(m Mapping) {
	if e.haveActive && e.currentGenLine == m.GeneratedLine {
		// A mapping is still active on this line: drop this one only if it
		// exactly repeats the active original location.
		if m.Original != nil && *m.Original == e.activeOriginal {
			return
		}
	} else if m.Original == nil {
		// No mapping is active: a purely generated mapping carries no new
		// information, so it's safe to drop.
		return
	}

	for e.currentGenLine < m.GeneratedLine {
		e.buf = append(e.buf, ';')
		e.currentGenLine++
		e.genColumn = 0
		e.lineHasAny = false
	}

	if e.lineHasAny {
		e.buf = append(e.buf, ',')
	}
	e.lineHasAny = true

	e.buf = encodeVLQ(e.buf, int(m.GeneratedColumn-e.genColumn))
	e.genColumn = m.GeneratedColumn

	if m.Original == nil {
		// Still encoded (it advanced the column above): this closes out the
		// previously active mapping without starting a new one.
		e.haveActive = false
		return
	}

	o := *m.Original
	e.buf = encodeVLQ(e.buf, int(o.SourceIndex-e.sourceIndex))
	e.buf = encodeVLQ(e.buf, int(o.OriginalLine-e.origLine))
	e.buf = encodeVLQ(e.buf, int(o.OriginalColumn-e.origColumn))
	e.sourceIndex = o.SourceIndex
	e.origLine = o.OriginalLine
	e.origColumn = o.OriginalColumn

	if o.HasName {
		e.buf = encodeVLQ(e.buf, int(o.NameIndex-e.nameIndex))
		e.nameIndex = o.NameIndex
	}

	e.haveActive = true
	e.activeOriginal = o
}

func (e *FullEncoder) Drain() string {
	s := string(e.buf)
	e.buf = nil
	return s
}

// LinesOnlyEncoder emits at most one mapping per generated line: the first
// original-bearing mapping seen on that line, forced to column 0 with no
// name (spec.md §4.1, §4.4 "lines-full"/"lines-final" modes).
type LinesOnlyEncoder struct {
	buf []byte

	currentGenLine int32
	lineEmitted    bool

	sourceIndex int32
	origLine    int32
}

func (e *LinesOnlyEncoder) Encode(m Mapping) {
	if m.Original == nil {
		return
	}

	for e.currentGenLine < m.GeneratedLine {
		e.buf = append(e.buf, ';')
		e.currentGenLine++
		e.lineEmitted = false
	}

	if e.lineEmitted {
		return
	}
	e.lineEmitted = true

	o := *m.Original

	// Fast path: same source, original line advances by exactly one (the
	// overwhelmingly common case for a contiguous original file).
	if o.SourceIndex == e.sourceIndex && o.OriginalLine == e.origLine+1 {
		e.buf = encodeVLQ(e.buf, 0)
		e.buf = encodeVLQ(e.buf, 0)
		e.buf = encodeVLQ(e.buf, 1)
		e.buf = encodeVLQ(e.buf, 0)
		e.origLine = o.OriginalLine
		return
	}

	e.buf = encodeVLQ(e.buf, 0)
	e.buf = encodeVLQ(e.buf, int(o.SourceIndex-e.sourceIndex))
	e.buf = encodeVLQ(e.buf, int(o.OriginalLine-e.origLine))
	e.buf = encodeVLQ(e.buf, 0)
	e.sourceIndex = o.SourceIndex
	e.origLine = o.OriginalLine
}

func (e *LinesOnlyEncoder) Drain() string {
	s := string(e.buf)
	e.buf = nil
	return s
}
