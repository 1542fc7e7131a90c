package sourcemap

// Decoder is a lazy iterator over Mapping values parsed out of a "mappings"
// string (spec.md §4.1). It maintains the same symmetric deltas the
// encoders produce.
type Decoder struct {
	data []byte
	pos  int

	genLine    int32
	genColumn  int32
	sourceIdx  int32
	origLine   int32
	origColumn int32
	nameIdx    int32
}

func NewDecoder(mappings string) *Decoder {
	return &Decoder{data: []byte(mappings)}
}

// Next returns the next Mapping, or ok=false at end of input. An invalid
// VLQ segment is a hard parse error, returned as *ParseError (wrapped as
// *InvalidVLQError), per spec.md §4.1/§7.
func (d *Decoder) Next() (Mapping, bool, error) {
	for {
		if d.pos >= len(d.data) {
			return Mapping{}, false, nil
		}

		if d.data[d.pos] == ';' {
			d.genLine++
			d.genColumn = 0
			d.pos++
			continue
		}
		if d.data[d.pos] == ',' {
			d.pos++
			continue
		}

		start := d.pos
		genColDelta, next, ok := DecodeVLQ(d.data, d.pos)
		if !ok {
			return Mapping{}, false, &InvalidVLQError{&ParseError{ByteOffset: start, Msg: "missing generated column"}}
		}
		d.genColumn += int32(genColDelta)
		d.pos = next

		m := Mapping{GeneratedLine: d.genLine, GeneratedColumn: d.genColumn}

		// A mapping with only a generated-column field carries no origin.
		if d.pos >= len(d.data) || d.data[d.pos] == ',' || d.data[d.pos] == ';' {
			return m, true, nil
		}

		srcStart := d.pos
		srcDelta, next, ok := DecodeVLQ(d.data, d.pos)
		if !ok {
			return Mapping{}, false, &InvalidVLQError{&ParseError{ByteOffset: srcStart, Msg: "missing source index"}}
		}
		d.sourceIdx += int32(srcDelta)
		d.pos = next

		lineStart := d.pos
		lineDelta, next, ok := DecodeVLQ(d.data, d.pos)
		if !ok {
			return Mapping{}, false, &InvalidVLQError{&ParseError{ByteOffset: lineStart, Msg: "missing original line"}}
		}
		d.origLine += int32(lineDelta)
		d.pos = next

		colStart := d.pos
		colDelta, next, ok := DecodeVLQ(d.data, d.pos)
		if !ok {
			return Mapping{}, false, &InvalidVLQError{&ParseError{ByteOffset: colStart, Msg: "missing original column"}}
		}
		d.origColumn += int32(colDelta)
		d.pos = next

		orig := OriginalLocation{
			SourceIndex:    d.sourceIdx,
			OriginalLine:   d.origLine,
			OriginalColumn: d.origColumn,
		}

		if d.pos < len(d.data) && d.data[d.pos] != ',' && d.data[d.pos] != ';' {
			nameStart := d.pos
			nameDelta, next, ok := DecodeVLQ(d.data, d.pos)
			if !ok {
				return Mapping{}, false, &InvalidVLQError{&ParseError{ByteOffset: nameStart, Msg: "missing name index"}}
			}
			d.nameIdx += int32(nameDelta)
			d.pos = next
			orig.HasName = true
			orig.NameIndex = d.nameIdx
		}

		m.Original = &orig
		return m, true, nil
	}
}

// DecodeAll drains a Decoder fully, returning every Mapping in order. Useful
// for tests and for the combined-source-map streamer's inner-map pre-pass.
func DecodeAll(mappings string) ([]Mapping, error) {
	d := NewDecoder(mappings)
	var out []Mapping
	for {
		m, ok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, m)
	}
}
