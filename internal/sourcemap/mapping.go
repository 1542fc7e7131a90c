package sourcemap

// OriginalLocation is where a generated position came from. SourceIndex and
// NameIndex refer to positions in the ambient "sources"/"names" arrays
// accumulated by whatever encoder or aggregator is consuming the mapping
// stream (spec.md §3).
type OriginalLocation struct {
	SourceIndex    int32
	OriginalLine   int32 // 0-based
	OriginalColumn int32 // 0-based, UTF-16 code units

	HasName   bool
	NameIndex int32
}

// Mapping associates a generated position with an optional OriginalLocation.
// GeneratedLine is 0-based here (the on-the-wire "mappings" string and the
// StreamChunks protocol both use 0-based lines internally; 1-based line
// numbers only ever show up in prose, matching spec.md §3's note that this
// is purely a presentational convention).
type Mapping struct {
	GeneratedLine   int32
	GeneratedColumn int32 // 0-based, UTF-16 code units

	Original *OriginalLocation
}

// MapOptions selects which of the four source-map streaming sub-modes
// (spec.md §4.4) a producer should run.
type MapOptions struct {
	// Columns requests full per-column mapping fidelity. When false, at
	// most one mapping is emitted per generated line ("lines-only" mode).
	Columns bool

	// FinalSource promises that no on_chunk consumer needs the chunk text,
	// only its position/provenance. Producers may omit the Chunk field of
	// each emitted chunk when this is set.
	FinalSource bool
}
