package sourcemap

import "testing"

func TestFullEncoderBasic(t *testing.T) {
	e := &FullEncoder{}
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 0, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 0, OriginalColumn: 0}})
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 5, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 0, OriginalColumn: 5}})
	e.Encode(Mapping{GeneratedLine: 1, GeneratedColumn: 0, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 1, OriginalColumn: 0}})
	got := e.Drain()

	mappings, err := DecodeAll(got)
	if err != nil {
		t.Fatalf("DecodeAll(%q): %v", got, err)
	}
	if len(mappings) != 3 {
		t.Fatalf("got %d mappings, want 3: %+v", len(mappings), mappings)
	}
	if mappings[2].GeneratedLine != 1 || mappings[2].Original.OriginalLine != 1 {
		t.Fatalf("third mapping: %+v", mappings[2])
	}
}

func TestFullEncoderDropsGeneratedOnlyMapping(t *testing.T) {
	e := &FullEncoder{}
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 0})
	got := e.Drain()
	if got != "" {
		t.Fatalf("expected a purely generated mapping to encode to nothing, got %q", got)
	}
}

func TestFullEncoderEncodesGeneratedOnlyMappingWhileActive(t *testing.T) {
	e := &FullEncoder{}
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 0, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 0, OriginalColumn: 0}})
	// A generated-only mapping that closes the still-active region must
	// still be encoded, since its generated-column delta is what lets the
	// next mapping's column be computed correctly.
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 5})
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 8, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 1, OriginalColumn: 0}})
	got := e.Drain()

	mappings, err := DecodeAll(got)
	if err != nil {
		t.Fatalf("DecodeAll(%q): %v", got, err)
	}
	if len(mappings) != 3 {
		t.Fatalf("got %d mappings, want 3 (including the seam-closing generated-only one): %+v", len(mappings), mappings)
	}
	if mappings[1].Original != nil {
		t.Fatalf("second mapping should be generated-only, got %+v", mappings[1])
	}
	if mappings[1].GeneratedColumn != 5 {
		t.Fatalf("second mapping's column should be exact, not corrupted by a dropped delta, got %+v", mappings[1])
	}
	if mappings[2].GeneratedColumn != 8 || mappings[2].Original == nil || mappings[2].Original.OriginalColumn != 0 {
		t.Fatalf("third mapping's column should follow correctly from the seam close, got %+v", mappings[2])
	}
}

func TestFullEncoderDropsDuplicateActiveMapping(t *testing.T) {
	e := &FullEncoder{}
	orig := &OriginalLocation{SourceIndex: 0, OriginalLine: 2, OriginalColumn: 3}
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 0, Original: orig})
	// Same original location repeated at a later column carries no new
	// information and should be dropped.
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 4, Original: orig})
	got := e.Drain()

	mappings, err := DecodeAll(got)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("got %d mappings, want 1: %+v", len(mappings), mappings)
	}
}

func TestLinesOnlyEncoderOneSegmentPerLine(t *testing.T) {
	e := &LinesOnlyEncoder{}
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 0, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 0, OriginalColumn: 0}})
	// A second mapping on the same generated line is dropped.
	e.Encode(Mapping{GeneratedLine: 0, GeneratedColumn: 10, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 0, OriginalColumn: 10}})
	e.Encode(Mapping{GeneratedLine: 1, GeneratedColumn: 0, Original: &OriginalLocation{SourceIndex: 0, OriginalLine: 1, OriginalColumn: 0}})
	got := e.Drain()

	mappings, err := DecodeAll(got)
	if err != nil {
		t.Fatalf("DecodeAll(%q): %v", got, err)
	}
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2: %+v", len(mappings), mappings)
	}
	for _, m := range mappings {
		if m.GeneratedColumn != 0 {
			t.Fatalf("lines-only mapping must be forced to column 0, got %+v", m)
		}
		if m.Original.HasName {
			t.Fatalf("lines-only mapping must never carry a name, got %+v", m)
		}
	}
}

func TestNewEncoderSelectsImplementation(t *testing.T) {
	if _, ok := NewEncoder(true).(*FullEncoder); !ok {
		t.Fatalf("NewEncoder(true) should return a *FullEncoder")
	}
	if _, ok := NewEncoder(false).(*LinesOnlyEncoder); !ok {
		t.Fatalf("NewEncoder(false) should return a *LinesOnlyEncoder")
	}
}
