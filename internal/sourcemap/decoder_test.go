package sourcemap

import "testing"

func TestDecodeAllEmpty(t *testing.T) {
	mappings, err := DecodeAll("")
	if err != nil {
		t.Fatalf("DecodeAll(\"\"): %v", err)
	}
	if len(mappings) != 0 {
		t.Fatalf("got %d mappings, want 0", len(mappings))
	}
}

func TestDecodeAllLineSeparators(t *testing.T) {
	// "AAAA" maps (0,0)->(0,0,0); the trailing ";;" advances the generated
	// line twice with no further mappings.
	mappings, err := DecodeAll("AAAA;;")
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(mappings) != 1 {
		t.Fatalf("got %d mappings, want 1: %+v", len(mappings), mappings)
	}
	if mappings[0].GeneratedLine != 0 {
		t.Fatalf("expected generated line 0, got %+v", mappings[0])
	}
}

func TestDecodeAllMultipleSegmentsPerLine(t *testing.T) {
	// Two segments on line 0, separated by a comma, deltas relative to the
	// previous segment's state.
	mappings, err := DecodeAll("AAAA,EAAE")
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2: %+v", len(mappings), mappings)
	}
	if mappings[0].GeneratedColumn != 0 || mappings[1].GeneratedColumn != 2 {
		t.Fatalf("unexpected generated columns: %+v", mappings)
	}
	if mappings[1].Original.OriginalLine != 0 || mappings[1].Original.OriginalColumn != 2 {
		t.Fatalf("unexpected deltas applied: %+v", mappings[1])
	}
}

func TestDecodeAllGeneratedOnlySegment(t *testing.T) {
	// A lone generated-column VLQ with no following fields carries no
	// original location.
	mappings, err := DecodeAll("A")
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(mappings) != 1 || mappings[0].Original != nil {
		t.Fatalf("expected one origin-less mapping, got %+v", mappings)
	}
}

func TestDecodeAllNameIndex(t *testing.T) {
	mappings, err := DecodeAll("AAAAA")
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(mappings) != 1 || !mappings[0].Original.HasName || mappings[0].Original.NameIndex != 0 {
		t.Fatalf("expected a name-carrying mapping, got %+v", mappings)
	}
}

func TestDecodeAllInvalidVLQ(t *testing.T) {
	_, err := DecodeAll("A!")
	if err == nil {
		t.Fatalf("expected an error decoding an invalid VLQ segment")
	}
	if _, ok := err.(*InvalidVLQError); !ok {
		t.Fatalf("expected *InvalidVLQError, got %T", err)
	}
}
