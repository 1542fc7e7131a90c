// Package sourcemap implements the low-level Source Map v3 building blocks:
// the VLQ codec, the mappings encoder/decoder, UTF-16 column bookkeeping,
// and the SourceMap document value type itself. Higher-level composition
// (StreamChunks, RawSource, ReplaceSource, ConcatSource, ...) lives in the
// root package, which is built on top of this one the way the teacher's
// js_printer is built on top of internal/sourcemap.
package sourcemap

import (
	"io"

	json "github.com/goccy/go-json"
)

// SourceContent mirrors esbuild's SourceContent: it carries the original
// text of a source so identity-split checks (spec.md §4.7) and a rendered
// "sourcesContent" JSON array both have what they need without re-encoding.
type SourceContent struct {
	Text string
}

// SourceMap is the in-memory Source Map v3 document (spec.md §3, §6).
type SourceMap struct {
	File    string
	HasFile bool

	Sources        []string
	SourcesContent []SourceContent // parallel to Sources; empty means "no sourcesContent"

	Names []string

	// Mappings is the raw VLQ "mappings" string. Use DecodedMappings to
	// iterate Mapping values.
	Mappings string

	SourceRoot    string
	HasSourceRoot bool

	DebugID    string
	HasDebugID bool

	IgnoreList []int
}

// Find does a binary search for the mapping in effect at (line, column),
// copied from the teacher's SourceMap.Find (esbuild's internal/sourcemap),
// including its note about matching Mozilla's "source-map" library
// behavior: a mapping "wins" a column range that starts at its own
// position and runs until the next mapping on the same line.
func (sm *SourceMap) Find(line int32, column int32) *Mapping {
	mappings, err := DecodeAll(sm.Mappings)
	if err != nil || len(mappings) == 0 {
		return nil
	}

	count := len(mappings)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		mapping := mappings[i]
		if mapping.GeneratedLine < line || (mapping.GeneratedLine == line && mapping.GeneratedColumn <= column) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}

	if index > 0 {
		mapping := mappings[index-1]
		if mapping.GeneratedLine == line {
			return &mapping
		}
	}
	return nil
}

// DecodedMappings decodes the full Mappings string. An error here means the
// document was hand-crafted or corrupted: VLQ decode failures (spec.md §7)
// are hard errors.
func (sm *SourceMap) DecodedMappings() ([]Mapping, error) {
	return DecodeAll(sm.Mappings)
}

// jsonDoc is the wire-format shape (spec.md §6): keys emitted in this exact
// order, arrays present even when empty except sourcesContent, which is
// omitted entirely when every entry is empty.
type jsonDoc struct {
	Version        int        `json:"version"`
	File           *string    `json:"file,omitempty"`
	Sources        []string   `json:"sources"`
	SourcesContent *[]*string `json:"sourcesContent,omitempty"`
	Names          []string   `json:"names"`
	Mappings       string     `json:"mappings"`
	SourceRoot     *string    `json:"sourceRoot,omitempty"`
	DebugID        *string    `json:"debugId,omitempty"`
	IgnoreList     []int      `json:"ignoreList,omitempty"`
}

// Parse decodes a Source Map v3 JSON document. JSON and VLQ syntax errors
// are both surfaced as typed errors, per spec.md §7.
func Parse(data []byte) (*SourceMap, error) {
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidJSONError{Err: err}
	}

	sm := &SourceMap{
		Sources:    append([]string(nil), doc.Sources...),
		Names:      append([]string(nil), doc.Names...),
		Mappings:   doc.Mappings,
		IgnoreList: append([]int(nil), doc.IgnoreList...),
	}

	if doc.File != nil {
		sm.File = *doc.File
		sm.HasFile = true
	}
	if doc.SourceRoot != nil {
		sm.SourceRoot = *doc.SourceRoot
		sm.HasSourceRoot = true
	}
	if doc.DebugID != nil {
		sm.DebugID = *doc.DebugID
		sm.HasDebugID = true
	}
	if doc.SourcesContent != nil {
		sm.SourcesContent = make([]SourceContent, len(*doc.SourcesContent))
		for i, s := range *doc.SourcesContent {
			if s != nil {
				sm.SourcesContent[i] = SourceContent{Text: *s}
			}
		}
	}

	// Validate that mappings only decodes cleanly; callers that need the
	// decoded form call DecodedMappings themselves (kept lazy per spec.md
	// §3's "Lifecycle").
	if sm.Mappings != "" {
		if _, err := DecodeAll(sm.Mappings); err != nil {
			return nil, err
		}
	}

	return sm, nil
}

func (sm *SourceMap) toDoc() jsonDoc {
	doc := jsonDoc{
		Version:    3,
		Sources:    sm.Sources,
		Names:      sm.Names,
		Mappings:   sm.Mappings,
		IgnoreList: sm.IgnoreList,
	}
	if sm.Sources == nil {
		doc.Sources = []string{}
	}
	if sm.Names == nil {
		doc.Names = []string{}
	}
	if sm.HasFile {
		doc.File = &sm.File
	}
	if sm.HasSourceRoot {
		doc.SourceRoot = &sm.SourceRoot
	}
	if sm.HasDebugID {
		doc.DebugID = &sm.DebugID
	}

	anyContent := false
	for _, c := range sm.SourcesContent {
		if c.Text != "" {
			anyContent = true
			break
		}
	}
	if anyContent {
		content := make([]*string, len(sm.SourcesContent))
		for i := range sm.SourcesContent {
			text := sm.SourcesContent[i].Text
			content[i] = &text
		}
		doc.SourcesContent = &content
	}

	return doc
}

// ToJSON serializes the document to its wire format (spec.md §6).
func (sm *SourceMap) ToJSON() ([]byte, error) {
	return json.Marshal(sm.toDoc())
}

// ToWriter streams the JSON form directly to w without building an
// intermediate []byte, matching original_source/src/source_map.rs's
// to_writer (spec.md §4 supplemented-features, SPEC_FULL.md §4).
func (sm *SourceMap) ToWriter(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(sm.toDoc())
}
