package source

import sm "github.com/evanw/sourcemapjoin/internal/sourcemap"

// GetMap drives src's StreamChunks and materializes the resulting
// SourceMap (spec.md §4.5). It returns nil iff no mapping was ever emitted,
// signalling to the caller that the source carries no useful provenance
// (spec.md §7).
func GetMap(src Source, opts sm.MapOptions) *sm.SourceMap {
	enc := sm.NewEncoder(opts.Columns)
	any := false

	var sources []string
	var sourcesContent []sm.SourceContent
	var names []string

	ensureSourceLen := func(n int) {
		for len(sources) < n {
			sources = append(sources, "")
			sourcesContent = append(sourcesContent, sm.SourceContent{})
		}
	}
	ensureNameLen := func(n int) {
		for len(names) < n {
			names = append(names, "")
		}
	}

	onSource := func(index int32, name string, content *string) {
		ensureSourceLen(int(index) + 1)
		sources[index] = name
		if content != nil {
			sourcesContent[index] = sm.SourceContent{Text: *content}
		}
	}
	onName := func(index int32, name string) {
		ensureNameLen(int(index) + 1)
		names[index] = name
	}
	onChunk := func(chunk *string, m sm.Mapping) {
		if m.Original != nil {
			any = true
		}
		enc.Encode(m)
	}

	src.StreamChunks(opts, onChunk, onSource, onName)

	mappings := enc.Drain()
	if mappings == "" && !any {
		return nil
	}

	hasContent := false
	for _, c := range sourcesContent {
		if c.Text != "" {
			hasContent = true
			break
		}
	}
	if !hasContent {
		sourcesContent = nil
	}

	return &sm.SourceMap{
		Sources:        sources,
		SourcesContent: sourcesContent,
		Names:          names,
		Mappings:       mappings,
	}
}
