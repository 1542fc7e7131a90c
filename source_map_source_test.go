package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

func newTestSourceMap(t *testing.T, mappings string, sources []string) *sm.SourceMap {
	t.Helper()
	return &sm.SourceMap{Sources: sources, Mappings: mappings}
}

func TestSourceMapSourcePassesThroughWithNoInnerMap(t *testing.T) {
	value := "hello world\n"
	smap := newTestSourceMap(t, "AAAA", []string{"hello-source.txt"})
	s := NewSourceMapSourceWithoutOriginal(value, "hello.txt", smap)

	require.Equal(t, value, s.Source())

	_, mappings, sources, _, info := collect(t, s, sm.MapOptions{Columns: true})
	require.Equal(t, []string{"hello-source.txt"}, sources)
	require.NotEmpty(t, mappings)
	require.Equal(t, int32(1), info.GeneratedLine)
	require.Equal(t, int32(0), info.GeneratedColumn)
}

func TestSourceMapSourceHandlesNullSourcesAndSourcesContent(t *testing.T) {
	// No sources at all.
	a := NewSourceMapSourceWithoutOriginal("hello world\n", "hello.txt", newTestSourceMap(t, "AAAA", nil))
	_, _, sourcesA, _, _ := collect(t, a, sm.MapOptions{Columns: true})
	require.Empty(t, sourcesA)

	// A single empty-string source with no content.
	b := NewSourceMapSourceWithoutOriginal("hello world\n", "hello.txt", newTestSourceMap(t, "AAAA", []string{""}))
	_, _, sourcesB, _, _ := collect(t, b, sm.MapOptions{Columns: true})
	require.Equal(t, []string{""}, sourcesB)

	// A named source with sourcesContent.
	c := newTestSourceMap(t, "AAAA", []string{"hello-source.txt"})
	c.SourcesContent = []sm.SourceContent{{Text: "hello world\n"}}
	src := NewSourceMapSourceWithoutOriginal("hello world\n", "hello.txt", c)
	var content *string
	src.StreamChunks(sm.MapOptions{Columns: true},
		func(*string, sm.Mapping) {},
		func(index int32, name string, c *string) { content = c },
		func(int32, string) {},
	)
	require.NotNil(t, content)
	require.Equal(t, "hello world\n", *content)
}

func TestSourceMapSourceCombinedResolvesThroughInnerMap(t *testing.T) {
	// Outer map: generated text "console.log(x);\n" where the whole line
	// maps back to this source's own name at (0,0) — the shape a
	// minifier's own output takes when it re-maps already-compiled text.
	outer := &sm.SourceMap{
		Sources:  []string{"bundle.js"},
		Mappings: "AAAA",
	}
	innerContent := "const x = 1;\n"
	// Inner map: the inner source's (bundle.js) own generated text maps back to "original.ts",
	// naming "x" at (0,6).
	inner := &sm.SourceMap{
		Sources:  []string{"original.ts"},
		Names:    []string{"x"},
		Mappings: "AAAA,MAAAA",
	}

	src := NewSourceMapSource(SourceMapSourceOptions{
		Value:          "console.log(x);\n",
		Name:           "bundle.js",
		SourceMap:      outer,
		OriginalSource: &innerContent,
		InnerSourceMap: inner,
	})

	_, mappings, sources, _, info := collect(t, src, sm.MapOptions{Columns: true})

	require.Contains(t, sources, "original.ts")
	require.Equal(t, int32(1), info.GeneratedLine)

	var sawOriginal bool
	for _, m := range mappings {
		if m.Original != nil {
			sawOriginal = true
		}
	}
	require.True(t, sawOriginal, "expected at least one chunk resolved through the inner map")
}

func TestSourceMapSourceCombinedRemovesUnresolvedInnerPositions(t *testing.T) {
	outer := &sm.SourceMap{
		Sources:  []string{"bundle.js"},
		Mappings: "AAAA",
	}
	innerContent := "const x = 1;\n"
	inner := &sm.SourceMap{} // no mappings at all: nothing resolves

	src := NewSourceMapSource(SourceMapSourceOptions{
		Value:                "console.log(x);\n",
		Name:                 "bundle.js",
		SourceMap:            outer,
		OriginalSource:       &innerContent,
		InnerSourceMap:       inner,
		RemoveOriginalSource: true,
	})

	_, mappings, _, _, _ := collect(t, src, sm.MapOptions{Columns: true})
	for _, m := range mappings {
		require.Nil(t, m.Original, "RemoveOriginalSource should downgrade unresolved inner positions to generated-only chunks")
	}
}
