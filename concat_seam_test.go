package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// Ported from _examples/original_source/src/concat_source.rs's
// should_allow_to_concatenate_in_a_single_line: several children share a
// single generated line, so the encoder must emit a generated-only segment
// to close the seam between a mapped child and the unmapped RawSource that
// follows it on the same line, rather than silently leaving the column
// cursor pointing at stale original-source state.
func TestConcatSourceClosesSeamMidLine(t *testing.T) {
	c := NewConcatSource(
		NewOriginalSource("Hello", "hello.txt"),
		NewRawSource(" "),
		NewOriginalSource("World ", "world.txt"),
		NewRawSource("is here\n"),
		NewOriginalSource("Hello\n", "hello.txt"),
		NewRawSource(" \n"),
		NewOriginalSource("World\n", "world.txt"),
		NewRawSource("is here"),
	)

	m := c.Map(sm.MapOptions{Columns: true})
	require.NotNil(t, m)
	require.Equal(t, "AAAA,K,CCAA,M;ADAA;;ACAA", m.Mappings)
	require.Equal(t, []string{"hello.txt", "world.txt"}, m.Sources)
	require.Equal(t, []sm.SourceContent{{Text: "Hello"}, {Text: "World "}}, m.SourcesContent)
	require.Empty(t, m.Names)

	require.Equal(t, "Hello World is here\nHello\n \nWorld\nis here", c.Source())
}

// The FinalSource-triggered needToCloseMapping path in concat_source.go: a
// mapped child whose last active mapping ends on the same generated line the
// child's own stream terminates on leaves that mapping "hanging" — the next
// (unmapped) child continuing on that same line must trigger a generated-only
// mapping to close the seam, even though RawSource never calls onChunk at all
// in FinalSource mode (the close has to come from the post-child bookkeeping,
// not from a chunk callback).
func TestConcatSourceClosesSeamInFinalSourceMode(t *testing.T) {
	c := NewConcatSource(
		NewOriginalSource("a", "a.js"),
		NewRawSource("b"),
	)

	var mappings []sm.Mapping
	c.StreamChunks(sm.MapOptions{Columns: true, FinalSource: true},
		func(chunk *string, m sm.Mapping) {
			require.Nil(t, chunk, "FinalSource mode must never materialize chunk text")
			mappings = append(mappings, m)
		},
		func(int32, string, *string) {},
		func(int32, string) {},
	)

	var sawSeamClose bool
	for _, m := range mappings {
		if m.Original == nil && m.GeneratedLine == 0 && m.GeneratedColumn == 1 {
			sawSeamClose = true
		}
	}
	require.True(t, sawSeamClose, "expected a generated-only mapping at (0,1) to close the seam")
}
