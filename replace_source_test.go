package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

func TestReplaceSourceBasicReplace(t *testing.T) {
	r := NewReplaceSource(NewRawSource("hello world"))
	r.Replace(6, 11, "there", nil)
	require.Equal(t, "hello there", r.Source())
}

func TestReplaceSourceInsertHasNoDeletion(t *testing.T) {
	r := NewReplaceSource(NewRawSource("hello world"))
	r.Insert(5, ",", nil)
	require.Equal(t, "hello, world", r.Source())
}

func TestReplaceSourceMultipleEditsOutOfOrder(t *testing.T) {
	r := NewReplaceSource(NewRawSource("abcdefgh"))
	// Recorded out of arrival order; sortEdits must fix this up before use.
	r.Replace(6, 8, "Z", nil)
	r.Replace(0, 2, "A", nil)
	r.Replace(3, 5, "B", nil)
	require.Equal(t, "AcBfZ", r.Source())
}

func TestReplaceSourceAtStartAndEnd(t *testing.T) {
	r := NewReplaceSource(NewRawSource("middle"))
	r.Insert(0, "[", nil)
	r.Insert(6, "]", nil)
	require.Equal(t, "[middle]", r.Source())
}

func TestReplaceSourceOverlappingReplacementsClampToPriorEnd(t *testing.T) {
	r := NewReplaceSource(NewRawSource("0123456789"))
	r.Replace(2, 8, "X", nil)
	// This second edit starts inside the first one's replaced range; its
	// start must not rewind past where the first edit already consumed.
	r.Replace(4, 6, "Y", nil)
	require.Equal(t, "01XY89", r.Source())
}

func TestReplaceSourcePreservesMappingsOutsideEdits(t *testing.T) {
	inner := NewOriginalSource("aaaa bbbb cccc\n", "orig.js")
	r := NewReplaceSource(inner)
	r.Replace(5, 9, "BBBB", nil)

	_, mappings, sources, _, info := collect(t, r, sm.MapOptions{Columns: true})
	require.Equal(t, []string{"orig.js"}, sources)

	var sawMappedBefore, sawMappedAfter bool
	for _, m := range mappings {
		if m.Original == nil {
			continue
		}
		if m.GeneratedColumn < 5 {
			sawMappedBefore = true
		}
		if m.GeneratedColumn >= 9 {
			sawMappedAfter = true
		}
	}
	require.True(t, sawMappedBefore, "text before the edit should keep its original mapping")
	require.True(t, sawMappedAfter, "text after the edit should keep its original mapping, shifted")
	// The edit neither adds nor removes a newline, so the terminal position
	// is unaffected by it and still reflects the source's own trailing "\n".
	require.Equal(t, GeneratedInfo{GeneratedLine: 1, GeneratedColumn: 0}, info)
}

func TestReplaceSourceNamedEdit(t *testing.T) {
	inner := NewOriginalSource("foo;\n", "orig.js")
	r := NewReplaceSource(inner)
	name := "bar"
	r.Replace(0, 3, "bar", &name)

	_, mappings, _, names, _ := collect(t, r, sm.MapOptions{Columns: true})
	require.Contains(t, names, "bar")

	var sawNamed bool
	for _, m := range mappings {
		if m.Original != nil && m.Original.HasName {
			sawNamed = true
		}
	}
	require.True(t, sawNamed, "the replacement's own name should surface in the mapping stream")
}

func TestReplaceSourceMapPassthroughWithNoEdits(t *testing.T) {
	inner := NewOriginalSource("x;\n", "x.js")
	r := NewReplaceSource(inner)
	require.Equal(t, inner.Map(sm.MapOptions{Columns: true}), r.Map(sm.MapOptions{Columns: true}))
}

func TestReplaceSourceOriginalReturnsInner(t *testing.T) {
	inner := NewRawSource("abc")
	r := NewReplaceSource(inner)
	require.Same(t, inner, r.Original())
}
