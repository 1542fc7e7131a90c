package source

import (
	"strings"

	sm "github.com/evanw/sourcemapjoin/internal/sourcemap"
)

// OriginalSource represents authored source text: it behaves as though its
// own source map were the identity map (source=name, content=text),
// mapping generated positions straight back to themselves (spec.md §6,
// §8 property 1).
//
// Mappings are split at typical statement borders (";", "{", "}", "\n")
// rather than one mapping per character: this keeps output compact while
// still mapping every statement start, matching the teacher lineage's
// OriginalSource (original_source/src/original_source.rs).
type OriginalSource struct {
	value string
	name  string
}

func NewOriginalSource(value string, name string) *OriginalSource {
	return &OriginalSource{value: value, name: name}
}

func (o *OriginalSource) Source() string { return o.value }
func (o *OriginalSource) Buffer() []byte { return []byte(o.value) }
func (o *OriginalSource) Size() int      { return len(o.value) }

func (o *OriginalSource) Map(opts sm.MapOptions) *sm.SourceMap {
	return GetMap(o, opts)
}

// nextPotentialToken mirrors original_source/src/helpers.rs's
// PotentialTokens iterator: /[^\n;{}]+[;{} \r\t]*\n?|[;{} \r\t]+\n?|\n/g.
func nextPotentialToken(s string, index int) (string, int, bool) {
	n := len(s)
	if index >= n {
		return "", index, false
	}
	start := index
	c := s[index]
	for c != '\n' && c != ';' && c != '{' && c != '}' {
		index++
		if index >= n {
			return s[start:index], index, true
		}
		c = s[index]
	}
	for c == ';' || c == ' ' || c == '{' || c == '}' || c == '\r' || c == '\t' {
		index++
		if index >= n {
			return s[start:index], index, true
		}
		c = s[index]
	}
	if c == '\n' {
		index++
	}
	return s[start:index], index, true
}

func splitIntoPotentialTokens(s string) []string {
	var tokens []string
	for i := 0; ; {
		tok, next, ok := nextPotentialToken(s, i)
		if !ok {
			break
		}
		tokens = append(tokens, tok)
		i = next
	}
	return tokens
}

func generatedSourceInfo(text string) GeneratedInfo {
	if text == "" {
		return GeneratedInfo{}
	}
	lines := splitRawLines(text)
	if strings.HasSuffix(text, "\n") {
		return GeneratedInfo{GeneratedLine: int32(len(lines))}
	}
	last := lines[len(lines)-1]
	return GeneratedInfo{GeneratedLine: int32(len(lines) - 1), GeneratedColumn: int32(sm.UTF16Len(last))}
}

func (o *OriginalSource) StreamChunks(opts sm.MapOptions, onChunk OnChunk, onSource OnSource, onName OnName) GeneratedInfo {
	onSource(0, o.name, &o.value)

	if opts.Columns {
		var line, column int32
		for _, token := range splitIntoPotentialTokens(o.value) {
			isEndOfLine := strings.HasSuffix(token, "\n")

			if isEndOfLine && len(token) == 1 {
				if !opts.FinalSource {
					chunk := token
					onChunk(&chunk, sm.Mapping{GeneratedLine: line, GeneratedColumn: column})
				}
			} else {
				var chunk *string
				if !opts.FinalSource {
					t := token
					chunk = &t
				}
				onChunk(chunk, sm.Mapping{
					GeneratedLine:   line,
					GeneratedColumn: column,
					Original: &sm.OriginalLocation{
						SourceIndex:    0,
						OriginalLine:   line,
						OriginalColumn: column,
					},
				})
			}

			if isEndOfLine {
				line++
				column = 0
			} else {
				column += int32(sm.UTF16Len(token))
			}
		}
		return GeneratedInfo{GeneratedLine: line, GeneratedColumn: column}
	}

	if opts.FinalSource {
		info := generatedSourceInfo(o.value)
		total := info.GeneratedLine
		if info.GeneratedColumn != 0 {
			total++ // include the partial trailing line
		}
		for line := int32(0); line < total; line++ {
			onChunk(nil, sm.Mapping{
				GeneratedLine:   line,
				GeneratedColumn: 0,
				Original: &sm.OriginalLocation{
					SourceIndex:  0,
					OriginalLine: line,
				},
			})
		}
		return info
	}

	lines := splitRawLines(o.value)
	var line int32
	for _, l := range lines {
		text := l
		onChunk(&text, sm.Mapping{
			GeneratedLine:   line,
			GeneratedColumn: 0,
			Original: &sm.OriginalLocation{
				SourceIndex:  0,
				OriginalLine: line,
			},
		})
		line++
	}
	if len(lines) == 0 {
		return GeneratedInfo{}
	}
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "\n") {
		return GeneratedInfo{GeneratedLine: line - 1, GeneratedColumn: int32(sm.UTF16Len(last))}
	}
	return GeneratedInfo{GeneratedLine: line, GeneratedColumn: 0}
}
