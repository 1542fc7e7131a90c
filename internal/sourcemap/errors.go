package sourcemap

import "fmt"

// ParseError is returned when a "mappings" string contains a syntax error
// (a VLQ segment that doesn't decode). Source and name indices are not
// range-checked. ByteOffset is the offset into the "mappings" string itself,
// matching the character offset the teacher's ParseSourceMap reports in
// "Bad \"mappings\" data in source map at character %d: %s".
type ParseError struct {
	ByteOffset int
	Msg        string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid source map: %s at character %d", e.Msg, e.ByteOffset)
}

// InvalidVLQError wraps a ParseError for the specific case of a VLQ segment
// that fails to decode (missing continuation digit, or ran off the end of
// the string).
type InvalidVLQError struct {
	*ParseError
}

// InvalidJSONError wraps the underlying JSON decode failure when a
// SourceMap document fails to parse as JSON at all.
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string { return fmt.Sprintf("invalid source map JSON: %s", e.Err) }
func (e *InvalidJSONError) Unwrap() error  { return e.Err }

// UTF8Error is returned when constructing a source from raw bytes that are
// not valid UTF-8.
type UTF8Error struct {
	ByteOffset int
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 byte sequence at byte offset %d", e.ByteOffset)
}
