package model

import "strings"

// Path represents a file system path.
type Path string

// Span is a half-open byte range [Lo, Hi) into a source buffer. A span with
// Lo == Hi is a pure insertion point.
type Span struct {
	Lo uint32
	Hi uint32
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return int(s.Hi - s.Lo)
}

// IsInsertion reports whether the span is zero-width.
func (s Span) IsInsertion() bool {
	return s.Lo == s.Hi
}

// Position returns the 1-based line and column of a byte offset in source.
func Position(source string, offset uint32) (line, column int) {
	if int(offset) > len(source) {
		offset = uint32(len(source))
	}

	prefix := source[:offset]
	line = strings.Count(prefix, "\n") + 1

	lastNL := strings.LastIndexByte(prefix, '\n')
	column = int(offset) - lastNL

	return line, column
}

// LineAt returns the full text of the line containing the byte offset,
// without its trailing newline.
func LineAt(source string, offset uint32) string {
	if int(offset) > len(source) {
		offset = uint32(len(source))
	}

	start := strings.LastIndexByte(source[:offset], '\n') + 1

	end := strings.IndexByte(source[offset:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += int(offset)
	}

	return source[start:end]
}
