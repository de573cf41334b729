package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/sharp/csharp/syntax"
)

// positionAt converts a byte offset in text to an LSP position, whose
// character counts UTF-16 code units.
func positionAt(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	before := text[:offset]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndex(before, "\n") + 1

	units := 0
	for _, r := range before[lineStart:] {
		if r == utf8.RuneError {
			units++
			continue
		}
		units += len(utf16.Encode([]rune{r}))
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(units),
	}
}

func textSpan(start, end int) syntax.TextSpan {
	if end < start {
		start, end = end, start
	}
	return syntax.TextSpan{Start: start, Length: end - start}
}
