// Package textdiff renders the difference between two versions of a file as
// a unified diff.
package textdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// Unified returns the unified diff turning before into after, or "" when
// they are equal.
func Unified(oldName, newName, before, after string) (string, error) {
	fd := Compute(oldName, newName, before, after)
	if len(fd.Hunks) == 0 {
		return "", nil
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Compute returns the file diff turning before into after.
func Compute(oldName, newName, before, after string) *diff.FileDiff {
	a, b := splitLines(before), splitLines(after)
	// Frequent lines such as lone braces must still match in long files.
	m := difflib.NewMatcherWithJunk(a, b, false, nil)

	fd := &diff.FileDiff{OrigName: oldName, NewName: newName}
	for _, group := range m.GetGroupedOpCodes(contextLines) {
		fd.Hunks = append(fd.Hunks, hunk(a, b, group))
	}
	return fd
}

// Stat counts the added and removed lines of fd.
func Stat(fd *diff.FileDiff) (added, removed int) {
	for _, h := range fd.Hunks {
		for _, line := range strings.SplitAfter(string(h.Body), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				added++
			case strings.HasPrefix(line, "-"):
				removed++
			}
		}
	}
	return added, removed
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func hunk(a, b []string, group []difflib.OpCode) *diff.Hunk {
	first, last := group[0], group[len(group)-1]
	h := &diff.Hunk{
		OrigStartLine: int32(first.I1) + 1,
		OrigLines:     int32(last.I2 - first.I1),
		NewStartLine:  int32(first.J1) + 1,
		NewLines:      int32(last.J2 - first.J1),
	}
	// An empty side starts at the line before the hunk.
	if h.OrigLines == 0 {
		h.OrigStartLine--
	}
	if h.NewLines == 0 {
		h.NewStartLine--
	}

	var body strings.Builder
	for _, c := range group {
		switch c.Tag {
		case 'e':
			writeLines(&body, ' ', a[c.I1:c.I2])
		case 'd':
			writeLines(&body, '-', a[c.I1:c.I2])
		case 'i':
			writeLines(&body, '+', b[c.J1:c.J2])
		case 'r':
			writeLines(&body, '-', a[c.I1:c.I2])
			writeLines(&body, '+', b[c.J1:c.J2])
		}
	}
	h.Body = []byte(body.String())
	return h
}

func writeLines(body *strings.Builder, prefix byte, lines []string) {
	for _, line := range lines {
		body.WriteByte(prefix)
		body.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			body.WriteByte('\n')
		}
	}
}
