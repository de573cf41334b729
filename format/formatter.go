package format

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sharp/csharp/syntax"
)

var log = commonlog.GetLogger("sharp.format")

type Options struct {
	IndentSize int
	UseTabs    bool
	// Newline is the line ending to emit. Empty means the dominant line
	// ending of the document being formatted.
	Newline string
}

func DefaultOptions() Options {
	return Options{IndentSize: 4}
}

func (o Options) indentUnit() string {
	if o.UseTabs {
		return "\t"
	}
	size := o.IndentSize
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size)
}

// DetectNewline returns the dominant line ending of text, or "\n" when text
// has no line breaks.
func DetectNewline(text string) string {
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	if crlf > lf {
		return "\r\n"
	}
	return "\n"
}

// Formatter rewrites the whitespace of annotated nodes. Text outside the
// annotated nodes is left alone, except for the line breaks needed to put an
// annotated member or statement on its own line.
type Formatter struct {
	opts Options
}

func New(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Format formats the nodes under root that carry syntax.FormatterAnnotation
// and returns the new root with the annotation removed.
func (f *Formatter) Format(root *syntax.Node) *syntax.Node {
	return f.FormatAnnotated(root, syntax.FormatterAnnotation)
}

// FormatAnnotated formats the nodes under root that carry a.
func (f *Formatter) FormatAnnotated(root *syntax.Node, a syntax.Annotation) *syntax.Node {
	if len(root.AnnotatedNodes(a)) == 0 {
		return root
	}
	nl := f.opts.Newline
	if nl == "" {
		nl = DetectNewline(root.ToFullString())
	}
	l := &layout{nl: nl, unit: f.opts.indentUnit()}
	top := l.index(root, nil)

	var members, statements, others []*occurrence
	top.walk(func(o *occurrence) bool {
		if !o.node.HasAnnotation(a) {
			return true
		}
		if o.start == o.end {
			return false
		}
		for i := o.start; i < o.end; i++ {
			l.owned[i] = true
		}
		switch {
		case o.node.Kind.IsMember():
			members = append(members, o)
		case o.node.Kind.IsStatement():
			statements = append(statements, o)
		default:
			others = append(others, o)
		}
		return false
	})
	if len(members)+len(statements)+len(others) == 0 {
		return root
	}
	log.Debugf("formatting %d members, %d statements, %d other nodes", len(members), len(statements), len(others))

	for _, o := range members {
		l.placeMember(o)
	}
	blocks := make(map[*occurrence]bool)
	for _, o := range statements {
		block := o.parent
		if block == nil || block.node.Kind != syntax.KindBlock {
			l.normalize(o)
			continue
		}
		if blocks[block] {
			continue
		}
		blocks[block] = true
		l.placeStatements(block, a)
	}
	for _, o := range others {
		l.normalize(o)
	}

	idx := 0
	return l.rebuild(root, &idx, a)
}

// occurrence is one appearance of a node in document order. A node shared
// by two parents has two occurrences.
type occurrence struct {
	node       *syntax.Node
	start, end int
	parent     *occurrence
	children   []*occurrence
}

func (o *occurrence) walk(fn func(*occurrence) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.children {
		c.walk(fn)
	}
}

type layout struct {
	leaves []*syntax.Node
	lead   []string
	trail  []string
	owned  []bool
	nl     string
	unit   string
}

func (l *layout) index(n *syntax.Node, parent *occurrence) *occurrence {
	o := &occurrence{node: n, start: len(l.leaves), parent: parent}
	if n.Kind == syntax.KindToken {
		l.leaves = append(l.leaves, n)
		l.lead = append(l.lead, n.Token.Leading)
		l.trail = append(l.trail, n.Token.Trailing)
		l.owned = append(l.owned, false)
	} else {
		for _, c := range n.Children {
			o.children = append(o.children, l.index(c, o))
		}
	}
	o.end = len(l.leaves)
	return o
}

// normalize separates the tokens of o by single spaces where C# needs them
// and by nothing elsewhere.
func (l *layout) normalize(o *occurrence) {
	for i := o.start; i < o.end; i++ {
		l.lead[i] = ""
		l.trail[i] = ""
		if i+1 < o.end && spaceBetween(l.leaves[i].Token, l.leaves[i+1].Token) {
			l.trail[i] = " "
		}
	}
}

func (l *layout) placeMember(o *occurrence) {
	s, e := o.start, o.end
	prevBreak := l.breakBefore(s)

	var indent, next string
	switch {
	case e < len(l.leaves) && l.leaves[e].IsTokenKind(syntax.TokenRBrace):
		closing := l.lineIndent(s - 1)
		if prevBreak || strings.Contains(l.lead[e], "\n") {
			closing = indentAfterBreak(l.lead[e])
		}
		indent, next = closing+l.unit, closing
	case e < len(l.leaves) && (prevBreak || strings.Contains(l.lead[e], "\n")):
		indent = indentAfterBreak(l.lead[e])
		next = indent
	default:
		indent = l.lineIndent(s-1) + l.unit
		next = indent
	}
	l.place(o, indent, next, prevBreak)
}

// placeStatements lays out the annotated statements of a block. A block
// written on a single line is spread over several lines first.
func (l *layout) placeStatements(block *occurrence, a syntax.Annotation) {
	bs, be := block.start, block.end
	if be-bs < 2 || !l.leaves[bs].IsTokenKind(syntax.TokenLBrace) || !l.leaves[be-1].IsTokenKind(syntax.TokenRBrace) {
		for _, c := range block.children {
			if c.node.HasAnnotation(a) {
				l.normalize(c)
			}
		}
		return
	}

	m := l.lineIndent(bs)
	inner := m + l.unit

	if l.singleLine(bs, be) {
		if bs > 0 {
			l.trail[bs-1] = strings.TrimRight(l.trail[bs-1], " \t") + l.nl
		}
		l.lead[bs] = m
		l.trail[bs] = l.nl
		for _, c := range block.children {
			if c.node.Kind == syntax.KindToken || c.start == c.end {
				continue
			}
			if c.node.HasAnnotation(a) {
				l.normalize(c)
				l.lead[c.start] = inner
				l.trail[c.end-1] = l.nl
				continue
			}
			l.lead[c.start] = inner + strings.TrimLeft(l.lead[c.start], " \t")
			l.trail[c.end-1] = strings.TrimRight(l.trail[c.end-1], " \t") + l.nl
		}
		l.lead[be-1] = m + strings.TrimLeft(l.lead[be-1], " \t")
		return
	}

	for _, c := range block.children {
		if c.node.Kind != syntax.KindToken && c.start < c.end && !c.node.HasAnnotation(a) && l.startsLine(c.start) {
			inner = indentAfterBreak(l.lead[c.start])
			break
		}
	}
	for _, c := range block.children {
		if !c.node.HasAnnotation(a) || c.start == c.end {
			continue
		}
		next := inner
		if c.end == be-1 {
			next = m
		}
		l.place(c, inner, next, l.breakBefore(c.start))
	}
}

// place puts the tokens of o on a line of their own at indent. next is the
// indentation given to the following token when it has to move to a new
// line. prevBreak reports whether the text before o ended with a line break
// before formatting.
func (l *layout) place(o *occurrence, indent, next string, prevBreak bool) {
	l.normalize(o)
	if o.start > 0 && !prevBreak {
		l.trail[o.start-1] = strings.TrimRight(l.trail[o.start-1], " \t") + l.nl
	}
	l.lead[o.start] = indent
	l.trail[o.end-1] = l.nl
	if o.end < len(l.leaves) && !prevBreak && !strings.Contains(l.lead[o.end], "\n") {
		l.lead[o.end] = next + strings.TrimLeft(l.lead[o.end], " \t")
	}
}

func (l *layout) singleLine(bs, be int) bool {
	for i := bs; i < be; i++ {
		if l.owned[i] {
			continue
		}
		if i != bs && strings.Contains(l.lead[i], "\n") {
			return false
		}
		if i != be-1 && strings.Contains(l.trail[i], "\n") {
			return false
		}
	}
	return true
}

func (l *layout) breakBefore(i int) bool {
	return i == 0 || strings.HasSuffix(l.trail[i-1], "\n")
}

// startsLine reports whether leaf i begins a line in the text without the
// annotated nodes.
func (l *layout) startsLine(i int) bool {
	if strings.Contains(l.lead[i], "\n") {
		return true
	}
	p := i - 1
	for p >= 0 && l.owned[p] {
		p--
	}
	return p < 0 || strings.HasSuffix(l.trail[p], "\n")
}

// lineIndent returns the indentation of the line holding leaf i.
func (l *layout) lineIndent(i int) string {
	for ; i >= 0; i-- {
		if k := strings.LastIndex(l.lead[i], "\n"); k >= 0 {
			return leadingSpace(l.lead[i][k+1:])
		}
		if l.breakBefore(i) {
			return leadingSpace(l.lead[i])
		}
	}
	return ""
}

func (l *layout) rebuild(n *syntax.Node, idx *int, a syntax.Annotation) *syntax.Node {
	if n.Kind == syntax.KindToken {
		i := *idx
		*idx++
		if l.lead[i] == n.Token.Leading && l.trail[i] == n.Token.Trailing {
			return n
		}
		return n.WithTrivia(l.lead[i], l.trail[i])
	}

	changed := false
	children := make([]*syntax.Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = l.rebuild(c, idx, a)
		if children[i] != c {
			changed = true
		}
	}
	out := n
	if changed {
		out = n.WithChildren(children)
	}
	if out.HasAnnotation(a) {
		out = out.WithoutAnnotations(a)
	}
	return out
}

func indentAfterBreak(lead string) string {
	if k := strings.LastIndex(lead, "\n"); k >= 0 {
		return leadingSpace(lead[k+1:])
	}
	return leadingSpace(lead)
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// spaceBetween reports whether a single space separates a and b in
// formatted code.
func spaceBetween(a, b *syntax.Token) bool {
	switch b.Kind {
	case syntax.TokenSemicolon, syntax.TokenComma, syntax.TokenRParen, syntax.TokenRBracket,
		syntax.TokenDot, syntax.TokenQuestionDot, syntax.TokenQuestion, syntax.TokenGT,
		syntax.TokenLBracket, syntax.TokenLT, syntax.TokenStar, syntax.TokenColonColon, syntax.TokenEOF:
		return false
	case syntax.TokenLParen:
		if a.Kind == syntax.TokenIdent || a.Kind == syntax.TokenGT {
			return false
		}
	}
	switch a.Kind {
	case syntax.TokenLParen, syntax.TokenLBracket, syntax.TokenDot, syntax.TokenQuestionDot,
		syntax.TokenLT, syntax.TokenColonColon:
		return false
	}
	return true
}
