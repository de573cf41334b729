package syntax

import "encoding/json"

// nodeJSON is the dump format of a node. Token leaves carry their trivia so
// the source can be rebuilt from the dump.
type nodeJSON struct {
	Kind        string      `json:"kind"`
	Range       *rangeJSON  `json:"range,omitempty"`
	Token       *tokenJSON  `json:"token,omitempty"`
	Error       *errorJSON  `json:"error,omitempty"`
	Annotations []string    `json:"annotations,omitempty"`
	Children    []*nodeJSON `json:"children,omitempty"`
}

type tokenJSON struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Leading  string `json:"leading,omitempty"`
	Trailing string `json:"trailing,omitempty"`
}

// rangeJSON holds 1-based line:column positions and byte offsets.
type rangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Bytes [2]int `json:"bytes"`
}

type errorJSON struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(dumpNode(n))
}

func dumpNode(n *Node) *nodeJSON {
	out := &nodeJSON{Kind: n.Kind.String()}

	// Synthesized nodes have no source range.
	if n.Span.Start.Line > 0 {
		out.Range = &rangeJSON{
			Start: n.Span.Start.String(),
			End:   n.Span.End.String(),
			Bytes: [2]int{n.Span.Start.Offset, n.Span.End.Offset},
		}
	}
	if tok := n.Token; tok != nil {
		out.Token = &tokenJSON{
			Kind:     tok.Kind.String(),
			Text:     tok.Literal,
			Leading:  tok.Leading,
			Trailing: tok.Trailing,
		}
	}
	if e := n.Error; e != nil {
		out.Error = &errorJSON{Message: e.Message}
		for _, k := range e.Expected {
			out.Error.Expected = append(out.Error.Expected, k.String())
		}
		if e.Got != nil {
			out.Error.Got = e.Got.Literal
		}
	}
	for _, a := range n.Annotations() {
		out.Annotations = append(out.Annotations, a.Kind)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, dumpNode(c))
	}
	return out
}
