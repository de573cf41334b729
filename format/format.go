package format

import (
	"io"

	"github.com/dhamidi/sharp/csharp/syntax"
)

// Encoder writes a syntax tree in some textual form.
type Encoder interface {
	Encode(node *syntax.Node) error
	MarshalText(node *syntax.Node) ([]byte, error)
}

// NewEncoder returns the encoder registered under name ("json", "tree" or
// "lines"), or nil.
func NewEncoder(name string, w io.Writer, positions bool) Encoder {
	switch name {
	case "json":
		return NewASTJSONEncoder(w)
	case "tree":
		return &TreeEncoder{w: w, Positions: positions}
	case "lines":
		return NewLineEncoder(w)
	}
	return nil
}
