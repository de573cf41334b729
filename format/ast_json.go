package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/sharp/csharp/syntax"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *syntax.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *syntax.Node) ([]byte, error) {
	return json.MarshalIndent(node, "", "  ")
}

// TreeEncoder prints one node per line, indented by depth.
type TreeEncoder struct {
	w         io.Writer
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node *syntax.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node *syntax.Node) ([]byte, error) {
	if e.Positions {
		return []byte(node.StringWithPositions()), nil
	}
	return []byte(node.String()), nil
}
