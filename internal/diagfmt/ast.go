package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rebasic/internal/ast"
	"rebasic/internal/source"
)

// NodeJSON — узел дерева в JSON-дампе.
type NodeJSON struct {
	Kind     string            `json:"kind"`
	Name     string            `json:"name,omitempty"`
	Text     string            `json:"text,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
	Span     source.Span       `json:"span"`
	Children []NodeJSON        `json:"children,omitempty"`
}

// FormatASTPretty печатает дерево с отступами, по узлу на строку:
// kind [name] [text] позиция.
func FormatASTPretty(w io.Writer, root *ast.Node, fs *source.FileSet) error {
	if root == nil {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}
	var dump func(n *ast.Node, depth int)
	dump = func(n *ast.Node, depth int) {
		fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), n.Kind.String())
		if n.Name != "" {
			fmt.Fprintf(w, " %q", n.Name)
		}
		if n.Text != "" && n.Text != n.Name {
			fmt.Fprintf(w, " <%s>", n.Text)
		}
		fmt.Fprintf(w, " @%s\n", formatSpan(n.Span, fs))
		for _, c := range n.Children {
			dump(c, depth+1)
		}
	}
	dump(root, 0)
	return nil
}

// FormatASTJSON пишет дерево вложенным JSON.
func FormatASTJSON(w io.Writer, root *ast.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if root == nil {
		return enc.Encode(nil)
	}
	return enc.Encode(nodeJSON(root))
}

func nodeJSON(n *ast.Node) NodeJSON {
	out := NodeJSON{
		Kind: n.Kind.String(),
		Name: n.Name,
		Text: n.Text,
		Meta: n.Meta,
		Span: n.Span,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, nodeJSON(c))
	}
	return out
}
