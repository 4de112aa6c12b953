package audit

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// SyntaxError reports the first syntax error tree-sitter recovered from.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Column)
}

// Unwrap allows errors.Is(err, ErrSourceParse).
func (e *SyntaxError) Unwrap() error {
	return qgerrors.ErrSourceParse
}

// Parser turns Python source into declarations. A Parser is not safe for
// concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a Python parser.
func NewParser() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{parser: parser}
}

// Close frees the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Parse returns the declarations of source in document order (a declaration
// precedes the declarations nested in it). Any syntax error yields a
// *SyntaxError and no declarations.
func (p *Parser) Parse(ctx context.Context, source []byte) ([]Declaration, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &SyntaxError{Msg: "empty parse tree", Line: 1}
	}
	if root.HasError() {
		return nil, syntaxErrorAt(root)
	}
	if bad := firstRejectedNode(root); bad != nil {
		return nil, &SyntaxError{
			Msg:    rejectedMessage(bad),
			Line:   int(bad.StartPoint().Row) + 1,
			Column: int(bad.StartPoint().Column) + 1,
		}
	}

	b := &declBuilder{source: source}
	b.visit(root)
	return b.decls, nil
}

// syntaxErrorAt locates the first ERROR or MISSING node under n.
func syntaxErrorAt(n *sitter.Node) *SyntaxError {
	if bad := firstErrorNode(n); bad != nil {
		msg := "invalid syntax"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing %q", bad.Type())
		}
		return &SyntaxError{
			Msg:    msg,
			Line:   int(bad.StartPoint().Row) + 1,
			Column: int(bad.StartPoint().Column) + 1,
		}
	}
	return &SyntaxError{Msg: "invalid syntax", Line: int(n.StartPoint().Row) + 1, Column: 1}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// firstRejectedNode finds constructs tree-sitter accepts without an ERROR
// node but Python 3 does not: Python 2 print and exec statements, and blocks
// with no statement (an unindented body parses as an empty block).
func firstRejectedNode(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "print_statement", "exec_statement":
		return n
	case "block":
		if !hasStatement(n) {
			return n
		}
	case "function_definition", "class_definition":
		if n.ChildByFieldName("body") == nil {
			return n
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := firstRejectedNode(n.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

func hasStatement(block *sitter.Node) bool {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		if block.NamedChild(i).Type() != "comment" {
			return true
		}
	}
	return false
}

func rejectedMessage(n *sitter.Node) string {
	switch n.Type() {
	case "print_statement":
		return "missing parentheses in call to 'print'"
	case "exec_statement":
		return "missing parentheses in call to 'exec'"
	default:
		return "expected an indented block"
	}
}

// declBuilder walks the concrete syntax tree and collects declarations.
type declBuilder struct {
	source []byte
	decls  []Declaration
}

func (b *declBuilder) visit(n *sitter.Node) {
	switch n.Type() {
	case "function_definition":
		b.decls = append(b.decls, b.function(n))
	case "class_definition":
		b.decls = append(b.decls, b.class(n))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.visit(n.NamedChild(i))
	}
}

func (b *declBuilder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.source)
}

func (b *declBuilder) function(n *sitter.Node) Declaration {
	d := Declaration{
		Kind:          KindFunction,
		Name:          b.text(n.ChildByFieldName("name")),
		Line:          int(n.StartPoint().Row) + 1,
		HasReturnType: n.ChildByFieldName("return_type") != nil,
	}
	if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		d.Kind = KindAsyncFunction
	}
	d.Params = b.params(n.ChildByFieldName("parameters"))
	d.Doc, d.HasDoc = b.docstring(n.ChildByFieldName("body"))
	return d
}

func (b *declBuilder) class(n *sitter.Node) Declaration {
	d := Declaration{
		Kind: KindClass,
		Name: b.text(n.ChildByFieldName("name")),
		Line: int(n.StartPoint().Row) + 1,
	}
	d.Doc, d.HasDoc = b.docstring(n.ChildByFieldName("body"))
	return d
}

func (b *declBuilder) params(list *sitter.Node) []Param {
	if list == nil {
		return nil
	}
	var params []Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		var p Param
		switch c.Type() {
		case "identifier":
			p = Param{Name: b.text(c)}
		case "typed_parameter":
			p = Param{Name: b.text(c.NamedChild(0)), Annotated: true}
		case "default_parameter":
			p = Param{Name: b.text(c.ChildByFieldName("name"))}
		case "typed_default_parameter":
			p = Param{Name: b.text(c.ChildByFieldName("name")), Annotated: true}
		case "keyword_separator", "positional_separator", "comment":
			continue
		default:
			// list_splat_pattern, dictionary_splat_pattern and anything older grammars emit.
			p = Param{Name: b.text(c)}
		}
		if len(params) == 0 && (p.Name == "self" || p.Name == "cls") {
			p.Receiver = true
		}
		params = append(params, p)
	}
	return params
}

// docstring returns the cleaned docstring of a block: its first statement,
// when that statement is a plain (non-bytes, non-f) string literal.
func (b *declBuilder) docstring(block *sitter.Node) (string, bool) {
	if block == nil {
		return "", false
	}
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return "", false
		}
		expr := stmt.NamedChild(0)
		switch expr.Type() {
		case "string":
			raw, ok := literalValue(b.text(expr))
			if !ok {
				return "", false
			}
			return CleanDoc(raw), true
		case "concatenated_string":
			var sb strings.Builder
			for j := 0; j < int(expr.NamedChildCount()); j++ {
				part := expr.NamedChild(j)
				if part.Type() != "string" {
					continue
				}
				raw, ok := literalValue(b.text(part))
				if !ok {
					return "", false
				}
				sb.WriteString(raw)
			}
			return CleanDoc(sb.String()), true
		default:
			return "", false
		}
	}
	return "", false
}

// unescaper handles the escapes that occur in docstrings in practice.
var unescaper = strings.NewReplacer( //nolint:gochecknoglobals // immutable replacer
	`\\`, `\`,
	`\n`, "\n",
	`\t`, "\t",
	`\"`, `"`,
	`\'`, `'`,
	"\\\n", "",
)

// literalValue strips the prefix and quotes of a Python string literal.
// Bytes and f-strings are not docstrings.
func literalValue(lit string) (string, bool) {
	i := 0
	for i < len(lit) && lit[i] != '"' && lit[i] != '\'' {
		i++
	}
	prefix := strings.ToLower(lit[:i])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}

	body := lit[i:]
	switch {
	case len(body) >= 6 && (strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`)):
		body = body[3 : len(body)-3]
	case len(body) >= 2:
		body = body[1 : len(body)-1]
	default:
		return "", false
	}

	if !strings.Contains(prefix, "r") {
		body = unescaper.Replace(body)
	}
	return body, true
}
