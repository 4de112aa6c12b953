// Package audit checks the documentation shape and type annotations of every
// function, async function and class declared in a Python source tree.
package audit

// Kind is the kind of a declaration.
type Kind string

// Declaration kinds.
const (
	KindFunction      Kind = "function"
	KindAsyncFunction Kind = "async function"
	KindClass         Kind = "class"
)

// Param is one formal parameter of a function.
type Param struct {
	Name      string
	Annotated bool

	// Receiver is set for a leading self or cls parameter.
	Receiver bool
}

// Declaration is the typed view of a def, async def or class statement.
type Declaration struct {
	Kind Kind
	Name string
	Line int

	// Params and HasReturnType are only populated for functions.
	Params        []Param
	HasReturnType bool

	// Doc is the cleaned docstring, empty when HasDoc is false.
	Doc    string
	HasDoc bool
}

// IsFunction reports whether d is a function or async function.
func (d Declaration) IsFunction() bool {
	return d.Kind == KindFunction || d.Kind == KindAsyncFunction
}

// Violation is one failed check on one declaration.
type Violation struct {
	File   string `json:"file"`
	Symbol string `json:"symbol"`
	Issue  string `json:"issue"`
}

// ParseSymbol is the Symbol of a violation reporting an unparsable file.
const ParseSymbol = "<parse>"
