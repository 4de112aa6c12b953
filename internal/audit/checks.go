package audit

import "strings"

// Violation messages, one per check.
const (
	IssueShortDescription = "Short description missing or too long."
	IssueMissingArgs      = "Missing Args section."
	IssueMissingReturns   = "Missing Returns section."
	IssueMissingTypeHints = "Missing type hints."
)

// InitializerName is exempt from the return annotation requirement.
const InitializerName = "__init__"

// Section markers recognized in docstrings.
//
//nolint:gochecknoglobals // read-only marker lists
var (
	paramsMarkers  = []string{"Args:", "Parameters:"}
	returnsMarkers = []string{"Returns:", "Return:"}
)

// Check is one independent rule applied to a declaration.
type Check struct {
	Issue string

	// FunctionsOnly skips classes.
	FunctionsOnly bool

	Passes func(d Declaration) bool
}

// DefaultChecks returns the four declaration rules in reporting order.
func DefaultChecks() []Check {
	return []Check{
		{Issue: IssueShortDescription, Passes: HasShortDescription},
		{Issue: IssueMissingArgs, FunctionsOnly: true, Passes: HasParamsSection},
		{Issue: IssueMissingReturns, FunctionsOnly: true, Passes: HasReturnsSection},
		{Issue: IssueMissingTypeHints, FunctionsOnly: true, Passes: HasTypeHints},
	}
}

// HasShortDescription reports whether the docstring is non-blank and at most two lines.
func HasShortDescription(d Declaration) bool {
	doc := strings.TrimSpace(d.Doc)
	if doc == "" {
		return false
	}
	return len(strings.Split(doc, "\n")) <= 2
}

// HasParamsSection reports whether the docstring carries a parameters marker.
func HasParamsSection(d Declaration) bool {
	return containsAny(d.Doc, paramsMarkers)
}

// HasReturnsSection reports whether the docstring carries a returns marker.
func HasReturnsSection(d Declaration) bool {
	return containsAny(d.Doc, returnsMarkers)
}

// HasTypeHints reports whether every non-receiver parameter is annotated and,
// except for the initializer, a return type is declared.
func HasTypeHints(d Declaration) bool {
	for _, p := range d.Params {
		if !p.Receiver && !p.Annotated {
			return false
		}
	}
	return d.Name == InitializerName || d.HasReturnType
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Visitor receives the declarations of one file in document order.
type Visitor interface {
	VisitDeclaration(file string, d Declaration)
}

// Walk calls v for every declaration of file.
func Walk(file string, decls []Declaration, v Visitor) {
	for _, d := range decls {
		v.VisitDeclaration(file, d)
	}
}

// checkVisitor applies checks and accumulates one Violation per failed check.
type checkVisitor struct {
	checks     []Check
	violations []Violation
}

func (c *checkVisitor) VisitDeclaration(file string, d Declaration) {
	for _, check := range c.checks {
		if check.FunctionsOnly && !d.IsFunction() {
			continue
		}
		if !check.Passes(d) {
			c.violations = append(c.violations, Violation{File: file, Symbol: d.Name, Issue: check.Issue})
		}
	}
}
