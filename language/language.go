// Package language re-exports the gqlparser AST surface the engine consumes.
// Parsing is owned by the caller; this package only provides the entry point
// and the aliases so the rest of the module does not import gqlparser directly.
package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
