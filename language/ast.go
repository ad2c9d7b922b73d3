package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	QueryDocument       = ast.QueryDocument
	OperationDefinition = ast.OperationDefinition
	SelectionSet        = ast.SelectionSet
	Selection           = ast.Selection
	Field               = ast.Field
	Argument            = ast.Argument
	ArgumentList        = ast.ArgumentList
	Value               = ast.Value
)

type Operation = ast.Operation

const (
	Query    Operation = ast.Query
	Mutation Operation = ast.Mutation
)
