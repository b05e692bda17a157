package gqlclient

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Request is an immutable query document and variable mapping pair.
// Variables may be nil for documents that take no arguments.
type Request struct {
	Query     string
	Variables map[string]any
}

// ValidateQuery parses the document and reports syntax problems before any
// network activity. Validation against the remote schema is the server's job;
// only well-formedness is checked here.
func ValidateQuery(query string) error {
	if _, err := parser.ParseQuery(&ast.Source{Input: query}); err != nil {
		return ErrSyntax.Err(err)
	}
	return nil
}
