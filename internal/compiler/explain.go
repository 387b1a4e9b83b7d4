package compiler

import (
	"strings"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/prettyprinter"
)

// Explain renders the pipeline shape of c, for example
//
//	flatten(filter_map(xs, x, [x > 0], filter_map(ys, y, [], x * y)))
func Explain(c *ast.Comprehension) string {
	return Fold(c,
		func(clause *ast.Clause, mapping ast.Expression) string {
			return layer(clause, prettyprinter.Print(mapping))
		},
		func(clause *ast.Clause, inner string) string {
			return "flatten(" + layer(clause, inner) + ")"
		},
	)
}

func layer(clause *ast.Clause, body string) string {
	conds := make([]string, len(clause.Conditions))
	for i, cond := range clause.Conditions {
		conds[i] = prettyprinter.Print(cond)
	}
	var b strings.Builder
	b.WriteString("filter_map(")
	b.WriteString(prettyprinter.Print(clause.Source))
	b.WriteString(", ")
	b.WriteString(prettyprinter.Print(clause.Pattern))
	b.WriteString(", [")
	b.WriteString(strings.Join(conds, ", "))
	b.WriteString("], ")
	b.WriteString(body)
	b.WriteString(")")
	return b.String()
}
