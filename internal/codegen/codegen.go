// Package codegen renders a comprehension as Go source built on pkg/seq.
//
// The clause list is folded the same way the compiler folds it: the
// innermost clause becomes a seq.FilterMap yielding the mapping, every
// enclosing clause a seq.FilterMap yielding the inner sequence, flattened.
// Only the part of the expression language that has a direct Go spelling
// can be rendered; everything else is reported as a C001 diagnostic.
package codegen

import (
	"fmt"
	gotoken "go/token"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/compiler"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/prettyprinter"
)

// SeqImportPath is the import path of the sequence helpers emitted code uses.
const SeqImportPath = "github.com/funvibe/comp/pkg/seq"

// Param is a parameter of the generated function. Free variables of the
// comprehension are expected to be declared here.
type Param struct {
	Name string
	Type string
}

// Options control the generated file.
type Options struct {
	Package  string // default "main"
	FuncName string // default "Comprehension"
	// ElemType is the element type of sources whose type is not known
	// from Params: list literals, ranges and nested comprehensions.
	ElemType   string // default "int"
	ResultType string // default ElemType
	Params     []Param
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "main"
	}
	if o.FuncName == "" {
		o.FuncName = "Comprehension"
	}
	if o.ElemType == "" {
		o.ElemType = "int"
	}
	if o.ResultType == "" {
		o.ResultType = o.ElemType
	}
	return o
}

// Generate renders c as a complete, gofmt-formatted Go file declaring
//
//	func FuncName(params...) iter.Seq[ResultType]
func Generate(c *ast.Comprehension, opts Options) (string, error) {
	opts = opts.withDefaults()
	if !gotoken.IsIdentifier(opts.FuncName) {
		return "", fmt.Errorf("invalid function name %q", opts.FuncName)
	}
	if !gotoken.IsIdentifier(opts.Package) {
		return "", fmt.Errorf("invalid package name %q", opts.Package)
	}

	e := newEmitter(opts)
	params := make([]string, 0, len(opts.Params))
	for _, p := range opts.Params {
		if !gotoken.IsIdentifier(p.Name) || p.Type == "" {
			return "", fmt.Errorf("invalid parameter %q %q", p.Name, p.Type)
		}
		params = append(params, p.Name+" "+p.Type)
	}

	body := e.comprehension(c, opts.ResultType)
	if e.err != nil {
		return "", e.err
	}

	data := struct {
		Package  string
		FuncName string
		Source   string
		Params   string
		Result   string
		Imports  []string
		Body     string
	}{
		Package:  opts.Package,
		FuncName: opts.FuncName,
		Source:   prettyprinter.Print(c),
		Params:   strings.Join(params, ", "),
		Result:   opts.ResultType,
		Imports:  e.sortedImports(),
		Body:     body,
	}

	var buf strings.Builder
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	out, err := imports.Process(opts.FuncName+".go", []byte(buf.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("formatting generated source: %w", err)
	}
	return string(out), nil
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by comp. DO NOT EDIT.

package {{.Package}}

import (
	"iter"
{{- range .Imports}}
	"{{.}}"
{{- end}}
)

// {{.FuncName}} yields the comprehension
//
//	{{.Source}}
func {{.FuncName}}({{.Params}}) iter.Seq[{{.Result}}] {
	return {{.Body}}
}
`))

// emitter accumulates the imports a rendering needs and the first error.
type emitter struct {
	opts    Options
	params  map[string]string
	imports map[string]bool
	err     *diagnostics.DiagnosticError
}

func newEmitter(opts Options) *emitter {
	params := make(map[string]string, len(opts.Params))
	for _, p := range opts.Params {
		params[p.Name] = p.Type
	}
	return &emitter{
		opts:    opts,
		params:  params,
		imports: map[string]bool{SeqImportPath: true},
	}
}

// fail records err unless an error further left in the source is already
// recorded.
func (e *emitter) fail(node ast.Node, format string, args ...interface{}) string {
	tok := node.GetToken()
	if e.err == nil || tok.Offset < e.err.Token.Offset {
		e.err = diagnostics.NewError(diagnostics.ErrC001, tok, format, args...)
	}
	return ""
}

func (e *emitter) use(path string) {
	e.imports[path] = true
}

func (e *emitter) sortedImports() []string {
	paths := make([]string, 0, len(e.imports))
	for p := range e.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// comprehension renders c as an iter.Seq[result] expression.
func (e *emitter) comprehension(c *ast.Comprehension, result string) string {
	return compiler.Fold(c,
		func(clause *ast.Clause, mapping ast.Expression) string {
			return fmt.Sprintf("seq.FilterMap(%s, func(%s %s) (%s, bool) {\n%sreturn %s, true\n})",
				e.source(clause.Source), e.pattern(clause.Pattern), e.elemType(clause.Source), result,
				e.guards(clause, "*new("+result+")"), e.expr(mapping))
		},
		func(clause *ast.Clause, inner string) string {
			return fmt.Sprintf("seq.Flatten(seq.FilterMap(%s, func(%s %s) (iter.Seq[%s], bool) {\n%sreturn %s, true\n}))",
				e.source(clause.Source), e.pattern(clause.Pattern), e.elemType(clause.Source), result,
				e.guards(clause, "nil"), inner)
		},
	)
}

// guards renders the conditions of clause as early returns, in order.
func (e *emitter) guards(clause *ast.Clause, zero string) string {
	var b strings.Builder
	for _, cond := range clause.Conditions {
		fmt.Fprintf(&b, "if !(%s) {\nreturn %s, false\n}\n", e.expr(cond), zero)
	}
	return b.String()
}

func (e *emitter) pattern(p ast.Pattern) string {
	switch p := p.(type) {
	case *ast.IdentifierPattern:
		return ident(p.Value)
	case *ast.WildcardPattern:
		return "_"
	}
	return e.fail(p, "pattern %s has no Go rendering, use an identifier or _", prettyprinter.Print(p))
}

// elemType is the Go element type of a clause source.
func (e *emitter) elemType(source ast.Expression) string {
	if id, ok := source.(*ast.Identifier); ok {
		if typ, ok := e.params[id.Value]; ok {
			if elem, ok := strings.CutPrefix(typ, "iter.Seq["); ok && strings.HasSuffix(elem, "]") {
				return strings.TrimSuffix(elem, "]")
			}
			if elem, ok := strings.CutPrefix(typ, "[]"); ok {
				return elem
			}
		}
	}
	return e.opts.ElemType
}

// ident renders a host identifier, avoiding Go keywords.
func ident(name string) string {
	if gotoken.IsKeyword(name) {
		return name + "_"
	}
	return name
}
