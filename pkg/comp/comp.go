// Package comp compiles comprehension expressions such as
//
//	x * 2 for x in xs if x > 0
//
// into lazy sequences, and renders them as Go source.
package comp

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/codegen"
	"github.com/funvibe/comp/internal/compiler"
	"github.com/funvibe/comp/internal/evaluator"
	"github.com/funvibe/comp/internal/lexer"
	"github.com/funvibe/comp/internal/parser"
	"github.com/funvibe/comp/internal/pipeline"
	"github.com/funvibe/comp/internal/prettyprinter"
	"github.com/funvibe/comp/pkg/seq"
)

// Vars are the outer variables a comprehension is evaluated with. Values
// are converted by Marshaller.ToValue.
type Vars map[string]any

type options struct {
	ctx  context.Context
	db   *sql.DB
	file string
}

// Option configures Compile.
type Option func(*options)

// WithDB makes db available to query(...).
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// WithFile names the source in diagnostics.
func WithFile(name string) Option {
	return func(o *options) { o.file = name }
}

// WithContext sets the context database queries run under.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// Query is a compiled comprehension. It is not safe for concurrent use;
// compile once per goroutine.
type Query struct {
	root       *ast.Comprehension
	pipeline   compiler.Pipeline[evaluator.Object, *evaluator.Environment]
	plan       string
	machine    *evaluator.Evaluator
	marshaller *Marshaller
}

// Compile parses src and builds its pipeline. A syntax error is returned
// as a *diagnostics.DiagnosticError; nothing is evaluated.
func Compile(src string, opts ...Option) (*Query, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}

	machine := evaluator.New()
	machine.Context = o.ctx
	machine.DB = o.db

	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = o.file
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		compiler.NewCompilerProcessor[evaluator.Object, *evaluator.Environment](machine),
	).Run(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled, ok := ctx.Compiled.(compiler.Pipeline[evaluator.Object, *evaluator.Environment])
	if !ok {
		return nil, fmt.Errorf("unexpected compiled pipeline %T", ctx.Compiled)
	}
	return &Query{
		root:       ctx.AstRoot,
		pipeline:   compiled,
		plan:       ctx.Plan,
		machine:    machine,
		marshaller: NewMarshaller(),
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, opts ...Option) *Query {
	q, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// Objects evaluates the comprehension lazily and yields evaluator objects.
// The first error ends the sequence.
func (q *Query) Objects(vars Vars) iter.Seq2[evaluator.Object, error] {
	env, err := q.marshaller.Vars(vars)
	if err != nil {
		return seq.Fail[evaluator.Object](err)
	}
	return q.pipeline(env)
}

// Eval evaluates the comprehension lazily and yields Go values, converted
// by Marshaller.FromValue.
func (q *Query) Eval(vars Vars) iter.Seq2[any, error] {
	return seq.TryFilterMap(q.Objects(vars), func(obj evaluator.Object) (any, bool, error) {
		v, err := q.marshaller.FromValue(obj)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
}

// Collect drains Eval. It never returns on an infinite comprehension.
func (q *Query) Collect(vars Vars) ([]any, error) {
	out, err := seq.Collect(q.Eval(vars))
	if out == nil && err == nil {
		out = []any{}
	}
	return out, err
}

// Go renders the comprehension as a Go function returning iter.Seq.
func (q *Query) Go(opts codegen.Options) (string, error) {
	return codegen.Generate(q.root, opts)
}

// String returns the canonical source of the comprehension.
func (q *Query) String() string {
	return prettyprinter.Print(q.root)
}

// Plan describes the pipeline, outermost layer first.
func (q *Query) Plan() string {
	return q.plan
}

// Tree returns the syntax tree, one node per line.
func (q *Query) Tree() string {
	return prettyprinter.Tree(q.root)
}

// Value evaluates a single host expression, such as the right-hand side
// of a -var flag, with vars in scope.
func Value(src string, vars Vars) (evaluator.Object, error) {
	ctx := pipeline.New(&lexer.LexerProcessor{}).Run(pipeline.NewPipelineContext(src))
	expr := parser.ParseExpression(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := NewMarshaller()
	env, err := m.Vars(vars)
	if err != nil {
		return nil, err
	}
	result := evaluator.New().Eval(expr, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		return nil, errObj
	}
	return result, nil
}
