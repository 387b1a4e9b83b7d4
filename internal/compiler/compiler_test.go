package compiler_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/compiler"
	"github.com/funvibe/comp/internal/evaluator"
	"github.com/funvibe/comp/internal/lexer"
	"github.com/funvibe/comp/internal/parser"
	"github.com/funvibe/comp/internal/pipeline"
	"github.com/funvibe/comp/pkg/seq"
)

func parse(t *testing.T, input string) *ast.Comprehension {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext(input))
	require.NoError(t, ctx.Err(), "input: %s", input)
	return ctx.AstRoot
}

// countingHost records how much work the pipeline asks of the evaluator.
type countingHost struct {
	*evaluator.Evaluator
	iterated int // sources evaluated
	pulled   int // elements drawn from sources
	bound    int
	tested   int
	mapped   int
}

func newCountingHost() *countingHost {
	return &countingHost{Evaluator: evaluator.New()}
}

func (h *countingHost) Iterate(source ast.Expression, scope *evaluator.Environment) iter.Seq2[evaluator.Object, error] {
	return func(yield func(evaluator.Object, error) bool) {
		h.iterated++
		for v, err := range h.Evaluator.Iterate(source, scope) {
			h.pulled++
			if !yield(v, err) {
				return
			}
		}
	}
}

func (h *countingHost) Bind(p ast.Pattern, elem evaluator.Object, scope *evaluator.Environment) (*evaluator.Environment, bool, error) {
	h.bound++
	return h.Evaluator.Bind(p, elem, scope)
}

func (h *countingHost) Test(cond ast.Expression, scope *evaluator.Environment) (bool, error) {
	h.tested++
	return h.Evaluator.Test(cond, scope)
}

func (h *countingHost) Map(mapping ast.Expression, scope *evaluator.Environment) (evaluator.Object, error) {
	h.mapped++
	return h.Evaluator.Map(mapping, scope)
}

type objectHost = compiler.Host[evaluator.Object, *evaluator.Environment]

func compile(t *testing.T, input string, host objectHost) compiler.Pipeline[evaluator.Object, *evaluator.Environment] {
	t.Helper()
	return compiler.Compile[evaluator.Object, *evaluator.Environment](parse(t, input), host)
}

func collect(t *testing.T, host objectHost, input string) []string {
	t.Helper()
	p := compile(t, input, host)
	objs, err := seq.Collect(p(evaluator.NewEnvironment()))
	require.NoError(t, err)
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Inspect()
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"filter_order", "x + 1 for x in [1, 2, 3] if x != 3 if x != 2", []string{"2"}},
		{"nested_loop_order", "a * b for a in [1, 2] for b in [10, 20]", []string{"10", "20", "20", "40"}},
		{"three_layers", "a + b + c for a in [100, 200] for b in [10] for c in [1, 2]", []string{"111", "112", "211", "212"}},
		{"empty_outer", "a for a in [] for b in [1, 2]", []string{}},
		{"empty_inner", "a for a in [1, 2] for b in []", []string{}},
		{"all_filtered", "a for a in [1, 2] if a > 5", []string{}},
		{"inner_filters_only_inner", "(a, b) for a in [1, 2] for b in [1, 2] if b == a", []string{"(1, 1)", "(2, 2)"}},
		{"outer_filter_prunes", "(a, b) for a in [1, 2] if a == 2 for b in [7, 8]", []string{"(2, 7)", "(2, 8)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, collect(t, evaluator.New(), tt.input))
		})
	}
}

func TestConditionsShortCircuit(t *testing.T) {
	host := newCountingHost()
	// 10 / (x - 2) would divide by zero for x = 2 if the first condition
	// did not stop it.
	got := collect(t, host, "x for x in [1, 2, 3] if x != 2 if 10 / (x - 2) > 0")
	require.Equal(t, []string{"3"}, got)
	require.Equal(t, 5, host.tested)
	require.Equal(t, 1, host.mapped)
}

func TestCompileDoesNoWork(t *testing.T) {
	host := newCountingHost()
	p := compile(t, "x for x in undefined", host)
	s := p(evaluator.NewEnvironment())
	require.Zero(t, host.iterated)

	for range s {
		break
	}
	require.Equal(t, 1, host.iterated)
}

func TestEarlyTermination(t *testing.T) {
	host := newCountingHost()
	p := compile(t, "x * 2 for x in count()", host)

	objs, err := seq.Collect(seq.Limit(p(evaluator.NewEnvironment()), 5))
	require.NoError(t, err)
	require.Len(t, objs, 5)
	require.Equal(t, 5, host.pulled)
	require.Equal(t, 5, host.mapped)
}

func TestEarlyTerminationNested(t *testing.T) {
	host := newCountingHost()
	p := compile(t, "(a, b) for a in count() for b in count()", host)

	objs, err := seq.Collect(seq.Limit(p(evaluator.NewEnvironment()), 3))
	require.NoError(t, err)
	require.Equal(t, "(0, 2)", objs[2].Inspect())
	// One element of the outer source, three of the inner one.
	require.Equal(t, 2, host.iterated)
	require.Equal(t, 4, host.pulled)
}

func TestInnerSourcePerOuterElement(t *testing.T) {
	host := newCountingHost()
	got := collect(t, host, "b for a in [1, 2, 3] if a != 2 for b in [a, a * 10]")
	require.Equal(t, []string{"1", "10", "3", "30"}, got)
	// Outer source once, inner source once per admitted outer element.
	require.Equal(t, 3, host.iterated)
	require.Equal(t, 4, host.mapped)
}

func TestPatternMismatchSkips(t *testing.T) {
	host := newCountingHost()
	got := collect(t, host, "a for (a, b) in [(1, 2), 3, (4, 5)] if a > 0")
	require.Equal(t, []string{"1", "4"}, got)
	require.Equal(t, 3, host.bound)
	// The condition is never tested against the element that did not bind.
	require.Equal(t, 2, host.tested)
}

func TestErrorsAreYieldedOnceUnwrapped(t *testing.T) {
	for _, input := range []string{
		"1 / x for x in [1, 0, 2]",
		"y for x in [1, 0, 2] for y in [1 / x]",
		"x for x in [1, 0, 2] if 1 / x > 0",
		"x for x in [1, 2] for y in missing",
	} {
		t.Run(input, func(t *testing.T) {
			p := compile(t, input, evaluator.New())
			var errs []error
			values := 0
			for _, err := range p(evaluator.NewEnvironment()) {
				if err != nil {
					errs = append(errs, err)
					continue
				}
				values++
			}
			require.Len(t, errs, 1)
			_, ok := errs[0].(*evaluator.Error)
			require.True(t, ok, "error was wrapped: %T", errs[0])
			require.Nil(t, errors.Unwrap(errs[0]))
			require.LessOrEqual(t, values, 1)
		})
	}
}

func TestFold(t *testing.T) {
	c := parse(t, "m for a in xs for b in ys for c in zs")
	var order []string
	got := compiler.Fold(c,
		func(clause *ast.Clause, mapping ast.Expression) int {
			order = append(order, "base:"+clause.Pattern.TokenLiteral()+":"+mapping.TokenLiteral())
			return 1
		},
		func(clause *ast.Clause, inner int) int {
			order = append(order, "step:"+clause.Pattern.TokenLiteral())
			return inner + 1
		},
	)
	require.Equal(t, 3, got)
	require.Equal(t, []string{"base:c:m", "step:b", "step:a"}, order)
}

func TestExplain(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"x + 1 for x in [1, 2, 3] if x != 3 if x != 2",
			"filter_map([1, 2, 3], x, [x != 3, x != 2], x + 1)",
		},
		{
			"a * b for a in [1, 2] for b in [10, 20]",
			"flatten(filter_map([1, 2], a, [], filter_map([10, 20], b, [], a * b)))",
		},
		{
			"x for a in xs if a > 0 for b in ys for x in zs",
			"flatten(filter_map(xs, a, [a > 0], flatten(filter_map(ys, b, [], filter_map(zs, x, [], x)))))",
		},
		{
			"a for (a, _) in pairs",
			"filter_map(pairs, (a, _), [], a)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, compiler.Explain(parse(t, tt.input)))
		})
	}
}

func TestCompilerProcessor(t *testing.T) {
	host := evaluator.New()
	stages := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, compiler.NewCompilerProcessor(host))

	ctx := stages.Run(pipeline.NewPipelineContext("x * x for x in 1..3"))
	require.NoError(t, ctx.Err())
	require.Equal(t, "filter_map(1..3, x, [], x * x)", ctx.Plan)

	p, ok := ctx.Compiled.(compiler.Pipeline[evaluator.Object, *evaluator.Environment])
	require.True(t, ok, "compiled stage output is %T", ctx.Compiled)
	objs, err := seq.Collect(p(evaluator.NewEnvironment()))
	require.NoError(t, err)
	require.Len(t, objs, 3)

	ctx = stages.Run(pipeline.NewPipelineContext("x for x xs"))
	require.Error(t, ctx.Err())
	require.Nil(t, ctx.Compiled)
	require.Empty(t, ctx.Plan)
}
