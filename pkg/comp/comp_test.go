package comp_test

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/funvibe/comp/internal/codegen"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/evaluator"
	"github.com/funvibe/comp/pkg/comp"
)

// Person is exposed to comprehensions as a record of its exported fields.
type Person struct {
	Name string
	Age  int
	note string
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		vars  comp.Vars
		want  []any
	}{
		{"filters", "x + 1 for x in [1, 2, 3] if x != 3 if x != 2", nil, []any{int64(2)}},
		{"nested", "a * b for a in [1, 2] for b in [10, 20]", nil, []any{int64(10), int64(20), int64(20), int64(40)}},
		{"empty_source", "x for x in []", nil, []any{}},
		{"slice_var", "x * 2 for x in xs", comp.Vars{"xs": []int{1, 2, 3}}, []any{int64(2), int64(4), int64(6)}},
		{
			"structs",
			"p.Name for p in people if p.Age >= 18",
			comp.Vars{"people": []Person{{"ann", 31, "x"}, {"bob", 12, ""}, {"cid", 40, ""}}},
			[]any{"ann", "cid"},
		},
		{
			"map_var",
			"(k, v) for (k, v) in limits if v > 1",
			comp.Vars{"limits": map[string]int{"b": 2, "a": 1, "c": 3}},
			[]any{[]any{"b", int64(2)}, []any{"c", int64(3)}},
		},
		{
			"records_out",
			"{name: n, even: i % 2 == 0} for (i, n) in enumerate(names)",
			comp.Vars{"names": []string{"ann", "bob"}},
			[]any{
				map[string]any{"name": "ann", "even": true},
				map[string]any{"name": "bob", "even": false},
			},
		},
		{"ranges_materialized", "1..n for n in [2]", nil, []any{[]any{int64(1), int64(2)}}},
		{"floats_and_nil", "(x / 2.0, nil) for x in [1]", nil, []any{[]any{0.5, nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := comp.Compile(tt.input)
			require.NoError(t, err)
			got, err := q.Collect(tt.vars)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvalIsLazy(t *testing.T) {
	pulled := 0
	var naturals iter.Seq[any] = func(yield func(any) bool) {
		for i := 0; ; i++ {
			pulled++
			if !yield(i) {
				return
			}
		}
	}

	q := comp.MustCompile("x for x in naturals if x % 2 == 0")
	var got []any
	for v, err := range q.Eval(comp.Vars{"naturals": naturals}) {
		require.NoError(t, err)
		got = append(got, v)
		if len(got) == 3 {
			break
		}
	}
	require.Equal(t, []any{int64(0), int64(2), int64(4)}, got)
	require.Equal(t, 5, pulled)
}

func TestQueryIsReusable(t *testing.T) {
	q := comp.MustCompile("x for x in xs")
	for _, xs := range [][]string{{"a"}, {"b", "c"}} {
		got, err := q.Collect(comp.Vars{"xs": xs})
		require.NoError(t, err)
		require.Len(t, got, len(xs))
	}
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := comp.Compile("x for x\n  xs", comp.WithFile("q.comp"))
	require.Error(t, err)

	var diag *diagnostics.DiagnosticError
	require.ErrorAs(t, err, &diag)
	require.Equal(t, diagnostics.ErrP003, diag.Code)
	require.Equal(t, "q.comp", diag.File)
	require.Equal(t, 2, diag.Token.Line)
	require.Equal(t, 3, diag.Token.Column)
	require.Contains(t, err.Error(), "q.comp:2:3: [P003]")

	require.Panics(t, func() { comp.MustCompile("for") })
}

func TestEvalErrors(t *testing.T) {
	q := comp.MustCompile("10 / x for x in [1, 0, 2]")
	got, err := q.Collect(nil)
	require.EqualError(t, err, "1:4: division by zero")
	require.Equal(t, []any{int64(10)}, got)

	var evalErr *evaluator.Error
	require.True(t, errors.As(err, &evalErr))

	_, err = comp.MustCompile("x for x in xs").Collect(comp.Vars{"xs": make(chan int)})
	require.ErrorContains(t, err, "variable xs: unsupported Go type chan int")

	_, err = comp.MustCompile("f for f in [len]").Collect(nil)
	require.EqualError(t, err, "unsupported type for conversion: BUILTIN")
}

func TestObjects(t *testing.T) {
	q := comp.MustCompile(`upper(w) for w in words`)
	var got []string
	for obj, err := range q.Objects(comp.Vars{"words": []string{"a", "b"}}) {
		require.NoError(t, err)
		got = append(got, obj.Inspect())
	}
	require.Equal(t, []string{`"A"`, `"B"`}, got)
}

func TestRendering(t *testing.T) {
	q := comp.MustCompile("x+1 for x in xs if x>0")
	require.Equal(t, "x + 1 for x in xs if x > 0", q.String())
	require.Equal(t, "filter_map(xs, x, [x > 0], x + 1)", q.Plan())
	require.Contains(t, q.Tree(), "Comprehension")

	src, err := q.Go(codegen.Options{Params: []codegen.Param{{Name: "xs", Type: "[]int"}}})
	require.NoError(t, err)
	require.Contains(t, src, "func Comprehension(xs []int) iter.Seq[int] {")
}

func TestQueryDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE people (name TEXT, age INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO people VALUES ('ann', 31), ('bob', 25), ('cid', 40)`)
	require.NoError(t, err)

	q, err := comp.Compile(`r.name for r in query("SELECT name, age FROM people ORDER BY name") if r.age > min_age`,
		comp.WithDB(db), comp.WithContext(context.Background()))
	require.NoError(t, err)
	got, err := q.Collect(comp.Vars{"min_age": 30})
	require.NoError(t, err)
	require.Equal(t, []any{"ann", "cid"}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q, err = comp.Compile(`r for r in query("SELECT name FROM people")`, comp.WithDB(db), comp.WithContext(ctx))
	require.NoError(t, err)
	_, err = q.Collect(nil)
	require.ErrorContains(t, err, "query failed")
}

func TestValue(t *testing.T) {
	v, err := comp.Value("n * 2", comp.Vars{"n": 21})
	require.NoError(t, err)
	require.Equal(t, "42", v.Inspect())

	v, err = comp.Value(`[1, 2] + xs`, comp.Vars{"xs": []int64{3}})
	require.NoError(t, err)
	require.Equal(t, "[1, 2, 3]", v.Inspect())

	_, err = comp.Value("1 2", nil)
	var diag *diagnostics.DiagnosticError
	require.ErrorAs(t, err, &diag)
	require.Equal(t, diagnostics.ErrP007, diag.Code)

	_, err = comp.Value("1 / 0", nil)
	require.EqualError(t, err, "1:3: division by zero")
}
