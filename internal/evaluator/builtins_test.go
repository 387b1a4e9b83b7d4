package evaluator_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/funvibe/comp/internal/evaluator"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`len("héllo")`, "5"},
		{"len([1, 2])", "2"},
		{"len((1, 2, 3))", "3"},
		{"len({a: 1})", "1"},
		{"len(1..10)", "10"},
		{"len(range(0, 10, 3))", "4"},
		{"range(3)", "range(0, 3)"},
		{"list(range(3))", "[0, 1, 2]"},
		{"list(range(1, 10, 3))", "[1, 4, 7]"},
		{"list(range(5, 0, -2))", "[5, 3, 1]"},
		{"list(range(3, 1))", "[]"},
		{"list()", "[]"},
		{`list("ab")`, `["a", "b"]`},
		{"list({a: 1})", `[("a", 1)]`},
		{"str(1.5)", `"1.5"`},
		{`str("a")`, `"a"`},
		{"str([1, \"a\"])", `"[1, \"a\"]"`},
		{`int("42")`, "42"},
		{`int(" 0x10 ")`, "16"},
		{"int(3.9)", "3"},
		{"int(true)", "1"},
		{"float(2)", "2.0"},
		{`float("2.5")`, "2.5"},
		{"abs(-3)", "3"},
		{"abs(-2.5)", "2.5"},
		{"min(3, 1, 2)", "1"},
		{"max([1, 5, 2])", "5"},
		{"max(1, 2.5)", "2.5"},
		{`min("b", "a")`, `"a"`},
		{"max(1..4)", "4"},
		{"sum(1..4)", "10"},
		{"sum([1, 2.5])", "3.5"},
		{"sum([], 7)", "7"},
		{`upper("ab")`, `"AB"`},
		{`lower("AB")`, `"ab"`},
		{"keys({a: 1, b: 2})", `["a", "b"]`},
		{"values({a: 1, b: 2})", "[1, 2]"},
		{`list(enumerate(["a", "b"], 1))`, `[(1, "a"), (2, "b")]`},
		{`list(zip("ab", 1..3))`, `[("a", 1), ("b", 2)]`},
		{"list(zip(count(), [7, 8]))", "[(0, 7), (1, 8)]"},
		{"count()", "<sequence count>"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, evalExpr(t, tt.input).Inspect())
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"len(count())", "len() of a lazy sequence is unknown, use len(list(...))"},
		{"len(1)", "len() not supported for INTEGER"},
		{"len()", "len() takes 1 argument, got 0"},
		{"range(1, 2, 0)", "range() step must not be zero"},
		{`range("a")`, "range() argument 1 must be INTEGER, got STRING"},
		{"min([])", "min() of an empty sequence"},
		{`max(1, "a")`, "max() cannot compare STRING and INTEGER"},
		{`sum(["a"])`, "sum() of non-numeric STRING"},
		{`int("x")`, `int() cannot parse "x"`},
		{"upper(1)", "upper() expects STRING, got INTEGER"},
		{"keys([1])", "keys() expects RECORD, got LIST"},
		{"list(5)", "INTEGER is not iterable"},
		{"zip()", "zip() takes at least 1 argument, got 0"},
		{`query("SELECT 1")`, "query() needs a database, none is configured"},
		{"query(1)", "query() statement must be STRING, got INTEGER"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := evalErr(t, tt.input+" for _ in [0]")
			require.Equal(t, tt.message, err.Message)
			// Builtin failures are reported at the callee.
			require.Equal(t, 1, err.Line)
			require.Equal(t, 1, err.Column)
		})
	}
}

func TestBuiltinsCanBeShadowed(t *testing.T) {
	objs, err := run(t, evaluator.New(), "len + 1 for len in [1]", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, inspect(objs))
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "people.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE people (name TEXT, age INTEGER, score REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO people VALUES ('ann', 31, 1.5, NULL), ('bob', 25, 2.0, 'new'), ('cid', 40, 0.5, NULL)`)
	require.NoError(t, err)
	return db
}

func TestQuery(t *testing.T) {
	e := evaluator.New()
	e.DB = openTestDB(t)

	objs, err := run(t, e, `p.name for p in query("SELECT name, age FROM people ORDER BY name") if p.age > 30`, nil)
	require.NoError(t, err)
	require.Equal(t, []string{`"ann"`, `"cid"`}, inspect(objs))

	objs, err = run(t, e, `(r.name, r.score, r.note) for r in query("SELECT * FROM people WHERE age < ?", 30)`, nil)
	require.NoError(t, err)
	require.Equal(t, []string{`("bob", 2.0, "new")`}, inspect(objs))

	objs, err = run(t, e, `r for r in query("SELECT note FROM people WHERE name = ?", "ann")`, nil)
	require.NoError(t, err)
	require.Equal(t, []string{`{"note": nil}`}, inspect(objs))
}

func TestQueryErrors(t *testing.T) {
	e := evaluator.New()
	e.DB = openTestDB(t)

	_, err := run(t, e, `r for r in query("SELECT * FROM missing")`, nil)
	require.ErrorContains(t, err, "query failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Context = ctx
	_, err = run(t, e, `r for r in query("SELECT * FROM people")`, nil)
	require.Error(t, err)
}

func TestQueryIsLazy(t *testing.T) {
	e := evaluator.New()
	e.DB = openTestDB(t)

	// The statement is not run until the sequence is ranged over, so the
	// broken statement never fails when the outer source is empty.
	objs, err := run(t, e, `r for x in [] for r in query("SELECT * FROM missing")`, nil)
	require.NoError(t, err)
	require.Empty(t, objs)
}

func TestQueryReleasesRowsOnBreak(t *testing.T) {
	e := evaluator.New()
	db := openTestDB(t)
	e.DB = db

	pairs := e.Compile(parse(t, `(a.name, b.name) for a in query("SELECT name FROM people ORDER BY name") for b in query("SELECT name FROM people ORDER BY name")`))
	var got []string
	for obj, err := range pairs(evaluator.NewEnvironment()) {
		require.NoError(t, err)
		got = append(got, obj.Inspect())
		if len(got) == 4 {
			break
		}
	}
	require.Equal(t, []string{`("ann", "ann")`, `("ann", "bob")`, `("ann", "cid")`, `("bob", "ann")`}, got)
	require.Zero(t, db.Stats().InUse)

	// running to the end releases them too
	objs, err := run(t, e, `a.name for a in query("SELECT name FROM people")`, nil)
	require.NoError(t, err)
	require.Len(t, objs, 3)
	require.Zero(t, db.Stats().InUse)
}
