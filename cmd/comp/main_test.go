package main

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(out, errOut, args)
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "filters",
			args:     []string{"x + 1 for x in [1, 2, 3] if x != 3 if x != 2"},
			expected: "2\n",
		},
		{
			name:     "nested",
			args:     []string{"a * b for a in [1, 2] for b in [10, 20]"},
			expected: "10\n20\n20\n40\n",
		},
		{
			name:     "var_flag",
			args:     []string{"-var", "xs=[1, 2, 3]", "x * 2 for x in xs if x > 1"},
			expected: "4\n6\n",
		},
		{
			name:     "var_sees_earlier_vars",
			args:     []string{"-var", "a=2", "-var", "b = a * 3", "b for _ in [0]"},
			expected: "6\n",
		},
		{
			name:     "strings_unquoted",
			args:     []string{`upper(s) for s in ["a", "b"]`},
			expected: "A\nB\n",
		},
		{
			name:     "limit_on_infinite_source",
			args:     []string{"-limit", "3", "i * i for i in count(1)"},
			expected: "1\n4\n9\n",
		},
		{
			name:     "json",
			args:     []string{"-format", "json", "{n: x, odd: x % 2 == 1} for x in 1..2"},
			expected: "{\"n\":1,\"odd\":true}\n{\"n\":2,\"odd\":false}\n",
		},
		{
			name:     "plan",
			args:     []string{"-emit", "plan", "a for a in xs for b in ys if b"},
			expected: "flatten(filter_map(xs, a, [], filter_map(ys, b, [b], a)))\n",
		},
		{
			name:     "empty_result",
			args:     []string{"x for x in []"},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, tc.args...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestRunYAML(t *testing.T) {
	out, _, err := runCLI(t, "-format", "yaml", `{name: n} for n in ["ann", "bob"]`)
	require.NoError(t, err)
	require.Contains(t, out, "name: ann")
	require.Contains(t, out, "---")
	require.Contains(t, out, "name: bob")
}

func TestRunEmit(t *testing.T) {
	out, _, err := runCLI(t, "-emit", "go", "-func", "Doubled", "-param", "xs=[]int", "x * 2 for x in xs")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "// Code generated by comp. DO NOT EDIT."))
	require.Contains(t, out, "func Doubled(xs []int) iter.Seq[int] {")

	out, _, err = runCLI(t, "-emit", "ast", "x for x in xs")
	require.NoError(t, err)
	require.Contains(t, out, "Comprehension (1:1)")
}

func TestRunSyntaxError(t *testing.T) {
	_, _, err := runCLI(t, "-color", "never", "x for x xs")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 1, exitErr.Code)

	lines := strings.Split(exitErr.Message, "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "1:9: [P003] "), lines[0])
	require.Equal(t, "x for x xs", lines[1])
	require.Equal(t, "        ^^ missing 'in'", lines[2])

	_, _, err = runCLI(t, "-color", "always", "x for x xs")
	require.True(t, errors.As(err, &exitErr))
	require.True(t, strings.HasPrefix(exitErr.Message, ansiBold+ansiRed), exitErr.Message)
	require.Contains(t, exitErr.Message, ansiRed+"        ^^"+ansiReset+" missing 'in'")
}

func TestRunCodegenError(t *testing.T) {
	_, _, err := runCLI(t, "-color", "never", "-emit", "go", "x ** 2 for x in [1]")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "1:3: [C001] operator ** has no Go rendering")
	require.True(t, strings.HasSuffix(exitErr.Message, "^^ unsupported by Go emitter"), exitErr.Message)
}

func TestRunEvalErrorFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.comp", "10 / x for x in [1, 0]\n")

	out, _, err := runCLI(t, "-f", path)
	require.Equal(t, "10\n", out)
	require.EqualError(t, err, path+":1:4: division by zero")

	// a recognized extension is read as a file
	out, _, err = runCLI(t, path)
	require.Equal(t, "10\n", out)
	require.Error(t, err)
}

func TestRunConfigAndVars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vars.hcl", `xs = [5, 6, 7]`)
	cfgPath := writeFile(t, dir, "comp.yaml", "format: json\nlimit: 2\nvars_file: vars.hcl\nvars:\n  n: 2\n  xs: [1]\n")

	out, _, err := runCLI(t, "-config", cfgPath, "x * n for x in xs")
	require.NoError(t, err)
	require.Equal(t, "10\n12\n", out)

	// flags override the file
	out, _, err = runCLI(t, "-config", cfgPath, "-format", "text", "-limit", "0", "-var", "n=1", "x * n for x in xs")
	require.NoError(t, err)
	require.Equal(t, "5\n6\n7\n", out)

	varsPath := writeFile(t, dir, "other.yaml", "xs: [a, b]\n")
	out, _, err = runCLI(t, "-vars", varsPath, "x for x in xs")
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", out)
}

func TestRunDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE people (name TEXT, age INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO people VALUES ('ann', 31), ('bob', 25)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err := runCLI(t, "-db", path, `p.name for p in query("SELECT * FROM people ORDER BY name") if p.age > 30`)
	require.NoError(t, err)
	require.Equal(t, "ann\n", out)

	_, _, err = runCLI(t, `p for p in query("SELECT 1")`)
	require.EqualError(t, err, "1:12: query() needs a database, none is configured")
}

func TestRunUsage(t *testing.T) {
	_, errOut, err := runCLI(t, "-h")
	require.NoError(t, err)
	require.Contains(t, errOut, "Usage:")

	_, errOut, err = runCLI(t)
	require.NoError(t, err)
	require.Contains(t, errOut, "Usage:")

	for _, args := range [][]string{
		{"-format", "xml", "x for x in [1]"},
		{"-emit", "wasm", "x for x in [1]"},
		{"-color", "sometimes", "x for x in [1]"},
		{"-log-level", "loud", "x for x in [1]"},
		{"-limit", "-1", "x for x in [1]"},
		{"-var", "novalue", "x for x in [1]"},
		{"-var", "x=1 +", "x for _ in [1]"},
		{"-f", "a.comp", "x for x in [1]"},
		{"-f", filepath.Join(t.TempDir(), "missing.comp")},
		{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "x for x in [1]"},
	} {
		_, _, err := runCLI(t, args...)
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "args %v: %v", args, err)
		require.Equal(t, 2, exitErr.Code, "args %v", args)
	}
}
