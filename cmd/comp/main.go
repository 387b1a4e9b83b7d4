// Command comp evaluates a comprehension expression, or prints its Go
// rendering, plan or syntax tree.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/funvibe/comp/internal/codegen"
	"github.com/funvibe/comp/internal/config"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/evaluator"
	"github.com/funvibe/comp/pkg/comp"
	"github.com/funvibe/comp/pkg/seq"
)

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the command for easier testing and error handling.
// Results go to outW, usage text and logs to errW.
func run(outW, errW io.Writer, args []string) error {
	opts, shouldExit, err := parseArgs(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	cfg := opts.Config

	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(errW, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	compileOpts := []comp.Option{comp.WithFile(opts.File), comp.WithContext(ctx)}
	if cfg.DB != "" {
		db, err := sql.Open("sqlite", cfg.DB)
		if err != nil {
			return usageError("opening database %s: %v", cfg.DB, err)
		}
		defer db.Close()
		compileOpts = append(compileOpts, comp.WithDB(db))
	}

	q, err := comp.Compile(opts.Source, compileOpts...)
	if err != nil {
		return &ExitError{Code: 1, Message: formatDiagnostic(err, opts.Source, useColor(cfg.Color, errW))}
	}

	switch opts.Emit {
	case config.EmitGo:
		src, err := q.Go(codegenOptions(cfg.Codegen))
		if err != nil {
			return &ExitError{Code: 1, Message: formatDiagnostic(err, opts.Source, useColor(cfg.Color, errW))}
		}
		_, err = io.WriteString(outW, src)
		return err
	case config.EmitPlan:
		_, err := fmt.Fprintln(outW, q.Plan())
		return err
	case config.EmitAST:
		_, err := io.WriteString(outW, q.Tree())
		return err
	}

	vars, err := loadVars(cfg, opts.Assigns)
	if err != nil {
		return usageError("%v", err)
	}

	results := q.Objects(vars)
	if cfg.Limit > 0 {
		results = seq.Limit(results, cfg.Limit)
	}
	if err := printResults(outW, cfg.Format, results); err != nil {
		var evalErr *evaluator.Error
		if errors.As(err, &evalErr) && opts.File != "" {
			return fmt.Errorf("%s:%w", opts.File, err)
		}
		return err
	}
	return nil
}

// loadVars merges variables in increasing precedence: comp.yaml vars, the
// vars file, then -var flags. Each -var expression sees the variables
// set before it.
func loadVars(cfg *config.Config, assigns []assignment) (comp.Vars, error) {
	vars := comp.Vars{}
	maps.Copy(vars, cfg.Vars)
	if cfg.VarsFile != "" {
		fileVars, err := config.LoadVars(cfg.VarsFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(vars, fileVars)
	}
	for _, a := range assigns {
		val, err := comp.Value(a.Expr, vars)
		if err != nil {
			return nil, fmt.Errorf("-var %s: %w", a.Name, err)
		}
		vars[a.Name] = val
	}
	slog.Debug("variables loaded", "count", len(vars))
	return vars, nil
}

func printResults(w io.Writer, format string, results iter.Seq2[evaluator.Object, error]) error {
	m := comp.NewMarshaller()
	var (
		jsonEnc *json.Encoder
		yamlEnc *yaml.Encoder
	)
	switch format {
	case config.FormatJSON:
		jsonEnc = json.NewEncoder(w)
	case config.FormatYAML:
		yamlEnc = yaml.NewEncoder(w)
		yamlEnc.SetIndent(2)
		defer yamlEnc.Close()
	}

	for obj, err := range results {
		if err != nil {
			return err
		}
		if format == config.FormatText {
			if _, err := fmt.Fprintln(w, evaluator.Display(obj)); err != nil {
				return err
			}
			continue
		}
		val, err := m.FromValue(obj)
		if err != nil {
			return err
		}
		if jsonEnc != nil {
			err = jsonEnc.Encode(val)
		} else {
			err = yamlEnc.Encode(val)
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", format, err)
		}
	}
	return nil
}

func codegenOptions(c config.CodegenConfig) codegen.Options {
	opts := codegen.Options{
		Package:    c.Package,
		FuncName:   c.Func,
		ElemType:   c.ElemType,
		ResultType: c.ResultType,
	}
	for _, p := range c.Params {
		opts.Params = append(opts.Params, codegen.Param{Name: p.Name, Type: p.Type})
	}
	return opts
}

// formatDiagnostic renders a syntax or codegen error with the offending
// source line and a caret under the error position, labelled with the
// error class.
func formatDiagnostic(err error, source string, color bool) string {
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) {
		return err.Error()
	}
	head := diag.Error()
	snippet := diag.Snippet(source)
	if color {
		head = ansiBold + ansiRed + head + ansiReset
		if i := strings.LastIndexByte(snippet, '\n'); i >= 0 {
			snippet = snippet[:i+1] + ansiRed + snippet[i+1:] + ansiReset
		}
	}
	if snippet == "" {
		return head
	}
	return head + "\n" + snippet + " " + diag.Describe()
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
