package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/funvibe/comp/internal/config"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// assignment is one -var name=expr flag.
type assignment struct {
	Name string
	Expr string
}

// options is the parsed command line merged over comp.yaml.
type options struct {
	Config *config.Config

	Source  string
	File    string
	Emit    string
	Assigns []assignment
}

var validEmits = []string{config.EmitRun, config.EmitGo, config.EmitPlan, config.EmitAST}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// parseArgs processes command-line arguments. It returns the options, a
// boolean indicating the program should exit cleanly, or an ExitError.
func parseArgs(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("comp", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
comp - evaluate comprehension expressions.

Usage:
  comp [options] 'EXPR'
  comp [options] -f FILE

Example:
  comp -var 'xs=[1, 2, 3]' 'x * 2 for x in xs if x > 1'

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to comp.yaml. Defaults to ./"+config.DefaultConfigFile+" when present.")
	fileFlag := flagSet.String("f", "", "Read the comprehension from a file.")
	varsFlag := flagSet.String("vars", "", "YAML, JSON or HCL file of variables.")
	dbFlag := flagSet.String("db", "", "SQLite database available to query(...).")
	limitFlag := flagSet.Int("limit", 0, "Stop after N results. 0 means no limit.")
	formatFlag := flagSet.String("format", config.FormatText, "Output format. Options: 'text', 'json', 'yaml'.")
	emitFlag := flagSet.String("emit", config.EmitRun, "What to print. Options: 'run', 'go', 'plan', 'ast'.")
	colorFlag := flagSet.String("color", config.ColorAuto, "Color diagnostics. Options: 'auto', 'always', 'never'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pkgFlag := flagSet.String("package", "", "Package of the emitted Go file.")
	funcFlag := flagSet.String("func", "", "Name of the emitted Go function.")
	elemFlag := flagSet.String("elem", "", "Element type of emitted sources.")
	resultFlag := flagSet.String("result", "", "Result type of the emitted function.")

	var assigns []assignment
	flagSet.Func("var", "Set a variable, as name=expr. Repeatable.", func(s string) error {
		name, expr, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("expected name=expr, got %q", s)
		}
		assigns = append(assigns, assignment{Name: name, Expr: expr})
		return nil
	})
	var params []config.ParamConfig
	flagSet.Func("param", "Parameter of the emitted Go function, as name=type. Repeatable.", func(s string) error {
		name, typ, ok := strings.Cut(s, "=")
		if !ok || name == "" || typ == "" {
			return fmt.Errorf("expected name=type, got %q", s)
		}
		params = append(params, config.ParamConfig{Name: name, Type: typ})
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		return nil, false, usageError("%v", err)
	}

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["format"] {
		cfg.Format = strings.ToLower(*formatFlag)
	}
	if set["color"] {
		cfg.Color = strings.ToLower(*colorFlag)
	}
	if set["log-level"] {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}
	if set["limit"] {
		cfg.Limit = *limitFlag
	}
	if set["db"] {
		cfg.DB = *dbFlag
	}
	if set["vars"] {
		cfg.VarsFile = *varsFlag
	}
	if set["package"] {
		cfg.Codegen.Package = *pkgFlag
	}
	if set["func"] {
		cfg.Codegen.Func = *funcFlag
	}
	if set["elem"] {
		cfg.Codegen.ElemType = *elemFlag
	}
	if set["result"] {
		cfg.Codegen.ResultType = *resultFlag
	}
	if len(params) > 0 {
		cfg.Codegen.Params = params
	}

	if !slices.Contains([]string{config.FormatText, config.FormatJSON, config.FormatYAML}, cfg.Format) {
		return nil, false, usageError("invalid format: must be 'text', 'json' or 'yaml'")
	}
	switch cfg.Color {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
		// valid
	default:
		return nil, false, usageError("invalid color: must be 'auto', 'always' or 'never'")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	if cfg.Limit < 0 {
		return nil, false, usageError("invalid limit: must not be negative")
	}
	emit := strings.ToLower(*emitFlag)
	if !slices.Contains(validEmits, emit) {
		return nil, false, usageError("invalid emit: must be 'run', 'go', 'plan' or 'ast'")
	}

	opts := &options{
		Config:  cfg,
		Emit:    emit,
		Assigns: assigns,
	}

	path := *fileFlag
	switch {
	case path != "" && flagSet.NArg() > 0:
		return nil, false, usageError("give either -f or an expression, not both")
	case path == "" && flagSet.NArg() == 1 && isSourceFile(flagSet.Arg(0)):
		path = flagSet.Arg(0)
	case path == "" && flagSet.NArg() > 0:
		opts.Source = strings.Join(flagSet.Args(), " ")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, usageError("reading %s: %v", path, err)
		}
		opts.Source = string(data)
		opts.File = path
	}

	if strings.TrimSpace(opts.Source) == "" {
		flagSet.Usage()
		return nil, true, nil
	}
	return opts, false, nil
}

// loadConfig reads the named config, or ./comp.yaml when present.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	slog.Debug("loading config", "path", path)
	return config.LoadConfig(path)
}
