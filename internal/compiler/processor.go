package compiler

import (
	"log/slog"

	"github.com/funvibe/comp/internal/pipeline"
)

// CompilerProcessor compiles the parsed comprehension against Host. The
// Pipeline lands in ctx.Compiled and its plan in ctx.Plan.
type CompilerProcessor[V, S any] struct {
	Host Host[V, S]
}

// NewCompilerProcessor creates a pipeline stage compiling against host.
func NewCompilerProcessor[V, S any](host Host[V, S]) *CompilerProcessor[V, S] {
	return &CompilerProcessor[V, S]{Host: host}
}

func (p *CompilerProcessor[V, S]) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, there is nothing to compile
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}

	ctx.Compiled = Compile(ctx.AstRoot, p.Host)
	ctx.Plan = Explain(ctx.AstRoot)
	slog.Debug("compiled comprehension", "file", ctx.FilePath, "layers", len(ctx.AstRoot.Clauses), "plan", ctx.Plan)
	return ctx
}
