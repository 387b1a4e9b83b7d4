package parser

import (
	"log/slog"
	"strings"

	"github.com/funvibe/comp/internal/ast"
	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/pipeline"
	"github.com/funvibe/comp/internal/token"
)

// ParserProcessor parses the whole token stream as one comprehension.
// Tokens left over after the last clause are an error.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.HasErrors() {
		return ctx
	}
	if ctx.TokenStream == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP005, token.Token{},
			"parser: token stream is nil"))
		return ctx
	}

	p := New(ctx.TokenStream, ctx)
	comp := p.ParseComprehension()
	if err := p.Err(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	if rest := p.Remaining(); len(rest) > 0 {
		ctx.Errors = append(ctx.Errors, trailingInputError(rest, p.swallowed))
		return ctx
	}

	ctx.AstRoot = comp
	slog.Debug("parsed comprehension", "file", ctx.FilePath, "clauses", len(comp.Clauses))
	return ctx
}

func trailingInputError(rest []token.Token, cause *diagnostics.DiagnosticError) *diagnostics.DiagnosticError {
	lexemes := make([]string, 0, len(rest))
	for i, tok := range rest {
		if i == 5 {
			lexemes = append(lexemes, "...")
			break
		}
		lexemes = append(lexemes, tok.Lexeme)
	}
	text := strings.Join(lexemes, " ")
	if cause != nil {
		return diagnostics.NewError(diagnostics.ErrP007, rest[0],
			"unexpected %q after comprehension (%s)", text, cause.Message)
	}
	return diagnostics.NewError(diagnostics.ErrP007, rest[0], "unexpected %q after comprehension", text)
}

// ParseExpression parses ctx.TokenStream as one host expression, for
// values given outside a comprehension such as -var flags. Errors are
// recorded in ctx.
func ParseExpression(ctx *pipeline.PipelineContext) ast.Expression {
	if ctx.HasErrors() || ctx.TokenStream == nil {
		return nil
	}
	p := New(ctx.TokenStream, ctx)
	expr := p.ParseExpression()
	if err := p.Err(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return nil
	}
	if rest := p.Remaining(); len(rest) > 0 {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP007, rest[0],
			"unexpected %q after expression", rest[0].Lexeme))
		return nil
	}
	return expr
}
