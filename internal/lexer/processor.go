package lexer

import (
	"log/slog"

	"github.com/funvibe/comp/internal/diagnostics"
	"github.com/funvibe/comp/internal/pipeline"
	"github.com/funvibe/comp/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens := New(ctx.SourceCode).Tokenize()
	for _, tok := range tokens {
		if tok.Type == token.ILLEGAL {
			msg, _ := tok.Literal.(string)
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrL001, tok, "%s", msg))
			break
		}
	}
	ctx.TokenStream = token.NewStream(tokens)
	slog.Debug("lexed comprehension", "file", ctx.FilePath, "tokens", len(tokens))
	return ctx
}
