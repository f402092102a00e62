package internal

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

// ParseExpression reads text as a single bare expression, as if it were the
// only component of a tag. Error positions are relative to text.
func ParseExpression(text string, table *OperatorTable, config ScannerConfig, logger *zap.Logger) (*Expression, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	shift := len(config.OpenDelim)
	source := config.OpenDelim + text + config.CloseDelim

	l, err := NewLexer(NewScannerWithConfig(source, config, logger), table, WithLexerLogger(logger))
	if err != nil {
		return nil, err
	}
	pattern, err := NewTagPatternBuilder(table.Comparer()).Expression().Build()
	if err != nil {
		return nil, err
	}
	if err := l.RegisterTag(pattern); err != nil {
		return nil, err
	}

	lex, err := l.ReadNext()
	if err != nil {
		return nil, shiftLexingError(err, shift)
	}
	tag, ok := lex.(*TagLex)
	if !ok {
		return nil, shiftLexingError(NewLexingError(ErrMsgUnexpectedToken, lex.Pos(), ""), shift)
	}

	next, err := l.ReadNext()
	switch {
	case errors.Is(err, io.EOF):
		return tag.Components[0].Expression, nil
	case err != nil:
		return nil, shiftLexingError(err, shift)
	default:
		return nil, shiftLexingError(NewLexingError(ErrMsgTrailingInput, next.Pos(), ""), shift)
	}
}

// shiftLexingError moves a lexing error position back by n bytes on the
// first line, undoing the synthetic open delimiter
func shiftLexingError(err error, n int) error {
	var lexErr *LexingError
	if !errors.As(err, &lexErr) {
		return err
	}
	lexErr.Position.Offset = max(lexErr.Position.Offset-n, 0)
	if lexErr.Position.Line <= 1 {
		lexErr.Position.Column = max(lexErr.Position.Column-n, 1)
	}
	return err
}
