package xtralite

import (
	"errors"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-xtralite/internal"
)

// Error message constants
const (
	ErrMsgLexFailed          = "template lexing failed"
	ErrMsgExpressionFailed   = "expression construction failed"
	ErrMsgEvaluationFailed   = "expression evaluation failed"
	ErrMsgRegistrationFailed = "registration failed"
	ErrMsgRegistrationClosed = "registration is closed once the engine is in use"
	ErrMsgInvalidArgument    = "invalid argument"
	ErrMsgInvalidDelimiters  = "delimiters must be non-empty and distinct"
	ErrMsgUnknownAliasTarget = "alias target is not a registered operator"
	ErrMsgGrammarRead        = "grammar could not be read"
	ErrMsgGrammarDecode      = "grammar could not be decoded"
	ErrMsgNilGrammar         = "grammar cannot be nil"
	ErrMsgInternal           = "internal error"
)

// Error code constants for categorization
const (
	ErrCodeLex        = "XTRALITE_LEX"
	ErrCodeExpression = "XTRALITE_EXPRESSION"
	ErrCodeEval       = "XTRALITE_EVAL"
	ErrCodeRegistry   = "XTRALITE_REGISTRY"
	ErrCodeArgument   = "XTRALITE_ARGUMENT"
	ErrCodeState      = "XTRALITE_STATE"
	ErrCodeGrammar    = "XTRALITE_GRAMMAR"
	ErrCodeInternal   = "XTRALITE_INTERNAL"
)

func newCodedError(code, msg string, cause error) *cuserr.CustomError {
	if cause != nil {
		return cuserr.WrapStdError(cause, code, msg)
	}
	return cuserr.NewValidationError(code, msg)
}

// NewLexError creates a lexing error with position context
func NewLexError(msg string, pos Position, cause error) error {
	return lexError(msg, pos, cause)
}

func lexError(msg string, pos Position, cause error) *cuserr.CustomError {
	return newCodedError(ErrCodeLex, msg, cause).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewExpressionError creates an error for a malformed expression
func NewExpressionError(msg, detail string, cause error) error {
	err := newCodedError(ErrCodeExpression, msg, cause)
	if detail != "" {
		err = err.WithMetadata(MetaKeyDetail, detail)
	}
	return err
}

// NewEvaluationError creates an error for a failed evaluation
func NewEvaluationError(msg, detail string, cause error) error {
	err := newCodedError(ErrCodeEval, msg, cause)
	if detail != "" {
		err = err.WithMetadata(MetaKeyDetail, detail)
	}
	return err
}

// NewRegistrationError creates an error for a tag or operator collision
func NewRegistrationError(msg, symbol string, cause error) error {
	err := newCodedError(ErrCodeRegistry, msg, cause)
	if symbol != "" {
		err = err.WithMetadata(MetaKeySymbol, symbol)
	}
	return err
}

// NewRegistrationClosedError creates an error for registration after first use
func NewRegistrationClosedError(symbol string) error {
	err := newCodedError(ErrCodeState, ErrMsgRegistrationClosed, nil)
	if symbol != "" {
		err = err.WithMetadata(MetaKeySymbol, symbol)
	}
	return err
}

// NewArgumentError creates an error for an invalid argument
func NewArgumentError(msg, detail string, cause error) error {
	err := newCodedError(ErrCodeArgument, msg, cause)
	if detail != "" {
		err = err.WithMetadata(MetaKeyDetail, detail)
	}
	return err
}

// NewStateError creates an error for an operation out of order
func NewStateError(msg string, cause error) error {
	return newCodedError(ErrCodeState, msg, cause)
}

// NewGrammarError creates an error for an unreadable grammar file
func NewGrammarError(msg, path string, cause error) error {
	err := newCodedError(ErrCodeGrammar, msg, cause)
	if path != "" {
		err = err.WithMetadata(MetaKeyPath, path)
	}
	return err
}

// NewUnknownAliasTargetError creates an error for an alias of a missing operator
func NewUnknownAliasTargetError(alias, target string) error {
	return cuserr.NewNotFoundError(ErrCodeRegistry, ErrMsgUnknownAliasTarget).
		WithMetadata(MetaKeyAlias, alias).
		WithMetadata(MetaKeyTarget, target)
}

// convertError maps an error of the internal package onto a coded custom
// error. The original stays reachable through errors.As.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var (
		custom   *cuserr.CustomError
		lexErr   *internal.LexingError
		evalErr  *internal.EvaluationError
		exprErr  *internal.ExpressionError
		regErr   *internal.RegistrationError
		stateErr *internal.StateError
		argErr   *internal.ArgumentError
	)
	switch {
	case errors.As(err, &custom):
		return err
	case errors.As(err, &lexErr):
		coded := lexError(lexErr.Message, lexErr.Position, err)
		if len(lexErr.Suggestions) > 0 {
			coded = coded.WithMetadata(MetaKeySuggestions, strings.Join(lexErr.Suggestions, internal.SuggestionSeparator))
		}
		return coded
	case errors.As(err, &evalErr):
		return NewEvaluationError(evalErr.Message, evalErr.Detail, err)
	case errors.As(err, &exprErr):
		return NewExpressionError(exprErr.Message, exprErr.Detail, err)
	case errors.As(err, &regErr):
		return NewRegistrationError(regErr.Message, regErr.Symbol, err)
	case errors.As(err, &stateErr):
		return NewStateError(stateErr.Message, err)
	case errors.As(err, &argErr):
		return NewArgumentError(argErr.Message, argErr.Detail, err)
	default:
		return cuserr.NewInternalError(ErrCodeInternal, err)
	}
}
