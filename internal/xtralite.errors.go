package internal

import (
	"context"
	"errors"
	"fmt"
)

// ArgumentError reports an invalid constructor or registration argument.
// It always indicates a bug in the calling code.
type ArgumentError struct {
	Message string
	Detail  string
}

// NewArgumentError creates a new argument error
func NewArgumentError(message, detail string) *ArgumentError {
	return &ArgumentError{Message: message, Detail: detail}
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf(ErrFmtWithDetail, e.Message, e.Detail)
	}
	return e.Message
}

// StateError reports an operation attempted in a state that forbids it,
// such as breaking a tag pattern sequencing rule or registering after use
type StateError struct {
	Message string
}

// NewStateError creates a new state error
func NewStateError(message string) *StateError {
	return &StateError{Message: message}
}

// Error implements the error interface
func (e *StateError) Error() string {
	return e.Message
}

// RegistrationError reports a symbol or pattern collision during registration
type RegistrationError struct {
	Message string
	Symbol  string
}

// NewRegistrationError creates a new registration conflict error
func NewRegistrationError(message, symbol string) *RegistrationError {
	return &RegistrationError{Message: message, Symbol: symbol}
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf(ErrFmtWithQuoted, e.Message, e.Symbol)
	}
	return e.Message
}

// LexingError reports malformed template input at a source position
type LexingError struct {
	Message     string
	Position    Position
	Detail      string
	Suggestions []string // registered words close to Detail
	Cause       error
}

// NewLexingError creates a new lexing error
func NewLexingError(message string, pos Position, detail string) *LexingError {
	return &LexingError{Message: message, Position: pos, Detail: detail}
}

// Error implements the error interface
func (e *LexingError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf(ErrFmtWithQuoted, msg, e.Detail)
	}
	msg = fmt.Sprintf(ErrFmtWithPosition, msg, e.Position)
	if len(e.Suggestions) > 0 {
		msg = fmt.Sprintf(ErrFmtWithHint, msg, FormatSuggestions(e.Suggestions))
	}
	if e.Cause != nil {
		return fmt.Sprintf(ErrFmtWithCause, msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *LexingError) Unwrap() error {
	return e.Cause
}

// ExpressionErrorKind separates API misuse from malformed feed order
type ExpressionErrorKind int

// Expression error kinds
const (
	// ExpressionErrorState is raised when the engine is used out of lifecycle order
	ExpressionErrorState ExpressionErrorKind = iota
	// ExpressionErrorSyntax is raised when fed terms do not form a valid expression
	ExpressionErrorSyntax
)

// ExpressionError reports a failure while building an expression
type ExpressionError struct {
	Kind    ExpressionErrorKind
	Message string
	Detail  string
}

// NewExpressionStateError creates an error for lifecycle misuse
func NewExpressionStateError(message string) *ExpressionError {
	return &ExpressionError{Kind: ExpressionErrorState, Message: message}
}

// NewExpressionSyntaxError creates an error for an invalid term
func NewExpressionSyntaxError(message, detail string) *ExpressionError {
	return &ExpressionError{Kind: ExpressionErrorSyntax, Message: message, Detail: detail}
}

// Error implements the error interface
func (e *ExpressionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf(ErrFmtWithQuoted, e.Message, e.Detail)
	}
	return e.Message
}

// EvaluationError reports a hard failure while evaluating an expression
type EvaluationError struct {
	Message string
	Detail  string
	Cause   error
}

// NewEvaluationError creates a new evaluation error
func NewEvaluationError(message, detail string) *EvaluationError {
	return &EvaluationError{Message: message, Detail: detail}
}

// newCancelledError wraps the context error that aborted evaluation
func newCancelledError(cause error) *EvaluationError {
	return &EvaluationError{Message: ErrMsgEvalCancelled, Cause: cause}
}

// Error implements the error interface
func (e *EvaluationError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf(ErrFmtWithDetail, msg, e.Detail)
	}
	if e.Cause != nil {
		return fmt.Sprintf(ErrFmtWithCause, msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// IsCancelled reports whether evaluation was aborted by its context
func (e *EvaluationError) IsCancelled() bool {
	return errors.Is(e.Cause, context.Canceled) || errors.Is(e.Cause, context.DeadlineExceeded)
}

// Error format strings
const (
	ErrFmtWithDetail   = "%s: %s"
	ErrFmtWithQuoted   = "%s: %q"
	ErrFmtWithHint     = "%s; %s"
	ErrFmtWithPosition = "%s at %s"
	ErrFmtWithCause    = "%s: %v"
	ErrFmtOperandKinds = "%s (%s)"
	ErrFmtBinaryKinds  = "%s (%s, %s)"
)

// Argument error messages
const (
	ErrMsgEmptyName          = "name cannot be empty"
	ErrMsgInvalidIdentifier  = "invalid identifier"
	ErrMsgEmptyIdentifierSet = "identifier set cannot be empty"
	ErrMsgEmptySymbol        = "operator symbol cannot be empty"
	ErrMsgInvalidSymbol      = "operator symbol must be an identifier or a punctuation run"
	ErrMsgSymbolHasDelimiter = "operator symbol cannot contain a tag delimiter"
	ErrMsgNilOperator        = "operator cannot be nil"
	ErrMsgNilPattern         = "tag pattern cannot be nil"
	ErrMsgNilTokenSource     = "token source cannot be nil"
	ErrMsgNilOperatorTable   = "operator table cannot be nil"
	ErrMsgNilEvaluator       = "operator evaluator cannot be nil"
	ErrMsgFlowSymbolsInvalid = "flow symbols must be four distinct non-empty strings"
	ErrMsgEmptyPattern       = "tag pattern must have at least one component"
)

// Tag pattern state and markup errors
const (
	ErrMsgIdentifierAfterExpr = "identifier component cannot directly follow an expression component"
	ErrMsgExprAfterExpr       = "expression component cannot directly follow another expression component"
	ErrMsgMarkupEmpty         = "tag markup is empty"
	ErrMsgMarkupUnclosedGroup = "identifier group is not closed"
	ErrMsgMarkupEmptyGroup    = "identifier group is empty"
	ErrMsgMarkupNestedGroup   = "identifier groups cannot be nested"
	ErrMsgMarkupUnexpected    = "unexpected markup term"
)

// Registration errors
const (
	ErrMsgSymbolConflict      = "symbol already registered"
	ErrMsgTagConflict         = "equivalent tag pattern already registered"
	ErrMsgTagSymbolConflict   = "tag name collides with an operator symbol"
	ErrMsgRegistrationClosed  = "registration is closed once reading has started"
	ErrMsgOperatorTableFrozen = "operator table is frozen once in use"
)

// Lexing errors
const (
	ErrMsgUnterminatedStr   = "unterminated string literal"
	ErrMsgUnexpectedToken   = "unexpected token"
	ErrMsgUnexpectedEnd     = "unexpected end of input"
	ErrMsgNoMatchingTag     = "no matching tag"
	ErrMsgAmbiguousTag      = "ambiguous tag"
	ErrMsgUnresolvedSymbols = "unresolved symbol sequence"
	ErrMsgTrailingInput     = "unexpected input after expression"
)

// Expression construction errors
const (
	ErrMsgExprAlreadyConstructed = "expression is already constructed"
	ErrMsgExprNotConstructed     = "expression is not constructed"
	ErrMsgExprIdentifierRequired = "identifier required, got literal"
	ErrMsgExprIdentifierExpected = "identifier required"
	ErrMsgExprOperatorExpected   = "operator expected"
	ErrMsgExprUnexpectedTerm     = "unexpected or invalid expression term"
	ErrMsgExprInvalidState       = "cannot construct, invalid state"
)

// Evaluation errors
const (
	ErrMsgEvalCancelled        = "evaluation cancelled"
	ErrMsgEvalUnsupportedKinds = "unsupported operand kinds"
	ErrMsgEvalInvokeFailed     = "value cannot be invoked"
	ErrMsgEvalNoContext        = "no evaluation context available"
)
