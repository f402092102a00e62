package xtralite

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-xtralite/internal"
	"go.uber.org/zap"
)

// Engine is the main entry point of xtralite. It owns one grammar: the tag
// patterns and the operator table shared by every lexer it creates.
//
// Tags and operators are registered first. The first call to NewLexer,
// Parse, ParseExpression or EvaluateExpression seals the engine; from then
// on it is safe for concurrent use and further registration fails.
type Engine struct {
	config   *engineConfig
	scanner  internal.ScannerConfig
	table    *internal.OperatorTable
	registry *internal.Lexer // holds registrations and checks conflicts
	mu       sync.Mutex      // Protects registry and sealed
	sealed   bool
	sealOnce sync.Once
	logger   *zap.Logger
}

// New creates a new xtralite Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.openDelim == config.closeDelim {
		return nil, NewArgumentError(ErrMsgInvalidDelimiters, config.openDelim, nil)
	}

	table, err := internal.NewOperatorTable(config.flow, config.comparer(), logger)
	if err != nil {
		return nil, convertError(err)
	}
	if err := table.ReserveDelimiters(config.openDelim, config.closeDelim); err != nil {
		return nil, convertError(err)
	}
	if config.standardOps {
		if err := internal.RegisterStandardOperators(table); err != nil {
			return nil, convertError(err)
		}
	}

	registry, err := internal.NewLexer(internal.NewSliceTokenSource(nil), table, internal.WithLexerLogger(logger))
	if err != nil {
		return nil, convertError(err)
	}

	e := &Engine{
		config: config,
		scanner: internal.ScannerConfig{
			OpenDelim:  config.openDelim,
			CloseDelim: config.closeDelim,
		},
		table:    table,
		registry: registry,
		logger:   logger,
	}
	for _, a := range config.aliases {
		if err := e.registerAlias(a); err != nil {
			return nil, err
		}
	}

	logger.Debug(LogMsgEngineCreated,
		zap.String(LogFieldOpen, config.openDelim),
		zap.String(LogFieldClose, config.closeDelim),
		zap.Int(LogFieldOperators, len(table.Operators())))
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// registerAlias copies the unary and binary operators of a.target under a.alias
func (e *Engine) registerAlias(a operatorAlias) error {
	var ops []Operator
	if u, ok := e.table.Unary(a.target); ok {
		alias := *u
		alias.Symbol = a.alias
		ops = append(ops, &alias)
	}
	if b, ok := e.table.Binary(a.target); ok && !e.table.IsMemberAccess(b) {
		alias := *b
		alias.Symbol = a.alias
		ops = append(ops, &alias)
	}
	if len(ops) == 0 {
		return NewUnknownAliasTargetError(a.alias, a.target)
	}

	for _, op := range ops {
		if err := e.RegisterOperator(op); err != nil {
			return err
		}
	}
	e.logger.Debug(LogMsgAliasRegistered, zap.String(LogFieldSymbol, a.alias), zap.String(LogFieldTarget, a.target))
	return nil
}

// RegisterTag parses markup such as "IF $ THEN" and registers the pattern.
// Equivalent patterns and names that collide with operator symbols are
// rejected.
func (e *Engine) RegisterTag(markup string) error {
	p, err := internal.ParseTagPattern(markup, e.config.comparer())
	if err != nil {
		return withMarkup(convertError(err), markup)
	}
	return e.RegisterTagPattern(p)
}

func withMarkup(err error, markup string) error {
	var custom *cuserr.CustomError
	if errors.As(err, &custom) {
		return custom.WithMetadata(MetaKeyMarkup, markup)
	}
	return err
}

// MustRegisterTag registers markup and panics if registration fails.
func (e *Engine) MustRegisterTag(markup string) {
	if err := e.RegisterTag(markup); err != nil {
		panic(err)
	}
}

// RegisterTagPattern registers an already built pattern.
func (e *Engine) RegisterTagPattern(p *TagPattern) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sealed {
		markup := ""
		if p != nil {
			markup = p.String()
		}
		return NewRegistrationClosedError(markup)
	}
	if err := e.registry.RegisterTag(p); err != nil {
		return convertError(err)
	}
	e.logger.Debug(LogMsgTagRegistered, zap.String(LogFieldTag, p.String()))
	return nil
}

// RegisterOperator adds a unary, binary or group operator.
func (e *Engine) RegisterOperator(op Operator) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sealed {
		symbol := ""
		if op != nil {
			symbol = op.Symbols()[0]
		}
		return NewRegistrationClosedError(symbol)
	}
	if err := e.registry.RegisterOperator(op); err != nil {
		return convertError(err)
	}
	e.logger.Debug(LogMsgOperatorRegistered, zap.Strings(LogFieldSymbol, op.Symbols()))
	return nil
}

// MustRegisterOperator adds an operator and panics if registration fails.
func (e *Engine) MustRegisterOperator(op Operator) {
	if err := e.RegisterOperator(op); err != nil {
		panic(err)
	}
}

// seal closes registration and freezes the operator table
func (e *Engine) seal() {
	e.sealOnce.Do(func() {
		e.mu.Lock()
		e.sealed = true
		e.mu.Unlock()
		e.table.Freeze()
		e.logger.Debug(LogMsgEngineSealed, zap.Int(LogFieldTags, len(e.registry.Tags())))
	})
}

// Sealed reports whether registration is closed.
func (e *Engine) Sealed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sealed
}

// Tags returns the registered tag patterns in registration order.
func (e *Engine) Tags() []*TagPattern {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Tags()
}

// Operators returns the registered operators, flow operators included.
func (e *Engine) Operators() []Operator {
	return e.table.Operators()
}

// Comparer returns the name comparer used for keywords and symbols.
func (e *Engine) Comparer() NameComparer {
	return e.config.comparer()
}

// Delimiters returns the tag delimiters.
func (e *Engine) Delimiters() (open, close string) {
	return e.config.openDelim, e.config.closeDelim
}

// FlowSymbols returns the separator, member access and grouping symbols.
func (e *Engine) FlowSymbols() FlowSymbols {
	return e.table.Flow()
}

// Lexer reads a template one unit at a time.
type Lexer struct {
	inner *internal.Lexer
}

// ReadNext returns the next unparsed run or tag, or nil and io.EOF once the
// template is exhausted.
func (l *Lexer) ReadNext() (Lex, error) {
	lex, err := l.inner.ReadNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, convertError(err)
	}
	return lex, nil
}

// NewLexer creates a lexer over source using the engine's grammar.
func (e *Engine) NewLexer(source string) (*Lexer, error) {
	return e.NewLexerFromSource(internal.NewScannerWithConfig(source, e.scanner, e.logger))
}

// NewLexerFromSource creates a lexer that pulls tokens from src instead of
// scanning text. Tag delimiters must arrive as StartTag and EndTag tokens.
func (e *Engine) NewLexerFromSource(src TokenSource) (*Lexer, error) {
	e.seal()

	inner, err := internal.NewLexer(src, e.table, internal.WithLexerLogger(e.logger))
	if err != nil {
		return nil, convertError(err)
	}
	for _, p := range e.registry.Tags() {
		if err := inner.RegisterTag(p); err != nil {
			return nil, convertError(err)
		}
	}
	return &Lexer{inner: inner}, nil
}

// Parse lexes the whole template.
func (e *Engine) Parse(source string) ([]Lex, error) {
	l, err := e.NewLexer(source)
	if err != nil {
		return nil, err
	}

	var lexes []Lex
	for {
		lex, err := l.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lexes = append(lexes, lex)
	}
	e.logger.Debug(LogMsgParseComplete, zap.Int(LogFieldLexes, len(lexes)))
	return lexes, nil
}

// ParseExpression parses text as a single bare expression, without tag
// delimiters.
func (e *Engine) ParseExpression(text string) (*Expression, error) {
	e.seal()

	expr, err := internal.ParseExpression(text, e.table, e.scanner, e.logger)
	if err != nil {
		return nil, convertError(err)
	}
	return expr, nil
}

// NewExpression returns an empty expression over the engine's operators,
// ready to be fed literals and symbols by hand.
func (e *Engine) NewExpression() (*Expression, error) {
	e.seal()

	expr, err := internal.NewExpression(e.table)
	if err != nil {
		return nil, convertError(err)
	}
	return expr, nil
}

// Evaluate evaluates a constructed expression against ec.
func (e *Engine) Evaluate(ctx context.Context, expr *Expression, ec EvalContext, opts ...EvalOption) (Value, error) {
	if expr == nil {
		return Undefined(), NewArgumentError(ErrMsgInvalidArgument, "", nil)
	}
	v, err := expr.Evaluate(ctx, ec, opts...)
	if err != nil {
		return Undefined(), convertError(err)
	}
	return v, nil
}

// EvaluateExpression parses text and evaluates it against data in one step.
func (e *Engine) EvaluateExpression(ctx context.Context, text string, data map[string]any, opts ...EvalOption) (Value, error) {
	expr, err := e.ParseExpression(text)
	if err != nil {
		return Undefined(), err
	}
	return e.Evaluate(ctx, expr, e.dataContext(data), opts...)
}

func (e *Engine) dataContext(data map[string]any) *Context {
	if e.config.functions {
		return NewContext(StandardFunctions()).Child(data)
	}
	return NewContext(data)
}
