package xtralite

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// operatorAlias registers alias with the evaluators of target
type operatorAlias struct {
	alias  string
	target string
}

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	openDelim       string
	closeDelim      string
	flow            FlowSymbols
	caseInsensitive bool
	standardOps     bool
	functions       bool
	aliases         []operatorAlias
	logger          *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		openDelim:   DefaultOpenDelim,
		closeDelim:  DefaultCloseDelim,
		flow:        DefaultFlowSymbols(),
		standardOps: true,
		logger:      nil,
	}
}

// comparer returns the name comparer selected by the configuration
func (c *engineConfig) comparer() NameComparer {
	if c.caseInsensitive {
		return IgnoreCaseComparer
	}
	return OrdinalComparer
}

// WithDelimiters sets custom delimiters for template tags.
// Default: "{~" and "~}"
func WithDelimiters(open, close string) Option {
	return func(c *engineConfig) {
		if open != "" {
			c.openDelim = open
		}
		if close != "" {
			c.closeDelim = close
		}
	}
}

// WithFlowSymbols replaces the separator, member access and grouping symbols.
// Default: "," "." "(" ")"
func WithFlowSymbols(flow FlowSymbols) Option {
	return func(c *engineConfig) {
		c.flow = flow
	}
}

// WithCaseInsensitive makes keywords, identifier sets and operator symbols
// compare by Unicode case folding.
func WithCaseInsensitive() Option {
	return func(c *engineConfig) {
		c.caseInsensitive = true
	}
}

// WithoutStandardOperators starts from an operator table holding only the
// flow symbols.
func WithoutStandardOperators() Option {
	return func(c *engineConfig) {
		c.standardOps = false
	}
}

// WithOperatorAlias registers alias as another spelling of the unary and
// binary operators registered under target, e.g. "and" for "&&".
func WithOperatorAlias(alias, target string) Option {
	return func(c *engineConfig) {
		c.aliases = append(c.aliases, operatorAlias{alias: alias, target: target})
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithStandardFunctions makes EvaluateExpression resolve the helpers of
// StandardFunctions when the data does not define the name.
func WithStandardFunctions() Option {
	return func(c *engineConfig) {
		c.functions = true
	}
}
