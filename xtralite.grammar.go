package xtralite

import (
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Grammar is the YAML form of an engine configuration:
//
//	delimiters: {open: "<%", close: "%>"}
//	case_insensitive: true
//	aliases: {and: "&&", or: "||", not: "!"}
//	tags:
//	  - IF $ THEN
//	  - FOR ? IN $
//	  - END
type Grammar struct {
	Delimiters        *GrammarDelimiters `yaml:"delimiters,omitempty"`
	Flow              *GrammarFlow       `yaml:"flow,omitempty"`
	CaseInsensitive   bool               `yaml:"case_insensitive,omitempty"`
	StandardOperators *bool              `yaml:"standard_operators,omitempty"`
	StandardFunctions bool               `yaml:"standard_functions,omitempty"`
	Aliases           map[string]string  `yaml:"aliases,omitempty"`
	Tags              []string           `yaml:"tags"`
}

// GrammarDelimiters overrides the tag delimiters
type GrammarDelimiters struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// GrammarFlow overrides the flow symbols; empty fields keep their default
type GrammarFlow struct {
	Separator    string `yaml:"separator,omitempty"`
	MemberAccess string `yaml:"member_access,omitempty"`
	GroupOpen    string `yaml:"group_open,omitempty"`
	GroupClose   string `yaml:"group_close,omitempty"`
}

// ParseGrammar decodes a YAML grammar.
func ParseGrammar(data []byte) (*Grammar, error) {
	return decodeGrammar(data, "")
}

func decodeGrammar(data []byte, path string) (*Grammar, error) {
	var g Grammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, NewGrammarError(ErrMsgGrammarDecode, path, err)
	}
	return &g, nil
}

// LoadGrammar reads and decodes a YAML grammar.
func LoadGrammar(r io.Reader) (*Grammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewGrammarError(ErrMsgGrammarRead, "", err)
	}
	return ParseGrammar(data)
}

// LoadGrammarFile reads and decodes the YAML grammar at path.
func LoadGrammarFile(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewGrammarError(ErrMsgGrammarRead, path, err)
	}
	return decodeGrammar(data, path)
}

// Options converts the grammar settings into engine options. Tags are not
// included; NewFromGrammar registers them.
func (g *Grammar) Options() []Option {
	var opts []Option
	if g.Delimiters != nil {
		opts = append(opts, WithDelimiters(g.Delimiters.Open, g.Delimiters.Close))
	}
	if g.Flow != nil {
		flow := DefaultFlowSymbols()
		if g.Flow.Separator != "" {
			flow.Separator = g.Flow.Separator
		}
		if g.Flow.MemberAccess != "" {
			flow.MemberAccess = g.Flow.MemberAccess
		}
		if g.Flow.GroupOpen != "" {
			flow.GroupOpen = g.Flow.GroupOpen
		}
		if g.Flow.GroupClose != "" {
			flow.GroupClose = g.Flow.GroupClose
		}
		opts = append(opts, WithFlowSymbols(flow))
	}
	if g.CaseInsensitive {
		opts = append(opts, WithCaseInsensitive())
	}
	if g.StandardOperators != nil && !*g.StandardOperators {
		opts = append(opts, WithoutStandardOperators())
	}
	if g.StandardFunctions {
		opts = append(opts, WithStandardFunctions())
	}

	aliases := make([]string, 0, len(g.Aliases))
	for alias := range g.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		opts = append(opts, WithOperatorAlias(alias, g.Aliases[alias]))
	}
	return opts
}

// NewFromGrammar creates an engine configured by g with its tags registered.
// opts are applied after the grammar settings and can override them.
func NewFromGrammar(g *Grammar, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, NewArgumentError(ErrMsgNilGrammar, "", nil)
	}

	engine, err := New(append(g.Options(), opts...)...)
	if err != nil {
		return nil, err
	}
	for _, markup := range g.Tags {
		if err := engine.RegisterTag(markup); err != nil {
			return nil, err
		}
	}
	engine.logger.Debug(LogMsgGrammarLoaded, zap.Int(LogFieldTags, len(g.Tags)))
	return engine, nil
}
