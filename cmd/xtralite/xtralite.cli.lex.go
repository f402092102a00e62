package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/itsatony/go-xtralite"
)

// lexConfig holds parsed lex command configuration
type lexConfig struct {
	engine     engineSettings
	inputPath  string
	outputPath string
	format     string
	style      xtralite.RenderStyle
	color      bool
}

// lexOutput is the JSON form of one lexed unit
type lexOutput struct {
	Kind       string            `json:"kind"`
	Line       int               `json:"line"`
	Column     int               `json:"column"`
	Offset     int               `json:"offset"`
	Length     int               `json:"length"`
	Text       string            `json:"text,omitempty"`
	Pattern    string            `json:"pattern,omitempty"`
	Components []componentOutput `json:"components,omitempty"`
}

// componentOutput is the JSON form of one matched tag component
type componentOutput struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// palette colors the parts of a text listing
type palette struct {
	kind    func(a ...any) string
	pattern func(a ...any) string
	keyword func(a ...any) string
	expr    func(a ...any) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{kind: fmt.Sprint, pattern: fmt.Sprint, keyword: fmt.Sprint, expr: fmt.Sprint}
	}
	paint := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		kind:    paint(color.Faint),
		pattern: paint(color.FgCyan),
		keyword: paint(color.Bold),
		expr:    paint(color.FgYellow),
	}
}

func runLex(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseLexFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engine, err := newEngine(cfg.engine)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}

	lexes, err := engine.Parse(string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLexFailed, err)
		return ExitCodeLexError
	}

	var out []byte
	if cfg.format == OutputFormatJSON {
		out, err = formatLexJSON(lexes, cfg.style)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
			return ExitCodeError
		}
	} else {
		out = formatLexText(lexes, cfg.style, newPalette(cfg.color))
	}

	if err := writeOutput(cfg.outputPath, out, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseLexFlags(args []string) (*lexConfig, error) {
	fs := flag.NewFlagSet(CmdNameLex, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &lexConfig{}
	var style string

	fs.StringVar(&cfg.inputPath, FlagInput, FlagDefaultInput, "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, FlagDefaultInput, "")
	fs.StringVar(&cfg.engine.grammarPath, FlagGrammar, "", "")
	fs.StringVar(&cfg.engine.grammarPath, FlagGrammarShort, "", "")
	fs.Var(&cfg.engine.tags, FlagTag, "")
	fs.Var(&cfg.engine.tags, FlagTagShort, "")
	fs.StringVar(&cfg.engine.open, FlagOpen, "", "")
	fs.StringVar(&cfg.engine.close, FlagClose, "", "")
	fs.BoolVar(&cfg.engine.caseInsensitive, FlagCaseInsensitive, false, "")
	fs.StringVar(&style, FlagStyle, FlagDefaultStyle, "")
	fs.StringVar(&style, FlagStyleShort, FlagDefaultStyle, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.color, FlagColor, false, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.New(ErrMsgTooManyArguments)
	}
	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	s, err := parseStyle(style)
	if err != nil {
		return nil, err
	}
	cfg.style = s

	return cfg, nil
}

// renderComponent renders a matched component, expressions in the given style
func renderComponent(c xtralite.TagComponent, style xtralite.RenderStyle) string {
	if c.IsExpression() {
		return c.Expression.Render(style)
	}
	return c.Text
}

// formatLexText lists one unit per line: position, kind, then the text or
// the matched pattern followed by its components.
func formatLexText(lexes []xtralite.Lex, style xtralite.RenderStyle, p palette) []byte {
	var buf bytes.Buffer
	for _, lex := range lexes {
		pos := lex.Pos()
		switch l := lex.(type) {
		case *xtralite.UnparsedLex:
			fmt.Fprintf(&buf, LexTextFormat, pos.Line, pos.Column, p.kind(LexKindText), l.Text)
		case *xtralite.TagLex:
			parts := make([]string, len(l.Components))
			for i, c := range l.Components {
				if c.IsExpression() {
					parts[i] = p.expr(renderComponent(c, style))
				} else {
					parts[i] = p.keyword(c.Text)
				}
			}
			fmt.Fprintf(&buf, LexTagFormat, pos.Line, pos.Column, p.kind(LexKindTag),
				p.pattern(l.Pattern.String()), strings.Join(parts, ComponentSeparator))
		}
	}
	return buf.Bytes()
}

func formatLexJSON(lexes []xtralite.Lex, style xtralite.RenderStyle) ([]byte, error) {
	output := make([]lexOutput, 0, len(lexes))
	for _, lex := range lexes {
		pos := lex.Pos()
		entry := lexOutput{Line: pos.Line, Column: pos.Column, Offset: pos.Offset, Length: lex.Len()}
		switch l := lex.(type) {
		case *xtralite.UnparsedLex:
			entry.Kind = LexKindText
			entry.Text = l.Text
		case *xtralite.TagLex:
			entry.Kind = LexKindTag
			entry.Pattern = l.Pattern.String()
			for i, c := range l.Components {
				entry.Components = append(entry.Components, componentOutput{
					Kind: strings.ToLower(l.Pattern.Component(i).Kind.String()),
					Text: renderComponent(c, style),
				})
			}
		}
		output = append(output, entry)
	}

	data, err := json.MarshalIndent(output, "", JSONIndent)
	if err != nil {
		return nil, err
	}
	return append(data, FmtNewline...), nil
}
