package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-xtralite"
)

// evalConfig holds parsed eval command configuration
type evalConfig struct {
	engine       engineSettings
	expression   string
	dataInline   string
	dataFilePath string
	style        string
	permissive   bool
	format       string
}

// evalOutput is the JSON form of an evaluation
type evalOutput struct {
	Expression string `json:"expression"`
	Kind       string `json:"kind"`
	Value      any    `json:"value"`
}

func runEval(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseEvalFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	if cfg.expression == "" {
		text, err := readInput(InputSourceStdin, stdin)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return ExitCodeInputError
		}
		cfg.expression = strings.TrimSpace(string(text))
	}
	if cfg.expression == "" {
		fmt.Fprintln(stderr, ErrMsgMissingExpression)
		return ExitCodeUsageError
	}

	style := xtralite.RenderCanonical
	if cfg.style != "" {
		s, err := parseStyle(cfg.style)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgInvalidStyle, cfg.style)
			return ExitCodeUsageError
		}
		style = s
	}

	data, err := loadData(cfg.dataInline, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	engine, err := newEngine(cfg.engine)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}

	expr, err := engine.ParseExpression(cfg.expression)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgExpressionFailed, err)
		return ExitCodeLexError
	}

	var opts []xtralite.EvalOption
	if cfg.permissive {
		opts = append(opts, xtralite.WithPermissive())
	}
	ec := xtralite.NewContext(xtralite.StandardFunctions()).Child(data)
	value, err := engine.Evaluate(context.Background(), expr, ec, opts...)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEvaluateFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		output := evalOutput{
			Expression: expr.Render(style),
			Kind:       value.Kind().String(),
			Value:      value.ToGo(),
		}
		jsonBytes, err := json.MarshalIndent(output, "", JSONIndent)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
			return ExitCodeError
		}
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	if cfg.style != "" {
		fmt.Fprintf(stdout, EvalParsedFormat, style, expr.Render(style))
	}
	fmt.Fprintf(stdout, EvalResultFormat, displayValue(value))
	return ExitCodeSuccess
}

func parseEvalFlags(args []string) (*evalConfig, error) {
	fs := flag.NewFlagSet(CmdNameEval, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &evalConfig{}

	fs.StringVar(&cfg.dataInline, FlagData, "", "")
	fs.StringVar(&cfg.dataInline, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.engine.grammarPath, FlagGrammar, "", "")
	fs.StringVar(&cfg.engine.grammarPath, FlagGrammarShort, "", "")
	fs.StringVar(&cfg.style, FlagStyle, "", "")
	fs.StringVar(&cfg.style, FlagStyleShort, "", "")
	fs.BoolVar(&cfg.permissive, FlagPermissive, false, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	// Unquoted shell words are joined back into one expression
	cfg.expression = strings.TrimSpace(strings.Join(fs.Args(), ArgumentSeparator))

	return cfg, nil
}

// displayValue prints undefined explicitly instead of as an empty line
func displayValue(v xtralite.Value) string {
	if v.IsUndefined() {
		return xtralite.ConstUndefined
	}
	return v.String()
}
