package main

// Command names
const (
	CmdNameLex     = "lex"
	CmdNameEval    = "eval"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagInput           = "input"
	FlagGrammar         = "grammar"
	FlagTag             = "tag"
	FlagOpen            = "open"
	FlagClose           = "close"
	FlagCaseInsensitive = "case-insensitive"
	FlagStyle           = "style"
	FlagColor           = "color"
	FlagData            = "data"
	FlagDataFile        = "data-file"
	FlagPermissive      = "permissive"
	FlagOutput          = "output"
	FlagFormat          = "format"
)

// Flag names - short form
const (
	FlagInputShort    = "i"
	FlagGrammarShort  = "g"
	FlagTagShort      = "t"
	FlagStyleShort    = "s"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultInput  = "-" // stdin
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
	FlagDefaultStyle  = "canonical"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeLexError   = 3
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgInvalidFlags      = "invalid arguments"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidStyle      = "invalid render style"
	ErrMsgMissingExpression = "expression required"
	ErrMsgTooManyArguments  = "too many arguments"
	ErrMsgReadFileFailed    = "failed to read input"
	ErrMsgInvalidData       = "invalid data (JSON or YAML object expected)"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgEngineFailed      = "failed to configure engine"
	ErrMsgLexFailed         = "lexing failed"
	ErrMsgExpressionFailed  = "expression parsing failed"
	ErrMsgEvaluateFailed    = "evaluation failed"
	ErrMsgJSONMarshalFailed = "failed to marshal JSON"
	ErrMsgDataBothSources   = "use either --data or --data-file, not both"
)

// Help text templates
const (
	HelpMainUsage = `xtralite - Extensible template tag lexer and expression engine

Usage:
    xtralite <command> [options]

Commands:
    lex         Lex a template against registered tag patterns
    eval        Parse and evaluate an expression
    version     Show version information
    help        Show help for a command

Use "xtralite help <command>" for more information about a command.`

	HelpLexUsage = `Lex a template against registered tag patterns

Usage:
    xtralite lex [options]

Options:
    -i, --input <file>        Template file (default: "-" for stdin)
    -g, --grammar <file>      YAML grammar file
    -t, --tag <markup>        Tag pattern markup (repeatable)
    --open <delim>            Opening delimiter (default: "{~")
    --close <delim>           Closing delimiter (default: "~}")
    --case-insensitive        Compare tag names ignoring case
    -s, --style <style>       Expression style: canonical, arithmetic, polish
    -F, --format <format>     Output format: text, json (default: text)
    --color                   Colorize text output
    -o, --output <file>       Output file (default: stdout)

Examples:
    xtralite lex -i page.tpl -t 'IF $ THEN' -t 'END'
    xtralite lex -i page.tpl -g grammar.yaml -F json
    cat page.tpl | xtralite lex -g grammar.yaml --color`

	HelpEvalUsage = `Parse and evaluate an expression

Usage:
    xtralite eval [options] [expression]

The expression is read from stdin when no argument is given. Helper
functions such as upper, lower, join, len and default are available.

Options:
    -d, --data <json|yaml>    Data object
    -f, --data-file <file>    Data file (JSON or YAML)
    -g, --grammar <file>      YAML grammar file (operators and flow symbols)
    -s, --style <style>       Also print the parsed expression in this style
    --permissive              Yield undefined instead of failing
    -F, --format <format>     Output format: text, json (default: text)

Examples:
    xtralite eval '1 + 2 * 3'
    xtralite eval -d '{"items": [1, 2, 3]}' 'items.length * 2'
    echo 'user.name' | xtralite eval -f data.yaml`

	HelpVersionUsage = `Show version information

Usage:
    xtralite version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    xtralite help [command]

Commands:
    lex         Show help for lex command
    eval        Show help for eval command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-xtralite version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// Lex output labels
const (
	LexKindText = "text"
	LexKindTag  = "tag"
)

// Lex text output format templates
const (
	LexTextFormat = "%d:%d\t%s\t%q\n"
	LexTagFormat  = "%d:%d\t%s\t%s\t%s\n"
)

// Eval text output format templates
const (
	EvalParsedFormat = "%s: %s\n"
	EvalResultFormat = "%s\n"
)

// CLI metadata
const (
	CLIName        = "xtralite"
	CLIDescription = "Extensible template tag lexer and expression engine"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	JSONIndent         = "  "
	ComponentSeparator = " "
	ArgumentSeparator  = " "
	ListSeparator      = ", "
)
