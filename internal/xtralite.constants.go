package internal

// Character constants
const (
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharBackslash   = '\\'
	CharUnderscore  = '_'
	CharDot         = '.'
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
)

// String constants for delimiter matching
const (
	StrOpenDelim  = "{~"
	StrCloseDelim = "~}"
)

// Default expression flow symbols
const (
	DefaultSeparator    = ","
	DefaultMemberAccess = "."
	DefaultGroupOpen    = "("
	DefaultGroupClose   = ")"
)

// Tag markup terms
const (
	MarkupExpression    = "$"
	MarkupAnyIdentifier = "?"
	MarkupGroupOpen     = "("
	MarkupGroupClose    = ")"
	MarkupSeparator     = " "
)

// Rendering constants
const (
	RenderPlaceholder  = "??"
	RenderVarPrefix    = "@"
	RenderArgsOpen     = "{"
	RenderArgsClose    = "}"
	RenderArgSeparator = ","
	RenderUndefined    = "undefined"
	RenderSpace        = " "
	RenderListSep      = ", "
)

// Log message constants
const (
	LogMsgScannerCreated      = "scanner created"
	LogMsgScanStart           = "starting scan"
	LogMsgScanEnd             = "scan complete"
	LogMsgLexerCreated        = "lexer created"
	LogMsgTagRegistered       = "tag registered"
	LogMsgTagCollision        = "tag registration collision"
	LogMsgOperatorRegistered  = "operator registered"
	LogMsgOperatorCollision   = "operator registration collision"
	LogMsgOperatorTableFrozen = "operator table frozen"
	LogMsgTagMatched          = "tag matched"
	LogMsgTagRejected         = "tag rejected"
	LogMsgCandidateDropped    = "tag candidate dropped"
	LogMsgUnparsedRead        = "unparsed text read"
)

// Log field names
const (
	LogFieldSource     = "source_length"
	LogFieldTokens     = "token_count"
	LogFieldTag        = "tag"
	LogFieldSymbol     = "symbol"
	LogFieldKind       = "kind"
	LogFieldOffset     = "offset"
	LogFieldLength     = "length"
	LogFieldCandidates = "candidates"
	LogFieldTagCount   = "tag_count"
	LogFieldReason     = "reason"
)
