package xtralite

import "github.com/itsatony/go-xtralite/internal"

// Delimiter constants
const (
	DefaultOpenDelim  = internal.StrOpenDelim
	DefaultCloseDelim = internal.StrCloseDelim
)

// Flow symbol defaults
const (
	DefaultSeparator    = internal.DefaultSeparator
	DefaultMemberAccess = internal.DefaultMemberAccess
	DefaultGroupOpen    = internal.DefaultGroupOpen
	DefaultGroupClose   = internal.DefaultGroupClose
)

// Names Context resolves when the data does not define them
const (
	ConstTrue      = "true"
	ConstFalse     = "false"
	ConstNull      = "null"
	ConstUndefined = "undefined"
)

// MemberLength is answered by Context for strings and sequences
const MemberLength = "length"

// PathSeparator separates the segments of a Context.Get path
const PathSeparator = "."

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeySymbol      = "symbol"
	MetaKeyDetail      = "detail"
	MetaKeyMarkup      = "markup"
	MetaKeyPath        = "path"
	MetaKeyAlias       = "alias"
	MetaKeyTarget      = "target"
	MetaKeySuggestions = "suggestions"
)

// Log messages
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgEngineSealed       = "engine registration sealed"
	LogMsgTagRegistered      = "tag registered"
	LogMsgOperatorRegistered = "operator registered"
	LogMsgAliasRegistered    = "operator alias registered"
	LogMsgGrammarLoaded      = "grammar loaded"
	LogMsgParseComplete      = "template parsed"
)

// Log field names
const (
	LogFieldTag       = "tag"
	LogFieldSymbol    = "symbol"
	LogFieldTarget    = "target"
	LogFieldTags      = "tag_count"
	LogFieldOperators = "operator_count"
	LogFieldLexes     = "lex_count"
	LogFieldPath      = "path"
	LogFieldOpen      = "open_delim"
	LogFieldClose     = "close_delim"
)
