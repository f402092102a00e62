package xtralite

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Standard function names
const (
	FuncNameUpper     = "upper"
	FuncNameLower     = "lower"
	FuncNameTrim      = "trim"
	FuncNameContains  = "contains"
	FuncNameHasPrefix = "hasPrefix"
	FuncNameHasSuffix = "hasSuffix"
	FuncNameReplace   = "replace"
	FuncNameSplit     = "split"
	FuncNameJoin      = "join"
	FuncNameLen       = "len"
	FuncNameDefault   = "default"
	FuncNameAbs       = "abs"
	FuncNameRound     = "round"
	FuncNameFloor     = "floor"
	FuncNameCeil      = "ceil"
)

// StandardFunctions returns a fresh set of helper functions for use as
// Context data, for example NewContext(StandardFunctions()).Child(data).
// Names in the child data shadow them.
func StandardFunctions() map[string]any {
	return map[string]any{
		FuncNameUpper:     strings.ToUpper,
		FuncNameLower:     strings.ToLower,
		FuncNameTrim:      strings.TrimSpace,
		FuncNameContains:  strings.Contains,
		FuncNameHasPrefix: strings.HasPrefix,
		FuncNameHasSuffix: strings.HasSuffix,
		FuncNameReplace:   strings.ReplaceAll,
		FuncNameSplit:     strings.Split,
		FuncNameJoin:      joinValues,
		FuncNameLen:       lengthOf,
		FuncNameDefault:   firstDefined,
		FuncNameAbs:       decimal.Decimal.Abs,
		FuncNameRound:     roundNumber,
		FuncNameFloor:     decimal.Decimal.Floor,
		FuncNameCeil:      decimal.Decimal.Ceil,
	}
}

// joinValues joins the items of its first argument with an optional separator
func joinValues(args []Value) Value {
	if len(args) == 0 || len(args) > 2 {
		return Undefined()
	}
	sep := ""
	if len(args) == 2 {
		sep = args[1].String()
	}
	items := args[0].Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return String(strings.Join(parts, sep))
}

// lengthOf counts runes of a string or items of a sequence
func lengthOf(args []Value) Value {
	if len(args) != 1 {
		return Undefined()
	}
	if s, ok := args[0].AsString(); ok {
		return NumberFromInt(int64(utf8.RuneCountInString(s)))
	}
	if items, ok := args[0].AsSequence(); ok {
		return NumberFromInt(int64(len(items)))
	}
	return Undefined()
}

// firstDefined returns the first argument that is not undefined
func firstDefined(args []Value) Value {
	for _, arg := range args {
		if !arg.IsUndefined() {
			return arg
		}
	}
	return Undefined()
}

func roundNumber(d decimal.Decimal, places ...int32) decimal.Decimal {
	if len(places) > 0 {
		return d.Round(places[0])
	}
	return d.Round(0)
}
