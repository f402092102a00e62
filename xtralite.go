// Package xtralite is the front end of an extensible text-templating
// language: it splits a template into plain text and tag directives, matches
// every tag against a set of registered tag patterns, and parses the
// expressions embedded in tags with a runtime-extensible operator table.
//
// Tags use {~ and ~} delimiters by default:
//
//	Hello {~ IF user.admin THEN ~}admin{~ END ~}
//
// # Tag Patterns
//
// A tag pattern is a sequence of components written in a small markup:
//
//	IF $ THEN          keyword, expression, keyword
//	FOR ? IN $         any identifier after FOR
//	SORT (ASC DESC)    one identifier out of a fixed set
//
// When several patterns could read the same tag, the most specific reading
// wins. Keywords beat identifier sets, identifier sets beat any identifier
// and identifiers beat expressions.
//
// # Basic Usage
//
//	engine := xtralite.MustNew()
//	engine.MustRegisterTag("IF $ THEN")
//	engine.MustRegisterTag("END")
//
//	lexes, err := engine.Parse("{~ IF a + 1 > 2 THEN ~}yes{~ END ~}")
//	for _, lex := range lexes {
//	    if tag, ok := lex.(*xtralite.TagLex); ok {
//	        fmt.Println(tag.Pattern, tag.Components)
//	    }
//	}
//
// # Expressions
//
// Expressions are built from literals, variable references and operators.
// The standard operator set covers arithmetic, comparison, logical and
// string concatenation operators; more can be registered before first use:
//
//	engine.MustRegisterOperator(&xtralite.BinaryOperator{
//	    Symbol:     "max",
//	    Precedence: xtralite.PrecedenceMultiplicative,
//	    Evaluate: func(l, r xtralite.Value) (xtralite.Value, bool) { ... },
//	})
//
// Expressions evaluate against an EvalContext. Context is the reflection
// based implementation over plain Go data:
//
//	v, err := engine.EvaluateExpression(ctx, "user.Name + '!'", map[string]any{"user": u})
//
// # Errors
//
// Errors returned by the package are go-cuserr custom errors carrying line,
// column and offset metadata. The underlying typed errors remain reachable
// with errors.As.
//
// # Configuration
//
//	engine, _ := xtralite.New(
//	    xtralite.WithDelimiters("<%", "%>"),
//	    xtralite.WithCaseInsensitive(),
//	    xtralite.WithLogger(logger),
//	)
//
// Grammars can also be loaded from YAML files, see LoadGrammarFile.
package xtralite
