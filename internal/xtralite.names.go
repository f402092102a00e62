package internal

import "golang.org/x/text/cases"

// NameComparer decides when two tag or operator names are the same.
// Key must return equal strings exactly for names that compare Equal.
type NameComparer interface {
	Equal(a, b string) bool
	Key(name string) string
}

// OrdinalComparer compares names byte for byte
var OrdinalComparer NameComparer = ordinalComparer{}

// IgnoreCaseComparer compares names after Unicode case folding
var IgnoreCaseComparer NameComparer = foldingComparer{}

type ordinalComparer struct{}

func (ordinalComparer) Equal(a, b string) bool { return a == b }
func (ordinalComparer) Key(name string) string { return name }

type foldingComparer struct{}

func (c foldingComparer) Equal(a, b string) bool { return c.Key(a) == c.Key(b) }

// A fresh Caser per call: cases.Caser keeps state and is not safe for
// concurrent use.
func (foldingComparer) Key(name string) string { return cases.Fold().String(name) }

// comparerOrDefault returns c, or OrdinalComparer when c is nil
func comparerOrDefault(c NameComparer) NameComparer {
	if c == nil {
		return OrdinalComparer
	}
	return c
}
