package fieldpath

import (
	"strings"
	"unicode"
)

// CheckFn reports whether a given rune matches a given criteria.
type CheckFn func(rune) bool

var (
	IsEOF         = Eq(RuneEOF)
	IsUnderscore  = Eq('_')
	IsLetter      = unicode.IsLetter
	IsDigit       = unicode.IsDigit
	IsDot         = Eq('.')
	IsArrowHyphen = Eq('-')
	IsArrowAngle  = Eq('>')

	// IsIdentStart matches the first rune of a field/table segment.
	IsIdentStart = Or(IsLetter, IsUnderscore)
	// IsIdentRune matches any subsequent rune of a field/table segment.
	IsIdentRune = Or(IsLetter, IsDigit, IsUnderscore)
)

func Eq(valid rune) CheckFn {
	return func(r rune) bool { return r == valid }
}

func In(valid string) CheckFn {
	return func(r rune) bool { return strings.ContainsRune(valid, r) }
}

func Not(valid CheckFn) CheckFn {
	return func(r rune) bool { return !valid(r) }
}

func Or(checks ...CheckFn) CheckFn {
	return func(r rune) bool {
		for _, valid := range checks {
			if valid(r) {
				return true
			}
		}
		return false
	}
}

func And(checks ...CheckFn) CheckFn {
	return func(r rune) bool {
		for _, valid := range checks {
			if !valid(r) {
				return false
			}
		}
		return true
	}
}
