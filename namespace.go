package escore

import (
	"reflect"
	"strings"
	"unicode"
)

// Namespace declares the URN namespace identifier (NID) for a family of
// typed identifiers. Implementations are typically zero-size marker types,
// one per aggregate family, e.g.:
//
//	type BankAccountNS struct{}
//	func (BankAccountNS) Namespace() string { return "bank-account" }
//	type BankAccountID = ID[BankAccountNS]
type Namespace interface {
	// Namespace returns the NID: "[a-z0-9][a-z0-9-]*".
	Namespace() string
}

// DeriveNamespace derives the default NID for T by converting its type name
// from CamelCase to kebab-case, e.g. "BankAccount" -> "bank-account",
// "HTTPConnection" -> "http-connection". Aggregate families that want the
// default derivation can call this from their Namespace method instead of
// hand-writing the kebab-case form.
func DeriveNamespace[T any]() string {
	var zero T
	name := reflect.TypeOf(zero).Name()
	return CamelToKebab(name)
}

// CamelToKebab converts a CamelCase (or PascalCase) identifier to
// kebab-case, collapsing runs of adjacent capitals into the head of the
// token they introduce (so "HTTPConnection" becomes "http-connection", not
// "h-t-t-p-connection"), and starting a new token after a digit run (so
// "OAuth2Token" becomes "o-auth2-token").
func CamelToKebab(s string) string {
	runes := []rune(s)
	n := len(runes)

	var b strings.Builder
	b.Grow(n + n/3)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1])
				prevUpper := unicode.IsUpper(runes[i-1])
				prevDigit := unicode.IsDigit(runes[i-1])
				nextLower := i+1 < n && unicode.IsLower(runes[i+1])
				if prevLower || prevDigit || (prevUpper && nextLower) {
					b.WriteByte('-')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
