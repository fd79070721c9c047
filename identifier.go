package escore

import (
	"regexp"
	"strings"
)

// nidPattern is the grammar for a URN namespace identifier: spec.md §3.
var nidPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ID is a URN-shaped typed identifier, "urn:<nid>:<nss>". N declares the
// namespace for the whole family (see Namespace); two IDs of the same N
// compare equal iff their (nid, nss) pairs are equal, which for a plain
// struct of comparable fields means ID[N] is itself comparable and usable
// as a map key.
type ID[N Namespace] struct {
	nss string
}

// New constructs an ID from a namespace-specific string, validating it is
// non-empty. The namespace itself comes from N and needs no validation
// here (it is fixed at compile time).
func New[N Namespace](nss string) (ID[N], error) {
	if nss == "" {
		return ID[N]{}, &ParseError{Input: nss, Reason: "empty namespace-specific string"}
	}
	return ID[N]{nss: nss}, nil
}

// MustNew is like New but panics on error; intended for constants and tests.
func MustNew[N Namespace](nss string) ID[N] {
	id, err := New[N](nss)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse parses a full "urn:<nid>:<nss>" string, validating that nid matches
// the declared namespace for N.
func Parse[N Namespace](s string) (ID[N], error) {
	var zero N
	wantNID := zero.Namespace()

	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != "urn" {
		return ID[N]{}, &ParseError{Input: s, Reason: "not a URN of the form urn:<nid>:<nss>"}
	}
	nid, nss := parts[1], parts[2]

	if !nidPattern.MatchString(nid) {
		return ID[N]{}, &ParseError{Input: s, Reason: "malformed namespace identifier " + nid}
	}
	if nid != wantNID {
		return ID[N]{}, &ParseError{
			Input:  s,
			Reason: "namespace mismatch: expected " + wantNID + ", got " + nid,
		}
	}
	if nss == "" {
		return ID[N]{}, &ParseError{Input: s, Reason: "empty namespace-specific string"}
	}
	return ID[N]{nss: nss}, nil
}

// Namespace returns the NID declared by N, e.g. "bank-account".
func (id ID[N]) Namespace() string {
	var zero N
	return zero.Namespace()
}

// Nid is an alias of Namespace, matching the accessor name in spec.md §4.A.
func (id ID[N]) Nid() string { return id.Namespace() }

// Nss returns the namespace-specific string component.
func (id ID[N]) Nss() string { return id.nss }

// String returns the canonical "urn:<nid>:<nss>" form.
func (id ID[N]) String() string {
	return "urn:" + id.Namespace() + ":" + id.nss
}

// MarshalText implements encoding.TextMarshaler so an ID round-trips
// through JSON (and anything else that uses TextMarshaler) as its
// canonical string form.
func (id ID[N]) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID[N]) UnmarshalText(b []byte) error {
	parsed, err := Parse[N](string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
