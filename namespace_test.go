package escore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	escore "github.com/escore/escore"
)

func TestCamelToKebab(t *testing.T) {
	cases := map[string]string{
		"BankAccount":    "bank-account",
		"HTTPConnection": "http-connection",
		"ID":             "id",
		"Customer":       "customer",
		"OAuth2Token":    "o-auth2-token",
	}
	for in, want := range cases {
		assert.Equal(t, want, escore.CamelToKebab(in), "input %q", in)
	}
}

type bankAccountMarker struct{}

func TestDeriveNamespace(t *testing.T) {
	assert.Equal(t, "bank-account-marker", escore.DeriveNamespace[bankAccountMarker]())
}
