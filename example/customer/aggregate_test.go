package customer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escore/escore/example/customer"
)

func TestCustomer_RegisterAndRename(t *testing.T) {
	c := customer.New("urn:customer:1")

	require.NoError(t, c.Handle(customer.RegisterCommand{CustomerID: "urn:customer:1", Name: "Jiro"}, customer.Services{}))
	assert.Equal(t, "Jiro", c.Name())

	require.NoError(t, c.Handle(customer.RenameCommand{Name: "Jiro Two"}, customer.Services{}))
	assert.Equal(t, "Jiro Two", c.Name())

	events, expected := c.Flush()
	assert.Len(t, events, 2)
	assert.Equal(t, int64(0), expected)
}

func TestCustomer_RenameBeforeRegisterFails(t *testing.T) {
	c := customer.New("urn:customer:2")
	err := c.Handle(customer.RenameCommand{Name: "x"}, customer.Services{})
	assert.Error(t, err)
}

func TestCustomer_DoubleRegisterFails(t *testing.T) {
	c := customer.New("urn:customer:3")
	require.NoError(t, c.Handle(customer.RegisterCommand{CustomerID: "urn:customer:3", Name: "Jiro"}, customer.Services{}))
	err := c.Handle(customer.RegisterCommand{CustomerID: "urn:customer:3", Name: "Jiro"}, customer.Services{})
	assert.Error(t, err)
}
