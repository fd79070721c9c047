package customer

import "github.com/escore/escore"

// NS is the URN namespace for customer streams: "urn:customer:<id>".
type NS struct{}

func (NS) Namespace() string { return "customer" }

// ID is a typed customer identifier.
type ID = escore.ID[NS]

// Services is the capability bag Customer.Handle accepts alongside each
// command. The customer family injects nothing today; the type exists so
// Handle's signature matches the rest of the aggregates' convention
// (spec.md §9).
type Services struct{}

// RegisterCommand requests creation of a new customer record.
type RegisterCommand struct {
	CustomerID string
	Name       string
}

// RenameCommand requests a change of a customer's name.
type RenameCommand struct {
	Name string
}

// Customer is the aggregate root for the customer family.
type Customer struct {
	escore.Base

	name       string
	registered bool
}

// New constructs an empty Customer bound to streamID.
func New(streamID string) *Customer {
	c := &Customer{}
	c.Init(streamID, "Customer", c.apply)
	return c
}

func (c *Customer) Name() string { return c.name }

func (c *Customer) apply(e escore.Event) {
	switch ev := e.(type) {
	case Registered:
		c.name = ev.Name
		c.registered = true
	case Renamed:
		c.name = ev.Name
	}
}

// Handle routes a command to domain logic, raising the resulting events.
func (c *Customer) Handle(cmd any, _ Services) error {
	switch cc := cmd.(type) {
	case RegisterCommand:
		if c.registered {
			return errAlreadyRegistered(c.StreamID())
		}
		c.Raise(Registered{CustomerID: cc.CustomerID, Name: cc.Name})
		return nil
	case RenameCommand:
		if !c.registered {
			return errNotRegistered(c.StreamID())
		}
		c.Raise(Renamed{Name: cc.Name})
		return nil
	}
	return errUnknownCommand(cmd)
}

// Registry is the codec table for every event type this family emits.
func Registry() map[string]escore.EventCodec {
	return map[string]escore.EventCodec{
		"CustomerRegistered": escore.JSONCodec[Registered](),
		"CustomerRenamed":    escore.JSONCodec[Renamed](),
	}
}

var _ escore.Aggregate = (*Customer)(nil)
var _ escore.CommandHandler[any, Services] = (*Customer)(nil)
