// Package customer is a second, deliberately minimal aggregate family. Its
// only purpose is to give the query-event union (escore/union) and
// ByStreamType cross-family queries more than one family to join — a
// single aggregate type cannot exercise either.
package customer

// Registered is emitted when a new customer record is created.
type Registered struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

func (Registered) EventType() string { return "CustomerRegistered" }

// Renamed is emitted when a customer's name changes.
type Renamed struct {
	Name string `json:"name"`
}

func (Renamed) EventType() string { return "CustomerRenamed" }
