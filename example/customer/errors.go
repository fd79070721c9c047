package customer

import "fmt"

func errAlreadyRegistered(streamID string) error {
	return fmt.Errorf("customer: %s is already registered", streamID)
}

func errNotRegistered(streamID string) error {
	return fmt.Errorf("customer: %s is not registered", streamID)
}

func errUnknownCommand(cmd any) error {
	return fmt.Errorf("customer: unknown command type %T", cmd)
}
