package mem

import "fmt"

func errNoCodec(eventType string) error {
	return fmt.Errorf("mem: no codec registered for event type %q", eventType)
}
