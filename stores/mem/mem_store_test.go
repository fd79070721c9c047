package mem_test

import (
	"testing"

	escore "github.com/escore/escore"
	"github.com/escore/escore/internal/storetest"
	"github.com/escore/escore/stores/mem"
)

func TestStore_Compliance(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(t *testing.T) escore.EventStore {
		t.Helper()
		return mem.New(mem.WithTypeRegistry(storetest.Registry()))
	})
}
