package memory_test

import (
	"testing"

	"github.com/aretw0/statewrap/pkg/adapters/memory"
	"github.com/aretw0/statewrap/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunUnitStoreContract(t, store)
}
