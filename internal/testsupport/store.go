package testsupport

import (
	"testing"

	"fieldnote/internal/config"
	"fieldnote/internal/localstore"
)

// MustOpenStore opens a local store for the given config and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *localstore.Store {
	t.Helper()

	store, err := localstore.Open(cfg)
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close local store: %v", err)
		}
	})
	return store
}
