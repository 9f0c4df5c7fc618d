package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/blogd/store"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// TestSecret signs every token issued during tests
const TestSecret = "blogd-test-secret"

func AcquireStore(ctx context.Context, t TestLog, name string) (*store.Store, func()) {
	return AcquirePopulatedStore(ctx, t, name, nil)
}

// AcquirePopulatedStore opens a fresh store under a temporary directory and
// runs loader against it before handing it out.
func AcquirePopulatedStore(ctx context.Context, t TestLog, name string, loader func(context.Context, *store.Store) error) (*store.Store, func()) {
	dir, err := os.MkdirTemp("", "blogd-tests")
	if err != nil {
		t.Fatal(err)
	}
	abspath := filepath.Join(dir, name, "blog.db")
	st, err := store.Open(ctx, abspath)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	if loader != nil {
		err = loader(ctx, st)
		if err != nil {
			st.Close()
			os.RemoveAll(dir)
			t.Fatal(err)
		}
	}
	return st, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
