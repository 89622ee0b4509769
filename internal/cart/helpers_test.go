package cart

import (
	"context"
	"errors"

	"github.com/luxe-commerce/storefront/pkg/localstore"
)

// failingKV wraps a real KV and starts rejecting writes when fail is set.
type failingKV struct {
	localstore.KV
	fail bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("storage quota exceeded")
	}
	return f.KV.Set(ctx, key, value)
}
