// Package localstore is the device-local persistence layer. Every store in
// the app serializes its whole state into one namespaced bucket; the bucket
// names and JSON shapes match what the original web client wrote to browser
// storage, so an existing state file keeps working.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Bucket keys.
const (
	KeyCart          = "cart-storage"
	KeyWishlist      = "wishlist-storage"
	KeyOrders        = "orders-storage"
	KeyAuthenticated = "isAuthenticated"
	KeyAuthUser      = "auth_user"
	KeyCredentials   = "auth_users"
)

func init() {
	// Money fields must round-trip as bare JSON numbers to stay compatible
	// with buckets written by the web client.
	decimal.MarshalJSONWithoutQuotes = true
}

// KV is the raw key-value surface stores persist through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON unmarshals the bucket into dest. The second return is false when
// the bucket has never been written.
func LoadJSON(ctx context.Context, kv KV, key string, dest any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load bucket %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode bucket %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON marshals value and writes it under key.
func SaveJSON(ctx context.Context, kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode bucket %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write bucket %s: %w", key, err)
	}
	return nil
}
