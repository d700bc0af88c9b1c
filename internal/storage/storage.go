// Package storage is the persistence port behind the storefront stores.
// Every write replaces a whole JSON document; there are no partial
// updates, so an interrupted write loses at most the latest change.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Port.Read when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Port reads and writes whole documents by key.
type Port interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Document names; the full key is "<namespace>-<name>".
const (
	DocProducts     = "products"
	DocCombos       = "combos"
	DocBusinessInfo = "business-info"
	DocOrderHistory = "order-history"
	DocFeedbacks    = "feedbacks"
)

// DefaultNamespace matches the key prefix the storefront has always used.
const DefaultNamespace = "frango-supremo-app"

// Key builds a namespaced storage key.
func Key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "-" + name
}
