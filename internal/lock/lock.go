// Package lock serializes work on named resources such as a product id or a phone number.
package lock

import (
	"context"
	"sort"
)

// Release gives back every key taken by one Acquire call. Calling it twice is a no-op.
type Release func()

type Locker interface {
	// Acquire blocks until every key is held or ctx is done.
	Acquire(ctx context.Context, keys ...string) (Release, error)
}

// normalize sorts and dedupes keys so that every caller takes them in the same order.
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func ProductKey(id string) string {
	return "product:" + id
}

func CustomerKey(phone string) string {
	return "customer-phone:" + phone
}

// ProductNumberKey guards creation of a product number before the product has an id.
func ProductNumberKey(number string) string {
	return "product-number:" + number
}
