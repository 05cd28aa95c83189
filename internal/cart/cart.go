// Package cart implements the shopping cart operations and the merge
// that reconciles an anonymous cart with an account cart at sign-in.
// All functions here are pure slice transformations; persistence is the
// caller's concern (see Store for the persisting wrapper).
package cart

import "github.com/florapress/bookshop/internal/model"

// Add returns the cart with slug present as an active line. If a line
// for the slug already exists its Removed flag is cleared; otherwise a
// new active line is appended. The result never holds two lines for
// the same slug.
func Add(items []model.CartItem, slug string) []model.CartItem {
	for i := range items {
		if items[i].Slug == slug {
			items[i].Removed = false
			return items
		}
	}
	return append(items, model.CartItem{Slug: slug})
}

// Remove soft-deletes the line for slug by setting its Removed flag.
// A slug with no line is left alone; removal of an absent item is not
// an error.
func Remove(items []model.CartItem, slug string) []model.CartItem {
	for i := range items {
		if items[i].Slug == slug {
			items[i].Removed = true
			return items
		}
	}
	return items
}

// Toggle flips the Removed flag of an existing line, or appends a new
// active line when the slug is absent.
func Toggle(items []model.CartItem, slug string) []model.CartItem {
	for i := range items {
		if items[i].Slug == slug {
			items[i].Removed = !items[i].Removed
			return items
		}
	}
	return append(items, model.CartItem{Slug: slug})
}

// IsActive reports whether the cart holds a non-removed line for slug.
func IsActive(items []model.CartItem, slug string) bool {
	for _, it := range items {
		if it.Slug == slug && !it.Removed {
			return true
		}
	}
	return false
}

// Active returns only the non-removed lines, preserving order. These
// are the lines counted in totals and eligible for checkout.
func Active(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if !it.Removed {
			out = append(out, it)
		}
	}
	return out
}

// Merge reconciles an anonymous local cart with the account's server
// cart into a single deduplicated cart. The server cart seeds the
// result; local-only lines are appended unchanged. When both sides
// hold the same slug the merged line is removed only if BOTH sides
// had removed it, so an item active on either side survives as active.
//
// Order is deterministic: server lines first in their original order,
// then new local lines in theirs. Merging an empty local cart returns
// the server cart unchanged, which makes the operation safe to rerun
// after the local mirror has been cleared.
func Merge(local, server []model.CartItem) []model.CartItem {
	merged := make([]model.CartItem, 0, len(server)+len(local))
	index := make(map[string]int, len(server))

	for _, it := range server {
		if _, ok := index[it.Slug]; ok {
			continue // server carts should already be unique per slug
		}
		index[it.Slug] = len(merged)
		merged = append(merged, it)
	}

	for _, it := range local {
		if i, ok := index[it.Slug]; ok {
			merged[i].Removed = merged[i].Removed && it.Removed
			continue
		}
		index[it.Slug] = len(merged)
		merged = append(merged, it)
	}

	return merged
}
