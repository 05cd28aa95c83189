package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/florapress/bookshop/internal/model"
)

func slugs(items []model.CartItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Slug)
	}
	return out
}

func TestAddRemoveToggle(t *testing.T) {
	var items []model.CartItem

	items = Add(items, "dracula")
	assert.True(t, IsActive(items, "dracula"))

	items = Remove(items, "dracula")
	assert.False(t, IsActive(items, "dracula"))
	assert.Len(t, items, 1, "removal is a soft flag, the line stays")

	items = Add(items, "dracula")
	assert.True(t, IsActive(items, "dracula"), "re-adding revives the removed line")
	assert.Len(t, items, 1)

	items = Toggle(items, "dracula")
	assert.False(t, IsActive(items, "dracula"))
	items = Toggle(items, "dracula")
	assert.True(t, IsActive(items, "dracula"))

	items = Toggle(items, "jane-eyre")
	assert.True(t, IsActive(items, "jane-eyre"), "toggle inserts an active line when absent")
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	items := []model.CartItem{{Slug: "dracula"}}
	items = Remove(items, "jane-eyre")
	assert.Equal(t, []model.CartItem{{Slug: "dracula"}}, items)
}

func TestUniquenessUnderAnySequence(t *testing.T) {
	var items []model.CartItem
	ops := []func([]model.CartItem, string) []model.CartItem{Add, Remove, Toggle, Add, Toggle, Remove, Add}
	for _, op := range ops {
		for _, s := range []string{"dracula", "jane-eyre", "dracula"} {
			items = op(items, s)
		}
	}
	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.Slug], "duplicate line for %s", it.Slug)
		seen[it.Slug] = true
	}
}

func TestActiveFiltersRemovedLines(t *testing.T) {
	items := []model.CartItem{
		{Slug: "dracula"},
		{Slug: "jane-eyre", Removed: true},
		{Slug: "madame-bovary"},
	}
	assert.Equal(t, []string{"dracula", "madame-bovary"}, slugs(Active(items)))
}

func TestMergeDisjointCarts(t *testing.T) {
	local := []model.CartItem{{Slug: "a"}}
	server := []model.CartItem{{Slug: "b"}}

	merged := Merge(local, server)
	assert.Equal(t, []string{"b", "a"}, slugs(merged), "server lines come first")
	assert.True(t, IsActive(merged, "a"))
	assert.True(t, IsActive(merged, "b"))

	// Commutative on the active set when no keys overlap.
	flipped := Merge(server, local)
	assert.ElementsMatch(t, slugs(merged), slugs(flipped))
}

func TestMergeOverlapFavorsActivity(t *testing.T) {
	cases := []struct {
		name          string
		local, server bool // removed flags
		wantRemoved   bool
	}{
		{"active both sides", false, false, false},
		{"removed locally only", true, false, false},
		{"removed on server only", false, true, false},
		{"removed both sides", true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged := Merge(
				[]model.CartItem{{Slug: "x", Removed: tc.local}},
				[]model.CartItem{{Slug: "x", Removed: tc.server}},
			)
			assert.Len(t, merged, 1)
			assert.Equal(t, tc.wantRemoved, merged[0].Removed)
		})
	}
}

func TestMergeEmptyLocalIsNoOp(t *testing.T) {
	server := []model.CartItem{{Slug: "dracula"}, {Slug: "jane-eyre", Removed: true}}
	assert.Equal(t, server, Merge(nil, server), "rerunning merge after the mirror is cleared must not change the server cart")
}

func TestMergeAnonymousCartIntoEmptyAccount(t *testing.T) {
	local := []model.CartItem{{Slug: "dracula"}}
	merged := Merge(local, nil)
	assert.Equal(t, []model.CartItem{{Slug: "dracula"}}, merged)
}

func TestMergeCollapsesDuplicateLocalLines(t *testing.T) {
	local := []model.CartItem{{Slug: "dracula", Removed: true}, {Slug: "dracula"}}
	merged := Merge(local, nil)
	assert.Len(t, merged, 1)
	assert.False(t, merged[0].Removed, "active duplicate wins")
}
