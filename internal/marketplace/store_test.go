package marketplace_test

import (
	"testing"

	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReplaceAndItems(t *testing.T) {
	store := marketplace.NewStore()
	assert.Empty(t, store.Items())
	assert.True(t, store.RefreshedAt().IsZero())

	store.Replace([]entity.MarketplaceItem{{Id: "a", Slug: "cool-cat"}})
	assert.Len(t, store.Items(), 1)
	assert.False(t, store.RefreshedAt().IsZero())
}

func TestStoreItemsReturnsCopy(t *testing.T) {
	store := marketplace.NewStore()
	store.Replace([]entity.MarketplaceItem{{Id: "a"}})

	items := store.Items()
	items[0].Id = "mutated"

	assert.Equal(t, "a", store.Items()[0].Id)
}

func TestStoreFindBySlug(t *testing.T) {
	store := marketplace.NewStore()
	store.Replace([]entity.MarketplaceItem{{Id: "a", Slug: "cool-cat"}})

	item, found := store.FindBySlug("cool-cat")
	require.True(t, found)
	assert.Equal(t, "a", item.Id)

	_, found = store.FindBySlug("missing")
	assert.False(t, found)
}
