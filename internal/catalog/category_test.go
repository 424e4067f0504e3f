package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.Label(), c)
	}
	assert.False(t, Category("pizzas").Valid())
	assert.Empty(t, Category("pizzas").Label())
}

func TestSubcategory_Table(t *testing.T) {
	for _, s := range subcategories {
		assert.True(t, s.Valid(), s)
		assert.NotEmpty(t, s.Label(), s)
		assert.True(t, s.Category().Valid(), s)
	}

	assert.Equal(t, CategoryPastasRellenas, SubRavioles.Category())
	assert.False(t, Subcategory("calzone").Valid())
}

func TestTree(t *testing.T) {
	tree := Tree()
	assert.Len(t, tree, len(categories))

	total := 0
	for _, c := range tree {
		total += len(c.Subcategories)
	}
	assert.Equal(t, len(subcategories), total)

	assert.Equal(t, CategoryPastasRellenas, tree[0].Slug)
	assert.Equal(t, SubRavioles, tree[0].Subcategories[0].Slug)
	// Combos have no subcategories but still render an empty list.
	assert.NotNil(t, tree[len(tree)-1].Subcategories)
}
