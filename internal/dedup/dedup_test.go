package dedup

import (
	"testing"

	"go-jobradar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIndex_CompositeKeys(t *testing.T) {
	idx := NewIndex()
	assert.True(t, idx.Add(models.Key{Platform: models.PlatformOCC, ID: "42"}))
	assert.False(t, idx.Add(models.Key{Platform: models.PlatformOCC, ID: "42"}))

	assert.True(t, idx.Has(models.Key{Platform: models.PlatformOCC, ID: "42"}))
	assert.False(t, idx.Has(models.Key{Platform: models.PlatformIndeed, ID: "42"}), "same raw id on another platform is a different record")
	assert.True(t, idx.Add(models.Key{Platform: models.PlatformIndeed, ID: "42"}))
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_LegacyRowsMatchAnyPlatform(t *testing.T) {
	idx := IndexRows([]models.Row{
		{models.ColJobID: "1", models.ColTitle: "DevOps Engineer"},
		{models.ColJobID: "None"},
		{models.ColJobID: ""},
	})

	assert.Equal(t, 1, idx.Len())
	assert.True(t, idx.Has(models.Key{Platform: models.PlatformLinkedIn, ID: "1"}))
	assert.True(t, idx.Has(models.Key{ID: "1"}))
	assert.False(t, idx.Has(models.Key{ID: "None"}))
}

func TestIndex_LegacyLookupAgainstExact(t *testing.T) {
	idx := NewIndex()
	idx.Add(models.Key{Platform: models.PlatformOCC, ID: "7"})

	assert.True(t, idx.Has(models.Key{ID: "7"}))
	assert.False(t, idx.Add(models.Key{ID: "7"}))
}

func TestIndex_Clone(t *testing.T) {
	idx := NewIndex()
	idx.Add(models.Key{Platform: models.PlatformOCC, ID: "1"})

	c := idx.Clone()
	c.Add(models.Key{Platform: models.PlatformOCC, ID: "2"})

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 2, c.Len())
}
