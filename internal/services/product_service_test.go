// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phantomos/phantomos-backend/internal/models"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, models.CategoryApparel, normalizeCategory("apparel"))
	assert.Equal(t, models.CategoryApparel, normalizeCategory(" Apparel "))
	assert.Equal(t, models.CategoryCollectibles, normalizeCategory("COLLECTIBLES"))
	assert.Equal(t, models.CategoryOther, normalizeCategory("t-shirts"))
	assert.Equal(t, models.CategoryOther, normalizeCategory(""))
}
