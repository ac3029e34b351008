// internal/services/insight_classifier_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phantomos/phantomos-backend/internal/models"
)

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	cases := []struct {
		title       string
		description string
		want        models.InsightType
	}{
		{"Revenue Opportunity Detected", "untapped demand", models.InsightTypeOpportunity},
		{"Inventory Risk Warning", "stock levels dropping", models.InsightTypeWarning},
		{"Apparel growth continues", "", models.InsightTypeOpportunity},
		{"Sales decline in EU", "", models.InsightTypeWarning},
		{"Seasonal pattern in collectibles", "", models.InsightTypeTrend},
		{"Consider bundling hero merchandise", "", models.InsightTypeRecommendation},
		{"", "a consistent weekly cycle", models.InsightTypeTrend},
		{"", "", models.InsightTypeRecommendation},
	}

	for _, tc := range cases {
		got := c.Classify(tc.title, tc.description)
		assert.Equal(t, tc.want, got, "title=%q description=%q", tc.title, tc.description)
	}
}

func TestKeywordClassifierChecksOpportunityFirst(t *testing.T) {
	c := NewKeywordClassifier()

	// Contains both "growth" (opportunity) and "risk" (warning); the
	// opportunity list wins because it is checked first.
	got := c.Classify("Growth at risk", "")
	assert.Equal(t, models.InsightTypeOpportunity, got)
}

func TestKeywordClassifierCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier()
	assert.Equal(t, models.InsightTypeWarning, c.Classify("SEVERE DECLINE", ""))
}
