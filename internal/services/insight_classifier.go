// internal/services/insight_classifier.go
package services

import (
	"strings"

	"github.com/phantomos/phantomos-backend/internal/models"
)

// InsightClassifier assigns a type to a generated insight. The default is a
// keyword heuristic over the title and description; keeping it behind an
// interface lets a structured-output contract from the generation service
// replace it without touching callers.
type InsightClassifier interface {
	Classify(title, description string) models.InsightType
}

type KeywordClassifier struct{}

var (
	opportunityKeywords = []string{"opportunity", "growth", "increase", "potential"}
	warningKeywords     = []string{"warning", "decline", "concern", "risk", "drop"}
	trendKeywords       = []string{"trend", "pattern", "consistent"}
)

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (k *KeywordClassifier) Classify(title, description string) models.InsightType {
	text := strings.ToLower(title + " " + description)

	for _, word := range opportunityKeywords {
		if strings.Contains(text, word) {
			return models.InsightTypeOpportunity
		}
	}
	for _, word := range warningKeywords {
		if strings.Contains(text, word) {
			return models.InsightTypeWarning
		}
	}
	for _, word := range trendKeywords {
		if strings.Contains(text, word) {
			return models.InsightTypeTrend
		}
	}

	return models.InsightTypeRecommendation
}
