// internal/services/insight_service_test.go
package services

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomos/phantomos-backend/internal/models"
)

func TestParseInsightPayloadArray(t *testing.T) {
	raw := `[
		{"title": "Hero merch is hot", "description": "Sales up", "type": "trend", "confidence": "0.8"},
		{"title": "Tag your catalog", "description": "Too many untagged", "type": "warning"}
	]`

	payloads, fallback := parseInsightPayload(raw)
	require.False(t, fallback)
	require.Len(t, payloads, 2)
	assert.Equal(t, "Hero merch is hot", payloads[0].Title)
	assert.Equal(t, "0.8", payloads[0].Confidence)
	assert.Equal(t, "warning", payloads[1].Type)
}

func TestParseInsightPayloadCapsAtFive(t *testing.T) {
	items := make([]string, 8)
	for i := range items {
		items[i] = `{"title": "t", "description": "d"}`
	}
	raw := "[" + strings.Join(items, ",") + "]"

	payloads, fallback := parseInsightPayload(raw)
	assert.False(t, fallback)
	assert.Len(t, payloads, 5)
}

func TestParseInsightPayloadFencedJSON(t *testing.T) {
	raw := "```json\n[{\"title\": \"Fenced\", \"description\": \"still parses\"}]\n```"

	payloads, fallback := parseInsightPayload(raw)
	require.False(t, fallback)
	require.Len(t, payloads, 1)
	assert.Equal(t, "Fenced", payloads[0].Title)
}

func TestParseInsightPayloadSingleObjectNormalized(t *testing.T) {
	raw := `{"title": "Solo", "description": "one object, not an array"}`

	payloads, fallback := parseInsightPayload(raw)
	require.False(t, fallback)
	require.Len(t, payloads, 1)
	assert.Equal(t, "Solo", payloads[0].Title)
}

func TestParseInsightPayloadPlainTextFallback(t *testing.T) {
	raw := "The model decided to answer in prose instead of JSON."

	payloads, fallback := parseInsightPayload(raw)
	require.True(t, fallback)
	require.Len(t, payloads, 1)
	assert.Equal(t, "AI Analysis", payloads[0].Title)
	assert.Equal(t, raw, payloads[0].Description)
	assert.Equal(t, string(models.InsightTypeRecommendation), payloads[0].Type)
}

func TestParseInsightPayloadFallbackTruncatesDescription(t *testing.T) {
	raw := strings.Repeat("a", 800)

	payloads, fallback := parseInsightPayload(raw)
	require.True(t, fallback)
	assert.Len(t, payloads[0].Description, 500)
}

// Truncation counts characters, not bytes, so multibyte text stays valid
// UTF-8 at exactly 500 runes.
func TestParseInsightPayloadFallbackTruncatesRunes(t *testing.T) {
	raw := strings.Repeat("你", 600)

	payloads, fallback := parseInsightPayload(raw)
	require.True(t, fallback)

	desc := payloads[0].Description
	assert.Equal(t, 500, len([]rune(desc)))
	assert.True(t, utf8.ValidString(desc))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `[1]`, stripCodeFence("```json\n[1]\n```"))
	assert.Equal(t, `[1]`, stripCodeFence("```\n[1]\n```"))
	assert.Equal(t, `[1]`, stripCodeFence("[1]"))
}

func insightWithBatch(title, batchID string, createdAt time.Time) models.AIInsight {
	i := models.AIInsight{
		BatchID: batchID,
		Title:   title,
	}
	i.CreatedAt = createdAt
	return i
}

func TestGroupBatchesNewestFirst(t *testing.T) {
	older := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)

	insights := []models.AIInsight{
		insightWithBatch("B1", "batch-new", newer),
		insightWithBatch("B2", "batch-new", newer),
		insightWithBatch("A1", "batch-old", older),
	}

	batches := groupBatches(insights)
	require.Len(t, batches, 2)
	assert.Equal(t, "batch-new", batches[0].BatchID)
	assert.Len(t, batches[0].Insights, 2)
	assert.Equal(t, "batch-old", batches[1].BatchID)
}

func TestGroupBatchesFallsBackToCreationDate(t *testing.T) {
	legacy := insightWithBatch("Old row", "", time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC))

	batches := groupBatches([]models.AIInsight{legacy})
	require.Len(t, batches, 1)
	assert.Equal(t, "2025-02-14", batches[0].BatchID)
}

func TestCompareBatches(t *testing.T) {
	current := []models.AIInsight{
		{Title: "Recurring Issue"},
		{Title: "Brand New Finding"},
	}
	previous := []models.AIInsight{
		{Title: "recurring issue"},
		{Title: "Resolved Problem"},
	}

	diff := CompareBatches(current, previous)
	assert.Equal(t, []string{"Brand New Finding"}, diff.New)
	assert.Equal(t, []string{"Resolved Problem"}, diff.Resolved)
	// Title matching is case-insensitive; the current spelling is reported.
	assert.Equal(t, []string{"Recurring Issue"}, diff.Recurring)
}

func TestCompareBatchesEmptyPrevious(t *testing.T) {
	diff := CompareBatches([]models.AIInsight{{Title: "Only"}}, nil)
	assert.Equal(t, []string{"Only"}, diff.New)
	assert.Empty(t, diff.Resolved)
	assert.Empty(t, diff.Recurring)
}

func TestBuildInsightHistoryCountsAndLimit(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	unread := insightWithBatch("C1", "batch-c", t3)
	read := insightWithBatch("B1", "batch-b", t2)
	read.IsRead = true

	insights := []models.AIInsight{
		unread,
		read,
		insightWithBatch("A1", "batch-a", t1),
	}

	history := buildInsightHistory(insights, 1)
	require.NotNil(t, history.Current)
	assert.Equal(t, "batch-c", history.Current.BatchID)
	assert.Equal(t, 3, history.Total)
	assert.Equal(t, 3, history.TotalGen)
	assert.Equal(t, 2, history.Unread)
	// historyLimit caps older batches, not the current one.
	require.Len(t, history.History, 1)
	assert.Equal(t, "batch-b", history.History[0].BatchID)
	require.NotNil(t, history.Changes)
}

func TestBuildInsightHistoryEmpty(t *testing.T) {
	history := buildInsightHistory(nil, 0)
	assert.Nil(t, history.Current)
	assert.Empty(t, history.History)
	assert.Equal(t, 0, history.Total)
	assert.Nil(t, history.Changes)
}

func TestResolveTypeKeepsValidModelType(t *testing.T) {
	s := &InsightService{classifier: NewKeywordClassifier()}

	got := s.resolveType(insightPayload{Title: "whatever", Type: "warning"})
	assert.Equal(t, models.InsightTypeWarning, got)
}

func TestResolveTypeClassifiesInvalidModelType(t *testing.T) {
	s := &InsightService{classifier: NewKeywordClassifier()}

	got := s.resolveType(insightPayload{
		Title: "Revenue Opportunity Detected",
		Type:  "bogus",
	})
	assert.Equal(t, models.InsightTypeOpportunity, got)
}

func TestBuildInsightPromptIncludesContext(t *testing.T) {
	summary := &businessContext{
		gameIPName:    "Phantom Warriors",
		productLines:  []string{"Hero Tee (category: apparel, revenue: 100.00)"},
		assetLines:    []string{"Hero (character): 3 products"},
		topComboLines: []string{"Hero Tee: 100.00 across 4 units"},
		taggedCount:   7,
		untaggedCount: 3,
		totalRevenue:  100,
	}

	prompt := buildInsightPrompt(summary)
	assert.Contains(t, prompt, "Phantom Warriors")
	assert.Contains(t, prompt, "Hero Tee")
	assert.Contains(t, prompt, "7 tagged, 3 untagged")
	assert.Contains(t, prompt, "JSON array")
}
