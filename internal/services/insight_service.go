// internal/services/insight_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/phantomos/phantomos-backend/internal/middleware"
	"github.com/phantomos/phantomos-backend/internal/models"
)

const (
	insightContextProducts = 50
	insightContextTopCombo = 20
	insightBatchCap        = 5
	fallbackDescriptionMax = 500
	insightLookbackDays    = 30
)

// InsightService generates, stores and serves AI insights. Each generation
// run appends a new batch; nothing is overwritten, so the full history stays
// queryable and two batches can be diffed.
type InsightService struct {
	db         *gorm.DB
	ai         AIClient
	classifier InsightClassifier
}

func NewInsightService(db *gorm.DB, ai AIClient, classifier InsightClassifier) *InsightService {
	return &InsightService{db: db, ai: ai, classifier: classifier}
}

// insightPayload is one insight as parsed from the model response.
type insightPayload struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Type        string                 `json:"type"`
	Confidence  string                 `json:"confidence"`
	Data        map[string]interface{} `json:"data"`
}

// GenerateOptions tunes one generation run. Type is an informational hint
// echoed into each stored payload; Persist defaults to true.
type GenerateOptions struct {
	Type    string
	Persist *bool
}

// GenerationResult is one run's output plus its storage outcome.
type GenerationResult struct {
	Insights  []models.AIInsight `json:"insights"`
	BatchID   string             `json:"batch_id"`
	Persisted bool               `json:"persisted"`
}

// Generate builds a business context from the publisher's catalog and recent
// sales, asks the AI service for insights, and persists them as a new batch
// unless opts.Persist is false.
func (s *InsightService) Generate(ctx context.Context, publisherID uuid.UUID, opts GenerateOptions) (*GenerationResult, error) {
	summary, err := s.buildContext(publisherID)
	if err != nil {
		middleware.CountInsightGeneration("error")
		return nil, err
	}

	raw, err := s.ai.Complete(ctx, buildInsightPrompt(summary))
	if err != nil {
		middleware.CountInsightGeneration("error")
		return nil, fmt.Errorf("insight generation failed: %w", err)
	}

	payloads, usedFallback := parseInsightPayload(raw)
	if usedFallback {
		middleware.CountInsightGeneration("fallback")
	} else {
		middleware.CountInsightGeneration("ok")
	}

	batchID := uuid.New().String()
	generatedAt := time.Now().UTC().Format(time.RFC3339)

	insights := make([]models.AIInsight, 0, len(payloads))
	for _, p := range payloads {
		insight := models.AIInsight{
			PublisherID: publisherID,
			GameIPID:    summary.gameIPID,
			BatchID:     batchID,
			Type:        s.resolveType(p),
			Title:       p.Title,
			Description: p.Description,
			Confidence:  p.Confidence,
			Data:        models.JSONB{"generated_at": generatedAt},
		}
		if insight.Confidence == "" {
			insight.Confidence = "0.5"
		}
		if opts.Type != "" {
			insight.Data["type_hint"] = opts.Type
		}
		for k, v := range p.Data {
			insight.Data[k] = v
		}
		insights = append(insights, insight)
	}

	persist := opts.Persist == nil || *opts.Persist
	if persist && len(insights) > 0 {
		if err := s.db.Create(&insights).Error; err != nil {
			return nil, fmt.Errorf("failed to store insights: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"publisher_id": publisherID,
		"batch_id":     batchID,
		"count":        len(insights),
		"fallback":     usedFallback,
		"persisted":    persist,
	}).Info("Insight batch generated")

	return &GenerationResult{Insights: insights, BatchID: batchID, Persisted: persist}, nil
}

// resolveType keeps a valid model-supplied type, otherwise classifies from
// the text.
func (s *InsightService) resolveType(p insightPayload) models.InsightType {
	switch models.InsightType(p.Type) {
	case models.InsightTypeOpportunity, models.InsightTypeWarning,
		models.InsightTypeTrend, models.InsightTypeRecommendation:
		return models.InsightType(p.Type)
	}
	return s.classifier.Classify(p.Title, p.Description)
}

// InsightBatch is one generation run's output grouped together.
type InsightBatch struct {
	BatchID     string             `json:"batch_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Insights    []models.AIInsight `json:"insights"`
}

// InsightHistory is what the retrieval endpoint returns: the newest batch as
// "current", everything older as history, plus the diff against the batch
// immediately before the current one.
type InsightHistory struct {
	Current  *InsightBatch  `json:"current"`
	History  []InsightBatch `json:"history"`
	Changes  *BatchDiff     `json:"changes,omitempty"`
	Total    int            `json:"total"`
	Unread   int            `json:"unread"`
	TotalGen int            `json:"total_generations"`
}

// GetInsights loads every stored insight for the publisher and groups it
// into batches, newest first. historyLimit caps how many older batches come
// back; 0 means all of them.
func (s *InsightService) GetInsights(publisherID uuid.UUID, historyLimit int) (*InsightHistory, error) {
	var insights []models.AIInsight
	if err := s.db.Where("publisher_id = ?", publisherID).
		Order("created_at DESC").Find(&insights).Error; err != nil {
		return nil, fmt.Errorf("failed to load insights: %w", err)
	}
	return buildInsightHistory(insights, historyLimit), nil
}

// buildInsightHistory assembles the retrieval payload from stored insights,
// assumed ordered by created_at descending.
func buildInsightHistory(insights []models.AIInsight, historyLimit int) *InsightHistory {
	batches := groupBatches(insights)

	history := &InsightHistory{
		History:  []InsightBatch{},
		Total:    len(insights),
		TotalGen: len(batches),
	}
	if len(batches) > 0 {
		history.Current = &batches[0]
		history.History = batches[1:]
		if historyLimit > 0 && len(history.History) > historyLimit {
			history.History = history.History[:historyLimit]
		}
	}
	if len(batches) > 1 {
		history.Changes = CompareBatches(batches[0].Insights, batches[1].Insights)
	}
	for _, insight := range insights {
		if !insight.IsRead {
			history.Unread++
		}
	}
	return history
}

// UpdateInsight flips the read or actioned flag on one insight. At least one
// flag must be provided; the handler enforces that before calling here.
func (s *InsightService) UpdateInsight(publisherID, insightID uuid.UUID, isRead, isActioned *bool) (*models.AIInsight, error) {
	var insight models.AIInsight
	if err := s.db.Where("id = ? AND publisher_id = ?", insightID, publisherID).
		First(&insight).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("insight not found")
		}
		return nil, fmt.Errorf("failed to load insight: %w", err)
	}

	updates := map[string]interface{}{}
	if isRead != nil {
		updates["is_read"] = *isRead
		insight.IsRead = *isRead
	}
	if isActioned != nil {
		updates["is_actioned"] = *isActioned
		insight.IsActioned = *isActioned
	}
	if err := s.db.Model(&insight).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update insight: %w", err)
	}
	return &insight, nil
}

// GetBatchComparison diffs two stored batches by their batch ids.
func (s *InsightService) GetBatchComparison(publisherID uuid.UUID, batchA, batchB string) (*BatchDiff, error) {
	load := func(batchID string) ([]models.AIInsight, error) {
		var insights []models.AIInsight
		if err := s.db.Where("publisher_id = ? AND batch_id = ?", publisherID, batchID).
			Find(&insights).Error; err != nil {
			return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
		}
		if len(insights) == 0 {
			return nil, fmt.Errorf("batch not found: %s", batchID)
		}
		return insights, nil
	}

	current, err := load(batchA)
	if err != nil {
		return nil, err
	}
	previous, err := load(batchB)
	if err != nil {
		return nil, err
	}
	return CompareBatches(current, previous), nil
}

// groupBatches buckets insights by BatchID, falling back to the creation
// date for rows written before batch tracking existed. Batches come back
// newest first; input is assumed already ordered by created_at descending.
func groupBatches(insights []models.AIInsight) []InsightBatch {
	index := make(map[string]int)
	var batches []InsightBatch

	for _, insight := range insights {
		key := insight.BatchID
		if key == "" {
			key = insight.CreatedAt.UTC().Format("2006-01-02")
		}
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, InsightBatch{
				BatchID:     key,
				GeneratedAt: insight.CreatedAt,
			})
		}
		batches[i].Insights = append(batches[i].Insights, insight)
		if insight.CreatedAt.After(batches[i].GeneratedAt) {
			batches[i].GeneratedAt = insight.CreatedAt
		}
	}

	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].GeneratedAt.After(batches[j].GeneratedAt)
	})
	return batches
}

// BatchDiff describes how the current insight batch differs from the
// previous one, matched by case-insensitive title.
type BatchDiff struct {
	New       []string `json:"new"`
	Resolved  []string `json:"resolved"`
	Recurring []string `json:"recurring"`
}

// CompareBatches diffs two batches by title. "New" appears only in current,
// "resolved" only in previous, "recurring" in both.
func CompareBatches(current, previous []models.AIInsight) *BatchDiff {
	diff := &BatchDiff{New: []string{}, Resolved: []string{}, Recurring: []string{}}

	prevTitles := make(map[string]string, len(previous))
	for _, insight := range previous {
		prevTitles[strings.ToLower(insight.Title)] = insight.Title
	}
	currTitles := make(map[string]string, len(current))
	for _, insight := range current {
		currTitles[strings.ToLower(insight.Title)] = insight.Title
	}

	for key, title := range currTitles {
		if _, ok := prevTitles[key]; ok {
			diff.Recurring = append(diff.Recurring, title)
		} else {
			diff.New = append(diff.New, title)
		}
	}
	for key, title := range prevTitles {
		if _, ok := currTitles[key]; !ok {
			diff.Resolved = append(diff.Resolved, title)
		}
	}

	sort.Strings(diff.New)
	sort.Strings(diff.Resolved)
	sort.Strings(diff.Recurring)
	return diff
}

// parseInsightPayload turns a model response into insight payloads. Accepts
// a JSON array, a single JSON object, or either wrapped in a markdown code
// fence. Anything unparseable becomes a single fallback insight carrying the
// raw text, so a sloppy response still yields something actionable. The
// second return reports whether the fallback path was taken.
func parseInsightPayload(raw string) ([]insightPayload, bool) {
	text := stripCodeFence(raw)

	var list []insightPayload
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		if len(list) > insightBatchCap {
			list = list[:insightBatchCap]
		}
		return list, false
	}

	var single insightPayload
	if err := json.Unmarshal([]byte(text), &single); err == nil && single.Title != "" {
		return []insightPayload{single}, false
	}

	description := strings.TrimSpace(raw)
	if runes := []rune(description); len(runes) > fallbackDescriptionMax {
		description = string(runes[:fallbackDescriptionMax])
	}
	return []insightPayload{{
		Title:       "AI Analysis",
		Description: description,
		Type:        string(models.InsightTypeRecommendation),
	}}, true
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// businessContext is the summarized catalog state fed into the prompt.
type businessContext struct {
	gameIPID       *uuid.UUID
	gameIPName     string
	productLines   []string
	assetLines     []string
	topComboLines  []string
	taggedCount    int64
	untaggedCount  int64
	totalRevenue   float64
	lookbackOrders int64
}

func (s *InsightService) buildContext(publisherID uuid.UUID) (*businessContext, error) {
	summary := &businessContext{}

	var gameIP models.GameIP
	err := s.db.Where("publisher_id = ?", publisherID).
		Order("created_at ASC").First(&gameIP).Error
	if err == nil {
		summary.gameIPID = &gameIP.ID
		summary.gameIPName = gameIP.Name
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load game IP: %w", err)
	}

	var products []models.Product
	if err := s.db.Preload("AssetLinks.IPAsset").
		Where("publisher_id = ?", publisherID).
		Order("created_at DESC").Limit(insightContextProducts).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range products {
		assetNames := make([]string, 0, len(p.AssetLinks))
		for _, link := range p.AssetLinks {
			assetNames = append(assetNames, link.IPAsset.Name)
		}
		line := fmt.Sprintf("%s (category: %s, revenue: %.2f", p.Name, p.Category, p.TotalRevenue)
		if len(assetNames) > 0 {
			line += ", assets: " + strings.Join(assetNames, ", ")
		}
		line += ")"
		summary.productLines = append(summary.productLines, line)
	}

	assetCounts, err := s.assetProductCounts(publisherID)
	if err != nil {
		return nil, err
	}
	summary.assetLines = assetCounts

	combos, totalRevenue, orders, err := s.topRevenueCombos(publisherID)
	if err != nil {
		return nil, err
	}
	summary.topComboLines = combos
	summary.totalRevenue = totalRevenue
	summary.lookbackOrders = orders

	// A product counts as tagged once it has at least one asset link,
	// regardless of mapping status.
	var totalProducts int64
	if err := s.db.Model(&models.Product{}).
		Where("publisher_id = ?", publisherID).
		Count(&totalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Table("product_assets").
		Joins("JOIN products ON products.id = product_assets.product_id").
		Where("products.publisher_id = ? AND products.deleted_at IS NULL AND product_assets.deleted_at IS NULL", publisherID).
		Distinct("product_assets.product_id").
		Count(&summary.taggedCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count tagged products: %w", err)
	}
	summary.untaggedCount = totalProducts - summary.taggedCount

	return summary, nil
}

func (s *InsightService) assetProductCounts(publisherID uuid.UUID) ([]string, error) {
	var rows []struct {
		Name  string
		Type  string
		Count int64
	}
	err := s.db.Table("ip_assets").
		Select("ip_assets.name, ip_assets.asset_type AS type, COUNT(product_assets.product_id) AS count").
		Joins("LEFT JOIN product_assets ON product_assets.ip_asset_id = ip_assets.id AND product_assets.deleted_at IS NULL").
		Where("ip_assets.publisher_id = ? AND ip_assets.deleted_at IS NULL", publisherID).
		Group("ip_assets.id, ip_assets.name, ip_assets.asset_type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count asset products: %w", err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s (%s): %d products", row.Name, row.Type, row.Count))
	}
	return lines, nil
}

// topRevenueCombos summarizes the highest-grossing product and asset pairs
// over the lookback window.
func (s *InsightService) topRevenueCombos(publisherID uuid.UUID) ([]string, float64, int64, error) {
	since := time.Now().UTC().AddDate(0, 0, -insightLookbackDays)

	var sales []models.Sale
	if err := s.db.Where("publisher_id = ? AND order_date >= ?", publisherID, since).
		Find(&sales).Error; err != nil {
		return nil, 0, 0, fmt.Errorf("failed to load recent sales: %w", err)
	}

	totals := reduceSales(sales)
	topIDs := topProductIDs(totals.byProduct, insightContextTopCombo)
	names, _, err := (&MetricsService{db: s.db}).productLookup(topIDs, publisherID)
	if err != nil {
		return nil, 0, 0, err
	}

	lines := make([]string, 0, len(topIDs))
	for _, id := range topIDs {
		name, ok := names[id]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %.2f across %d units",
			name, totals.byProduct[id].revenue, totals.byProduct[id].units))
	}
	return lines, totals.revenue, int64(totals.orders), nil
}

func buildInsightPrompt(summary *businessContext) string {
	var b strings.Builder

	b.WriteString("You are a merchandise analytics advisor for a game publisher.\n")
	if summary.gameIPName != "" {
		b.WriteString(fmt.Sprintf("Primary game IP: %s\n", summary.gameIPName))
	}
	b.WriteString(fmt.Sprintf("Last %d days: %.2f revenue across %d orders.\n",
		insightLookbackDays, summary.totalRevenue, summary.lookbackOrders))
	b.WriteString(fmt.Sprintf("Products tagged to IP assets: %d tagged, %d untagged.\n\n",
		summary.taggedCount, summary.untaggedCount))

	if len(summary.productLines) > 0 {
		b.WriteString("Recent products:\n")
		for _, line := range summary.productLines {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}
	if len(summary.assetLines) > 0 {
		b.WriteString("IP assets and product counts:\n")
		for _, line := range summary.assetLines {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}
	if len(summary.topComboLines) > 0 {
		b.WriteString("Top revenue products (last 30 days):\n")
		for _, line := range summary.topComboLines {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Analyze this data and respond with a JSON array of at most 5 insights. ")
	b.WriteString("Each insight must be an object with fields: ")
	b.WriteString(`"title", "description", "type" (one of opportunity, warning, trend, recommendation), `)
	b.WriteString(`"confidence" (a decimal string between 0 and 1). `)
	b.WriteString("Cover these angles:\n")
	b.WriteString("1. Which IP assets are over- or under-monetized relative to their product counts\n")
	b.WriteString("2. Product categories with growth potential\n")
	b.WriteString("3. Risks in the current catalog mix\n")
	b.WriteString("4. Untagged products that block attribution\n")
	b.WriteString("5. One concrete next action for the merchandising team\n")
	b.WriteString("Respond with only the JSON array, no prose.")

	return b.String()
}
