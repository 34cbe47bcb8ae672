package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderchain/tender-marketplace/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func tender(id, sector string, categories []string, reqExperience *int, deadline time.Time) models.Tender {
	return models.Tender{
		ID:         id,
		Title:      "tender " + id,
		Sector:     sector,
		Categories: categories,
		Deadline:   deadline,
		Requirements: models.Requirements{
			Experience: reqExperience,
		},
		Status: models.PublishedTender,
	}
}

func TestFilterByCategory_BuyerSeesEverything(t *testing.T) {
	tenders := []models.Tender{
		tender("1", "Construction", nil, nil, time.Now().Add(30*24*time.Hour)),
		tender("2", "Quantum Computing", nil, intPtr(10), time.Now().Add(30*24*time.Hour)),
	}

	filtered := FilterByCategory(tenders, models.Buyer, nil)

	assert.Equal(t, tenders, filtered)
}

func TestFilterByCategory_ExcludesUnrelatedSectors(t *testing.T) {
	tests := []struct {
		name     string
		category models.BidderCategory
		sector   string
		tags     []string
		want     bool
	}{
		{name: "contractor matches construction", category: models.Contractor, sector: "Construction", want: true},
		{name: "match is case-insensitive", category: models.Contractor, sector: "road CONSTRUCTION works", want: true},
		{name: "contractor matches via category tag", category: models.Contractor, sector: "General", tags: []string{"Urban Renovation"}, want: true},
		{name: "contractor excluded from IT", category: models.Contractor, sector: "IT Services", want: false},
		{name: "developer matches technology", category: models.Developer, sector: "Technology", want: true},
		{name: "supplier matches supply chain tag", category: models.Supplier, sector: "Logistics", tags: []string{"Supply Chain"}, want: true},
		{name: "consultant excluded from materials", category: models.Consultant, sector: "Materials", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenders := []models.Tender{tender("1", tt.sector, tt.tags, nil, time.Now().Add(30*24*time.Hour))}
			filtered := FilterByCategory(tenders, tt.category, nil)
			if tt.want {
				assert.Len(t, filtered, 1)
			} else {
				assert.Empty(t, filtered)
			}
		})
	}
}

func TestFilterByCategory_ExperienceGate(t *testing.T) {
	tenders := []models.Tender{
		tender("1", "Construction", nil, intPtr(3), time.Now().Add(30*24*time.Hour)),
	}

	// Опыт 5 лет при требуемых 3 - тендер остаётся.
	filtered := FilterByCategory(tenders, models.Contractor, intPtr(5))
	assert.Len(t, filtered, 1)

	// Опыт 2 года при требуемых 3 - тендер отбрасывается.
	filtered = FilterByCategory(tenders, models.Contractor, intPtr(2))
	assert.Empty(t, filtered)

	// Без указанного опыта требование не применяется.
	filtered = FilterByCategory(tenders, models.Contractor, nil)
	assert.Len(t, filtered, 1)
}

func TestFilterByCategory_PreservesInputOrder(t *testing.T) {
	deadline := time.Now().Add(60 * 24 * time.Hour)
	tenders := []models.Tender{
		tender("1", "Construction", nil, nil, deadline),
		tender("2", "Finance", nil, nil, deadline),
		tender("3", "Infrastructure", nil, nil, deadline),
		tender("4", "Renovation", nil, nil, deadline),
	}

	filtered := FilterByCategory(tenders, models.Contractor, nil)

	require.Len(t, filtered, 3)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "3", filtered[1].ID)
	assert.Equal(t, "4", filtered[2].ID)
}

func TestScoreTender_WorkedExample(t *testing.T) {
	// Сектор Construction, требуемый опыт 3 года, дедлайн через 5 дней;
	// участник с 5 годами опыта в Construction: 3 + 2 + 2 = 7.
	now := time.Now()
	tnd := tender("1", "Construction", nil, intPtr(3), now.Add(5*24*time.Hour))
	experience := &models.Experience{Years: 5, Sectors: []string{"Construction"}}

	assert.Equal(t, 7, scoreTender(tnd, experience, now))
}

func TestScoreTender_ExperienceBonusBoundaries(t *testing.T) {
	now := time.Now()
	farDeadline := now.Add(60 * 24 * time.Hour)

	tests := []struct {
		name      string
		years     int
		required  *int
		wantScore int
	}{
		{name: "surplus of two gives +2", years: 5, required: intPtr(3), wantScore: 2},
		{name: "exact match gives +1", years: 3, required: intPtr(3), wantScore: 1},
		{name: "below requirement gives 0", years: 2, required: intPtr(3), wantScore: 0},
		{name: "no requirement gives 0", years: 5, required: nil, wantScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tnd := tender("1", "Finance", nil, tt.required, farDeadline)
			experience := &models.Experience{Years: tt.years}
			assert.Equal(t, tt.wantScore, scoreTender(tnd, experience, now))
		})
	}
}

func TestScoreTender_DeadlineUrgency(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		deadline  time.Time
		wantScore int
	}{
		{name: "within a week", deadline: now.Add(5 * 24 * time.Hour), wantScore: 2},
		{name: "within two weeks", deadline: now.Add(10 * 24 * time.Hour), wantScore: 1},
		{name: "far future", deadline: now.Add(30 * 24 * time.Hour), wantScore: 0},
		{name: "invalid date treated as far future", deadline: time.Time{}, wantScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tnd := tender("1", "Finance", nil, nil, tt.deadline)
			assert.Equal(t, tt.wantScore, scoreTender(tnd, nil, now))
		})
	}
}

func TestRecommend_SortsByDescendingScore(t *testing.T) {
	now := time.Now()
	tenders := []models.Tender{
		tender("far", "Construction", nil, nil, now.Add(40*24*time.Hour)),
		tender("soon", "Construction", nil, nil, now.Add(3*24*time.Hour)),
		tender("medium", "Infrastructure", nil, nil, now.Add(10*24*time.Hour)),
	}
	experience := &models.Experience{Years: 5, Sectors: []string{"Construction"}}

	ranked := Recommend(tenders, models.Contractor, experience)

	require.Len(t, ranked, 3)
	assert.Equal(t, "soon", ranked[0].ID)   // 3 + 2
	assert.Equal(t, "far", ranked[1].ID)    // 3 + 0
	assert.Equal(t, "medium", ranked[2].ID) // 0 + 1

	// Повторное ранжирование монотонно: оценки не возрастают по списку.
	scores := make([]int, len(ranked))
	for i, tnd := range ranked {
		scores[i] = scoreTender(tnd, experience, now)
	}
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1], scores[i])
	}
}

func TestRecommend_StableOrderForEqualScores(t *testing.T) {
	now := time.Now()
	deadline := now.Add(40 * 24 * time.Hour)
	tenders := []models.Tender{
		tender("a", "Construction", nil, nil, deadline),
		tender("b", "Construction", nil, nil, deadline),
		tender("c", "Construction", nil, nil, deadline),
	}

	ranked := Recommend(tenders, models.Contractor, nil)

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "b", ranked[1].ID)
	assert.Equal(t, "c", ranked[2].ID)
}
