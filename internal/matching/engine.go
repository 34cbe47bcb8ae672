// Package matching реализует подбор и ранжирование тендеров для участников торгов.
package matching

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"
)

// categorySectors - неизменяемая таблица соответствия категории участника
// релевантным секторам. Заказчики (BUYER) видят все тендеры без фильтрации.
var categorySectors = map[models.BidderCategory][]string{
	models.Contractor: {"Construction", "Infrastructure", "Renovation", "Maintenance"},
	models.Developer:  {"Software Development", "IT Services", "Digital Solutions", "Technology"},
	models.Supplier:   {"Equipment", "Materials", "Goods", "Supply Chain"},
	models.Consultant: {"Professional Services", "Advisory", "Design", "Consulting"},
}

// RelevantSectors возвращает набор секторов, релевантных категории участника.
func RelevantSectors(category models.BidderCategory) []string {
	return categorySectors[category]
}

// FilterByCategory отбирает тендеры, подходящие участнику по сектору и опыту.
// Сектор тендера или любой из его тегов должен содержать (без учёта регистра)
// один из релевантных категории секторов. Тендер с требованием к опыту
// отбрасывается, только если опыт вызывающего указан и меньше требуемого.
// Порядок входного списка сохраняется.
func FilterByCategory(tenders []models.Tender, category models.BidderCategory, experienceYears *int) []models.Tender {
	if category == models.Buyer {
		return tenders
	}

	relevantSectors := categorySectors[category]

	var filtered []models.Tender
	for _, tender := range tenders {
		if !sectorMatch(tender, relevantSectors) {
			continue
		}
		if tender.Requirements.Experience != nil && experienceYears != nil &&
			*experienceYears < *tender.Requirements.Experience {
			continue
		}
		filtered = append(filtered, tender)
	}
	return filtered
}

// Recommend возвращает отфильтрованные тендеры, отсортированные по убыванию
// релевантности. Оценка складывается из совпадения сектора с опытом участника,
// запаса опыта относительно требуемого и близости дедлайна. Сама оценка в
// возвращаемых записях не присутствует; при равенстве сохраняется порядок входа.
func Recommend(tenders []models.Tender, category models.BidderCategory, experience *models.Experience) []models.Tender {
	var experienceYears *int
	if experience != nil {
		experienceYears = &experience.Years
	}

	filtered := FilterByCategory(tenders, category, experienceYears)

	scores := make([]int, len(filtered))
	for i, tender := range filtered {
		scores[i] = scoreTender(tender, experience, time.Now())
	}

	ranked := make([]models.Tender, len(filtered))
	indexes := make([]int, len(filtered))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return scores[indexes[a]] > scores[indexes[b]]
	})
	for i, idx := range indexes {
		ranked[i] = filtered[idx]
	}
	return ranked
}

// scoreTender вычисляет оценку релевантности тендера для участника.
func scoreTender(tender models.Tender, experience *models.Experience, now time.Time) int {
	score := 0

	if experience != nil {
		lowerSector := strings.ToLower(tender.Sector)
		for _, sector := range experience.Sectors {
			if strings.Contains(lowerSector, strings.ToLower(sector)) {
				score += 3
				break
			}
		}

		if tender.Requirements.Experience != nil {
			diff := experience.Years - *tender.Requirements.Experience
			if diff >= 2 {
				score += 2
			} else if diff >= 0 {
				score++
			}
		}
	}

	// Некорректный дедлайн трактуется как далёкое будущее: бонус не начисляется.
	if !tender.Deadline.IsZero() {
		daysUntilDeadline := int(math.Ceil(tender.Deadline.Sub(now).Hours() / 24))
		if daysUntilDeadline <= 7 {
			score += 2
		} else if daysUntilDeadline <= 14 {
			score++
		}
	}

	return score
}

// sectorMatch проверяет совпадение сектора тендера или его тегов с релевантными секторами.
func sectorMatch(tender models.Tender, relevantSectors []string) bool {
	lowerSector := strings.ToLower(tender.Sector)
	for _, sector := range relevantSectors {
		lowerRelevant := strings.ToLower(sector)
		if strings.Contains(lowerSector, lowerRelevant) {
			return true
		}
		for _, category := range tender.Categories {
			if strings.Contains(strings.ToLower(category), lowerRelevant) {
				return true
			}
		}
	}
	return false
}
