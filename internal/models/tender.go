package models

import "time"

type TenderStatus string // Статус тендера

const (
	DraftTender     TenderStatus = "DRAFT"     // Тендер создан, но не опубликован
	PublishedTender TenderStatus = "PUBLISHED" // Тендер опубликован, принимаются предложения
	ClosedTender    TenderStatus = "CLOSED"    // Тендер закрыт
	AwardedTender   TenderStatus = "AWARDED"   // По тендеру выбран победитель
)

// Budget описывает бюджетные рамки тендера.
type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Requirements описывает требования тендера к участникам.
type Requirements struct {
	Experience     *int     `json:"experience,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Location       string   `json:"location,omitempty"`
}

// Tender представляет модель тендера.
type Tender struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Sector       string       `json:"sector"`
	Categories   []string     `json:"categories"`
	Budget       Budget       `json:"budget"`
	Deadline     time.Time    `json:"deadline"`
	Requirements Requirements `json:"requirements"`
	Status       TenderStatus `json:"status"`
	BuyerID      string       `json:"buyerId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TenderRequest представляет структуру запроса для создания тендера.
type TenderRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Sector       string       `json:"sector"`
	Categories   []string     `json:"categories"`
	Budget       Budget       `json:"budget"`
	Deadline     time.Time    `json:"deadline"`
	Requirements Requirements `json:"requirements"`
}
