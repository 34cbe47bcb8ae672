package models

import "time"

type BidStatus string // Статус предложения

const (
	PendingBid  BidStatus = "PENDING"  // Предложение подано и ожидает решения
	AcceptedBid BidStatus = "ACCEPTED" // Предложение принято заказчиком
	RejectedBid BidStatus = "REJECTED" // Предложение отклонено заказчиком
)

// Bid представляет модель предложения по тендеру.
type Bid struct {
	ID          string    `json:"id"`
	TenderID    string    `json:"tenderId"`
	BidderID    string    `json:"bidderId"`
	Amount      float64   `json:"amount"`
	Documents   []string  `json:"documents"`
	Status      BidStatus `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BidRequest представляет структуру запроса для подачи предложения.
type BidRequest struct {
	TenderID  string   `json:"tenderId"`
	Amount    float64  `json:"amount"`
	Documents []string `json:"documents"`
}

// TenderSummary - краткие сведения о тендере, прикладываемые к предложению.
type TenderSummary struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Sector   string       `json:"sector"`
	Budget   Budget       `json:"budget"`
	Deadline time.Time    `json:"deadline"`
	Status   TenderStatus `json:"status"`
}

// BidWithTender представляет предложение вместе с кратким описанием тендера.
type BidWithTender struct {
	Bid
	Tender TenderSummary `json:"tender"`
}
