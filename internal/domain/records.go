package domain

import "time"

// Contract is the full detail record behind a contract entry.
type Contract struct {
	ID         string
	Title      string
	ClientName string
	Value      float64
	Currency   string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	Notes      string
}

// Invoice is the full detail record behind an invoice entry.
type Invoice struct {
	ID         string
	Number     string
	ClientName string
	Amount     float64
	Currency   string
	IssuedAt   time.Time
	DueAt      time.Time
	Status     string
	PaidAt     *time.Time
}
