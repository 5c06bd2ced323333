package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingDetail is one line of what a person owes.
type PendingDetail struct {
	OwesTo      string          `json:"owes_to"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// PersonBalance is everything one person still owes across records.
type PersonBalance struct {
	Person  string          `json:"person"`
	Owed    decimal.Decimal `json:"owed"`
	Details []PendingDetail `json:"details"`
}

// FrontedTotal is how much a person has paid upfront, and how often.
type FrontedTotal struct {
	Person       string          `json:"person"`
	TotalFronted decimal.Decimal `json:"total_fronted"`
	Count        int             `json:"count"`
}

// PersonAmount pairs a person with a money total. An empty Person means nobody qualified.
type PersonAmount struct {
	Person string          `json:"person"`
	Amount decimal.Decimal `json:"amount"`
}

type PersonCount struct {
	Person string `json:"person"`
	Count  int    `json:"count"`
}

// Analytics is returned for GET /api/analytics
type Analytics struct {
	AsOf               Date            `json:"as_of"`
	Fronted            []FrontedTotal  `json:"fronted"`
	IncompleteByPerson []PersonCount   `json:"incomplete_by_person"`
	TotalIncomplete    int             `json:"total_incomplete"`
	BestFronter        PersonAmount    `json:"best_fronter"`
	WorstOwer          PersonAmount    `json:"worst_ower"`
	MostIncomplete     PersonCount     `json:"most_incomplete"`
	MonthlyTotal       decimal.Decimal `json:"monthly_total"`
	BiggestSpender     PersonAmount    `json:"biggest_spender"`
	GeneratedAt        time.Time       `json:"generated_at"`
}
