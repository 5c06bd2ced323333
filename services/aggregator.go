package services

import (
	"sort"
	"time"

	"payyourfriends/models"

	"github.com/shopspring/decimal"
)

// The aggregations below are pure single passes over a snapshot of records.
// Ties always go to the person encountered first.

type tally struct {
	order []string
	sums  map[string]decimal.Decimal
}

func newTally() *tally {
	return &tally{sums: make(map[string]decimal.Decimal)}
}

func (t *tally) add(person string, amount decimal.Decimal) {
	if _, ok := t.sums[person]; !ok {
		t.order = append(t.order, person)
	}
	t.sums[person] = t.sums[person].Add(amount)
}

// max returns the largest strictly positive total, or the empty sentinel.
func (t *tally) max() models.PersonAmount {
	best := models.PersonAmount{Amount: decimal.Zero}
	for _, person := range t.order {
		if t.sums[person].GreaterThan(best.Amount) {
			best = models.PersonAmount{Person: person, Amount: t.sums[person]}
		}
	}
	return best
}

// AggregateFronted totals what each fronter paid upfront, in first-seen order.
func AggregateFronted(records []models.ExpenseRecord) []models.FrontedTotal {
	index := make(map[string]int)
	var out []models.FrontedTotal
	for _, r := range records {
		i, ok := index[r.FrontedBy]
		if !ok {
			i = len(out)
			index[r.FrontedBy] = i
			out = append(out, models.FrontedTotal{Person: r.FrontedBy, TotalFronted: decimal.Zero})
		}
		out[i].TotalFronted = out[i].TotalFronted.Add(r.TotalAmount)
		out[i].Count++
	}
	return out
}

// FrontedByPerson is AggregateFronted keyed by person.
func FrontedByPerson(records []models.ExpenseRecord) map[string]models.FrontedTotal {
	out := make(map[string]models.FrontedTotal)
	for _, f := range AggregateFronted(records) {
		out[f.Person] = f
	}
	return out
}

// AggregatePending lists, for every pending person, what they owe and to whom.
func AggregatePending(records []models.ExpenseRecord) map[string][]models.PendingDetail {
	out := make(map[string][]models.PendingDetail)
	for _, r := range records {
		for _, person := range r.Pending {
			out[person] = append(out[person], models.PendingDetail{
				OwesTo:      r.FrontedBy,
				Description: r.Description,
				Amount:      r.PerPersonShare,
			})
		}
	}
	return out
}

// TotalIncomplete counts (record, person) pairs where an involved person has not paid.
func TotalIncomplete(records []models.ExpenseRecord) int {
	total := 0
	for _, r := range records {
		total += len(r.Outstanding())
	}
	return total
}

// IncompleteByPerson counts unpaid records per person, in first-seen order.
func IncompleteByPerson(records []models.ExpenseRecord) []models.PersonCount {
	index := make(map[string]int)
	var out []models.PersonCount
	for _, r := range records {
		for _, person := range r.Outstanding() {
			i, ok := index[person]
			if !ok {
				i = len(out)
				index[person] = i
				out = append(out, models.PersonCount{Person: person})
			}
			out[i].Count++
		}
	}
	return out
}

// BestFronter is the person who fronted the largest total.
func BestFronter(records []models.ExpenseRecord) models.PersonAmount {
	t := newTally()
	for _, r := range records {
		t.add(r.FrontedBy, r.TotalAmount)
	}
	return t.max()
}

// WorstOwer is the person with the largest summed pending amount.
func WorstOwer(records []models.ExpenseRecord) models.PersonAmount {
	t := newTally()
	for _, r := range records {
		for _, person := range r.Pending {
			t.add(person, r.PerPersonShare)
		}
	}
	return t.max()
}

// MostIncomplete is the person with the most unpaid records.
func MostIncomplete(records []models.ExpenseRecord) models.PersonCount {
	var worst models.PersonCount
	for _, pc := range IncompleteByPerson(records) {
		if pc.Count > worst.Count {
			worst = pc
		}
	}
	return worst
}

// MonthlyTotal sums records dated within one calendar month before asOf,
// both ends inclusive.
func MonthlyTotal(records []models.ExpenseRecord, asOf time.Time) decimal.Decimal {
	end := models.NewDate(asOf)
	start := end.AddDate(0, -1, 0)
	total := decimal.Zero
	for _, r := range records {
		if r.Date.IsZero() || r.Date.Before(start) || r.Date.After(end.Time) {
			continue
		}
		total = total.Add(r.TotalAmount)
	}
	return total
}

// BiggestSpender is the person whose settled shares add up the most,
// counting the fronter's own share.
func BiggestSpender(records []models.ExpenseRecord) models.PersonAmount {
	t := newTally()
	for _, r := range records {
		for _, person := range r.Paid {
			t.add(person, r.PerPersonShare)
		}
	}
	return t.max()
}

// Balances returns what each pending person owes, largest first.
func Balances(records []models.ExpenseRecord) []models.PersonBalance {
	index := make(map[string]int)
	var out []models.PersonBalance
	for _, r := range records {
		for _, person := range r.Pending {
			i, ok := index[person]
			if !ok {
				i = len(out)
				index[person] = i
				out = append(out, models.PersonBalance{Person: person, Owed: decimal.Zero})
			}
			out[i].Owed = out[i].Owed.Add(r.PerPersonShare)
			out[i].Details = append(out[i].Details, models.PendingDetail{
				OwesTo:      r.FrontedBy,
				Description: r.Description,
				Amount:      r.PerPersonShare,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Owed.GreaterThan(out[j].Owed)
	})
	return out
}

// Summarize bundles every statistic shown on the analytics page.
func Summarize(records []models.ExpenseRecord, asOf time.Time) models.Analytics {
	return models.Analytics{
		AsOf:               models.NewDate(asOf),
		Fronted:            AggregateFronted(records),
		IncompleteByPerson: IncompleteByPerson(records),
		TotalIncomplete:    TotalIncomplete(records),
		BestFronter:        BestFronter(records),
		WorstOwer:          WorstOwer(records),
		MostIncomplete:     MostIncomplete(records),
		MonthlyTotal:       MonthlyTotal(records, asOf),
		BiggestSpender:     BiggestSpender(records),
		GeneratedAt:        asOf,
	}
}
