package models

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// UnnamedTransaction labels records stored without a description.
const UnnamedTransaction = "Unnamed Transaction"

var (
	ErrNotInvolved     = errors.New("person is not involved in this expense")
	ErrFronterToggle   = errors.New("the fronter is always marked as paid")
	ErrOutstandingDebt = errors.New("expense still has pending payments")
	ErrNotFronter      = errors.New("only the person who fronted an expense can change it")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrZeroAmount      = errors.New("amount must be greater than zero")
)

// ExpenseRecord is one shared expense. Paid and Pending partition Involved:
// the fronter is always in Paid, everyone else is in exactly one of the two.
type ExpenseRecord struct {
	ID             string          `json:"id"`
	Date           Date            `json:"date"`
	Description    string          `json:"description" validate:"required"`
	FrontedBy      string          `json:"fronted_by" validate:"required"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Involved       []string        `json:"involved" validate:"min=1,dive,required"`
	PerPersonShare decimal.Decimal `json:"per_person_share"`
	Paid           []string        `json:"paid" validate:"dive,required"`
	Pending        []string        `json:"pending" validate:"dive,required"`
}

// NewExpenseRecord builds a record fronted by fronter and shared with
// participants. Only the fronter starts out as paid.
func NewExpenseRecord(fronter string, date time.Time, description string, total decimal.Decimal, participants []string) ExpenseRecord {
	involved := uniqueNames(append([]string{fronter}, participants...))
	pending := make([]string, 0, len(involved))
	for _, name := range involved {
		if name != fronter {
			pending = append(pending, name)
		}
	}
	if description == "" {
		description = UnnamedTransaction
	}
	return ExpenseRecord{
		Date:           NewDate(date),
		Description:    description,
		FrontedBy:      fronter,
		TotalAmount:    total,
		Involved:       involved,
		PerPersonShare: ShareOf(total, len(involved)),
		Paid:           []string{fronter},
		Pending:        pending,
	}
}

// ShareOf splits total evenly across n people, rounded to cents.
func ShareOf(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// Validate checks the record shape after construction from user input.
func (r ExpenseRecord) Validate() error {
	if r.TotalAmount.IsNegative() || r.PerPersonShare.IsNegative() {
		return ErrNegativeAmount
	}
	return validate.Struct(r)
}

// IsInvolved reports whether person shares this expense.
func (r ExpenseRecord) IsInvolved(person string) bool {
	return slices.Contains(r.Involved, person)
}

// IsPaid reports whether person has settled their share.
func (r ExpenseRecord) IsPaid(person string) bool {
	return person == r.FrontedBy || slices.Contains(r.Paid, person)
}

// Outstanding lists the involved people who have not paid.
func (r ExpenseRecord) Outstanding() []string {
	var out []string
	for _, name := range r.Involved {
		if !slices.Contains(r.Paid, name) {
			out = append(out, name)
		}
	}
	return out
}

// Settled is true once nobody involved still owes the fronter.
func (r ExpenseRecord) Settled() bool {
	return len(r.Outstanding()) == 0
}

// Toggle moves person between Paid and Pending.
func (r *ExpenseRecord) Toggle(person string) error {
	if person == r.FrontedBy {
		return ErrFronterToggle
	}
	if !r.IsInvolved(person) {
		return ErrNotInvolved
	}
	if slices.Contains(r.Paid, person) {
		r.Paid = without(r.Paid, person)
		r.Pending = append(without(r.Pending, person), person)
		return nil
	}
	r.Pending = without(r.Pending, person)
	r.Paid = append(without(r.Paid, person), person)
	return nil
}

// ToggleBy is Toggle on behalf of requester, who must be the fronter.
func (r *ExpenseRecord) ToggleBy(requester, person string) error {
	if requester != r.FrontedBy {
		return ErrNotFronter
	}
	return r.Toggle(person)
}

// CanDelete enforces the deletion rule: fronter only, nothing outstanding.
func (r ExpenseRecord) CanDelete(requester string) error {
	if requester != r.FrontedBy {
		return ErrNotFronter
	}
	if !r.Settled() {
		return ErrOutstandingDebt
	}
	return nil
}

// Request structs
type CreateExpenseRequest struct {
	Date         string          `json:"date"` // YYYY-MM-DD, defaults to today
	Description  string          `json:"description" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Participants []string        `json:"participants"`
}

type ToggleRequest struct {
	Person string `json:"person" binding:"required"`
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func without(names []string, person string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != person {
			out = append(out, name)
		}
	}
	return out
}
