package models

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document field names, shared by every store that keeps records as loose documents.
const (
	FieldDate        = "date"
	FieldTransaction = "transaction"
	FieldUser        = "user"
	FieldAmount      = "amount"
	FieldIndividual  = "individualAmount"
	FieldInvolved    = "involved"
	FieldPaid        = "paid"
	FieldPending     = "pending"
)

// NormalizeDocument turns a loosely typed stored document into a record.
// Amounts that are missing or not numeric count as zero. The fronter is
// always involved and paid, and Pending is rebuilt as Involved minus Paid.
func NormalizeDocument(id string, data map[string]interface{}) ExpenseRecord {
	fronter := strings.TrimSpace(asString(data[FieldUser]))
	involved := uniqueNames(append([]string{fronter}, asStrings(data[FieldInvolved])...))

	paid := []string{fronter}
	for _, name := range asStrings(data[FieldPaid]) {
		if name != fronter && slices.Contains(involved, name) {
			paid = append(paid, name)
		}
	}
	paid = uniqueNames(paid)

	var pending []string
	for _, name := range involved {
		if !slices.Contains(paid, name) {
			pending = append(pending, name)
		}
	}

	total := parseAmount(data[FieldAmount])
	var share decimal.Decimal
	if raw, ok := data[FieldIndividual]; ok && !isBlank(raw) {
		share = parseAmount(raw)
	} else {
		share = ShareOf(total, len(involved))
	}

	description := strings.TrimSpace(asString(data[FieldTransaction]))
	if description == "" {
		description = UnnamedTransaction
	}

	if pending == nil {
		pending = []string{}
	}
	return ExpenseRecord{
		ID:             id,
		Date:           parseDocumentDate(data[FieldDate]),
		Description:    description,
		FrontedBy:      fronter,
		TotalAmount:    total,
		Involved:       involved,
		PerPersonShare: share,
		Paid:           paid,
		Pending:        pending,
	}
}

// ToDocument is the inverse of NormalizeDocument. Amounts are written as
// two-decimal strings, matching what the web client stores.
func (r ExpenseRecord) ToDocument() map[string]interface{} {
	return map[string]interface{}{
		FieldDate:        r.Date.String(),
		FieldTransaction: r.Description,
		FieldUser:        r.FrontedBy,
		FieldAmount:      r.TotalAmount.StringFixed(2),
		FieldIndividual:  r.PerPersonShare.StringFixed(2),
		FieldInvolved:    r.Involved,
		FieldPaid:        r.Paid,
		FieldPending:     r.Pending,
	}
}

func parseAmount(v interface{}) decimal.Decimal {
	var d decimal.Decimal
	switch x := v.(type) {
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case float64:
		d = decimal.NewFromFloat(x)
	case float32:
		d = decimal.NewFromFloat32(x)
	case int64:
		d = decimal.NewFromInt(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case decimal.Decimal:
		d = x
	default:
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func parseDocumentDate(v interface{}) Date {
	switch x := v.(type) {
	case time.Time:
		return NewDate(x)
	case string:
		d, err := ParseDate(x)
		if err != nil {
			return Date{}
		}
		return d
	}
	return Date{}
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStrings(v interface{}) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}
