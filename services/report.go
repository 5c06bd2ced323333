package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"payyourfriends/models"

	"github.com/shopspring/decimal"
)

const ReportSubject = "Your Payment Report"

var reportTemplate = template.Must(template.New("report").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">Your Payment Report</h2>
		<p>Hello <strong>{{.Person}}</strong>,</p>
		<p>Here is a summary of what you owe:</p>
		<ul style="background: #f8f9fa; border-radius: 8px; padding: 16px 32px; margin: 16px 0;">
		{{- range .Items}}
			<li style="margin: 4px 0;">You owe <strong>${{.Amount}}</strong> for &quot;{{.Description}}&quot; to {{.OwesTo}}.</li>
		{{- end}}
		</ul>
		<p style="color: #e53e3e; font-size: 18px;"><strong>Total: ${{.Total}}</strong></p>
		<p>Please settle your dues!</p>
	</div>
</body>
</html>`))

type reportItem struct {
	Amount      string
	Description string
	OwesTo      string
}

// BuildReportMessage renders the reminder for person. It returns false when
// there is nothing owed, in which case no email should be sent.
func BuildReportMessage(person string, details []models.PendingDetail) (models.ReportMessage, bool) {
	if len(details) == 0 {
		return models.ReportMessage{}, false
	}

	total := decimal.Zero
	items := make([]reportItem, 0, len(details))
	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\nHere is a summary of what you owe:\n\n", person)
	for _, d := range details {
		total = total.Add(d.Amount)
		amount := d.Amount.StringFixed(2)
		fmt.Fprintf(&text, "- You owe $%s for \"%s\" to %s.\n", amount, d.Description, d.OwesTo)
		items = append(items, reportItem{Amount: amount, Description: d.Description, OwesTo: d.OwesTo})
	}
	fmt.Fprintf(&text, "\nTotal: $%s\n\nPlease settle your dues!", total.StringFixed(2))

	var html bytes.Buffer
	err := reportTemplate.Execute(&html, map[string]interface{}{
		"Person": person,
		"Items":  items,
		"Total":  total.StringFixed(2),
	})
	htmlBody := html.String()
	if err != nil {
		htmlBody = "<pre>" + template.HTMLEscapeString(text.String()) + "</pre>"
	}

	return models.ReportMessage{
		Subject: ReportSubject,
		Text:    text.String(),
		HTML:    htmlBody,
	}, true
}
